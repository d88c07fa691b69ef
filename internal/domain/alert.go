package domain

import "fmt"

// Alert is a rule-derived warning for one location at one playback hour.
// The id is a deterministic composite so recomputes within the same hour
// produce the same ids, keeping dismiss-by-id idempotent.
type Alert struct {
	ID           string       `json:"id"`
	LocationName string       `json:"location_name"`
	Lat          float64      `json:"lat"`
	Lon          float64      `json:"lon"`
	Severity     SeverityBand `json:"severity"`
	Text         string       `json:"text"`
}

// AlertID builds the composite id for a location/condition/hour triple.
func AlertID(locationName, condition string, hour int) string {
	return fmt.Sprintf("%s-%s-%d", locationName, condition, hour)
}
