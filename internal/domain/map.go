package domain

// BoundingBox is the visible map region selected by the UI.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Clamp restricts the box to the given outer bounds.
func (b BoundingBox) Clamp(outer BoundingBox) BoundingBox {
	c := b
	if c.MinLat < outer.MinLat {
		c.MinLat = outer.MinLat
	}
	if c.MinLon < outer.MinLon {
		c.MinLon = outer.MinLon
	}
	if c.MaxLat > outer.MaxLat {
		c.MaxLat = outer.MaxLat
	}
	if c.MaxLon > outer.MaxLon {
		c.MaxLon = outer.MaxLon
	}
	return c
}

// MapPoint is the render-ready view of one landmark at one playback hour.
// Rebuilt on every recompute; never mutated in place.
type MapPoint struct {
	Name        string                    `json:"name"`
	Lat         float64                   `json:"lat"`
	Lon         float64                   `json:"lon"`
	Risk        RiskLevel                 `json:"risk"`
	Values      map[Metric]float64        `json:"values"`
	Trends      map[Metric]TrendDirection `json:"trends"`
	Band        SeverityBand              `json:"band"`
	PrimaryRisk Metric                    `json:"primary_risk"`
	Alerts      []string                  `json:"alerts"`
}

// GridCell is like MapPoint but for a synthetic grid coordinate whose
// values come entirely from interpolation across the anchor set. Used
// only for the regional heatmap surface.
type GridCell struct {
	Lat         float64                   `json:"lat"`
	Lon         float64                   `json:"lon"`
	Risk        RiskLevel                 `json:"risk"`
	Values      map[Metric]float64        `json:"values"`
	Trends      map[Metric]TrendDirection `json:"trends"`
	Band        SeverityBand              `json:"band"`
	PrimaryRisk Metric                    `json:"primary_risk"`
}

// DerivedView is everything the engine exposes to the rendering layer.
type DerivedView struct {
	Points         []MapPoint `json:"points"`
	GridCells      []GridCell `json:"grid_cells"`
	Alerts         []Alert    `json:"alerts"`
	IsWarmingCache bool       `json:"is_warming_cache"`
}
