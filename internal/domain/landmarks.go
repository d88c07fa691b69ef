package domain

import (
	"fmt"
	"math"
)

// Landmark is a named location in the service region. Every landmark in
// this table doubles as an interpolation anchor for the heatmap surface.
type Landmark struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// ServiceBounds is the supported map region; visible boxes are clamped
// to it before grid construction.
var ServiceBounds = BoundingBox{
	MinLat: 18.35, MinLon: 73.65,
	MaxLat: 18.75, MaxLon: 74.05,
}

// Landmarks spans the Pune service region. The set is fixed for the
// lifetime of the process and ordered roughly centre-out.
var Landmarks = []Landmark{
	{Name: "Shivajinagar", Lat: 18.5308, Lon: 73.8475, Type: "suburb", Description: "Central Pune, busy commercial and transit hub"},
	{Name: "Deccan Gymkhana", Lat: 18.5186, Lon: 73.8408, Type: "landmark", Description: "Iconic cultural and shopping district"},
	{Name: "Koregaon Park", Lat: 18.5362, Lon: 73.8939, Type: "suburb", Description: "Upscale residential and nightlife area"},
	{Name: "Pune Station", Lat: 18.5289, Lon: 73.8744, Type: "landmark", Description: "Main railway terminus and traffic hub"},
	{Name: "Swargate", Lat: 18.5018, Lon: 73.8636, Type: "landmark", Description: "Major bus terminus and junction"},
	{Name: "Kothrud", Lat: 18.5074, Lon: 73.8077, Type: "suburb", Description: "Residential suburb with educational institutions"},
	{Name: "Hadapsar", Lat: 18.5089, Lon: 73.9260, Type: "suburb", Description: "Eastern suburb with IT parks and industrial areas"},
	{Name: "Hinjewadi", Lat: 18.5912, Lon: 73.7390, Type: "suburb", Description: "Major IT hub with Rajiv Gandhi Infotech Park"},
	{Name: "Viman Nagar", Lat: 18.5679, Lon: 73.9143, Type: "suburb", Description: "Near airport, residential and commercial hub"},
	{Name: "Pashan", Lat: 18.5540, Lon: 73.8080, Type: "suburb", Description: "Green area near Pashan Lake and research institutes"},
	{Name: "Pimpri-Chinchwad", Lat: 18.6279, Lon: 73.7997, Type: "city", Description: "Industrial twin city with auto manufacturing"},
	{Name: "Aundh", Lat: 18.5580, Lon: 73.8077, Type: "suburb", Description: "Well-planned residential suburb with IT offices"},
	{Name: "Baner", Lat: 18.5590, Lon: 73.7868, Type: "suburb", Description: "Fast-growing residential and commercial area"},
	{Name: "Sinhagad Road", Lat: 18.4700, Lon: 73.8230, Type: "landmark", Description: "Road leading to Sinhagad Fort, green area"},
	{Name: "Katraj", Lat: 18.4481, Lon: 73.8587, Type: "suburb", Description: "Southern suburb near the zoo and ghats"},
	{Name: "Kondhwa", Lat: 18.4634, Lon: 73.8917, Type: "suburb", Description: "Dense residential area in the south-east"},
	{Name: "Magarpatta", Lat: 18.5157, Lon: 73.9295, Type: "landmark", Description: "Planned township with IT campus"},
	{Name: "Kharadi", Lat: 18.5515, Lon: 73.9345, Type: "suburb", Description: "IT corridor along the Mula-Mutha river"},
	{Name: "Yerawada", Lat: 18.5530, Lon: 73.8848, Type: "suburb", Description: "North-east area near the airport road"},
	{Name: "Wakad", Lat: 18.5979, Lon: 73.7707, Type: "suburb", Description: "Fast-growing north-west residential belt"},
	{Name: "Bhosari", Lat: 18.6330, Lon: 73.8480, Type: "suburb", Description: "MIDC industrial estate"},
	{Name: "Nigdi", Lat: 18.6540, Lon: 73.7680, Type: "suburb", Description: "Northern edge of the twin city"},
	{Name: "Warje", Lat: 18.4846, Lon: 73.8026, Type: "suburb", Description: "Western residential pocket off the highway"},
	{Name: "Bibwewadi", Lat: 18.4762, Lon: 73.8640, Type: "suburb", Description: "Southern residential area near Swargate"},
}

// NearestLandmark names an arbitrary coordinate after the closest
// landmark. Beyond ~0.05 degrees (~5 km) a generic coordinate label is
// used instead.
func NearestLandmark(lat, lon float64) string {
	minDist := math.Inf(1)
	nearest := ""
	for _, lm := range Landmarks {
		d := math.Hypot(lat-lm.Lat, lon-lm.Lon)
		if d < minDist {
			minDist = d
			nearest = lm.Name
		}
	}
	if minDist > 0.05 {
		return fmt.Sprintf("Location (%.4f, %.4f)", lat, lon)
	}
	return nearest
}
