package service

import (
	"math"
	"sort"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/pkg/geo"
)

// Inverse-distance weighting parameters. The distance floor avoids a
// division blow-up for near-coincident points and the exponent >1
// sharpens locality. Tuned for visual plausibility, not geostatistics.
const (
	idwDistanceFloorKM = 5
	idwDistanceOffset  = 60
	idwExponent        = 1.45
	idwMaxAnchors      = 8
)

// Grid sizing: row/column counts grow with the visible span, bounded so
// the heatmap stays cheap to render.
const (
	gridMinRows, gridMaxRows = 6, 12
	gridMinCols, gridMaxCols = 8, 16
	gridRowsPerLatDegree     = 40
	gridColsPerLonDegree     = 50
)

// anchorSeries is one interpolation source: a fixed anchor location
// with its synthesized hourly series.
type anchorSeries struct {
	Lat    float64
	Lon    float64
	Series domain.HourlySeries
}

// SpatialInterpolator estimates metric values at arbitrary coordinates
// from the fixed anchor set, for rendering a continuous regional
// surface. Identical anchor data and query always yield the identical
// result; there is no randomness at this stage.
type SpatialInterpolator struct {
	anchors []anchorSeries
}

// NewSpatialInterpolator builds an interpolator over the anchors that
// currently have a synthesized series.
func NewSpatialInterpolator(anchors []anchorSeries) *SpatialInterpolator {
	return &SpatialInterpolator{anchors: anchors}
}

type weightedAnchor struct {
	anchor   anchorSeries
	distance float64
	weight   float64
}

// nearest returns up to idwMaxAnchors anchors ranked by raw distance.
// Capping by distance rather than weight keeps far anchors with
// vanishing weight from introducing numerical noise.
func (si *SpatialInterpolator) nearest(lat, lon float64) []weightedAnchor {
	ranked := make([]weightedAnchor, 0, len(si.anchors))
	for _, a := range si.anchors {
		d := geo.Haversine(lat, lon, a.Lat, a.Lon)
		w := 1 / math.Pow(math.Max(d, idwDistanceFloorKM)+idwDistanceOffset, idwExponent)
		ranked = append(ranked, weightedAnchor{anchor: a, distance: d, weight: w})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})

	if len(ranked) > idwMaxAnchors {
		ranked = ranked[:idwMaxAnchors]
	}
	return ranked
}

// SeriesAt computes the full interpolated hourly series for every raw
// metric at the query coordinate. Returns false when no anchors are
// available (interpolation starvation: the caller omits the cell rather
// than dividing by a zero total weight).
func (si *SpatialInterpolator) SeriesAt(lat, lon float64) (domain.HourlySeries, bool) {
	if len(si.anchors) == 0 {
		return nil, false
	}

	retained := si.nearest(lat, lon)

	var totalWeight float64
	for _, wa := range retained {
		totalWeight += wa.weight
	}
	if totalWeight == 0 {
		return nil, false
	}

	series := make(domain.HourlySeries, len(domain.RawMetrics))
	for _, m := range domain.RawMetrics {
		vals := make([]float64, domain.SeriesHours)
		for h := 0; h < domain.SeriesHours; h++ {
			var sum float64
			for _, wa := range retained {
				sum += wa.weight * wa.anchor.Series.At(m, h)
			}
			vals[h] = sum / totalWeight
		}
		series[m] = vals
	}

	return series, true
}

// gridShape derives deterministic row/column counts from the box span.
func gridShape(box domain.BoundingBox) (rows, cols int) {
	latSpan := box.MaxLat - box.MinLat
	lonSpan := box.MaxLon - box.MinLon
	rows = geo.ClampInt(int(math.Round(latSpan*gridRowsPerLatDegree)), gridMinRows, gridMaxRows)
	cols = geo.ClampInt(int(math.Round(lonSpan*gridColsPerLonDegree)), gridMinCols, gridMaxCols)
	return rows, cols
}

// gridCoordinates produces one coordinate per row/column intersection
// of the visible box, clamped to the supported service bounds.
func gridCoordinates(box domain.BoundingBox) [][2]float64 {
	clamped := box.Clamp(domain.ServiceBounds)
	rows, cols := gridShape(clamped)

	coords := make([][2]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		lat := clamped.MinLat + (clamped.MaxLat-clamped.MinLat)*float64(r)/float64(rows-1)
		for c := 0; c < cols; c++ {
			lon := clamped.MinLon + (clamped.MaxLon-clamped.MinLon)*float64(c)/float64(cols-1)
			coords = append(coords, [2]float64{lat, lon})
		}
	}
	return coords
}
