package domain

import "testing"

func TestCacheKey(t *testing.T) {
	if got := CacheKey(18.5308, 73.8478, "Shivajinagar"); got != "Shivajinagar" {
		t.Errorf("named key = %q", got)
	}
	if got := CacheKey(18.53081, 73.84779, ""); got != "18.5308,73.8478" {
		t.Errorf("coordinate key = %q, want 18.5308,73.8478", got)
	}
}

func TestAlertID(t *testing.T) {
	if got := AlertID("Katraj", "heat", 5); got != "Katraj-heat-5" {
		t.Errorf("alert id = %q", got)
	}
}

func TestParseMetric(t *testing.T) {
	if m, ok := ParseMetric("safety_score"); !ok || m != MetricSafetyScore {
		t.Errorf("ParseMetric(safety_score) = %v, %v", m, ok)
	}
	if _, ok := ParseMetric("pressure"); ok {
		t.Error("pressure should not parse")
	}
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox{MinLat: 18.4, MinLon: 73.7, MaxLat: 18.6, MaxLon: 73.9}

	if !box.Contains(18.5, 73.8) {
		t.Error("interior point should be contained")
	}
	if box.Contains(18.7, 73.8) {
		t.Error("exterior point should not be contained")
	}

	huge := BoundingBox{MinLat: 0, MinLon: 0, MaxLat: 90, MaxLon: 180}
	if got := huge.Clamp(ServiceBounds); got != ServiceBounds {
		t.Errorf("clamped box = %+v, want service bounds", got)
	}
}

func TestHourlySeriesAt(t *testing.T) {
	series := HourlySeries{MetricAQI: {10, 20, 30}}

	if got := series.At(MetricAQI, 1); got != 20 {
		t.Errorf("At(1) = %v, want 20", got)
	}
	if got := series.At(MetricAQI, -5); got != 10 {
		t.Errorf("At(-5) = %v, want first sample", got)
	}
	if got := series.At(MetricAQI, 99); got != 30 {
		t.Errorf("At(99) = %v, want last sample", got)
	}
	if got := series.At(MetricNoise, 0); got != 0 {
		t.Errorf("missing metric At = %v, want 0", got)
	}
}

func TestLandmarksWithinServiceBounds(t *testing.T) {
	for _, lm := range Landmarks {
		if !ServiceBounds.Contains(lm.Lat, lm.Lon) {
			t.Errorf("%s (%v, %v) lies outside the service bounds", lm.Name, lm.Lat, lm.Lon)
		}
	}
}
