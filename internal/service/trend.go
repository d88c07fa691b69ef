package service

import "github.com/envsafe/backend/internal/domain"

// Trend compares a metric's value at the given hour against the
// previous hour. Equal values yield a stable trend; at hour 0 there is
// no earlier sample, so the comparison is against hour 0 itself.
func Trend(series domain.HourlySeries, m domain.Metric, hour int) domain.TrendDirection {
	prev := hour - 1
	if prev < 0 {
		prev = 0
	}
	return trendBetween(series.At(m, hour), series.At(m, prev))
}

func trendBetween(current, previous float64) domain.TrendDirection {
	switch {
	case current > previous:
		return domain.TrendUp
	case current < previous:
		return domain.TrendDown
	default:
		return domain.TrendStable
	}
}
