package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/envsafe/backend/internal/domain"
)

// Default UI-input handling parameters.
const (
	defaultHourDebounce = 120 * time.Millisecond
	warmupConcurrency   = 8
)

// EngineOptions tunes orchestrator behaviour.
type EngineOptions struct {
	// HourDebounce delays hour recomputation during rapid slider
	// movement. Zero or negative applies hour changes synchronously.
	HourDebounce time.Duration
}

// MapEngine is the reactive coordinator: given the visible region, the
// selected metric, the playback hour and the sensitivity flag, it warms
// the snapshot cache for anchor locations and recomputes the derived
// point/grid/alert set whenever any input or the cache version changes.
//
// All derived computation is synchronous and pure; the only suspension
// points are snapshot fetches. One mutex serializes input changes and
// recomputes so every pass reads a single consistent cache state.
type MapEngine struct {
	cache  *SnapshotCache
	alerts *AlertEngine
	repo   domain.HistoryRepository

	mu        sync.Mutex
	region    domain.BoundingBox
	metric    domain.Metric
	hour      int
	sensitive bool

	debounce    time.Duration
	pendingHour int
	hourTimer   *time.Timer

	warming     bool
	warmCancel  context.CancelFunc
	seenVersion uint64
	view        domain.DerivedView

	baseCtx   context.Context
	baseStop  context.CancelFunc
	logged    map[string]struct{}
	wgBg      sync.WaitGroup
	wgWarmups sync.WaitGroup
}

// NewMapEngine creates an engine over an explicitly-owned cache, so
// multiple engine instances (e.g. in tests) never interfere.
func NewMapEngine(cache *SnapshotCache, repo domain.HistoryRepository, opts EngineOptions) *MapEngine {
	debounce := opts.HourDebounce
	if debounce == 0 {
		debounce = defaultHourDebounce
	}

	ctx, stop := context.WithCancel(context.Background())
	return &MapEngine{
		cache:    cache,
		alerts:   NewAlertEngine(),
		repo:     repo,
		region:   domain.ServiceBounds,
		metric:   domain.MetricAQI,
		debounce: debounce,
		baseCtx:  ctx,
		baseStop: stop,
		logged:   make(map[string]struct{}),
	}
}

// Close tears the engine down: in-flight warm-up results are still
// allowed to land in the cache, but no further state updates happen.
func (e *MapEngine) Close() {
	e.mu.Lock()
	if e.warmCancel != nil {
		e.warmCancel()
	}
	if e.hourTimer != nil {
		e.hourTimer.Stop()
	}
	e.mu.Unlock()

	e.baseStop()
	e.wgWarmups.Wait()
	e.wgBg.Wait()
}

// SetRegion updates the visible bounding box.
func (e *MapEngine) SetRegion(box domain.BoundingBox) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.region = box.Clamp(domain.ServiceBounds)
	e.scheduleWarmupLocked()
	e.recomputeLocked()
}

// SetMetric updates the selected metric.
func (e *MapEngine) SetMetric(m domain.Metric) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metric = m
	e.recomputeLocked()
}

// SetSensitiveMode toggles the sensitive-population weight profile.
func (e *MapEngine) SetSensitiveMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sensitive = on
	e.recomputeLocked()
}

// SetHour updates the playback hour, debounced so rapid slider
// movement doesn't trigger a recompute per tick.
func (e *MapEngine) SetHour(hour int) {
	if hour < 0 {
		hour = 0
	}
	if hour >= domain.SeriesHours {
		hour = domain.SeriesHours - 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.debounce <= 0 {
		e.hour = hour
		e.recomputeLocked()
		return
	}

	e.pendingHour = hour
	if e.hourTimer != nil {
		e.hourTimer.Stop()
	}
	e.hourTimer = time.AfterFunc(e.debounce, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.baseCtx.Err() != nil {
			return
		}
		e.hour = e.pendingHour
		e.recomputeLocked()
	})
}

// Dismiss hides an alert by id for the rest of the current hour.
func (e *MapEngine) Dismiss(id string) {
	e.alerts.Dismiss(id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.recomputeLocked()
}

// View returns the current derived view, recomputing first if the
// cache version moved since the last pass.
func (e *MapEngine) View() domain.DerivedView {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache.Version() != e.seenVersion {
		e.recomputeLocked()
	}
	return e.view
}

// WarmUp eagerly fetches snapshots for every anchor. Normally warm-up
// happens implicitly on region changes; this is for startup.
func (e *MapEngine) WarmUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scheduleWarmupLocked()
	e.recomputeLocked()
}

// RefreshAnchors re-fetches every anchor snapshot and applies them as
// one batch, replacing stale cache entries (and thereby invalidating
// their derived series). Driven by the periodic refresh job.
func (e *MapEngine) RefreshAnchors(ctx context.Context) {
	snaps := fetchLandmarks(ctx, e.cache.fetch, domain.Landmarks)
	e.cache.StoreBatch(snaps)
	log.Printf("engine: refreshed %d anchor snapshots", len(snaps))
}

// scheduleWarmupLocked starts a warm-up batch for anchors that have no
// cached snapshot yet. Any previous batch is cancelled: its fetches
// still complete and populate the cache, but the stale batch no longer
// updates engine state when it resolves.
func (e *MapEngine) scheduleWarmupLocked() {
	var missing []domain.Landmark
	for _, lm := range domain.Landmarks {
		if _, ok := e.cache.Get(domain.CacheKey(lm.Lat, lm.Lon, lm.Name)); !ok {
			missing = append(missing, lm)
		}
	}
	if len(missing) == 0 {
		e.warming = false
		return
	}

	if e.warmCancel != nil {
		e.warmCancel()
	}
	batchCtx, cancel := context.WithCancel(e.baseCtx)
	e.warmCancel = cancel
	e.warming = true

	e.wgWarmups.Add(1)
	go func() {
		defer e.wgWarmups.Done()
		// Fetches run on the engine context, not the batch context:
		// once issued they are allowed to complete and land in the
		// cache even if this batch goes stale.
		snaps := fetchLandmarks(e.baseCtx, e.cache.fetch, missing)
		e.cache.StoreBatch(snaps)

		if batchCtx.Err() != nil {
			return
		}
		e.mu.Lock()
		e.warming = false
		e.recomputeLocked()
		e.mu.Unlock()
	}()
}

// fetchLandmarks fans out snapshot fetches with bounded concurrency.
// A failed fetch for one location never fails the batch; it is logged
// and skipped, leaving that location to a later retry.
func fetchLandmarks(ctx context.Context, fetch FetchFunc, targets []domain.Landmark) []*domain.LocationSnapshot {
	var (
		mu    sync.Mutex
		snaps []*domain.LocationSnapshot
	)

	g := new(errgroup.Group)
	g.SetLimit(warmupConcurrency)
	for _, lm := range targets {
		lm := lm
		g.Go(func() error {
			snap, err := fetch(ctx, lm.Lat, lm.Lon, lm.Name)
			if err != nil {
				log.Printf("engine: warm-up fetch failed for %s: %v", lm.Name, err)
				return nil
			}
			mu.Lock()
			snaps = append(snaps, snap)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return snaps
}

// recomputeLocked rebuilds the full derived view from the current
// cache and UI parameters. Callers must hold e.mu; the pass is pure
// and synchronous.
func (e *MapEngine) recomputeLocked() {
	e.seenVersion = e.cache.Version()

	var (
		points  []domain.MapPoint
		anchors []anchorSeries
		inputs  []pointInput
	)

	for _, lm := range domain.Landmarks {
		key := domain.CacheKey(lm.Lat, lm.Lon, lm.Name)
		series, ok := e.cache.Series(key)
		if !ok {
			continue
		}

		full := withSafetyScore(series, e.sensitive)
		anchors = append(anchors, anchorSeries{Lat: lm.Lat, Lon: lm.Lon, Series: series})

		if !e.region.Contains(lm.Lat, lm.Lon) {
			continue
		}

		values, trends, risk, band, primary := e.deriveAtHour(full)
		points = append(points, domain.MapPoint{
			Name:        lm.Name,
			Lat:         lm.Lat,
			Lon:         lm.Lon,
			Risk:        risk,
			Values:      values,
			Trends:      trends,
			Band:        band,
			PrimaryRisk: primary,
		})
		inputs = append(inputs, pointInput{Name: lm.Name, Lat: lm.Lat, Lon: lm.Lon, Series: full})
	}

	alerts := e.alerts.Evaluate(inputs, e.hour, e.metric)
	attachAlertTexts(points, alerts)
	e.logNewAlerts(alerts)

	var cells []domain.GridCell
	if len(anchors) > 0 {
		interp := NewSpatialInterpolator(anchors)
		for _, coord := range gridCoordinates(e.region) {
			series, ok := interp.SeriesAt(coord[0], coord[1])
			if !ok {
				continue
			}
			full := withSafetyScore(series, e.sensitive)
			values, trends, risk, band, primary := e.deriveAtHour(full)
			cells = append(cells, domain.GridCell{
				Lat:         coord[0],
				Lon:         coord[1],
				Risk:        risk,
				Values:      values,
				Trends:      trends,
				Band:        band,
				PrimaryRisk: primary,
			})
		}
	}

	e.view = domain.DerivedView{
		Points:         points,
		GridCells:      cells,
		Alerts:         alerts,
		IsWarmingCache: e.warming,
	}
}

// deriveAtHour extracts the render-ready slice of a full series at the
// current playback hour.
func (e *MapEngine) deriveAtHour(series domain.HourlySeries) (map[domain.Metric]float64, map[domain.Metric]domain.TrendDirection, domain.RiskLevel, domain.SeverityBand, domain.Metric) {
	values := make(map[domain.Metric]float64, len(domain.AllMetrics))
	trends := make(map[domain.Metric]domain.TrendDirection, len(domain.AllMetrics))
	for _, m := range domain.AllMetrics {
		values[m] = series.At(m, e.hour)
		trends[m] = Trend(series, m, e.hour)
	}

	risk := RiskLevelForScore(values[domain.MetricSafetyScore])
	band := ThresholdState(e.metric, values[e.metric])

	raw := make(map[domain.Metric]float64, len(domain.RawMetrics))
	for _, m := range domain.RawMetrics {
		raw[m] = values[m]
	}
	primary := PrimaryRisk(raw, e.sensitive)

	return values, trends, risk, band, primary
}

// withSafetyScore returns the series extended with the derived
// safety_score track for the active weight profile.
func withSafetyScore(series domain.HourlySeries, sensitive bool) domain.HourlySeries {
	full := make(domain.HourlySeries, len(series)+1)
	for m, vals := range series {
		full[m] = vals
	}
	full[domain.MetricSafetyScore] = SafetyScoreSeries(series, sensitive)
	return full
}

// attachAlertTexts copies active alert strings onto their points.
func attachAlertTexts(points []domain.MapPoint, alerts []domain.Alert) {
	byName := make(map[string][]string)
	for _, a := range alerts {
		byName[a.LocationName] = append(byName[a.LocationName], a.Text)
	}
	for i := range points {
		points[i].Alerts = byName[points[i].Name]
	}
}

// logNewAlerts persists newly triggered alerts asynchronously, once
// per composite id.
func (e *MapEngine) logNewAlerts(alerts []domain.Alert) {
	if e.repo == nil {
		return
	}
	for _, a := range alerts {
		if _, ok := e.logged[a.ID]; ok {
			continue
		}
		e.logged[a.ID] = struct{}{}

		rec := domain.AlertRecord{
			AlertID:      a.ID,
			LocationName: a.LocationName,
			Severity:     a.Severity,
			Text:         a.Text,
			Hour:         e.hour,
			Timestamp:    time.Now().UTC(),
		}
		e.wgBg.Add(1)
		go func() {
			defer e.wgBg.Done()
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.repo.SaveAlert(bgCtx, rec); err != nil {
				log.Printf("engine: failed to save alert %s: %v", rec.AlertID, err)
			}
		}()
	}
}
