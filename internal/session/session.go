// Package session owns one analysis session: a dataset snapshot, a
// session-scoped festival catalog, and the synchronous computation of
// presentation views over them.
//
// The catalog is fetched once per session and cached as explicit state;
// RefreshCatalog is the only invalidation trigger besides restarting the
// session. A feed failure degrades to an empty catalog and never fails the
// session. All views are recomputed from the snapshot on every call; nothing
// derived is cached across filter changes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/helpline-analytics/internal/adapter/dataset"
	"github.com/couchcryptid/helpline-analytics/internal/domain"
	"github.com/couchcryptid/helpline-analytics/internal/observability"
)

// FeedFetcher retrieves the festival catalog from an external feed.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]domain.FestivalInterval, error)
}

// Filter restricts a view to a date range and to category/jurisdiction
// subsets. Zero times mean unbounded; empty slices mean all.
type Filter struct {
	From          time.Time
	To            time.Time
	Categories    []string
	Jurisdictions []string
}

// Insights carries the generated textual notes for a view.
type Insights struct {
	Daily  []string `json:"daily"`
	Hourly []string `json:"hourly"`
}

// View is the complete presentation bundle for one filter application.
type View struct {
	SnapshotID string           `json:"snapshot_id"`
	Meta       dataset.Metadata `json:"meta"`

	Records []domain.CallRecord `json:"records"`

	KPIs             domain.KPIBundle           `json:"kpis"`
	Daily            []domain.DayCount          `json:"daily"`
	Hourly           []domain.HourCount         `json:"hourly"`
	HourlyByFestival []domain.HourFestivalCount `json:"hourly_by_festival"`
	Categories       []domain.CategoryShare     `json:"categories"`

	// Festivals lists every catalog interval overlapping the filter window,
	// for shading; Significant is the flagged subset with peak details.
	Festivals   []domain.FestivalInterval   `json:"festivals"`
	Significant []domain.SignificanceResult `json:"significant"`

	Insights Insights `json:"insights"`
}

// ErrNoDataset is returned by View before any successful load.
var ErrNoDataset = errors.New("no dataset loaded")

// Session holds one dataset snapshot and its festival catalog.
type Session struct {
	loader   *dataset.Loader
	feed     FeedFetcher // nil disables festival overlays
	defaults domain.ScoreParams
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock

	mu         sync.RWMutex
	snapshotID string
	records    []domain.CallRecord
	meta       dataset.Metadata

	catalog        []domain.FestivalInterval
	catalogFetched bool
}

// New creates a Session. Pass a nil clock for real time and a nil feed to
// run without festival overlays.
func New(loader *dataset.Loader, feed FeedFetcher, defaults domain.ScoreParams, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Session{
		loader:   loader,
		feed:     feed,
		defaults: defaults,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
	}
}

// LoadDataset reads, validates, and normalizes a call-log file, replacing
// the current snapshot on success. Schema errors are fatal to this load
// attempt only; the previous snapshot, if any, stays in place.
func (s *Session) LoadDataset(_ context.Context, path string) (dataset.Metadata, error) {
	table, meta, err := s.loader.Load(path)
	if err != nil {
		return dataset.Metadata{}, err
	}

	records, err := domain.NormalizeTable(table)
	if err != nil {
		return dataset.Metadata{}, err
	}

	badTime, badCoords := 0, 0
	for _, rec := range records {
		if !rec.ValidTime {
			badTime++
		}
		if !rec.HasCoords {
			badCoords++
		}
	}

	s.mu.Lock()
	s.snapshotID = uuid.NewString()
	s.records = records
	s.meta = meta
	id := s.snapshotID
	s.mu.Unlock()

	s.metrics.DatasetsLoaded.Inc()
	s.metrics.DatasetRows.Set(float64(len(records)))
	s.metrics.RowsNormalized.Add(float64(len(records)))
	s.metrics.RowDegradation.WithLabelValues("invalid_timestamp").Add(float64(badTime))
	s.metrics.RowDegradation.WithLabelValues("invalid_coords").Add(float64(badCoords))

	s.logger.Info("dataset loaded",
		"snapshot_id", id,
		"source", meta.Source,
		"rows", len(records),
		"invalid_timestamps", badTime,
		"missing_coords", badCoords,
	)
	return meta, nil
}

// CheckReadiness reports whether a dataset snapshot is available to serve.
func (s *Session) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshotID == "" {
		return ErrNoDataset
	}
	return nil
}

// Catalog returns the session's festival catalog, fetching it on first use.
// Fetch failure leaves an empty catalog cached so the dashboard keeps
// working without festival overlays until an explicit refresh.
func (s *Session) Catalog(ctx context.Context) []domain.FestivalInterval {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.ensureCatalogLocked(ctx) // degradation is already logged and cached
	return s.catalog
}

// RefreshCatalog drops the cached catalog and fetches the feed again. This
// is the explicit invalidation trigger; nothing else refetches.
func (s *Session) RefreshCatalog(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalogFetched = false
	s.catalog = nil
	err := s.ensureCatalogLocked(ctx)
	return len(s.catalog), err
}

func (s *Session) ensureCatalogLocked(ctx context.Context) error {
	if s.catalogFetched || s.feed == nil {
		return nil
	}
	s.catalogFetched = true

	catalog, err := s.feed.Fetch(ctx)
	if err != nil {
		s.metrics.FeedFetches.WithLabelValues("error").Inc()
		s.metrics.FeedEvents.Set(0)
		s.logger.Warn("festival feed unavailable, continuing without overlays", "error", err)
		s.catalog = nil
		return err
	}

	s.metrics.FeedFetches.WithLabelValues("success").Inc()
	s.metrics.FeedEvents.Set(float64(len(catalog)))
	s.catalog = catalog
	return nil
}

// View computes the full presentation bundle for a filter. Zero-valued
// score params fall back to the session defaults. Significance baselines
// are built over the whole snapshot, not the filtered subset, so festival
// days are always compared against the category's full history.
func (s *Session) View(ctx context.Context, filter Filter, params domain.ScoreParams) (*View, error) {
	start := s.clock.Now()

	s.mu.Lock()
	_ = s.ensureCatalogLocked(ctx)
	catalog := s.catalog
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshotID == "" {
		return nil, ErrNoDataset
	}
	if params.Category == "" {
		params = s.defaults
	}

	from, to := s.effectiveWindowLocked(filter)
	active := domain.OverlapWindow(catalog, from, to)

	filtered := applyFilter(s.records, filter)
	tagged := domain.TagFestivals(filtered, active)

	daily := domain.CountsByDay(tagged)
	hourly := domain.CountsByHour(tagged)

	view := &View{
		SnapshotID:       s.snapshotID,
		Meta:             s.meta,
		Records:          tagged,
		KPIs:             domain.ComputeKPIs(tagged),
		Daily:            daily,
		Hourly:           hourly,
		HourlyByFestival: domain.CountsByHourAndFestival(tagged),
		Categories:       domain.CategoryDistribution(tagged),
		Festivals:        active,
		Significant:      domain.ScoreFestivals(active, s.records, params),
		Insights: Insights{
			Daily:  domain.InterpretDaySeries(daily),
			Hourly: domain.InterpretHourly(hourly),
		},
	}

	s.metrics.ViewsComputed.Inc()
	s.metrics.ViewDuration.Observe(s.clock.Since(start).Seconds())
	s.metrics.SignificantResults.Set(float64(len(view.Significant)))
	return view, nil
}

// effectiveWindowLocked resolves unbounded filter edges to the snapshot's
// date extent, matching the dashboard's default full-range selection.
func (s *Session) effectiveWindowLocked(filter Filter) (from, to time.Time) {
	from, to = filter.From, filter.To
	if !from.IsZero() && !to.IsZero() {
		return from, to
	}

	var minDate, maxDate time.Time
	for _, rec := range s.records {
		if !rec.ValidTime {
			continue
		}
		if minDate.IsZero() || rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if maxDate.IsZero() || rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}
	if from.IsZero() {
		from = minDate
	}
	if to.IsZero() {
		to = maxDate
	}
	return from, to
}

// applyFilter restricts records to the filter. Rows with invalid timestamps
// are excluded whenever a date bound applies, since they have no date to
// compare.
func applyFilter(records []domain.CallRecord, filter Filter) []domain.CallRecord {
	categories := toSet(filter.Categories)
	jurisdictions := toSet(filter.Jurisdictions)

	var out []domain.CallRecord
	for _, rec := range records {
		if !filter.From.IsZero() || !filter.To.IsZero() {
			if !rec.ValidTime {
				continue
			}
			if !filter.From.IsZero() && rec.Date.Before(domain.DateOf(filter.From)) {
				continue
			}
			if !filter.To.IsZero() && rec.Date.After(domain.DateOf(filter.To)) {
				continue
			}
		}
		if categories != nil {
			if _, ok := categories[rec.Category]; !ok {
				continue
			}
		}
		if jurisdictions != nil {
			if _, ok := jurisdictions[rec.Jurisdiction]; !ok {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
