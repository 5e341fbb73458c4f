package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/core"
	"github.com/flashnodes/flashnodes/ports"
)

// AnalyticsService aggregates per-node request metrics into dashboard
// series. It resolves the caller's api keys, pulls the raw per-series
// deltas from the metrics store, and merges them per timestamp.
type AnalyticsService struct {
	projects ports.ProjectRepository
	source   ports.MetricsSource
	logger   *zap.Logger

	now func() time.Time
}

// NewAnalyticsService creates a new analytics aggregation service.
func NewAnalyticsService(projects ports.ProjectRepository, source ports.MetricsSource, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		projects: projects,
		source:   source,
		logger:   logger,
		now:      time.Now,
	}
}

// ProjectSeries returns the request series for a single node owned by the
// caller.
func (s *AnalyticsService) ProjectSeries(ctx context.Context, owner *core.Identity, nodeID uuid.UUID, timerange core.Timerange, steps int) (*core.Series, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}

	apiKey, err := s.projects.APIKeyByNodeID(ctx, nodeID, owner.ID)
	if err != nil {
		return nil, err
	}
	return s.series(ctx, []string{apiKey.String()}, timerange, steps)
}

// TotalSeries returns the request series summed over every node the
// caller owns.
func (s *AnalyticsService) TotalSeries(ctx context.Context, owner *core.Identity, timerange core.Timerange, steps int) (*core.Series, error) {
	if err := validateSteps(steps); err != nil {
		return nil, err
	}

	apiKeys, err := s.projects.APIKeysByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if len(apiKeys) == 0 {
		return nil, core.ErrNoProjects
	}

	keys := make([]string, len(apiKeys))
	for i, k := range apiKeys {
		keys[i] = k.String()
	}
	return s.series(ctx, keys, timerange, steps)
}

func (s *AnalyticsService) series(ctx context.Context, apiKeys []string, timerange core.Timerange, steps int) (*core.Series, error) {
	raw, err := s.source.QueryDelta(ctx, apiKeys, timerange)
	if err != nil {
		return nil, err
	}

	chart := collapse(mergeSeries(raw), steps)
	if len(chart) == 0 {
		// Nodes with no recorded traffic still get a flat chart so the
		// dashboard can render a consistent window.
		chart = s.zeroChart(timerange, steps)
	}
	return aggregate(chart, timerange), nil
}

// validateSteps bounds the requested chart density.
func validateSteps(steps int) error {
	if steps <= 1 || steps >= 100 {
		return core.ErrStepOutOfRange
	}
	return nil
}

// mergeSeries sums multiple per-node series into one, matching points by
// timestamp. The result is ordered by timestamp.
func mergeSeries(series [][]core.Point) []core.Point {
	totals := make(map[int64]int64)
	for _, points := range series {
		for _, p := range points {
			totals[p.Timestamp] += p.Value
		}
	}
	if len(totals) == 0 {
		return nil
	}

	merged := make([]core.Point, 0, len(totals))
	for ts, value := range totals {
		merged = append(merged, core.Point{Timestamp: ts, Value: value})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Timestamp < merged[j].Timestamp })
	return merged
}

// collapse caps a chart at steps points by summing fixed-size chunks.
// Each chunk keeps its first timestamp. Charts already within the cap are
// returned unchanged.
func collapse(chart []core.Point, steps int) []core.Point {
	if len(chart) <= steps {
		return chart
	}

	chunk := (len(chart) + steps - 1) / steps
	out := make([]core.Point, 0, steps)
	for i := 0; i < len(chart); i += chunk {
		p := core.Point{Timestamp: chart[i].Timestamp}
		for j := i; j < i+chunk && j < len(chart); j++ {
			p.Value += chart[j].Value
		}
		out = append(out, p)
	}
	return out
}

// aggregate computes the series totals. The average is requests per second
// of window, rounded to two decimal places.
func aggregate(chart []core.Point, timerange core.Timerange) *core.Series {
	var total int64
	for _, p := range chart {
		total += p.Value
	}
	average := decimal.NewFromInt(total).
		Div(decimal.NewFromInt(timerange.Seconds())).
		Round(2).
		InexactFloat64()
	return &core.Series{Chart: chart, Total: total, Average: average}
}

// zeroChart builds a flat series of exactly steps points spanning the
// window and ending now.
func (s *AnalyticsService) zeroChart(timerange core.Timerange, steps int) []core.Point {
	end := s.now().Unix()
	span := timerange.Seconds()
	interval := span / int64(steps)

	chart := make([]core.Point, steps)
	for i := range chart {
		chart[i] = core.Point{Timestamp: end - span + interval*int64(i+1)}
	}
	return chart
}
