package ports

import (
	"context"

	"github.com/flashnodes/flashnodes/core"
)

// MetricsSource queries the external time-series store for per-node request
// deltas. Each returned slice holds the raw buckets of one underlying
// series; merging across series is the aggregator's job.
//
// An empty result is a valid answer ("no data"); a store or transport
// failure surfaces as core.ErrMetricsUnavailable instead.
type MetricsSource interface {
	QueryDelta(ctx context.Context, apiKeys []string, timerange core.Timerange) ([][]core.Point, error)
}
