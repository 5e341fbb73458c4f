// Package metrics queries the external Prometheus store for per-node
// request deltas.
package metrics

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/core"
)

const queryTimeout = 10 * time.Second

// PrometheusSource implements the MetricsSource interface against the
// Prometheus HTTP API.
type PrometheusSource struct {
	api    promv1.API
	metric string
	logger *zap.Logger
}

// NewPrometheusSource creates a metrics source for the given metric name.
func NewPrometheusSource(client api.Client, metric string, logger *zap.Logger) *PrometheusSource {
	return &PrometheusSource{
		api:    promv1.NewAPI(client),
		metric: metric,
		logger: logger,
	}
}

// NewClient builds a Prometheus API client, optionally with basic auth.
func NewClient(address, user, password string) (api.Client, error) {
	rt := api.DefaultRoundTripper
	if user != "" {
		rt = &basicAuthRoundTripper{user: user, password: password, next: rt}
	}
	return api.NewClient(api.Config{Address: address, RoundTripper: rt})
}

type basicAuthRoundTripper struct {
	user     string
	password string
	next     http.RoundTripper
}

func (rt *basicAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(rt.user, rt.password)
	return rt.next.RoundTrip(req)
}

// QueryDelta queries per-minute request deltas for the given api keys over
// the timerange, bucketed at the range's native resolution. The query is a
// blocking network call: it runs under a bounded timeout and is retried
// once before failing with core.ErrMetricsUnavailable.
func (s *PrometheusSource) QueryDelta(ctx context.Context, apiKeys []string, timerange core.Timerange) ([][]core.Point, error) {
	query := fmt.Sprintf(`delta(%s{api_key=~"%s",envoy_cluster_name=~"user_.*_http"}[1m])%s`,
		s.metric, strings.Join(apiKeys, "|"), timeSlice(timerange))

	value, err := s.query(ctx, query)
	if err != nil {
		s.logger.Warn("prometheus query failed, retrying", zap.Error(err))
		value, err = s.query(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMetricsUnavailable, err)
	}

	matrix, ok := value.(model.Matrix)
	if !ok {
		return nil, nil
	}

	series := make([][]core.Point, 0, len(matrix))
	for _, stream := range matrix {
		points := make([]core.Point, 0, len(stream.Values))
		for _, sample := range stream.Values {
			points = append(points, core.Point{
				Timestamp: sample.Timestamp.Unix(),
				Value:     int64(math.Ceil(float64(sample.Value))),
			})
		}
		series = append(series, points)
	}
	return series, nil
}

func (s *PrometheusSource) query(ctx context.Context, query string) (model.Value, error) {
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	value, warnings, err := s.api.Query(qctx, query, time.Now())
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		s.logger.Debug("prometheus warnings", zap.Strings("warnings", warnings))
	}
	return value, nil
}

// timeSlice renders the subquery window for a timerange, e.g. "[1h:10m]".
// The range-to-resolution mapping is part of the dashboard contract.
func timeSlice(t core.Timerange) string {
	return fmt.Sprintf("[%s:%s]", t, model.Duration(t.Resolution()))
}
