package core

import "time"

// Timerange is a supported analytics window.
type Timerange string

const (
	Timerange1h  Timerange = "1h"
	Timerange1d  Timerange = "1d"
	Timerange7d  Timerange = "7d"
	Timerange30d Timerange = "30d"
)

// ParseTimerange validates a timerange string.
func ParseTimerange(s string) (Timerange, error) {
	switch Timerange(s) {
	case Timerange1h, Timerange1d, Timerange7d, Timerange30d:
		return Timerange(s), nil
	}
	return "", ErrInvalidTimerange
}

// Duration returns the length of the window.
func (t Timerange) Duration() time.Duration {
	switch t {
	case Timerange1h:
		return time.Hour
	case Timerange1d:
		return 24 * time.Hour
	case Timerange7d:
		return 7 * 24 * time.Hour
	case Timerange30d:
		return 30 * 24 * time.Hour
	}
	return 0
}

// Resolution returns the native bucket width of the window. The mapping is
// part of the dashboard contract and must not be derived from step counts.
func (t Timerange) Resolution() time.Duration {
	switch t {
	case Timerange1h:
		return 10 * time.Minute
	case Timerange1d:
		return 3 * time.Hour
	case Timerange7d:
		return 24 * time.Hour
	case Timerange30d:
		return 5 * 24 * time.Hour
	}
	return 0
}

// Seconds returns the window length in seconds.
func (t Timerange) Seconds() int64 { return int64(t.Duration() / time.Second) }

// Point is one bucket of a time series: a unix timestamp and the
// request delta observed in that bucket.
type Point struct {
	Timestamp int64 `json:"timestamp"`
	Value     int64 `json:"value"`
}

// Series is a bucketed time series plus its aggregates. Average is the
// total per second of range, rounded to two decimal places.
type Series struct {
	Chart   []Point `json:"chart"`
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
}
