package storage

import (
	"context"
	"time"

	"github.com/groundwatch/groundwatch/pkg/chartdata"
)

// Snapshot is one computed chart for a station and range selector: the
// pipeline's tagged result plus the metadata needed to serve and age it.
// Snapshots are immutable once stored; a refresh replaces the whole value.
type Snapshot struct {
	StationCode string                      `json:"stationCode"`
	Range       chartdata.Selector          `json:"range"`
	Unit        string                      `json:"unit,omitempty"`
	GeneratedAt time.Time                   `json:"generatedAt"`
	Generation  uint64                      `json:"generation"`
	Status      chartdata.Status            `json:"status"`
	Message     string                      `json:"message,omitempty"`
	Series      chartdata.ChartSeries       `json:"series"`
	Stats       chartdata.SummaryStatistics `json:"stats"`
}

// Store holds the latest snapshot per (station, range) key.
type Store interface {
	Put(ctx context.Context, snapshot Snapshot) error
	GetLatest(ctx context.Context, stationCode string, sel chartdata.Selector) (Snapshot, bool, error)
}
