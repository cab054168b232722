// Package wris provides typed clients for the India-WRIS groundwater APIs:
// the station master endpoint (station metadata) and the common dataset
// endpoint (raw time-series readings).
//
// Responses are decoded with gjson path lookups rather than struct
// unmarshalling because the upstream payloads are loosely typed: numeric
// fields arrive as numbers or strings depending on the station, and unknown
// shapes must be rejected or coerced at this boundary before they reach the
// aggregation pipeline. Values are handed downstream as chartdata.Candidate
// and stay untrusted until chartdata.Validate accepts them.
//
// Transport-level failures, non-success HTTP statuses, non-success body
// status codes, and unparseable bodies all surface as *FetchError so callers
// can tell "retry the fetch" apart from "no data exists". A success response
// with zero rows is an empty result, never a FetchError.
package wris

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/groundwatch/groundwatch/pkg/chartdata"
)

// DefaultBaseURL is the production India-WRIS endpoint.
const DefaultBaseURL = "https://indiawris.gov.in"

// DefaultDataset is the groundwater level dataset code.
const DefaultDataset = "GWATERLVL"

// ErrStationNotFound is wrapped into the error returned when the station
// master endpoint answers successfully but knows no station for the given
// code. Check with errors.Is.
var ErrStationNotFound = errors.New("station not found")

// StationProvider supplies station metadata by station code.
type StationProvider interface {
	Station(ctx context.Context, code string) (*StationMetadata, error)
}

// ReadingProvider supplies raw, untrusted readings for a station over a
// time window.
type ReadingProvider interface {
	Readings(ctx context.Context, code string, start, end time.Time) ([]chartdata.Candidate, error)
}

// StationMetadata describes one monitoring station as declared upstream.
// The aggregation pipeline consumes only the availability window; the rest
// is passed through untouched to presentation.
type StationMetadata struct {
	Name              string  `json:"name"`
	Code              string  `json:"code"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	State             string  `json:"state"`
	District          string  `json:"district"`
	Agency            string  `json:"agency"`
	Type              string  `json:"type"`
	Status            string  `json:"status"`
	DataAvailableFrom string  `json:"dataAvailableFrom"`
	DataAvailableTill string  `json:"dataAvailableTill"`
	WellDepth         float64 `json:"wellDepth"`
	AquiferType       string  `json:"aquiferType"`
	MSLMeters         float64 `json:"mslMeters"`
	Unit              string  `json:"unit"`
}

// Window parses the station's declared availability span. The upstream
// formats vary, so parsing reuses the pipeline's ingestion-boundary rules.
// An unparseable or missing bound is an error: the overlap check cannot run
// against a window that is not known.
func (m *StationMetadata) Window() (chartdata.AvailabilityWindow, error) {
	from, ok := chartdata.ParseInstant(m.DataAvailableFrom)
	if !ok {
		return chartdata.AvailabilityWindow{}, fmt.Errorf("station %s: unparseable data_available_from %q", m.Code, m.DataAvailableFrom)
	}
	till, ok := chartdata.ParseInstant(m.DataAvailableTill)
	if !ok {
		return chartdata.AvailabilityWindow{}, fmt.Errorf("station %s: unparseable data_available_Till %q", m.Code, m.DataAvailableTill)
	}
	return chartdata.AvailabilityWindow{From: from, Till: till}, nil
}

// FetchError reports a failed provider call: transport error, unexpected
// HTTP status, unparseable body, or an upstream error status code. It is
// deliberately distinct from an empty result.
type FetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wris %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("wris %s: status %d", e.Endpoint, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }
