package wris

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/groundwatch/groundwatch/pkg/chartdata"
)

const (
	stationPath  = "/stationMaster/getMasterStationsList"
	readingsPath = "/CommonDataSetMasterAPI/getCommonDataSetByStationCode"

	// maxResponseBytes bounds how much of an upstream body is read.
	maxResponseBytes = 16 << 20
)

// Client calls the India-WRIS APIs. It implements StationProvider and
// ReadingProvider.
type Client struct {
	// BaseURL is the API root, e.g. https://indiawris.gov.in.
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Dataset is the dataset code sent with every request.
	// Defaults to DefaultDataset if empty.
	Dataset string

	// HTTPClient is optional; if nil a default client with timeout is used.
	HTTPClient *http.Client
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) dataset() string {
	if c.Dataset == "" {
		return DefaultDataset
	}
	return c.Dataset
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: 15 * time.Second}
	}
	return c.HTTPClient
}

// Station fetches metadata for one station code.
func (c *Client) Station(ctx context.Context, code string) (*StationMetadata, error) {
	if code == "" {
		return nil, errors.New("wris: station code is required")
	}

	body, err := json.Marshal(map[string]string{
		"stationcode": code,
		"datasetcode": c.dataset(),
	})
	if err != nil {
		return nil, err
	}

	doc, ferr := c.post(ctx, stationPath, body)
	if ferr != nil {
		return nil, ferr
	}

	rows := doc.Get("data")
	if !rows.IsArray() || len(rows.Array()) == 0 {
		return nil, &FetchError{Endpoint: stationPath, Err: fmt.Errorf("%w: code %q", ErrStationNotFound, code)}
	}

	row := rows.Array()[0]
	meta := &StationMetadata{
		Name:              row.Get("station_Name").String(),
		Code:              row.Get("station_Code").String(),
		Latitude:          row.Get("latitude").Float(),
		Longitude:         row.Get("longitude").Float(),
		State:             row.Get("state").String(),
		District:          row.Get("district").String(),
		Agency:            row.Get("agency_Name").String(),
		Type:              row.Get("station_Type").String(),
		Status:            row.Get("station_Status").String(),
		DataAvailableFrom: row.Get("data_available_from").String(),
		DataAvailableTill: row.Get("data_available_Till").String(),
		WellDepth:         row.Get("well_depth").Float(),
		AquiferType:       row.Get("well_aquifer_type").String(),
		MSLMeters:         row.Get("mslmeter").Float(),
		Unit:              row.Get("unit").String(),
	}
	if meta.Code == "" {
		meta.Code = code
	}
	return meta, nil
}

// Readings fetches raw readings for a station over [start, end]. The window
// bounds are sent as calendar dates, matching what the upstream API expects.
//
// The returned candidates carry whatever the API sent; validation happens in
// the pipeline, not here. An upstream success with no rows returns an empty
// slice and no error.
func (c *Client) Readings(ctx context.Context, code string, start, end time.Time) ([]chartdata.Candidate, error) {
	if code == "" {
		return nil, errors.New("wris: station code is required")
	}

	body, err := json.Marshal(map[string]string{
		"station_code": code,
		"starttime":    start.UTC().Format("2006-01-02"),
		"endtime":      end.UTC().Format("2006-01-02"),
		"dataset":      c.dataset(),
	})
	if err != nil {
		return nil, err
	}

	doc, ferr := c.post(ctx, readingsPath, body)
	if ferr != nil {
		return nil, ferr
	}

	rows := doc.Get("data").Array()
	candidates := make([]chartdata.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, chartdata.Candidate{
			DataTime:  row.Get("dataTime").String(),
			DataValue: row.Get("dataValue").Value(),
		})
	}
	return candidates, nil
}

// post issues one JSON POST and returns the parsed body after checking both
// the HTTP status and the body's own statusCode field.
func (c *Client) post(ctx context.Context, path string, body []byte) (gjson.Result, *FetchError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return gjson.Result{}, &FetchError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return gjson.Result{}, &FetchError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return gjson.Result{}, &FetchError{Endpoint: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, &FetchError{Endpoint: path, Status: resp.StatusCode}
	}

	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, &FetchError{Endpoint: path, Err: errors.New("malformed JSON body")}
	}

	doc := gjson.ParseBytes(raw)
	if code := doc.Get("statusCode"); code.Exists() && code.Int() != http.StatusOK {
		msg := doc.Get("message").String()
		if msg == "" {
			msg = "API returned error"
		}
		return gjson.Result{}, &FetchError{Endpoint: path, Status: int(code.Int()), Err: errors.New(msg)}
	}

	return doc, nil
}
