package wris

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Station(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != stationPath {
			t.Errorf("path = %q, want %q", r.URL.Path, stationPath)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Write([]byte(`{
			"statusCode": 200,
			"data": [{
				"station_Name": "Pune Observation Well",
				"station_Code": "GW12345",
				"latitude": 18.52,
				"longitude": 73.85,
				"state": "Maharashtra",
				"district": "Pune",
				"agency_Name": "CGWB",
				"station_Type": "Ground Water",
				"station_Status": "Active",
				"data_available_from": "2015-06-01",
				"data_available_Till": "2024-05-31",
				"well_depth": 42.5,
				"well_aquifer_type": "Unconfined",
				"mslmeter": 560.2,
				"unit": "m"
			}]
		}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	meta, err := client.Station(context.Background(), "GW12345")
	if err != nil {
		t.Fatalf("Station() error: %v", err)
	}

	if gotBody["stationcode"] != "GW12345" || gotBody["datasetcode"] != DefaultDataset {
		t.Errorf("request body = %v", gotBody)
	}
	if meta.Name != "Pune Observation Well" || meta.State != "Maharashtra" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.WellDepth != 42.5 || meta.MSLMeters != 560.2 {
		t.Errorf("numeric fields = %v, %v", meta.WellDepth, meta.MSLMeters)
	}

	window, err := meta.Window()
	if err != nil {
		t.Fatalf("Window() error: %v", err)
	}
	if !window.From.Equal(time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window.From = %v", window.From)
	}
	if !window.Till.Equal(time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window.Till = %v", window.Till)
	}
}

func TestClient_Station_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode": 200, "data": []}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	_, err := client.Station(context.Background(), "NOPE")

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
	if !errors.Is(err, ErrStationNotFound) {
		t.Errorf("error = %v, want ErrStationNotFound in chain", err)
	}
}

func TestClient_Readings(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != readingsPath {
			t.Errorf("path = %q, want %q", r.URL.Path, readingsPath)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		// dataValue arrives as number or string depending on the station.
		w.Write([]byte(`{
			"statusCode": 200,
			"data": [
				{"dataTime": "2024-01-01T00:00:00", "dataValue": 9.44},
				{"dataTime": "2024-01-01T06:00:00", "dataValue": "9.40"},
				{"dataTime": "2024-01-01T12:00:00", "dataValue": null}
			]
		}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	candidates, err := client.Readings(context.Background(), "GW12345", start, end)
	if err != nil {
		t.Fatalf("Readings() error: %v", err)
	}

	if gotBody["starttime"] != "2024-01-01" || gotBody["endtime"] != "2024-01-02" {
		t.Errorf("window in request = %v", gotBody)
	}
	if gotBody["dataset"] != DefaultDataset {
		t.Errorf("dataset = %q", gotBody["dataset"])
	}
	if len(candidates) != 3 {
		t.Fatalf("len(candidates) = %d, want 3 (validation is not the client's job)", len(candidates))
	}
	if candidates[0].DataValue != 9.44 {
		t.Errorf("candidates[0].DataValue = %v", candidates[0].DataValue)
	}
	if candidates[1].DataValue != "9.40" {
		t.Errorf("candidates[1].DataValue = %v, want untouched string", candidates[1].DataValue)
	}
}

func TestClient_Readings_EmptySuccessIsNotAFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode": 200, "data": []}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	candidates, err := client.Readings(context.Background(), "GW12345", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("empty success returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("candidates = %v, want empty", candidates)
	}
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "body status code error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"statusCode": 500, "message": "internal failure"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>gateway timeout</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := &Client{BaseURL: srv.URL}
			_, err := client.Readings(context.Background(), "GW12345", time.Now().Add(-time.Hour), time.Now())

			var ferr *FetchError
			if !errors.As(err, &ferr) {
				t.Fatalf("error = %v, want *FetchError", err)
			}
		})
	}
}

func TestStationMetadata_Window_Unparseable(t *testing.T) {
	meta := &StationMetadata{Code: "GW1", DataAvailableFrom: "soon", DataAvailableTill: "2024-01-01"}
	if _, err := meta.Window(); err == nil {
		t.Error("Window() with unparseable from succeeded, want error")
	}
}
