// Package router configures HTTP routes for the chartd HTTP API.
//
// Routes configured:
//   - GET    /stations/{code}                 - Station metadata
//   - GET    /stations/{code}/chart           - Chart snapshot (?range=1M&smooth=5)
//   - GET    /stations/{code}/chart/seasonal  - Four-season aggregation (?range=1YR)
//   - GET    /bookmarks                       - List bookmarked stations (?user=)
//   - PUT    /bookmarks/{code}                - Bookmark a station (?user=)
//   - DELETE /bookmarks/{code}                - Remove a bookmark (?user=)
//   - POST   /bookmarks/{code}/toggle         - Flip a bookmark (?user=)
//   - GET    /healthz                         - Health check endpoint (returns 200 OK)
//   - GET    /metrics                         - Prometheus metrics endpoint
//
// Pipeline statuses map onto HTTP statuses: an inconsistent availability
// window is 422, a range with no overlap is 409, and an empty-but-valid
// result is 200 with an empty series. Upstream fetch failures are 502 so
// clients can tell a retry-worthy failure apart from absent data. Snapshots
// older than the stale threshold carry an X-Groundwatch-Stale header.
package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/groundwatch/groundwatch/pkg/bookmarks"
	"github.com/groundwatch/groundwatch/pkg/chartdata"
	"github.com/groundwatch/groundwatch/pkg/httpx"
	"github.com/groundwatch/groundwatch/pkg/storage"
	"github.com/groundwatch/groundwatch/pkg/wris"
)

var stationCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]{0,62})?$`)

// ChartAPI is the service surface the router exposes over HTTP.
type ChartAPI interface {
	Station(ctx context.Context, code string) (*wris.StationMetadata, error)
	Chart(ctx context.Context, code string, sel chartdata.Selector, smooth int) (storage.Snapshot, error)
	Seasonal(ctx context.Context, code string, sel chartdata.Selector) (storage.Snapshot, error)
}

// SetupRoutes configures the HTTP endpoints for chartd.
func SetupRoutes(api ChartAPI, marks bookmarks.Store, staleAfter time.Duration, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", httpx.HealthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /stations/{code}", handleStation(api, logger))
	mux.HandleFunc("GET /stations/{code}/chart", handleChart(api, staleAfter, logger))
	mux.HandleFunc("GET /stations/{code}/chart/seasonal", handleSeasonal(api, logger))

	mux.HandleFunc("GET /bookmarks", handleListBookmarks(marks, logger))
	mux.HandleFunc("PUT /bookmarks/{code}", handleAddBookmark(marks, logger))
	mux.HandleFunc("DELETE /bookmarks/{code}", handleRemoveBookmark(marks, logger))
	mux.HandleFunc("POST /bookmarks/{code}/toggle", handleToggleBookmark(marks, logger))

	return mux
}

// stationCode extracts and validates the {code} path segment. It writes a
// 400 and returns false when the code is unusable.
func stationCode(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := r.PathValue("code")
	if !stationCodeRegex.MatchString(code) {
		httpx.WriteErrorMessage(w, http.StatusBadRequest, "invalid station code format")
		return "", false
	}
	return code, true
}

// rangeSelector parses the range query parameter, defaulting to 1M.
func rangeSelector(w http.ResponseWriter, r *http.Request) (chartdata.Selector, bool) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return chartdata.Range1M, true
	}
	sel, err := chartdata.ParseSelector(raw)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return "", false
	}
	return sel, true
}

// writeFetchError maps provider errors onto HTTP statuses.
func writeFetchError(w http.ResponseWriter, logger *slog.Logger, code string, err error) {
	if errors.Is(err, wris.ErrStationNotFound) {
		httpx.WriteErrorMessage(w, http.StatusNotFound, "station not found")
		return
	}

	var ferr *wris.FetchError
	if errors.As(err, &ferr) {
		logger.Warn("upstream fetch failed", "station", code, "error", err)
		httpx.WriteErrorMessage(w, http.StatusBadGateway, "groundwater data service unavailable")
		return
	}

	logger.Error("chart request failed", "station", code, "error", err)
	httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
}

func handleStation(api ChartAPI, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, ok := stationCode(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
		defer cancel()

		meta, err := api.Station(ctx, code)
		if err != nil {
			writeFetchError(w, logger, code, err)
			return
		}

		if err := httpx.WriteJSON(w, http.StatusOK, meta); err != nil {
			logger.Error("failed to write JSON response", "error", err)
		}
	}
}

func handleChart(api ChartAPI, staleAfter time.Duration, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, ok := stationCode(w, r)
		if !ok {
			return
		}

		sel, ok := rangeSelector(w, r)
		if !ok {
			return
		}

		smooth := 0
		if raw := r.URL.Query().Get("smooth"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 2 {
				httpx.WriteErrorMessage(w, http.StatusBadRequest, "smooth must be an integer >= 2")
				return
			}
			smooth = n
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		snapshot, err := api.Chart(ctx, code, sel, smooth)
		if err != nil {
			writeFetchError(w, logger, code, err)
			return
		}

		switch snapshot.Status {
		case chartdata.StatusInvalidWindow:
			httpx.WriteErrorMessage(w, http.StatusUnprocessableEntity, snapshot.Message)
			return
		case chartdata.StatusNoOverlap:
			httpx.WriteErrorMessage(w, http.StatusConflict, snapshot.Message)
			return
		}

		if time.Since(snapshot.GeneratedAt) > staleAfter {
			w.Header().Set("X-Groundwatch-Stale", "true")
		}

		if err := httpx.WriteJSON(w, http.StatusOK, snapshot); err != nil {
			logger.Error("failed to write JSON response", "error", err)
		}
	}
}

func handleSeasonal(api ChartAPI, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, ok := stationCode(w, r)
		if !ok {
			return
		}

		sel, ok := rangeSelector(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		snapshot, err := api.Seasonal(ctx, code, sel)
		if err != nil {
			writeFetchError(w, logger, code, err)
			return
		}

		switch snapshot.Status {
		case chartdata.StatusInvalidWindow:
			httpx.WriteErrorMessage(w, http.StatusUnprocessableEntity, snapshot.Message)
			return
		case chartdata.StatusNoOverlap:
			httpx.WriteErrorMessage(w, http.StatusConflict, snapshot.Message)
			return
		}

		if err := httpx.WriteJSON(w, http.StatusOK, snapshot); err != nil {
			logger.Error("failed to write JSON response", "error", err)
		}
	}
}

// bookmarkUser extracts the user query parameter shared by all bookmark
// endpoints. Bookmarks are per-device in the mobile client, so the caller
// supplies its own identifier.
func bookmarkUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := r.URL.Query().Get("user")
	if user == "" {
		httpx.WriteErrorMessage(w, http.StatusBadRequest, "user parameter required")
		return "", false
	}
	return user, true
}

func handleListBookmarks(marks bookmarks.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := bookmarkUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		codes, err := marks.List(ctx, user)
		if err != nil {
			logger.Error("failed to list bookmarks", "user", user, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if codes == nil {
			codes = []string{}
		}

		if err := httpx.WriteJSON(w, http.StatusOK, map[string]any{"stations": codes}); err != nil {
			logger.Error("failed to write JSON response", "error", err)
		}
	}
}

func handleAddBookmark(marks bookmarks.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := bookmarkUser(w, r)
		if !ok {
			return
		}
		code, ok := stationCode(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := marks.Add(ctx, user, code); err != nil {
			logger.Error("failed to add bookmark", "user", user, "station", code, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRemoveBookmark(marks bookmarks.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := bookmarkUser(w, r)
		if !ok {
			return
		}
		code, ok := stationCode(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := marks.Remove(ctx, user, code); err != nil {
			logger.Error("failed to remove bookmark", "user", user, "station", code, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleToggleBookmark(marks bookmarks.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := bookmarkUser(w, r)
		if !ok {
			return
		}
		code, ok := stationCode(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		bookmarked, err := bookmarks.Toggle(ctx, marks, user, code)
		if err != nil {
			logger.Error("failed to toggle bookmark", "user", user, "station", code, "error", err)
			httpx.WriteErrorMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if err := httpx.WriteJSON(w, http.StatusOK, map[string]any{"station": code, "bookmarked": bookmarked}); err != nil {
			logger.Error("failed to write JSON response", "error", err)
		}
	}
}
