// Package server implements the HTTP surface of the propgod service: the
// /api/homes search endpoint, health checks, and the Prometheus scrape
// endpoint. The engine does all indexing and matching; this layer only
// translates query strings to filters and results to JSON.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/propgo/propgo"
	"github.com/propgo/propgo/config"
	"github.com/propgo/propgo/index"
	"github.com/propgo/propgo/property"
	"github.com/propgo/propgo/query"
)

// Server handles search requests against one engine.
type Server struct {
	engine  *propgo.Engine
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a server. metrics may be nil to disable instrumentation.
func New(engine *propgo.Engine, logger *slog.Logger, metrics *Metrics) *Server {
	return &Server{engine: engine, logger: logger, metrics: metrics}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler(cfg config.ServerConfig, metricsCfg config.MetricsConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/homes", s.handleHomes)
	mux.HandleFunc("GET /health", s.handleHealth)
	if s.metrics != nil && metricsCfg.Enabled {
		mux.Handle("GET "+metricsCfg.Path, s.metrics.Handler())
	}

	var h http.Handler = mux
	if s.metrics != nil {
		h = s.metrics.Instrument(h)
	}
	if cfg.RateLimit > 0 {
		h = RateLimit(cfg.RateLimit, cfg.RateBurst)(h)
	}
	return h
}

// homesResponse is the /api/homes payload. Timings are reported per
// index path so clients can watch the comparison live.
type homesResponse struct {
	Count      int                 `json:"count"`
	Properties []property.Property `json:"properties"`
	Timing     timing              `json:"timing"`
}

type timing struct {
	HashSetMillis     float64 `json:"hashset_ms"`
	PostingListMillis float64 `json:"postinglist_ms"`
}

func (s *Server) handleHomes(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.engine.Query(r.Context(), f)
	if err != nil {
		var (
			ua *propgo.ErrUnknownAttribute
			ir *propgo.ErrInvalidRange
		)
		switch {
		case errors.As(err, &ua), errors.As(err, &ir):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			// Includes ErrResultMismatch: an internal defect, never
			// papered over with a one-sided result.
			s.logger.Error("query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	props := res.Properties
	if limit := intParam(r, "limit", 0); limit > 0 && limit < len(props) {
		props = props[:limit]
	}

	writeJSON(w, http.StatusOK, homesResponse{
		Count:      len(res.IDs),
		Properties: props,
		Timing: timing{
			HashSetMillis:     float64(res.HashSetElapsed) / float64(time.Millisecond),
			PostingListMillis: float64(res.PostingListElapsed) / float64(time.Millisecond),
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"properties": s.engine.Len(),
	})
}

// filterFromQuery translates the original query-string contract into a
// core filter: bedrooms is exact, bathrooms is at-least, price and
// year_built are inclusive ranges, feature flags are required when true.
func filterFromQuery(r *http.Request) (query.Filter, error) {
	f := query.Filter{Conditions: map[index.Attribute]query.Condition{}}

	if v, ok, err := floatParam(r, "bedrooms"); err != nil {
		return f, err
	} else if ok {
		f.Conditions[index.AttrBedrooms] = query.Equals(v)
	}
	if v, ok, err := floatParam(r, "bathrooms"); err != nil {
		return f, err
	} else if ok {
		f.Conditions[index.AttrBathrooms] = query.AtLeast(v)
	}

	if cond, ok, err := rangeParams(r, "price_min", "price_max"); err != nil {
		return f, err
	} else if ok {
		f.Conditions[index.AttrPrice] = cond
	}
	if cond, ok, err := rangeParams(r, "year_min", "year_max"); err != nil {
		return f, err
	} else if ok {
		f.Conditions[index.AttrYearBuilt] = cond
	}

	for param, attr := range map[string]index.Attribute{
		"basement":  index.AttrBasement,
		"fireplace": index.AttrFireplace,
		"attic":     index.AttrAttic,
		"garage":    index.AttrGarage,
	} {
		if r.URL.Query().Get(param) == "true" {
			f.Flags = append(f.Flags, attr)
		}
	}

	return f, nil
}

func floatParam(r *http.Request, name string) (float64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, errors.New("invalid value for " + name)
	}
	return v, true, nil
}

func rangeParams(r *http.Request, minName, maxName string) (query.Condition, bool, error) {
	min, hasMin, err := floatParam(r, minName)
	if err != nil {
		return query.Condition{}, false, err
	}
	max, hasMax, err := floatParam(r, maxName)
	if err != nil {
		return query.Condition{}, false, err
	}
	switch {
	case hasMin && hasMax:
		return query.Between(min, max), true, nil
	case hasMin:
		return query.AtLeast(min), true, nil
	case hasMax:
		return query.AtMost(max), true, nil
	}
	return query.Condition{}, false, nil
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
