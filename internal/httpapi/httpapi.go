// Package httpapi exposes the trajectory-analytics core over a single
// HTTP endpoint. It deliberately carries none of the authentication,
// pagination, or search surface spec.md §1 places out of scope — just
// enough adapter to give the core a network-facing caller.
package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"gpstrace.dev/internal/config"
	"gpstrace.dev/internal/reportstore"
	"gpstrace.dev/internal/trace"
	"gpstrace.dev/internal/trip"
)

const maxUploadSize = 50 << 20 // 50MB, generous for a GPX/CSV trace pair.

// Server holds the optional history store shared across requests. It has
// no other state: every request is independent, matching the single-
// threaded-per-request model of spec §5.
type Server struct {
	Store *reportstore.Store
}

// New builds a Server. store may be nil, in which case runs are analyzed
// but never recorded.
func New(store *reportstore.Store) *Server {
	return &Server{Store: store}
}

// Routes returns the server's handler. There is exactly one route.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.HandleAnalyze)
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

type analyzeResponse struct {
	Report   trip.AnalyzeReport `json:"report"`
	Warnings []string           `json:"warnings,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// HandleAnalyze implements POST /api/analyze: a multipart form with
// "vehicle" and "route" GPX parts, an optional "stops" GPX waypoint part
// (a legacy stop-zone CSV is not accepted here and fails to parse), and a
// "params" text field holding the YAML parameter document
// (spec §4.11). It returns the composed AnalyzeReport as JSON.
func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	vehicle, err := parseGPXPart(r, "vehicle")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	route, err := parseGPXPart(r, "route")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var zones []trace.StopZone
	if stopsFile, _, err := r.FormFile("stops"); err == nil {
		defer stopsFile.Close()
		points, err := trace.ParseWaypoints(stopsFile)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing stops: %v", err))
			return
		}
		zones = trace.ZonesFromPoints(points)
	}

	params, err := config.Load(strings.NewReader(r.FormValue("params")))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parsing params: %v", err))
		return
	}

	report, errs := trip.Run(r.Context(), trip.AnalyzeInputs{
		VehicleSamples: vehicle,
		RouteSamples:   route,
		StopZones:      zones,
		Params:         params,
	})

	warnings := make([]string, len(errs))
	for i, e := range errs {
		warnings[i] = e.Error()
	}

	if s.Store != nil {
		runID := uuid.NewString()
		if err := s.Store.Record(r.Context(), runID, "vehicle", "route", time.Now(), report); err != nil {
			slog.Warn("record analysis run", "run_id", runID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, analyzeResponse{Report: report, Warnings: warnings})
}

func parseGPXPart(r *http.Request, field string) (trace.Stream, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %q part: %w", field, err)
	}
	defer file.Close()

	stream, err := trace.ParseGPX(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", field, err)
	}
	return stream, nil
}
