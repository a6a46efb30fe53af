// Package api exposes the analysis pipeline over HTTP: upload a workbook,
// get the profile and Benford comparison back as JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"ledgerscope/app"
	"ledgerscope/internal/config"
	"ledgerscope/internal/errors"
	"ledgerscope/internal/ledger"
	"ledgerscope/internal/report"
)

const maxUploadBytes = 64 << 20

// Server hosts the analysis endpoint.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	runs   *ledger.Ledger // nil when no ledger is configured
	log    zerolog.Logger
}

// NewServer wires middleware and routes.
func NewServer(cfg *config.Config, runs *ledger.Ledger, log zerolog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		runs:   runs,
		log:    log,
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/analyze", s.handleAnalyze)
	s.router.Get("/api/runs", s.handleRuns)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.cfg.Server.Port
	s.log.Info().Str("addr", addr).Msg("analysis server listening")
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyzeResponse is the full JSON body for one uploaded workbook.
type analyzeResponse struct {
	RunID    string                 `json:"run_id"`
	Profile  *report.Profile        `json:"profile"`
	Benford  *report.BenfordSummary `json:"benford"`
	ChartSVG string                 `json:"chart_svg"`
}

// handleAnalyze accepts a multipart upload under the "file" field, runs the
// full pipeline against it and returns the structured results. Query
// parameters column, min_count and sheet override the configured defaults.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, errors.New(errors.CodeConfigInvalid, "invalid multipart upload"))
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, errors.New(errors.CodeConfigInvalid, `missing "file" upload field`))
		return
	}
	defer upload.Close()

	tmp, err := os.CreateTemp("", "ledgerscope-upload-*.xlsx")
	if err != nil {
		writeError(w, errors.Wrap(err, "failed to stage upload"))
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, upload); err != nil {
		tmp.Close()
		writeError(w, errors.Wrap(err, "failed to stage upload"))
		return
	}
	tmp.Close()

	reqCfg, err := s.requestConfig(r, tmp.Name())
	if err != nil {
		writeError(w, err)
		return
	}

	service := app.NewAnalysisService(reqCfg, s.log)
	profile, result, err := service.Analyze(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	// The profile carries the temp path; report the uploaded name instead.
	profile.File = header.Filename
	result.Summary.File = header.Filename

	s.recordRun(r.Context(), header.Filename, result)

	writeJSON(w, http.StatusOK, analyzeResponse{
		RunID:    result.RunID.String(),
		Profile:  profile,
		Benford:  result.Summary,
		ChartSVG: result.SVG,
	})
}

// handleRuns lists recorded analysis runs, newest first. The limit query
// parameter caps the page size (default 20).
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, errors.ConfigInvalid("limit must be a positive integer"))
			return
		}
		limit = n
	}

	if s.runs == nil {
		writeError(w, errors.ConfigInvalid("run ledger not configured"))
		return
	}

	runs, err := s.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []ledger.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// requestConfig clones the server configuration with per-request overrides.
func (s *Server) requestConfig(r *http.Request, file string) (*config.Config, error) {
	cfg := *s.cfg
	cfg.Data.File = file

	q := r.URL.Query()
	if column := q.Get("column"); column != "" {
		cfg.Data.Column = column
	}
	if sheet := q.Get("sheet"); sheet != "" {
		cfg.Data.SheetPath = sheet
	}
	if raw := q.Get("min_count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.ConfigInvalid("min_count must be an integer")
		}
		cfg.Data.MinCount = n
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Server) recordRun(ctx context.Context, file string, result *app.BenfordResult) {
	if s.runs == nil {
		return
	}
	run := ledger.Run{
		ID:          result.RunID.String(),
		File:        file,
		Column:      result.Summary.Column,
		TotalValues: result.Summary.Total,
		ChiSquare:   result.Summary.ChiSquare,
		PValue:      result.Summary.PValue,
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		s.log.Warn().Err(err).Msg("failed to record analysis run")
	}
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, httpStatus(code), errorBody{Code: code, Error: err.Error()})
}

func httpStatus(code string) int {
	switch code {
	case errors.CodeConfigInvalid, errors.CodeContainerOpen:
		return http.StatusBadRequest
	case errors.CodeMissingSheet, errors.CodeColumnNotFound:
		return http.StatusNotFound
	case errors.CodeEmptyGrid, errors.CodeNoEligibleColumn, errors.CodeEmptySample:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		fmt.Fprintln(os.Stderr, "encode response:", err)
	}
}
