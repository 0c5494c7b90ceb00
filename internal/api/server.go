package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"roi-insight/internal/dataset"
	"roi-insight/internal/roi"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler serves analysis results for stored datasets as JSON.
type Handler struct {
	store    *dataset.Store
	options  roi.Options
	validate *validator.Validate
	metrics  *metrics
}

// NewHandler creates a handler reading from store and analysing with opts.
func NewHandler(store *dataset.Store, opts roi.Options) *Handler {
	v := validator.New()
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		store:    store,
		options:  opts,
		validate: v,
		metrics:  newMetrics(),
	}
}

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Dataset      string `json:"dataset" validate:"required"`
	AdoptionDate string `json:"adoption_date" validate:"required"`
	KeepUndated  bool   `json:"keep_undated,omitempty"`
}

// AnalysisResponse carries every view of one analysis run.
type AnalysisResponse struct {
	Success     bool   `json:"success"`
	RunID       string `json:"run_id"`
	Dataset     string `json:"dataset"`
	TotalIssues int    `json:"total_issues"`
	roi.Report
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Routes builds the router. Every route lives under /api.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(h.metrics.instrument)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", h.metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", h.health)
		r.Get("/datasets", h.listDatasets)
		r.Post("/analyze", h.analyze)
		r.Get("/dashboard-data", h.dashboardData)
	})
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy", "message": "roi-insight API is running"})
}

func (h *Handler) listDatasets(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.List()
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, map[string]interface{}{"success": true, "datasets": names})
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	h.respond(w, r, req)
}

// dashboardData is the query-string variant of analyze for dashboards that re-run on date changes.
func (h *Handler) dashboardData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.respond(w, r, AnalyzeRequest{
		Dataset:      q.Get("dataset"),
		AdoptionDate: q.Get("adoption_date"),
		KeepUndated:  q.Get("keep_undated") == "true",
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, req AnalyzeRequest) {
	req.Dataset = strings.TrimSpace(req.Dataset)
	req.AdoptionDate = strings.TrimSpace(req.AdoptionDate)

	if err := h.validateRequest(req); err != nil {
		h.metrics.analyses.WithLabelValues(outcomeFor(http.StatusBadRequest)).Inc()
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}

	opts := h.options
	if req.KeepUndated {
		opts.KeepUndated = true
	}

	session, err := h.store.Analyze(req.Dataset, req.AdoptionDate, opts)
	if err != nil {
		status := statusFor(err)
		h.metrics.analyses.WithLabelValues(outcomeFor(status)).Inc()
		h.fail(w, r, status, err)
		return
	}
	h.metrics.analyses.WithLabelValues(outcomeFor(http.StatusOK)).Inc()

	runID := uuid.NewString()
	resp := AnalysisResponse{
		Success:     true,
		RunID:       runID,
		Dataset:     req.Dataset,
		TotalIssues: session.Diagnostics().TotalRows,
		Report:      session.Report(),
	}
	log.Info().
		Str("runId", runID).
		Str("dataset", req.Dataset).
		Str("adoptionDate", resp.Summary.AdoptionDate).
		Int("retained", session.Len()).
		Msg("Analysis served")
	render.JSON(w, r, resp)
}

// validateRequest reports the first missing field in request order.
func (h *Handler) validateRequest(req AnalyzeRequest) error {
	err := h.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("missing required field: %s", fe.Field())
		}
		return fmt.Errorf("invalid field %s: failed %q", fe.Field(), fe.Tag())
	}
	return err
}

// outcomeFor labels an analysis run: ok, invalid for caller errors, error otherwise.
func outcomeFor(status int) string {
	switch {
	case status < http.StatusBadRequest:
		return "ok"
	case status < http.StatusInternalServerError:
		return "invalid"
	default:
		return "error"
	}
}

func statusFor(err error) int {
	var dateErr *roi.DateParseError
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrInvalidName), errors.Is(err, roi.ErrEmptyAdoptionDate), errors.As(err, &dateErr):
		return http.StatusBadRequest
	case errors.Is(err, roi.ErrInvalidAssumptions):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	evt := log.Warn()
	if status >= http.StatusInternalServerError {
		evt = log.Error()
	}
	evt.Err(err).
		Int("status", status).
		Str("requestId", middleware.GetReqID(r.Context())).
		Str("path", r.URL.Path).
		Msg("Request failed")

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Success: false, Error: err.Error()})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("requestId", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

// ListenAndServe runs the API on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("HTTP API shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
