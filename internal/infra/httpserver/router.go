package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smartconsult/consult-engine/internal/application/analysis"
	casedomain "github.com/smartconsult/consult-engine/internal/domain/cases"
	llmdomain "github.com/smartconsult/consult-engine/internal/domain/llm"
	reportdomain "github.com/smartconsult/consult-engine/internal/domain/reports"
	"github.com/smartconsult/consult-engine/internal/middleware"
)

type Router struct {
	svc *analysis.Service
}

func NewRouter(svc *analysis.Service) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/analyses", r.wrap(r.handleCreateAnalysis))
		rt.Get("/cases", r.wrap(r.handleLatestCases))
		rt.Get("/cases/{id}", r.wrap(r.handleGetCase))
		rt.Get("/cases/{id}/reports", r.wrap(r.handleListReports))
		rt.Get("/cases/{id}/faults", r.wrap(r.handleListFaults))
		rt.Get("/reports/{id}", r.wrap(r.handleGetReport))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps the engine's failure taxonomy onto HTTP statuses.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, casedomain.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, llmdomain.ErrProviderUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		case errors.Is(err, llmdomain.ErrRateLimited):
			w.Header().Set("Retry-After", "60")
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, llmdomain.ErrProviderUnreachable),
			errors.Is(err, llmdomain.ErrAuthFailed),
			errors.Is(err, llmdomain.ErrMalformedResponse),
			errors.Is(err, reportdomain.ErrParseFailure):
			// upstream gave nothing usable
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/analyses
// Body: {"analysis_type":"swot","provider":"groq","subject":"...","statement":"..."}
// Blocks until the provider call and parse complete, or fails with a typed
// error; a failed attempt never leaves a Report row behind.
func (r *Router) handleCreateAnalysis(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		AnalysisType string `json:"analysis_type"`
		Provider     string `json:"provider"`
		Subject      string `json:"subject"`
		Statement    string `json:"statement"`
		Model        string `json:"model"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return nil
	}

	middleware.IncrementAnalyses()
	middleware.IncrementAnalysesRunning()
	defer middleware.DecrementAnalysesRunning()

	result, err := r.svc.CreateAnalysis(req.Context(), analysis.CreateAnalysisCommand{
		Type:      body.AnalysisType,
		Provider:  body.Provider,
		Subject:   body.Subject,
		Statement: body.Statement,
		Model:     body.Model,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(result)
}

// GET /v1/cases?limit=20
func (r *Router) handleLatestCases(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.svc.LatestCases(req.Context(), limit)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/cases/{id}
func (r *Router) handleGetCase(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	c, err := r.svc.GetCase(req.Context(), casedomain.CaseID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(c)
}

// GET /v1/cases/{id}/reports
func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	list, err := r.svc.ListReportsForCase(req.Context(), casedomain.CaseID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/cases/{id}/faults
func (r *Router) handleListFaults(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	list, err := r.svc.ListFaultsForCase(req.Context(), casedomain.CaseID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/reports/{id}
func (r *Router) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	rep, err := r.svc.GetReport(req.Context(), reportdomain.ReportID(id))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rep)
}
