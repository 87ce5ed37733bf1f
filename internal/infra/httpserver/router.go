package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appai "github.com/bryanwahyu/textlens/internal/application/ai"
	appanalyses "github.com/bryanwahyu/textlens/internal/application/analyses"
	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
	"github.com/bryanwahyu/textlens/internal/middleware"
)

// Options carries the optional parts of the router.
type Options struct {
	AllowedOrigins []string
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	analysesSvc *appanalyses.Service
	aiSvc       *appai.Service
	pages       *pages
}

func NewRouter(analysesSvc *appanalyses.Service, aiSvc *appai.Service, opts Options) http.Handler {
	r := &Router{analysesSvc: analysesSvc, aiSvc: aiSvc, pages: loadPages()}
	mux := chi.NewRouter()
	mux.Use(middleware.MetricsMiddleware, middleware.LoggingMiddleware)

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Get("/", r.handleHome)
	mux.Post("/", r.handleHomeSubmit)
	mux.Get("/history/", r.handleHistory)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Route("/api", func(rt chi.Router) {
		rt.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		rt.Post("/analyze/", r.wrap(r.handleAPIAnalyze))
		rt.Get("/search/", r.wrap(r.handleAPISearch))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap answers JSON API errors as {"error": "..."}.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status, msg := classify(err)
			if status >= http.StatusInternalServerError {
				zap.L().Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			}
			writeJSON(w, status, map[string]string{"error": msg})
		}
	}
}

// engineError ties a pipeline failure to the engine it ran on so the
// message can name it.
type engineError struct {
	engine domai.Engine
	err    error
}

func (e *engineError) Error() string { return e.err.Error() }
func (e *engineError) Unwrap() error { return e.err }

var errBadBody = errors.New("request body must be a JSON object")

// classify maps an error to the status code and message shown to clients.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "Input cannot be empty."
	case errors.Is(err, domain.ErrEmptyTopic):
		return http.StatusBadRequest, "No topic provided."
	case errors.Is(err, domai.ErrUnknownEngine):
		return http.StatusBadRequest, "Unknown engine: " + strings.TrimPrefix(err.Error(), domai.ErrUnknownEngine.Error()+": ")
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, "Invalid request body."
	}

	var ee *engineError
	if !errors.As(err, &ee) {
		return http.StatusInternalServerError, err.Error()
	}
	name := ee.engine.DisplayName()

	var pe *domai.ProviderError
	if errors.As(err, &pe) {
		if errors.Is(pe, domai.ErrQuotaExceeded) {
			return http.StatusTooManyRequests, fmt.Sprintf("%s API rate limit exceeded. Details: %s", name, pe.Body)
		}
		return http.StatusInternalServerError, fmt.Sprintf("%s API error: %s", name, pe.Body)
	}
	return http.StatusInternalServerError, fmt.Sprintf("%s API failure: %s", name, ee.err.Error())
}

// countProviderError records upstream answers only; store or keyword
// failures are not the provider's.
func countProviderError(err error) {
	var pe *domai.ProviderError
	if !errors.As(err, &pe) {
		return
	}
	if errors.Is(pe, domai.ErrQuotaExceeded) {
		middleware.IncrementRateLimited()
		return
	}
	middleware.IncrementProviderFailures()
}

// analyze runs the shared pipeline behind the form and the JSON API.
func (r *Router) analyze(req *http.Request, text, rawEngine string) (appanalyses.AnalyzeResult, error) {
	text = middleware.SanitizeString(text)
	if text == "" {
		return appanalyses.AnalyzeResult{}, domain.ErrEmptyText
	}
	engine, err := middleware.ValidateEngine(rawEngine, r.aiSvc.Supports)
	if err != nil {
		return appanalyses.AnalyzeResult{}, err
	}
	res, err := r.analysesSvc.Analyze(req.Context(), appanalyses.AnalyzeCommand{Text: text, Engine: engine})
	if err != nil {
		countProviderError(err)
		return appanalyses.AnalyzeResult{}, &engineError{engine: engine, err: err}
	}
	middleware.IncrementAnalyses(res.Degraded)
	return res, nil
}

type analysisResponse struct {
	*domain.Analysis
	Engine string `json:"engine"`
}

// POST /api/analyze/?engine=
// Body: {"text": "..."}
func (r *Router) handleAPIAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Text string `json:"text"`
	}
	// an empty body is empty input, not a malformed one
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}

	res, err := r.analyze(req, body.Text, req.URL.Query().Get("engine"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, analysisResponse{Analysis: res.Analysis, Engine: res.Engine.DisplayName()})
	return nil
}

// GET /api/search/?topic=
func (r *Router) handleAPISearch(w http.ResponseWriter, req *http.Request) error {
	list, err := r.analysesSvc.Search(req.Context(), req.URL.Query().Get("topic"))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /
func (r *Router) handleHome(w http.ResponseWriter, req *http.Request) {
	r.pages.render(w, http.StatusOK, "home", r.homeData("", "", req.URL.Query().Get("engine")))
}

// POST /  form field "text", engine from the query string or the form
func (r *Router) handleHomeSubmit(w http.ResponseWriter, req *http.Request) {
	rawEngine := req.URL.Query().Get("engine")
	if rawEngine == "" {
		rawEngine = req.PostFormValue("engine")
	}
	text := req.PostFormValue("text")

	res, err := r.analyze(req, text, rawEngine)
	if err != nil {
		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			zap.L().Error("analysis failed", zap.Error(err))
		}
		r.pages.render(w, status, "home", r.homeData(msg, text, rawEngine))
		return
	}
	r.pages.render(w, http.StatusOK, "result", resultData{
		Analysis: res.Analysis,
		Engine:   res.Engine.DisplayName(),
	})
}

// GET /history/?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	page := middleware.ValidatePage(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	size = middleware.ValidateLimit(size)

	result, err := r.analysesSvc.History(req.Context(), page, size)
	if err != nil {
		zap.L().Error("history failed", zap.Error(err))
		http.Error(w, "could not load history", http.StatusInternalServerError)
		return
	}
	r.pages.render(w, http.StatusOK, "history", historyData{
		Page:    result,
		PrevURL: pageURL(result.Page-1, result.PageSize),
		NextURL: pageURL(result.Page+1, result.PageSize),
	})
}

func pageURL(page, size int) string {
	return fmt.Sprintf("/history/?page=%d&page_size=%d", page, size)
}

func (r *Router) homeData(errMsg, text, rawEngine string) homeData {
	selected := domai.ParseEngine(rawEngine)
	var options []engineOption
	for _, e := range r.aiSvc.Engines() {
		options = append(options, engineOption{Value: string(e), Label: e.DisplayName(), Selected: e == selected})
	}
	return homeData{Error: errMsg, Text: text, Engines: options}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
