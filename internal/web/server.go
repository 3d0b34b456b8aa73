// Package web serves the loan dashboard over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/config"
	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// readHeaderTimeout bounds how long a client may take to send request headers.
const readHeaderTimeout = 5 * time.Second

// modelCount is the number of models offered by the prediction form.
const modelCount = 4

// DataSource is the subset of the prediction service the dashboard reads.
type DataSource interface {
	FetchLoans(ctx context.Context) ([]loanapi.LoanRecord, error)
	Predict(ctx context.Context, req loanapi.PredictRequest) (loanapi.Prediction, error)
	Evaluate(ctx context.Context) (loanapi.Evaluation, error)
}

// Deps are the dependencies of the router.
type Deps struct {
	Source DataSource
	Logger zerolog.Logger
}

type handler struct {
	source DataSource
	tmpl   *template.Template
}

// NewRouter registers the dashboard routes.
func NewRouter(deps Deps) (*mux.Router, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	h := &handler{source: deps.Source, tmpl: tmpl}

	r := mux.NewRouter()
	r.Use(requestIDMiddleware(deps.Logger), accessLogMiddleware)

	r.HandleFunc("/", h.dashboard).Methods(http.MethodGet).Name("dashboard")
	r.HandleFunc("/loans", h.loans).Methods(http.MethodGet).Name("loans")
	r.HandleFunc("/predict", h.predict).Methods(http.MethodGet).Name("predict")
	r.HandleFunc("/evaluate", h.evaluate).Methods(http.MethodGet).Name("evaluate")
	r.HandleFunc("/health", health).Methods(http.MethodGet).Name("health")
	r.Handle("/metrics", promhttp.Handler()).Name("metrics")

	return r, nil
}

// NewHTTPServer creates the dashboard server listening on the configured address.
func NewHTTPServer(cfg *config.Config, router *mux.Router) *http.Server {
	return &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// pageLink is one rendered page button.
type pageLink struct {
	Label  string
	Page   int
	Active bool
}

// loansView is the loan section of the dashboard.
type loansView struct {
	Alert    string
	Summary  string
	Table    engine.Table
	Controls pagination.Controls
	Buttons  []pageLink
}

type dashboardView struct {
	Loans  loansView
	Models []int
}

type fragmentView struct {
	Title string
	Alert string
	Table engine.Table
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	view, status := h.loadLoans(r)
	models := make([]int, modelCount)
	for i := range models {
		models[i] = i + 1
	}
	h.render(w, r, status, "dashboard", dashboardView{Loans: view, Models: models})
}

func (h *handler) loans(w http.ResponseWriter, r *http.Request) {
	view, status := h.loadLoans(r)
	h.render(w, r, status, "loans", view)
}

// loadLoans fetches the dataset and selects the page named by the page query
// parameter. Each request builds a fresh controller over the fetched data.
func (h *handler) loadLoans(r *http.Request) (loansView, int) {
	ctx := r.Context()
	empty := loansView{Controls: pagination.Controls{ContainerID: engine.LoanPaginationID, CurrentPage: pagination.DefaultPage}}

	page, err := pageParam(r)
	if err != nil {
		empty.Alert = err.Error()
		return empty, http.StatusBadRequest
	}

	records, err := h.source.FetchLoans(ctx)
	if err != nil {
		if loanapi.IsMalformed(err) {
			logging.FromContext(ctx).Warn().Ctx(ctx).Err(err).Msg("loan data has an invalid format")
			empty.Table = engine.InvalidLoanTable()
			return empty, http.StatusOK
		}
		logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Msg("failed to fetch loan data")
		empty.Alert = engine.AlertMessage(loanapi.EndpointLoans)
		return empty, http.StatusBadGateway
	}

	pager := engine.NewLoanPager(records)
	if err = pager.Controller().GoTo(page); err != nil {
		empty.Alert = fmt.Sprintf("Page %d does not exist.", page)
		return empty, http.StatusNotFound
	}

	controls := pager.Controls()
	return loansView{
		Summary:  pager.Summary(),
		Table:    pager.Table(),
		Controls: controls,
		Buttons:  pageLinks(controls),
	}, http.StatusOK
}

// pageLinks turns buttons into links. Previous and Next on a boundary link to
// the current page so following them changes nothing.
func pageLinks(c pagination.Controls) []pageLink {
	links := make([]pageLink, len(c.Buttons))
	for i, b := range c.Buttons {
		target := b.Page
		if target < 1 || target > c.TotalPages {
			target = c.CurrentPage
		}
		links[i] = pageLink{Label: b.Label, Page: target, Active: b.Active}
	}
	return links
}

func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return pagination.DefaultPage, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < pagination.MinPage {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := fragmentView{Title: "Loan Prediction"}

	req, err := predictRequest(r)
	if err != nil {
		view.Alert = err.Error()
		h.render(w, r, http.StatusBadRequest, "fragment", view)
		return
	}

	prediction, err := h.source.Predict(ctx, req)
	switch {
	case errors.Is(err, loanapi.ErrInvalidRequest):
		view.Alert = "Invalid prediction request. Choose a date and a model."
		h.render(w, r, http.StatusBadRequest, "fragment", view)
		return
	case err != nil:
		logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Msg("failed to fetch prediction")
		view.Alert = engine.AlertMessage(loanapi.EndpointPredict)
		h.render(w, r, http.StatusBadGateway, "fragment", view)
		return
	}

	view.Table = engine.PredictionTable(prediction)
	h.render(w, r, http.StatusOK, "fragment", view)
}

func predictRequest(r *http.Request) (loanapi.PredictRequest, error) {
	q := r.URL.Query()
	req := loanapi.PredictRequest{
		Date:       q.Get("date"),
		PeakSeason: truthy(q.Get("is_peak_season")),
		LowSeason:  truthy(q.Get("is_low_season")),
		ModelNo:    1,
	}
	if raw := q.Get("model_no"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid model_no %q", raw)
		}
		req.ModelNo = n
	}
	return req, nil
}

func truthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

func (h *handler) evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := fragmentView{Title: "Model Error Metrics"}

	eval, err := h.source.Evaluate(ctx)
	if err != nil {
		logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Msg("failed to fetch model error metrics")
		view.Alert = engine.AlertMessage(loanapi.EndpointEvaluate)
		h.render(w, r, http.StatusBadGateway, "fragment", view)
		return
	}

	view.Table = engine.MetricsTable(eval)
	h.render(w, r, http.StatusOK, "fragment", view)
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf strings.Builder
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		ctx := r.Context()
		logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Str("template", name).Msg("rendering template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, buf.String())
}
