package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/rshade/loandash/internal/config"
	"github.com/rshade/loandash/internal/loanapi"
)

type fakeSource struct {
	records    []loanapi.LoanRecord
	loansErr   error
	prediction loanapi.Prediction
	predictErr error
	lastReq    loanapi.PredictRequest
	eval       loanapi.Evaluation
	evalErr    error
}

func (f *fakeSource) FetchLoans(context.Context) ([]loanapi.LoanRecord, error) {
	return f.records, f.loansErr
}

func (f *fakeSource) Predict(_ context.Context, req loanapi.PredictRequest) (loanapi.Prediction, error) {
	f.lastReq = req
	return f.prediction, f.predictErr
}

func (f *fakeSource) Evaluate(context.Context) (loanapi.Evaluation, error) {
	return f.eval, f.evalErr
}

func loanRecords(n int) []loanapi.LoanRecord {
	out := make([]loanapi.LoanRecord, n)
	for i := range out {
		out[i] = loanapi.LoanRecord{Date: "2025-04-22", BookID: fmt.Sprintf("B%03d", i+1), BorrowedCount: int64(i)}
	}
	return out
}

func serve(t *testing.T, src DataSource, target string) *httptest.ResponseRecorder {
	t.Helper()
	router, err := NewRouter(Deps{Source: src, Logger: zerolog.Nop()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboard(t *testing.T) {
	rec := serve(t, &fakeSource{records: loanRecords(25)}, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<table id="loanDataTable">`)
	assert.Contains(t, body, `<div id="loanPagination" class="pagination" data-current-page="1">`)
	assert.Contains(t, body, "B001")
	assert.NotContains(t, body, "B011")
	assert.Contains(t, body, `<option value="4">Model 4</option>`)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestLoans_Page(t *testing.T) {
	rec := serve(t, &fakeSource{records: loanRecords(25)}, "/loans?page=3")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-current-page="3"`)
	assert.Contains(t, body, "B021")
	assert.NotContains(t, body, "B020")
	assert.Contains(t, body, "Showing 21-25 of 25 records")
	assert.Contains(t, body, `<a href="?page=3" class="active">3</a>`)
	assert.Contains(t, body, `<a href="?page=3">Next</a>`, "next on the last page is a no-op link")
	assert.Contains(t, body, `<a href="?page=2">Previous</a>`)
}

func TestLoans_SinglePageHasNoButtons(t *testing.T) {
	rec := serve(t, &fakeSource{records: loanRecords(4)}, "/loans")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "B004")
	assert.NotContains(t, rec.Body.String(), "Previous")
}

func TestLoans_BadPage(t *testing.T) {
	src := &fakeSource{records: loanRecords(25)}

	rec := serve(t, src, "/loans?page=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `invalid page &#34;abc&#34;`)

	rec = serve(t, src, "/loans?page=9")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page 9 does not exist.")
}

func TestLoans_NetworkError(t *testing.T) {
	rec := serve(t, &fakeSource{loansErr: fmt.Errorf("dial: %w", loanapi.ErrNetwork)}, "/loans")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch loan data. Please check the backend server.")
	assert.NotContains(t, rec.Body.String(), "dial")
}

func TestLoans_Malformed(t *testing.T) {
	rec := serve(t, &fakeSource{loansErr: fmt.Errorf("x: %w", loanapi.ErrMalformedResponse)}, "/loans")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<td colspan="3">No data available or invalid format</td>`)
	assert.NotContains(t, rec.Body.String(), "Failed to fetch")
}

func TestLoans_UndecodableBodyAlerts(t *testing.T) {
	rec := serve(t, &fakeSource{loansErr: fmt.Errorf("loans: %w", loanapi.ErrUndecodable)}, "/loans")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch loan data. Please check the backend server.")
	assert.NotContains(t, rec.Body.String(), "invalid format")
}

func TestPredict(t *testing.T) {
	src := &fakeSource{prediction: loanapi.Prediction{Date: "2025-05-01", Value: loanapi.NewMetricValue(json.RawMessage("118"))}}
	rec := serve(t, src, "/predict?date=2025-05-01&is_peak_season=on&model_no=3")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>118</td>")
	assert.Equal(t, loanapi.PredictRequest{Date: "2025-05-01", PeakSeason: true, ModelNo: 3}, src.lastReq)
}

func TestPredict_Errors(t *testing.T) {
	rec := serve(t, &fakeSource{}, "/predict?date=2025-05-01&model_no=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, &fakeSource{predictErr: fmt.Errorf("%w: date", loanapi.ErrInvalidRequest)}, "/predict")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid prediction request")

	rec = serve(t, &fakeSource{predictErr: loanapi.ErrUpstreamUnavailable}, "/predict?date=2025-05-01")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch prediction. Please check the backend server.")
}

func TestEvaluate(t *testing.T) {
	src := &fakeSource{eval: loanapi.Evaluation{Models: []loanapi.ModelMetrics{
		{Key: "model_1", MSE: loanapi.NewMetricValue(json.RawMessage("0.25"))},
		{Key: "model_2", Error: "not trained"},
	}}}
	rec := serve(t, src, "/evaluate")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<table id="errorTable">`)
	assert.Contains(t, body, "<td>0.2500</td>")
	assert.Contains(t, body, `<td colspan="4">Error: not trained</td>`)

	rec = serve(t, &fakeSource{evalErr: loanapi.ErrNetwork}, "/evaluate")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch model error metrics. Please check the backend server.")
}

func TestHealthAndMetrics(t *testing.T) {
	rec := serve(t, &fakeSource{}, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = serve(t, &fakeSource{}, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRequestIDIsPropagated(t *testing.T) {
	router, err := NewRouter(Deps{Source: &fakeSource{}, Logger: zerolog.Nop()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "01HZX")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "01HZX", rec.Header().Get(RequestIDHeader))
}

func TestModuleGraph(t *testing.T) {
	err := fx.ValidateApp(
		fx.Supply(config.Defaults()),
		fx.Supply(zerolog.Nop()),
		Module,
	)
	require.NoError(t, err)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := config.Defaults()
	cfg.Web.Addr = "127.0.0.1:9999"
	router, err := NewRouter(Deps{Source: &fakeSource{}, Logger: zerolog.Nop()})
	require.NoError(t, err)

	srv := NewHTTPServer(cfg, router)
	assert.Equal(t, "127.0.0.1:9999", srv.Addr)
	assert.Equal(t, readHeaderTimeout, srv.ReadHeaderTimeout)
}
