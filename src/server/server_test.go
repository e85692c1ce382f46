package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"market-analyzer/src/analysis"
	"market-analyzer/src/auth"
	"market-analyzer/src/chart"
	"market-analyzer/src/helpers"
	"market-analyzer/src/models"
	"market-analyzer/src/storage"
	"market-analyzer/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memorySource struct {
	data map[string]*models.MStockData
	errs map[string]error
}

func (m *memorySource) Name() string { return "memory" }

func (m *memorySource) Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error) {
	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	d, ok := m.data[symbol]
	if !ok {
		return nil, helpers.NewError(helpers.ErrDataUnavailable, "No data available for "+symbol, nil)
	}
	return d, nil
}

func sampleData() *models.MStockData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, 60)
	price := 100.0
	for i := range bars {
		if i > 0 {
			if i%5 == 0 {
				price -= 0.5
			} else {
				price += 0.5
			}
		}
		bars[i] = models.MPriceBar{Date: start.AddDate(0, 0, i), Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 1e6}
	}
	return &models.MStockData{
		History: models.MPriceHistory{Symbol: "ACME", Period: "1y", Bars: bars},
		Info:    models.MIssuerMetadata{DisplayName: "Acme Inc.", Sector: "Industrials", Industry: "Tools"},
		Source:  "memory",
	}
}

type testEnv struct {
	server  *HTTPServer
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := storage.NewSQLiteDB(models.MStorageConfig{DBType: "sqlite", DBPath: filepath.Join(t.TempDir(), "users.db")}, nil)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { _ = db.Close() })

	cfg := &models.MConfig{
		Host:       "127.0.0.1",
		Port:       8080,
		LogLevel:   "INFO",
		DataSource: models.MDataSourceConfig{DefaultPeriod: "1y"},
		Forecast:   models.MForecastConfig{MaxHorizonDays: 366},
	}
	src := &memorySource{
		data: map[string]*models.MStockData{"ACME": sampleData()},
		errs: map[string]error{"FLAKY": errors.New("connection reset by peer")},
	}
	facade := analysis.NewAnalysisFacade(cfg, src, chart.NewComposer(), utils.NewMarketScheduler(nil), nil)

	s := NewHTTPServer(cfg, Deps{
		Analysis: facade,
		Users:    auth.NewService(db, bcrypt.MinCost, nil),
		Sessions: auth.NewSessionStore(time.Hour, "test-secret"),
	}, nil)
	return &testEnv{server: s, handler: s.Handler()}
}

func (e *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	w := e.do("POST", "/api/auth/register", `{"username":"alice","email":"alice@example.com","password":"s3cret!","confirm_password":"s3cret!"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do("POST", "/api/auth/login", `{"username":"alice","password":"s3cret!"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t)

	w := e.do("GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = e.do("GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "market_analyzer_http_requests_total")
}

func TestDashboardPage(t *testing.T) {
	e := newTestEnv(t)
	w := e.do("GET", "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Generate Price Predictions")
}

func TestStocksRequireSession(t *testing.T) {
	e := newTestEnv(t)
	w := e.do("GET", "/api/stocks/ACME", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", decode(t, w)["error"])
}

func TestRegisterErrors(t *testing.T) {
	e := newTestEnv(t)

	w := e.do("POST", "/api/auth/register", `{"username":"bob","email":"bob@example.com","password":"s3cret!","confirm_password":"other!"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match", decode(t, w)["message"])

	e.login(t)
	w = e.do("POST", "/api/auth/register", `{"username":"alice","email":"alice@example.com","password":"s3cret!","confirm_password":"s3cret!"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "duplicate_user", decode(t, w)["error"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	w := e.do("POST", "/api/auth/login", `{"username":"alice","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid_credentials", body["error"])
	assert.Equal(t, "Invalid username or password", body["message"])
}

func TestProfileAndLogout(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	w := e.do("GET", "/api/auth/profile", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, body["created_at"])

	w = e.do("POST", "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do("GET", "/api/auth/profile", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetStockWithForecast(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	w := e.do("GET", "/api/stocks/acme?months=1&forecast=true", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.MAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ACME", res.Symbol)
	assert.Equal(t, "Acme Inc.", res.DisplayName)
	assert.Equal(t, "Industrials | Tools", res.Subtitle)
	require.NotNil(t, res.Forecast)
	assert.NotEmpty(t, res.Forecast.Points)
	require.NotNil(t, res.Chart)
	assert.Len(t, res.Chart.Data, 3)
}

func TestGetStockErrors(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	w := e.do("GET", "/api/stocks/NOPE", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "data_unavailable", decode(t, w)["error"])

	w = e.do("GET", "/api/stocks/ACME?months=13", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["error"])

	w = e.do("GET", "/api/stocks/ACME?months=abc", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do("GET", "/api/stocks/ACME?period=7y", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSV(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	w := e.do("GET", "/api/stocks/acme/export.csv?period=1y", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "ACME_stock_data.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, "Date,Open,High,Low,Close,Volume", lines[0])
	assert.Len(t, lines, 61)
}

func TestExportCSVErrors(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)

	w := e.do("GET", "/api/stocks/flaky/export.csv", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.Equal(t, "data_unavailable", body["error"])
	assert.Equal(t, "Failed to fetch stock data. Please check the symbol and try again.", body["message"])

	w = e.do("GET", "/api/stocks/NOPE/export.csv", "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do("GET", "/api/stocks/ACME/export.csv?period=7y", "", cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStockPartialForecast(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.login(t)
	e.server.Deps.Analysis.Engine.Fit = func(X [][]float64, y []float64) (*analysis.LinearModel, error) {
		coef := make([]float64, len(X[0]))
		coef[models.FeatClose] = 1e100
		return &analysis.LinearModel{Coef: coef}, nil
	}

	w := e.do("GET", "/api/stocks/ACME?months=1&forecast=true", "", cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res models.MAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotNil(t, res.Forecast)
	assert.Len(t, res.Forecast.Points, 3)
	assert.Equal(t, "partial_forecast", res.WarningKind)
	assert.Equal(t, "Forecast stopped after 3 of 30 days", res.Warning)
}

func TestLoginAcceptsFormPost(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	form := url.Values{"username": {"alice"}, "password": {"s3cret!"}}
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
