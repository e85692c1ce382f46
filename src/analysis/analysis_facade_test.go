package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-analyzer/src/chart"
	"market-analyzer/src/helpers"
	"market-analyzer/src/models"
	"market-analyzer/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	data   *models.MStockData
	err    error
	symbol string
	period string
}

func (s *fixedSource) Name() string { return "fixed" }

func (s *fixedSource) Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error) {
	s.symbol, s.period = symbol, period
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func newTestFacade(src *fixedSource) *AnalysisFacade {
	cfg := &models.MConfig{
		DataSource: models.MDataSourceConfig{DefaultPeriod: "1y"},
		Forecast:   models.MForecastConfig{MaxHorizonDays: 366},
	}
	return NewAnalysisFacade(cfg, src, chart.NewComposer(), utils.NewMarketScheduler(nil), nil)
}

func stockData(h models.MPriceHistory) *models.MStockData {
	return &models.MStockData{
		History: h,
		Info: models.MIssuerMetadata{
			DisplayName: "Test Corp",
			Sector:      "Technology",
			Industry:    "Software",
			MarketCap:   models.Float(2.5e9),
		},
		Source: "fixed",
	}
}

func TestHorizonDays(t *testing.T) {
	assert.Equal(t, 30, HorizonDays(1))
	assert.Equal(t, 182, HorizonDays(6))
	assert.Equal(t, 365, HorizonDays(12))
}

func TestNormalizeDefaults(t *testing.T) {
	f := newTestFacade(&fixedSource{})

	req, err := f.Normalize(AnalysisRequest{Symbol: "  msft "})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", req.Symbol)
	assert.Equal(t, "1y", req.Period)
	assert.Equal(t, DefaultMonths, req.Months)

	req, err = f.Normalize(AnalysisRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSymbol, req.Symbol)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	f := newTestFacade(&fixedSource{})

	_, err := f.Normalize(AnalysisRequest{Period: "10y"})
	assert.ErrorIs(t, err, helpers.ErrValidation)

	_, err = f.Normalize(AnalysisRequest{Months: 13})
	assert.ErrorIs(t, err, helpers.ErrValidation)

	_, err = f.Normalize(AnalysisRequest{Months: -1})
	assert.ErrorIs(t, err, helpers.ErrValidation)
}

func TestAnalyzeWithForecast(t *testing.T) {
	h := risingWithPullbacks(60, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	src := &fixedSource{data: stockData(h)}
	f := newTestFacade(src)

	res, data, err := f.Analyze(context.Background(), AnalysisRequest{Symbol: "test", Period: "3mo", Months: 1, Forecast: true})
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "TEST", src.symbol)
	assert.Equal(t, "3mo", src.period)

	assert.Equal(t, "Test Corp", res.DisplayName)
	assert.Equal(t, "Technology | Software", res.Subtitle)
	require.NotNil(t, res.Summary)
	assert.Equal(t, "$118.50", res.Summary.CurrentPrice)
	assert.Equal(t, "2.50B", res.Metrics[0].Value)
	assert.Equal(t, "fixed", res.Source)

	require.NotNil(t, res.Forecast)
	assert.NotEmpty(t, res.Forecast.Points)
	assert.LessOrEqual(t, res.Forecast.Len(), 30)

	require.NotNil(t, res.Chart)
	require.Len(t, res.Chart.Data, 3)
	assert.Equal(t, "Predicted", res.Chart.Data[1].Name)
}

func TestAnalyzeWithoutForecast(t *testing.T) {
	h := risingWithPullbacks(60, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	f := newTestFacade(&fixedSource{data: stockData(h)})

	res, _, err := f.Analyze(context.Background(), AnalysisRequest{Symbol: "TEST"})
	require.NoError(t, err)
	assert.Nil(t, res.Forecast)
	assert.Len(t, res.Chart.Data, 2)
	assert.Empty(t, res.Warning)
}

func TestAnalyzeForecastFailureIsAWarning(t *testing.T) {
	data := stockData(strictlyRising(40, 1))
	data.Info = models.MIssuerMetadata{}
	f := newTestFacade(&fixedSource{data: data})

	res, _, err := f.Analyze(context.Background(), AnalysisRequest{Symbol: "UP", Forecast: true})
	require.NoError(t, err)
	assert.Nil(t, res.Forecast)
	assert.Equal(t, "insufficient_prepared_data", res.WarningKind)
	assert.Equal(t, "Not enough data points after preparing features", res.Warning)
	assert.Equal(t, "UP", res.DisplayName)
	assert.Empty(t, res.Subtitle)
	assert.NotNil(t, res.Chart)
}

func TestAnalyzeSingleBar(t *testing.T) {
	f := newTestFacade(&fixedSource{data: stockData(strictlyRising(1, 1))})

	res, _, err := f.Analyze(context.Background(), AnalysisRequest{Symbol: "UP", Forecast: true})
	require.NoError(t, err)
	assert.Nil(t, res.Summary)
	assert.Nil(t, res.Chart)
	assert.Equal(t, "Not enough historical data available for this stock.", res.Warning)
}

func TestAnalyzeProviderErrors(t *testing.T) {
	f := newTestFacade(&fixedSource{err: helpers.NewError(helpers.ErrDataUnavailable, "No data available for ZZZZ", nil)})
	_, _, err := f.Analyze(context.Background(), AnalysisRequest{Symbol: "ZZZZ"})
	assert.ErrorIs(t, err, helpers.ErrDataUnavailable)
	assert.Equal(t, "No data available for ZZZZ", helpers.UserMessage(err))

	f = newTestFacade(&fixedSource{err: errors.New("connection reset")})
	_, _, err = f.Analyze(context.Background(), AnalysisRequest{Symbol: "ZZZZ"})
	assert.ErrorIs(t, err, helpers.ErrDataUnavailable)

	f = newTestFacade(&fixedSource{data: &models.MStockData{}})
	_, _, err = f.Analyze(context.Background(), AnalysisRequest{Symbol: "ZZZZ"})
	assert.ErrorIs(t, err, helpers.ErrDataUnavailable)
}

func TestAnalyzeKeepsPartialForecast(t *testing.T) {
	f := newTestFacade(&fixedSource{data: stockData(risingWithPullbacks(60, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))})
	f.Engine.Fit = explodingFit

	res, _, err := f.Analyze(context.Background(), AnalysisRequest{Symbol: "TEST", Forecast: true})
	require.NoError(t, err)
	require.NotNil(t, res.Forecast)
	assert.Equal(t, 3, res.Forecast.Len())
	assert.Equal(t, "partial_forecast", res.WarningKind)
	assert.Equal(t, "Forecast stopped after 3 of 182 days", res.Warning)

	require.Len(t, res.Chart.Data, 3)
	assert.Len(t, res.Chart.Data[1].Y, 3)
}

func TestFetchHistoryWrapsProviderErrors(t *testing.T) {
	src := &fixedSource{err: errors.New("connection reset")}
	f := newTestFacade(src)

	data, req, err := f.FetchHistory(context.Background(), AnalysisRequest{Symbol: " msft ", Period: "3mo"})
	assert.Nil(t, data)
	assert.Equal(t, "MSFT", req.Symbol)
	assert.Equal(t, "MSFT", src.symbol)
	assert.Equal(t, "3mo", src.period)
	assert.ErrorIs(t, err, helpers.ErrDataUnavailable)
	assert.Equal(t, "Failed to fetch stock data. Please check the symbol and try again.", helpers.UserMessage(err))

	src.err = context.Canceled
	_, _, err = f.FetchHistory(context.Background(), AnalysisRequest{Symbol: "MSFT"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, helpers.KindOf(err))

	_, _, err = f.FetchHistory(context.Background(), AnalysisRequest{Symbol: "MSFT", Period: "10y"})
	assert.ErrorIs(t, err, helpers.ErrValidation)
}

func TestFetchHistory(t *testing.T) {
	f := newTestFacade(&fixedSource{data: stockData(risingWithPullbacks(30, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))})

	data, req, err := f.FetchHistory(context.Background(), AnalysisRequest{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSymbol, req.Symbol)
	assert.Equal(t, "1y", req.Period)
	assert.Equal(t, 30, data.History.Len())
}
