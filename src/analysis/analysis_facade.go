package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"market-analyzer/src/helpers"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/metrics"
	"market-analyzer/src/models"
	"market-analyzer/src/utils"
)

const (
	DefaultSymbol = "AAPL"
	DefaultMonths = 6
	MinMonths     = 1
	MaxMonths     = 12
	daysPerMonth  = 30.44
)

var validPeriods = map[string]bool{"1mo": true, "3mo": true, "6mo": true, "1y": true, "2y": true, "5y": true}

// AnalysisRequest is one dashboard lookup.
type AnalysisRequest struct {
	Symbol   string
	Period   string
	Months   int
	Forecast bool
}

// AnalysisFacade runs a dashboard lookup end to end: fetch, summarise,
// chart and optionally forecast.
type AnalysisFacade struct {
	Config    *models.MConfig
	Source    interfaces.IDataSource
	Engine    *ForecastEngine
	Charts    interfaces.IChartComposer
	Scheduler *utils.MarketScheduler
	Logger    *logger.Logger
}

// -----------------------------------------------------------------------------

func NewAnalysisFacade(cfg *models.MConfig, source interfaces.IDataSource, charts interfaces.IChartComposer, scheduler *utils.MarketScheduler, log *logger.Logger) *AnalysisFacade {
	return &AnalysisFacade{
		Config:    cfg,
		Source:    source,
		Engine:    NewForecastEngine(cfg.Forecast, scheduler, log.Named("ForecastEngine")),
		Charts:    charts,
		Scheduler: scheduler,
		Logger:    log,
	}
}

// -----------------------------------------------------------------------------

// HorizonDays converts a prediction period in months to days.
func HorizonDays(months int) int {
	return int(float64(months) * daysPerMonth)
}

// -----------------------------------------------------------------------------

// Normalize fills defaults and validates the request.
func (a *AnalysisFacade) Normalize(req AnalysisRequest) (AnalysisRequest, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		req.Symbol = DefaultSymbol
	}

	if req.Period == "" {
		req.Period = a.Config.DataSource.DefaultPeriod
	}
	if req.Period == "" {
		req.Period = "1y"
	}
	if !validPeriods[req.Period] {
		return req, helpers.NewError(helpers.ErrValidation,
			fmt.Sprintf("Unsupported period %q, use one of 1mo, 3mo, 6mo, 1y, 2y, 5y", req.Period), nil)
	}

	if req.Months == 0 {
		req.Months = DefaultMonths
	}
	if req.Months < MinMonths || req.Months > MaxMonths {
		return req, helpers.NewError(helpers.ErrValidation,
			fmt.Sprintf("Prediction period must be between %d and %d months", MinMonths, MaxMonths), nil)
	}
	return req, nil
}

// -----------------------------------------------------------------------------

// FetchHistory normalises req and loads its price history. Provider failures
// without a kind are reported as ErrDataUnavailable, as is an empty history.
func (a *AnalysisFacade) FetchHistory(ctx context.Context, req AnalysisRequest) (*models.MStockData, AnalysisRequest, error) {
	req, err := a.Normalize(req)
	if err != nil {
		return nil, req, err
	}

	data, err := a.Source.Fetch(ctx, req.Symbol, req.Period)
	if err != nil {
		if helpers.KindOf(err) == nil && !errors.Is(err, context.Canceled) {
			err = helpers.NewError(helpers.ErrDataUnavailable,
				"Failed to fetch stock data. Please check the symbol and try again.", err)
		}
		return nil, req, err
	}
	if data == nil || data.History.Len() == 0 {
		return nil, req, helpers.NewError(helpers.ErrDataUnavailable, fmt.Sprintf("No data available for %s", req.Symbol), nil)
	}
	return data, req, nil
}

// -----------------------------------------------------------------------------

// Analyze builds the dashboard payload. Provider and validation failures are
// returned as errors; a forecast that cannot be produced only adds a warning.
func (a *AnalysisFacade) Analyze(ctx context.Context, req AnalysisRequest) (*models.MAnalysis, *models.MStockData, error) {
	// 1. Fetch
	data, req, err := a.FetchHistory(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	info := data.Info
	result := &models.MAnalysis{
		Symbol:       req.Symbol,
		Period:       req.Period,
		DisplayName:  info.DisplayName,
		Subtitle:     subtitle(info),
		Metrics:      KeyMetrics(info),
		MarketStatus: a.Scheduler.Status(req.Symbol),
		Source:       data.Source,
	}
	if result.DisplayName == "" {
		result.DisplayName = req.Symbol
	}

	// 2. Summary
	summary, err := PriceSummary(data.History)
	if err != nil {
		result.Warning = "Not enough historical data available for this stock."
		result.WarningKind = helpers.KindName(err)
		return result, data, nil
	}
	result.Summary = summary

	// 3. Forecast
	if req.Forecast {
		series, ferr := a.Engine.Forecast(data.History, HorizonDays(req.Months))
		metrics.Forecasts.WithLabelValues(forecastOutcome(ferr)).Inc()
		if ferr != nil {
			a.Logger.Warning("Forecast for %s: %v", req.Symbol, ferr)
			result.Warning = helpers.UserMessage(ferr)
			result.WarningKind = helpers.KindName(ferr)
		}
		result.Forecast = series
	}

	// 4. Chart
	result.Chart = a.Charts.Compose(data.History, result.Forecast)

	return result, data, nil
}

// -----------------------------------------------------------------------------

func subtitle(info models.MIssuerMetadata) string {
	if info.Sector == "" && info.Industry == "" {
		return ""
	}
	return info.Sector + " | " + info.Industry
}

func forecastOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, helpers.ErrPartialForecast) {
		return "partial"
	}
	return helpers.KindName(err)
}
