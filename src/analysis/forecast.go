package analysis

import (
	"fmt"
	"time"

	"market-analyzer/src/analysis/core"
	"market-analyzer/src/helpers"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"
	"market-analyzer/src/utils"
)

// Step modes for forecast dates.
const (
	StepModeCalendar = "calendar"
	StepModeTrading  = "trading"
)

// ForecastEngine fits a linear model on technical features of a price history
// and rolls it forward one day at a time, feeding each prediction back in as
// the next close.
type ForecastEngine struct {
	MinHistoryBars  int
	MinPreparedRows int
	MaxHorizonDays  int
	StepMode        string
	Scheduler       *utils.MarketScheduler
	Logger          *logger.Logger

	// Fit builds the model from the prepared rows. Defaults to FitOLS.
	Fit func(X [][]float64, y []float64) (*LinearModel, error)
}

// -----------------------------------------------------------------------------

func NewForecastEngine(cfg models.MForecastConfig, scheduler *utils.MarketScheduler, log *logger.Logger) *ForecastEngine {
	e := &ForecastEngine{
		MinHistoryBars:  cfg.MinHistoryBars,
		MinPreparedRows: cfg.MinPreparedRows,
		MaxHorizonDays:  cfg.MaxHorizonDays,
		StepMode:        cfg.StepMode,
		Scheduler:       scheduler,
		Logger:          log,
		Fit:             FitOLS,
	}
	if e.MinHistoryBars <= 0 {
		e.MinHistoryBars = 10
	}
	if e.MinPreparedRows == 0 {
		e.MinPreparedRows = 10
	}
	e.MinPreparedRows = max(2, e.MinPreparedRows)
	if e.StepMode == "" {
		e.StepMode = StepModeCalendar
	}
	return e
}

// -----------------------------------------------------------------------------

// Forecast projects horizonDays closes past the last bar of history.
//
// If a step yields a non-finite close the projection stops there: the points
// produced so far are returned together with an ErrPartialForecast error, or
// nil with ErrTotalForecast when the very first step fails.
func (e *ForecastEngine) Forecast(history models.MPriceHistory, horizonDays int) (*models.MForecastSeries, error) {
	if horizonDays < 1 {
		return nil, helpers.NewError(helpers.ErrValidation,
			fmt.Sprintf("Forecast horizon must be at least one day, got %d", horizonDays), nil)
	}
	if e.MaxHorizonDays > 0 && horizonDays > e.MaxHorizonDays {
		return nil, helpers.NewError(helpers.ErrValidation,
			fmt.Sprintf("Forecast horizon must not exceed %d days, got %d", e.MaxHorizonDays, horizonDays), nil)
	}

	last, ok := history.Last()
	if !ok {
		return nil, helpers.NewError(helpers.ErrInsufficientHistory, "Not enough historical data for predictions", nil)
	}

	// 1. Clean
	bars := CleanBars(history.Bars)
	if len(bars) < e.MinHistoryBars {
		return nil, helpers.NewError(helpers.ErrInsufficientHistory,
			"Not enough historical data for predictions",
			fmt.Errorf("%d complete bars, need %d", len(bars), e.MinHistoryBars))
	}

	// 2. Features
	rows := BuildFeatureRows(bars)
	if len(rows) < e.MinPreparedRows {
		return nil, helpers.NewError(helpers.ErrInsufficientPreparedData,
			"Not enough data points after preparing features",
			fmt.Errorf("%d prepared rows, need %d", len(rows), e.MinPreparedRows))
	}

	// 3. Fit
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		X[i] = r.Vector()
		y[i] = r.Target
	}
	fit := e.Fit
	if fit == nil {
		fit = FitOLS
	}
	model, err := fit(X, y)
	if err != nil {
		return nil, helpers.NewError(helpers.ErrTotalForecast, "Error making predictions", err)
	}

	// 4. Project
	preds, _, stepErr := project(model, rows[len(rows)-1].Vector(), horizonDays)

	series := &models.MForecastSeries{Symbol: history.Symbol, Points: make([]models.MForecastPoint, len(preds))}
	date := last.Date
	for i, p := range preds {
		date = e.nextDate(history.Symbol, last.Date, date, i)
		series.Points[i] = models.MForecastPoint{Date: date, PredictedClose: p}
	}

	if stepErr != nil {
		if len(preds) == 0 {
			return nil, helpers.NewError(helpers.ErrTotalForecast, "Error making predictions", stepErr)
		}
		if e.Logger != nil {
			e.Logger.Warning("Forecast for %s stopped after %d of %d steps: %v", history.Symbol, len(preds), horizonDays, stepErr)
		}
		return series, helpers.NewError(helpers.ErrPartialForecast,
			fmt.Sprintf("Forecast stopped after %d of %d days", len(preds), horizonDays), stepErr)
	}

	if e.Logger != nil {
		e.Logger.Debug("Forecast for %s: %d rows, %d steps", history.Symbol, len(rows), len(preds))
	}
	return series, nil
}

// -----------------------------------------------------------------------------

// nextDate returns the date of step i. Calendar mode counts days from the last
// bar; trading mode advances prev to the exchange's next session.
func (e *ForecastEngine) nextDate(symbol string, last, prev time.Time, i int) time.Time {
	if e.StepMode == StepModeTrading && e.Scheduler != nil {
		return e.Scheduler.NextTradingDay(symbol, prev)
	}
	return last.AddDate(0, 0, i+1)
}

// -----------------------------------------------------------------------------

// project rolls the model forward from the last prepared feature vector. It
// returns the predictions and the input vector used at each step. Volume, RSI
// and volatility stay at their last historical values.
func project(model *LinearModel, start []float64, steps int) (preds []float64, inputs [][]float64, err error) {
	x := make([]float64, len(start))
	copy(x, start)

	preds = make([]float64, 0, steps)
	inputs = make([][]float64, 0, steps)
	for i := 0; i < steps; i++ {
		in := make([]float64, len(x))
		copy(in, x)
		inputs = append(inputs, in)

		p, err := model.Predict(x)
		if err != nil {
			return preds, inputs, fmt.Errorf("step %d: %w", i, err)
		}
		preds = append(preds, p)

		x[models.FeatClose] = p
		if i >= ShortSMAWindow-1 {
			x[models.FeatSMA5] = core.Mean(preds[len(preds)-ShortSMAWindow:])
		}
		if i >= LongSMAWindow-1 {
			x[models.FeatSMA20] = core.Mean(preds[len(preds)-LongSMAWindow:])
		}
	}
	return preds, inputs, nil
}
