package financego

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"market-analyzer/src/helpers"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

// BarFetcher returns the daily bars of symbol between start and end.
type BarFetcher func(symbol string, start, end time.Time) ([]finance.ChartBar, error)

// EquityFetcher returns the equity quote of symbol.
type EquityFetcher func(symbol string) (*finance.Equity, error)

// FinanceGoSource serves bars and issuer fundamentals through
// piquette/finance-go.
type FinanceGoSource struct {
	SourceConfig models.MSourceConfig
	Bars         BarFetcher
	Equity       EquityFetcher
	Now          func() time.Time
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func NewFinanceGoSource(sourceCfg models.MSourceConfig, log *logger.Logger) *FinanceGoSource {
	return &FinanceGoSource{
		SourceConfig: sourceCfg,
		Bars:         fetchChartBars,
		Equity:       equity.Get,
		Now:          time.Now,
		Logger:       log.Named("FinanceGoSource-" + sourceCfg.Name),
	}
}

// -----------------------------------------------------------------------------

func (s *FinanceGoSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// Fetch retrieves the daily bars for period and the equity fundamentals.
func (s *FinanceGoSource) Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := s.Now().UTC()
	start, err := PeriodStart(end, period)
	if err != nil {
		return nil, helpers.NewError(helpers.ErrValidation, err.Error(), nil)
	}

	raw, err := s.Bars(symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("chart request for %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, helpers.NewError(helpers.ErrDataUnavailable, fmt.Sprintf("No data found for symbol %s", symbol), nil)
	}

	bars := make([]models.MPriceBar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, convertBar(b))
	}

	info, err := s.FetchInfo(ctx, symbol)
	if err != nil {
		s.Logger.Warning("No fundamentals for %s: %v", symbol, err)
		info = &models.MIssuerMetadata{}
	}

	s.Logger.Info("Fetched %s: %d bars", symbol, len(bars))
	return &models.MStockData{
		History:   models.MPriceHistory{Symbol: symbol, Period: period, Bars: bars},
		Info:      *info,
		Source:    s.Name(),
		FetchedAt: end,
	}, nil
}

// -----------------------------------------------------------------------------

// FetchInfo returns issuer metadata from the equity quote.
func (s *FinanceGoSource) FetchInfo(ctx context.Context, symbol string) (*models.MIssuerMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eq, err := s.Equity(symbol)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, helpers.NewError(helpers.ErrDataUnavailable, fmt.Sprintf("No data found for symbol %s", symbol), nil)
	}
	return convertEquity(eq), nil
}

// -----------------------------------------------------------------------------

// PeriodStart maps a period string to the first date it covers.
func PeriodStart(end time.Time, period string) (time.Time, error) {
	switch strings.ToLower(period) {
	case "1mo":
		return end.AddDate(0, -1, 0), nil
	case "3mo":
		return end.AddDate(0, -3, 0), nil
	case "6mo":
		return end.AddDate(0, -6, 0), nil
	case "1y":
		return end.AddDate(-1, 0, 0), nil
	case "2y":
		return end.AddDate(-2, 0, 0), nil
	case "5y":
		return end.AddDate(-5, 0, 0), nil
	default:
		return time.Time{}, errors.New("unsupported period " + period)
	}
}

// -----------------------------------------------------------------------------

func fetchChartBars(symbol string, start, end time.Time) ([]finance.ChartBar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var bars []finance.ChartBar
	for iter.Next() {
		bars = append(bars, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return bars, nil
}

// -----------------------------------------------------------------------------

func convertBar(b finance.ChartBar) models.MPriceBar {
	t := time.Unix(int64(b.Timestamp), 0).UTC()
	return models.MPriceBar{
		Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
		Open:   b.Open.InexactFloat64(),
		High:   b.High.InexactFloat64(),
		Low:    b.Low.InexactFloat64(),
		Close:  b.Close.InexactFloat64(),
		Volume: float64(b.Volume),
	}
}

// -----------------------------------------------------------------------------

func convertEquity(eq *finance.Equity) *models.MIssuerMetadata {
	name := eq.LongName
	if name == "" {
		name = eq.ShortName
	}
	return &models.MIssuerMetadata{
		DisplayName:      name,
		Exchange:         eq.FullExchangeName,
		Currency:         eq.CurrencyID,
		MarketCap:        positive(float64(eq.MarketCap)),
		TrailingPE:       positive(eq.TrailingPE),
		FiftyTwoWeekHigh: positive(eq.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  positive(eq.FiftyTwoWeekLow),
		Volume:           positive(float64(eq.RegularMarketVolume)),
		AverageVolume:    positive(float64(eq.AverageDailyVolume3Month)),
	}
}

// positive treats the zero value the library reports for absent fields as
// missing.
func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return models.Float(v)
}
