package analysis

import (
	"fmt"
	"math"

	"market-analyzer/src/analysis/core"
	"market-analyzer/src/helpers"
	"market-analyzer/src/models"

	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

// FormatNumber renders a metric with a K/M/B magnitude suffix and two
// decimals. Missing values render as "N/A".
func FormatNumber(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return notAvailable
	}
	n := *v
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.2fK", n/1e3)
	default:
		return fmt.Sprintf("%.2f", n)
	}
}

// -----------------------------------------------------------------------------

// KeyMetrics returns the dashboard metric grid in display order.
func KeyMetrics(info models.MIssuerMetadata) []models.MKeyMetric {
	return []models.MKeyMetric{
		{Label: "Market Cap", Value: FormatNumber(info.MarketCap)},
		{Label: "P/E Ratio", Value: FormatNumber(info.TrailingPE)},
		{Label: "52 Week High", Value: FormatNumber(info.FiftyTwoWeekHigh)},
		{Label: "52 Week Low", Value: FormatNumber(info.FiftyTwoWeekLow)},
		{Label: "Volume", Value: FormatNumber(info.Volume)},
		{Label: "Avg Volume", Value: FormatNumber(info.AverageVolume)},
	}
}

// -----------------------------------------------------------------------------

// PriceSummary compares the latest close with the one before it.
func PriceSummary(history models.MPriceHistory) (*models.MPriceSummary, error) {
	closes := make([]float64, 0, 2)
	for i := len(history.Bars) - 1; i >= 0 && len(closes) < 2; i-- {
		if c := history.Bars[i].Close; core.IsFinite(c) {
			closes = append(closes, c)
		}
	}
	if len(closes) < 2 {
		return nil, helpers.NewError(helpers.ErrInsufficientHistory, "Not enough historical data", nil)
	}

	current := decimal.NewFromFloat(closes[0])
	previous := decimal.NewFromFloat(closes[1])
	change := current.Sub(previous)

	pct := notAvailable
	if !previous.IsZero() {
		pct = signed(change.Div(previous).Mul(decimal.NewFromInt(100))) + "%"
	}

	return &models.MPriceSummary{
		CurrentPrice:  "$" + current.StringFixed(2),
		Change:        signed(change),
		ChangePercent: pct,
	}, nil
}

// signed renders d with two decimals and an explicit sign.
func signed(d decimal.Decimal) string {
	r := d.Round(2)
	if r.Sign() >= 0 {
		return "+" + r.StringFixed(2)
	}
	return r.StringFixed(2)
}
