package interfaces

import "market-analyzer/src/models"

// -----------------------------------------------------------------------------
// IChartComposer turns a price history and an optional forecast into a
// renderable figure.
// -----------------------------------------------------------------------------

type IChartComposer interface {

	// Compose builds the two-panel price/volume figure. forecast may be nil.
	Compose(history models.MPriceHistory, forecast *models.MForecastSeries) *models.MChartFigure
}
