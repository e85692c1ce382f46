package analysis

import (
	"time"

	"market-analyzer/src/models"
)

// risingWithPullbacks builds n daily bars ending on end. The close climbs 0.50
// a day from 100 and gives back 0.50 on every fifth day.
func risingWithPullbacks(n int, end time.Time) models.MPriceHistory {
	bars := make([]models.MPriceBar, n)
	start := end.AddDate(0, 0, -(n - 1))
	price := 100.0
	for i := 0; i < n; i++ {
		if i > 0 {
			if i%5 == 0 {
				price -= 0.5
			} else {
				price += 0.5
			}
		}
		bars[i] = models.MPriceBar{
			Date:   start.AddDate(0, 0, i),
			Open:   price - 0.25,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1_000_000,
		}
	}
	return models.MPriceHistory{Symbol: "TEST", Period: "3mo", Bars: bars}
}

// strictlyRising builds n daily bars whose close gains step every day.
func strictlyRising(n int, step float64) models.MPriceHistory {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.MPriceBar, n)
	for i := range bars {
		c := 100 + step*float64(i)
		bars[i] = models.MPriceBar{Date: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return models.MPriceHistory{Symbol: "UP", Period: "3mo", Bars: bars}
}
