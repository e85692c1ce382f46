package models

import "time"

// MStockData is what a data source returns for one (symbol, period) request.
type MStockData struct {
	History   MPriceHistory   `json:"history"`
	Info      MIssuerMetadata `json:"info"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
}
