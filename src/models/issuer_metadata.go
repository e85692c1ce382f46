package models

// MIssuerMetadata holds descriptive and fundamental data about the issuer.
// Nil pointers mean the provider did not report the field.
type MIssuerMetadata struct {
	DisplayName      string   `json:"display_name"`
	Sector           string   `json:"sector"`
	Industry         string   `json:"industry"`
	Exchange         string   `json:"exchange"`
	Currency         string   `json:"currency"`
	MarketCap        *float64 `json:"market_cap"`
	TrailingPE       *float64 `json:"trailing_pe"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low"`
	Volume           *float64 `json:"volume"`
	AverageVolume    *float64 `json:"average_volume"`
}

// Float is a small helper for building optional metric values.
func Float(v float64) *float64 {
	return &v
}
