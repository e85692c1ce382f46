package models

// MKeyMetric is one labelled, human-formatted issuer metric.
type MKeyMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// MPriceSummary describes the latest close against the previous one.
type MPriceSummary struct {
	CurrentPrice  string `json:"current_price"`  // "$123.45"
	Change        string `json:"change"`         // "+1.23"
	ChangePercent string `json:"change_percent"` // "+1.01%"
}

// MMarketStatus reports whether the symbol's exchange is trading right now.
type MMarketStatus struct {
	Exchange string `json:"exchange"`
	Open     bool   `json:"open"`
}

// MAnalysis is the dashboard payload for one symbol lookup.
type MAnalysis struct {
	Symbol       string           `json:"symbol"`
	Period       string           `json:"period"`
	DisplayName  string           `json:"display_name"`
	Subtitle     string           `json:"subtitle"` // "sector | industry"
	Summary      *MPriceSummary   `json:"summary,omitempty"`
	Metrics      []MKeyMetric     `json:"metrics"`
	MarketStatus MMarketStatus    `json:"market_status"`
	Chart        *MChartFigure    `json:"chart"`
	Forecast     *MForecastSeries `json:"forecast,omitempty"`
	Warning      string           `json:"warning,omitempty"`
	WarningKind  string           `json:"warning_kind,omitempty"`
	Source       string           `json:"source"`
}
