package models

// MChartFigure is a Plotly-compatible figure document ({data, layout}).
type MChartFigure struct {
	Data   []MChartTrace `json:"data"`
	Layout MChartLayout  `json:"layout"`
}

// MChartTrace is one trace of the figure. Only the fields used by
// candlestick, scatter and bar traces are modelled.
type MChartTrace struct {
	Type   string       `json:"type"`
	Name   string       `json:"name"`
	Mode   string       `json:"mode,omitempty"`
	X      []string     `json:"x"`
	Y      []float64    `json:"y,omitempty"`
	Open   []float64    `json:"open,omitempty"`
	High   []float64    `json:"high,omitempty"`
	Low    []float64    `json:"low,omitempty"`
	Close  []float64    `json:"close,omitempty"`
	XAxis  string       `json:"xaxis"`
	YAxis  string       `json:"yaxis"`
	Line   *MChartLine  `json:"line,omitempty"`
	Marker *MChartColor `json:"marker,omitempty"`
}

type MChartLine struct {
	Color string `json:"color"`
	Dash  string `json:"dash,omitempty"`
}

type MChartColor struct {
	Color string `json:"color"`
}

type MChartAxis struct {
	Domain       []float64 `json:"domain,omitempty"`
	Anchor       string    `json:"anchor,omitempty"`
	Matches      string    `json:"matches,omitempty"`
	ShowGrid     bool      `json:"showgrid"`
	GridWidth    int       `json:"gridwidth,omitempty"`
	GridColor    string    `json:"gridcolor,omitempty"`
	RangeSlider  *MVisible `json:"rangeslider,omitempty"`
	ShowTickText *bool     `json:"showticklabels,omitempty"`
}

type MVisible struct {
	Visible bool `json:"visible"`
}

type MChartLegend struct {
	YAnchor string  `json:"yanchor"`
	Y       float64 `json:"y"`
	XAnchor string  `json:"xanchor"`
	X       float64 `json:"x"`
}

type MChartMargin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type MChartLayout struct {
	Title        string       `json:"title"`
	Height       int          `json:"height"`
	Template     string       `json:"template"`
	ShowLegend   bool         `json:"showlegend"`
	Legend       MChartLegend `json:"legend"`
	Margin       MChartMargin `json:"margin"`
	PaperBgColor string       `json:"paper_bgcolor"`
	PlotBgColor  string       `json:"plot_bgcolor"`
	XAxis        MChartAxis   `json:"xaxis"`
	XAxis2       MChartAxis   `json:"xaxis2"`
	YAxis        MChartAxis   `json:"yaxis"`
	YAxis2       MChartAxis   `json:"yaxis2"`
}
