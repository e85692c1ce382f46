package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"market-analyzer/src/helpers"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com"

// YahooFinanceSource reads daily bars and basic issuer metadata from the
// Yahoo v8 chart endpoint.
type YahooFinanceSource struct {
	SourceConfig models.MSourceConfig
	BaseURL      string
	Network      interfaces.INetworkManager
	Logger       *logger.Logger
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(sourceCfg models.MSourceConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *YahooFinanceSource {
	base := strings.TrimRight(sourceCfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &YahooFinanceSource{
		SourceConfig: sourceCfg,
		BaseURL:      base,
		Network:      netMgr,
		Logger:       log.Named("YahooFinanceSource-" + sourceCfg.Name),
	}
}

// -----------------------------------------------------------------------------

// Fetch downloads the daily chart of symbol over period.
func (s *YahooFinanceSource) Fetch(ctx context.Context, symbol, period string) (*models.MStockData, error) {
	params := map[string]string{
		"interval":       "1d",
		"range":          period,
		"includePrePost": "false",
	}

	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s", s.BaseURL, url.PathEscape(symbol))

	respBytes, err := s.Network.Get(ctx, chartURL, params)
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", symbol, err)
	}

	history, info, err := s.parseChartResponse(symbol, respBytes)
	if err != nil {
		return nil, err
	}
	history.Period = period

	return &models.MStockData{
		History:   *history,
		Info:      *info,
		Source:    s.Name(),
		FetchedAt: time.Now().UTC(),
	}, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string   `json:"currency"`
				Symbol               string   `json:"symbol"`
				ExchangeName         string   `json:"exchangeName"`
				FullExchangeName     string   `json:"fullExchangeName"`
				InstrumentType       string   `json:"instrumentType"`
				LongName             string   `json:"longName"`
				ShortName            string   `json:"shortName"`
				ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
				RegularMarketPrice   float64  `json:"regularMarketPrice"`
				RegularMarketVolume  *float64 `json:"regularMarketVolume"`
				FiftyTwoWeekHigh     *float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow      *float64 `json:"fiftyTwoWeekLow"`
				ChartPreviousClose   float64  `json:"chartPreviousClose"`
				DataGranularity      string   `json:"dataGranularity"`
				Range                string   `json:"range"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) parseChartResponse(symbol string, data []byte) (*models.MPriceHistory, *models.MIssuerMetadata, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	if resp.Chart.Error != nil {
		if strings.EqualFold(resp.Chart.Error.Code, "Not Found") {
			return nil, nil, helpers.NewError(helpers.ErrDataUnavailable,
				fmt.Sprintf("No data found for symbol %s", symbol), fmt.Errorf("%s", resp.Chart.Error.Description))
		}
		return nil, nil, fmt.Errorf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Timestamp) == 0 {
		return nil, nil, helpers.NewError(helpers.ErrDataUnavailable, fmt.Sprintf("No data found for symbol %s", symbol), nil)
	}

	result := resp.Chart.Result[0]
	meta := result.Meta
	indicators := result.Indicators.Quote
	if len(indicators) == 0 {
		return nil, nil, fmt.Errorf("no quote data in response for %s", symbol)
	}
	quote := indicators[0]

	// 1. Validation: Alignment check
	n := len(result.Timestamp)
	if n != len(quote.Close) || n != len(quote.Open) || n != len(quote.High) ||
		n != len(quote.Low) || n != len(quote.Volume) {
		s.Logger.Warning("Data alignment error for %s: Mismatched array lengths", symbol)
		return nil, nil, fmt.Errorf("data alignment error for %s", symbol)
	}

	loc := time.UTC
	if meta.ExchangeTimezoneName != "" {
		if l, err := time.LoadLocation(meta.ExchangeTimezoneName); err == nil {
			loc = l
		}
	}

	// 2. Bars dated by exchange-local session day. Nulls become NaN.
	bars := make([]models.MPriceBar, 0, n)
	missing := 0
	for i, ts := range result.Timestamp {
		t := time.Unix(ts, 0).In(loc)
		bar := models.MPriceBar{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc),
			Open:   valueOrNaN(quote.Open[i]),
			High:   valueOrNaN(quote.High[i]),
			Low:    valueOrNaN(quote.Low[i]),
			Close:  valueOrNaN(quote.Close[i]),
			Volume: valueOrNaN(quote.Volume[i]),
		}
		if !bar.IsComplete() {
			missing++
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	bars = dedupeSessions(bars)

	s.Logger.Info("Fetched %s: %d bars (%d incomplete) [%s -> %s]", symbol, len(bars), missing,
		bars[0].Date.Format(time.DateOnly), bars[len(bars)-1].Date.Format(time.DateOnly))

	// 3. Metadata available from the chart meta block
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	exchange := meta.FullExchangeName
	if exchange == "" {
		exchange = meta.ExchangeName
	}
	info := &models.MIssuerMetadata{
		DisplayName:      name,
		Exchange:         exchange,
		Currency:         meta.Currency,
		FiftyTwoWeekHigh: meta.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  meta.FiftyTwoWeekLow,
		Volume:           meta.RegularMarketVolume,
	}

	return &models.MPriceHistory{Symbol: symbol, Bars: bars}, info, nil
}

// -----------------------------------------------------------------------------

func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// dedupeSessions keeps the last bar of each session day. Yahoo appends the
// live session as an extra point while the market is open.
func dedupeSessions(bars []models.MPriceBar) []models.MPriceBar {
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Date.Equal(b.Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
