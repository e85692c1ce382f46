package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"market-analyzer/src/analysis"
	"market-analyzer/src/export"
	"market-analyzer/src/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	forecastPeriod string
	forecastMonths int
	forecastSkip   bool
	forecastCSV    bool

	forecastCmd = &cobra.Command{
		Use:   "forecast SYMBOL",
		Short: "Print a symbol summary, key metrics and the projected closes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runForecast,
	}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E88E5"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#757575"))
	upStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C62828"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9A825"))
	labelStyle   = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("#757575"))
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func init() {
	forecastCmd.Flags().StringVarP(&forecastPeriod, "period", "p", "", "history period (1mo, 3mo, 6mo, 1y, 2y, 5y)")
	forecastCmd.Flags().IntVarP(&forecastMonths, "months", "m", analysis.DefaultMonths, "prediction period in months (1-12)")
	forecastCmd.Flags().BoolVar(&forecastSkip, "no-forecast", false, "only show the summary and metrics")
	forecastCmd.Flags().BoolVar(&forecastCSV, "csv", false, "also write the history to SYMBOL_stock_data.csv")
}

// -----------------------------------------------------------------------------

func runForecast(cmd *cobra.Command, args []string) error {
	app, err := setupApp(configPath, false)
	if err != nil {
		return err
	}
	defer app.Close()

	req := analysis.AnalysisRequest{
		Period:   forecastPeriod,
		Months:   forecastMonths,
		Forecast: !forecastSkip,
	}
	if len(args) == 1 {
		req.Symbol = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	result, data, err := app.Analysis.Analyze(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderAnalysis(result))

	if forecastCSV {
		name := export.FileName(result.Symbol)
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteCSV(f, data.History); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("Wrote "+name))
	}
	return nil
}

// -----------------------------------------------------------------------------

func renderAnalysis(a *models.MAnalysis) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(a.DisplayName + " (" + a.Symbol + ")"))
	b.WriteString("\n")
	if a.Subtitle != "" {
		b.WriteString(subtleStyle.Render(a.Subtitle))
		b.WriteString("\n")
	}
	state := "closed"
	if a.MarketStatus.Open {
		state = "open"
	}
	b.WriteString(subtleStyle.Render(fmt.Sprintf("%s market %s, data from %s", a.MarketStatus.Exchange, state, a.Source)))
	b.WriteString("\n\n")

	if s := a.Summary; s != nil {
		style := upStyle
		if strings.HasPrefix(s.Change, "-") {
			style = downStyle
		}
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(s.CurrentPrice) + "  " +
			style.Render(s.Change+" ("+s.ChangePercent+")"))
		b.WriteString("\n\n")
	}

	var rows []string
	for _, m := range a.Metrics {
		rows = append(rows, labelStyle.Render(m.Label)+m.Value)
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if a.Forecast != nil && a.Forecast.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render(fmt.Sprintf("Predicted close, %d days", a.Forecast.Len())))
		b.WriteString("\n")
		b.WriteString(renderForecast(a.Forecast))
	}

	if a.Warning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(a.Warning))
	}
	return b.String()
}

// -----------------------------------------------------------------------------

// renderForecast lists one point per week plus the final one.
func renderForecast(f *models.MForecastSeries) string {
	var rows []string
	last := f.Len() - 1
	for i, p := range f.Points {
		if i%7 != 0 && i != last {
			continue
		}
		rows = append(rows, labelStyle.Render(p.Date.Format(time.DateOnly))+fmt.Sprintf("$%.2f", p.PredictedClose))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}
