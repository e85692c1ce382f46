package server

import (
	"net/http"
	"strconv"

	"market-analyzer/src/analysis"
	"market-analyzer/src/export"
	"market-analyzer/src/helpers"

	"github.com/gin-gonic/gin"
)

// analysisRequest reads the symbol path parameter and the period, months
// and forecast query parameters.
func analysisRequest(c *gin.Context) (analysis.AnalysisRequest, error) {
	req := analysis.AnalysisRequest{
		Symbol: c.Param("symbol"),
		Period: c.Query("period"),
	}

	if v := c.Query("months"); v != "" {
		months, err := strconv.Atoi(v)
		if err != nil {
			return req, helpers.NewError(helpers.ErrValidation, "Prediction period must be a whole number of months", err)
		}
		req.Months = months
	}

	if v := c.Query("forecast"); v != "" {
		forecast, err := strconv.ParseBool(v)
		if err != nil {
			return req, helpers.NewError(helpers.ErrValidation, "forecast must be true or false", err)
		}
		req.Forecast = forecast
	}
	return req, nil
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getStock(c *gin.Context) {
	req, err := analysisRequest(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, _, err := s.Deps.Analysis.Analyze(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// -----------------------------------------------------------------------------

func (s *HTTPServer) getExport(c *gin.Context) {
	req, err := analysisRequest(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	data, req, err := s.Deps.Analysis.FetchHistory(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+export.FileName(req.Symbol)+`"`)
	c.Status(http.StatusOK)
	if err := export.WriteCSV(c.Writer, data.History); err != nil {
		s.Logger.Error("CSV export for %s: %v", req.Symbol, err)
	}
}
