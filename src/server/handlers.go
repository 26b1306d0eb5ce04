package server

import (
	"net/http"
	"strconv"

	"stock-insight/src/charts"
	"stock-insight/src/helpers"
	"stock-insight/src/models"

	"github.com/gin-gonic/gin"
)

const (
	defaultLookupLimit = 20
	maxLookupLimit     = 500
)

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getIndex(c *gin.Context) {
	page, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		s.Logger.Error("index.html missing from embedded assets: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getStockData(c *gin.Context) {
	s.lookups.Add(1)

	report, err := s.Service.Lookup(c.Request.Context(), c.PostForm("symbol"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// -----------------------------------------------------------------------------

// writeError renders a failed lookup as {error, kind}.
func (s *APIServer) writeError(c *gin.Context, err error) {
	kind := helpers.KindOf(err)
	status := helpers.HTTPStatus(kind)
	if kind == helpers.KindInternal {
		s.Logger.Error("Unclassified lookup failure: %v", err)
	}
	if s.Config.Server.AlwaysOKStatus {
		status = http.StatusOK
	}

	c.JSON(status, models.MErrorResponse{
		Error: helpers.PublicMessage(err),
		Kind:  string(kind),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getConfig(c *gin.Context) {
	mode := s.Config.Charts.Mode
	if mode == "" {
		mode = charts.ModeFull
	}
	window := s.Config.Charts.MovingAverageWindow
	if window <= 0 {
		window = charts.DefaultMovingAverageWindow
	}

	c.JSON(http.StatusOK, gin.H{
		"chart_mode":            mode,
		"moving_average_window": window,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": s.hub.Connections(),
		"lookups":     s.lookups.Load(),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getLookups(c *gin.Context) {
	if s.Recorder == nil {
		c.JSON(http.StatusOK, []models.MLookupRecord{})
		return
	}

	records, err := s.Recorder.Recent(parseLimit(c.Query("limit")))
	if err != nil {
		s.Logger.Error("Failed to read lookup history: %v", err)
		c.JSON(http.StatusInternalServerError, models.MErrorResponse{
			Error: "lookup history unavailable",
			Kind:  string(helpers.KindInternal),
		})
		return
	}
	c.JSON(http.StatusOK, records)
}

// -----------------------------------------------------------------------------

// parseLimit falls back to the default for anything that is not a positive
// integer and caps large values.
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultLookupLimit
	}
	if n > maxLookupLimit {
		return maxLookupLimit
	}
	return n
}
