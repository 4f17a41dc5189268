package server

import (
	"fmt"
	"net/http"

	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// REST handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   s.connections.Load(),
		"latest_update": s.lastUpdate.Load(),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":           s.Config.Name,
		"windows":        models.WindowLabels(),
		"default_window": s.Service.DefaultWindow.Label,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSymbols(c *gin.Context) {
	symbols, err := s.Service.Symbols(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbols": symbols, "count": len(symbols)})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getWindows(c *gin.Context) {
	c.JSON(http.StatusOK, models.Windows)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getCompany(c *gin.Context) {
	record, err := s.Service.Company(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// -----------------------------------------------------------------------------

// snapshot computes the selection named by the path and ?window= query.
func (s *DashboardServer) snapshot(c *gin.Context) (*dashboard.Snapshot, bool) {
	snap, err := s.Service.Snapshot(c.Request.Context(), c.Param("symbol"), c.Query("window"))
	if err != nil {
		s.respondError(c, err)
		return nil, false
	}
	return snap, true
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSummary(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.View.Summary)
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getChart(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.View.Chart)
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getView(c *gin.Context) {
	if snap, ok := s.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.View)
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getDownload(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	data, err := snap.CSV()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snap.View.Download.FileName))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postCatalogRefresh(c *gin.Context) {
	catalog, err := s.Service.Catalog.Refresh(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "refreshed",
		"rows":       len(catalog.Rows),
		"symbols":    len(catalog.Symbols()),
		"fetched_at": catalog.FetchedAt,
	})
}
