package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-price-digest/internal/report"
)

// ReportCache holds the most recent run's report for the API to serve.
type ReportCache struct {
	mu     sync.RWMutex
	report *report.Report
}

// NewReportCache creates an empty cache.
func NewReportCache() *ReportCache {
	return &ReportCache{}
}

// Set stores the latest report.
func (c *ReportCache) Set(r *report.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = r
}

// Get returns the latest report, or nil before the first completed run.
func (c *ReportCache) Get() *report.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.report
}

type ReportHandler struct {
	cache *ReportCache
}

func NewReportHandler(cache *ReportCache) *ReportHandler {
	return &ReportHandler{cache: cache}
}

// GetReport returns the latest run's full report
func (h *ReportHandler) GetReport(c *gin.Context) {
	rep := h.cache.Get()
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed run yet"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetItems returns a flat list of items from the latest run with their
// rendered status
func (h *ReportHandler) GetItems(c *gin.Context) {
	rep := h.cache.Get()
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no completed run yet"})
		return
	}

	type item struct {
		Owner string `json:"owner"`
		report.ItemLine
		Rendered string `json:"rendered"`
	}

	var items []item
	for _, s := range rep.Sections {
		for _, l := range s.Lines {
			items = append(items, item{
				Owner:    s.Owner,
				ItemLine: l,
				Rendered: report.FormatLine(l),
			})
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "run_id": rep.RunID})
}
