package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/tcg-price-digest/internal/models"
	"github.com/codyseavey/tcg-price-digest/internal/snapshot"
)

type HistoryHandler struct {
	snapshots *snapshot.Service
}

func NewHistoryHandler(snapshots *snapshot.Service) *HistoryHandler {
	return &HistoryHandler{snapshots: snapshots}
}

// GetOwnerHistory returns an owner's archived daily values for a period
// ("week", "month", "year", "all"; default month)
func (h *HistoryHandler) GetOwnerHistory(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot archive is not configured"})
		return
	}

	owner := c.Param("owner")
	period := c.DefaultQuery("period", "month")

	snaps, err := h.snapshots.History(owner, period, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ValueHistoryResponse{
		Owner:     owner,
		Period:    period,
		Snapshots: snaps,
	})
}
