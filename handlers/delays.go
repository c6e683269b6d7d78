package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mbta-delay-pipeline/models"
	"mbta-delay-pipeline/services"
)

// DelaysHandler serves delay history from the Postgres mirror the ETL
// maintains, with cursor pagination on departure time.
type DelaysHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewDelaysHandler(db *gorm.DB, cache *services.CacheService) *DelaysHandler {
	return &DelaysHandler{db: db, cache: cache}
}

func (h *DelaysHandler) GetDelays(c *gin.Context) {
	p := ParsePagination(c)
	routeID := c.Query("route_id")

	cacheKey := fmt.Sprintf("delays:%s:%d:%s", routeID, p.Limit, p.Before)

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.DelayRecord{}).Order("departure_time DESC").Limit(p.Limit + 1)
	if p.Before != "" {
		query = query.Where("departure_time < ?", p.Before)
	}
	if routeID != "" {
		query = query.Where("route_id = ?", routeID)
	}

	var rows []models.DelayRecord
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = rows[len(rows)-1].DepartureTime
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
