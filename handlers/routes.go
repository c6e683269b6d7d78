package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mbta-delay-pipeline/services"
	"mbta-delay-pipeline/warehouse"
)

// RoutesHandler lists the distinct routes seen in the warehouse CSV.
type RoutesHandler struct {
	warehousePath string
	cache         *services.CacheService
}

func NewRoutesHandler(warehousePath string, cache *services.CacheService) *RoutesHandler {
	return &RoutesHandler{warehousePath: warehousePath, cache: cache}
}

func (h *RoutesHandler) GetRoutes(c *gin.Context) {
	const cacheKey = "routes:all"

	var cached struct {
		Data []string `json:"data"`
	}
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	routes, err := warehouse.Routes(h.warehousePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "warehouse read failed"})
		return
	}
	if routes == nil {
		routes = []string{}
	}

	resp := gin.H{"data": routes}
	go h.cache.Set(context.Background(), cacheKey, resp, 60*time.Second)

	c.JSON(http.StatusOK, resp)
}
