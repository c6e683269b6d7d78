package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// PaginationParams carries the page size and the departure-time cursor
// for delay history queries.
type PaginationParams struct {
	Limit int
	// Before is the ISO-8601 departure_time of the last row of the
	// previous page, exactly as the client echoed it from next_cursor.
	// Empty means first page. Kept as a string so the cursor compares
	// against the stored departure_time values without reformatting.
	Before string
}

type CursorResponse struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// ParsePagination reads limit and before query params. Invalid limits
// fall back to the default; a before value that is not a timestamp is
// ignored rather than rejected.
func ParsePagination(c *gin.Context) PaginationParams {
	p := PaginationParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if before := c.Query("before"); before != "" {
		if _, err := time.Parse(time.RFC3339Nano, before); err == nil {
			p.Before = before
		}
	}

	return p
}
