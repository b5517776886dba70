// README: Transportation cost estimate endpoint.
package handlers

import (
	"github.com/gin-gonic/gin"

	"tripwise/internal/trip"
)

type TransportHandler struct {
	planner Planner
}

func NewTransportHandler(planner Planner) *TransportHandler {
	return &TransportHandler{planner: planner}
}

// Costs handles POST /api/transportation/costs. The query is echoed next to
// the estimates.
func (h *TransportHandler) Costs() gin.HandlerFunc {
	return wrapErrorOnly("Failed to estimate transportation costs", func(c *gin.Context) (any, error) {
		var q trip.TransportationQuery
		if err := bindJSON(c, &q); err != nil {
			return nil, err
		}
		estimates, err := h.planner.TransportationCosts(c.Request.Context(), q)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"source":      q.Source,
			"destination": q.Destination,
			"date":        q.Date,
			"type":        q.Mode,
			"estimates":   estimates,
		}, nil
	})
}
