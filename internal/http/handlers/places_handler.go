// README: Place details endpoint; independent of the AI path.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"tripwise/internal/trip"
)

type PlaceLookup interface {
	Lookup(ctx context.Context, q trip.PlaceQuery) (trip.PlaceDetails, error)
}

type PlacesHandler struct {
	places PlaceLookup
}

// NewPlacesHandler accepts a nil lookup; the route then answers 503.
func NewPlacesHandler(places PlaceLookup) *PlacesHandler {
	return &PlacesHandler{places: places}
}

// Details handles POST /api/places/details.
func (h *PlacesHandler) Details() gin.HandlerFunc {
	return wrap("Failed to look up place", func(c *gin.Context) (any, error) {
		var q trip.PlaceQuery
		if err := bindJSON(c, &q); err != nil {
			return nil, err
		}
		if h.places == nil {
			return nil, ErrPlacesDisabled
		}
		return h.places.Lookup(c.Request.Context(), q)
	})
}
