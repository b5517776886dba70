// README: Base handler utilities; one adapter maps (payload, error) results to JSON envelopes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripwise/internal/ai"
	"tripwise/internal/maps"
	"tripwise/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// resultFunc is the shape every route handler has. A nil error means the
// payload is written with 200.
type resultFunc func(c *gin.Context) (any, error)

// requestError is raised by handlers for input they reject themselves.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

// ErrPlacesDisabled is returned when no places API key is configured.
var ErrPlacesDisabled = errors.New("places lookup is not configured")

// wrap adapts fn to gin. failure is the "error" text used for AI failures on
// this route.
func wrap(failure string, fn resultFunc) gin.HandlerFunc {
	return adapt(failure, true, fn)
}

// wrapErrorOnly is wrap for routes whose failure body is just {error}.
func wrapErrorOnly(failure string, fn resultFunc) gin.HandlerFunc {
	return adapt(failure, false, fn)
}

func adapt(failure string, withMessage bool, fn resultFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := fn(c)
		if err != nil {
			_ = c.Error(err)
			status, body := mapError(failure, err)
			if !withMessage {
				body.Message = ""
			}
			writeJSON(c, status, body)
			return
		}
		writeJSON(c, http.StatusOK, payload)
	}
}

func mapError(failure string, err error) (int, errorResponse) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest, errorResponse{Error: "Invalid request", Message: reqErr.msg}
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: "Invalid request", Message: err.Error()}

	case errors.Is(err, maps.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "Place not found"}
	case errors.Is(err, maps.ErrDetailsUnavailable):
		return http.StatusBadGateway, errorResponse{Error: "Place details unavailable"}
	case errors.Is(err, maps.ErrUnavailable):
		return http.StatusBadGateway, errorResponse{Error: "Places service unavailable"}
	case errors.Is(err, ErrPlacesDisabled):
		return http.StatusServiceUnavailable, errorResponse{Error: "Places service unavailable", Message: err.Error()}

	case errors.Is(err, ai.ErrMalformedJSON):
		return http.StatusUnprocessableEntity, errorResponse{Error: failure, Message: "AI response was not valid JSON"}
	case errors.Is(err, ai.ErrUpstreamQuota):
		return http.StatusServiceUnavailable, errorResponse{Error: failure, Message: "AI service quota exceeded, try again later"}
	case errors.Is(err, ai.ErrUpstreamAuth):
		return http.StatusBadGateway, errorResponse{Error: failure, Message: "AI service rejected the configured credentials"}
	case errors.Is(err, ai.ErrEmptyResponse):
		return http.StatusBadGateway, errorResponse{Error: failure, Message: "AI service returned an empty response"}
	case errors.Is(err, ai.ErrUpstreamUnavailable):
		return http.StatusBadGateway, errorResponse{Error: failure, Message: "AI service unavailable"}

	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal error"}
	}
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// bindJSON decodes the body into v, reporting decode and binding failures
// as bad requests.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return badRequest(err.Error())
	}
	return nil
}
