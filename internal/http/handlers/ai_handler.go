// README: AI endpoints; itinerary generation and editing, legal documents, image description.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tripwise/internal/ai"
	"tripwise/internal/service"
	"tripwise/internal/trip"
)

// Planner is the subset of service.TripPlanner the handlers call.
type Planner interface {
	GenerateItinerary(ctx context.Context, req trip.ItineraryRequest) (any, error)
	EditItinerary(ctx context.Context, req trip.EditRequest) (service.EditResult, error)
	TransportationCosts(ctx context.Context, q trip.TransportationQuery) (any, error)
	LegalDocuments(ctx context.Context, req trip.LegalDocsRequest) (any, error)
	DescribeImage(ctx context.Context, img ai.Image) (service.ImageResult, error)
}

type AIHandler struct {
	planner     Planner
	maxUploadMB int64
}

func NewAIHandler(planner Planner, maxUploadMB int) *AIHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &AIHandler{planner: planner, maxUploadMB: int64(maxUploadMB)}
}

// GenerateItinerary handles POST /api/ai/generate-itinerary.
func (h *AIHandler) GenerateItinerary() gin.HandlerFunc {
	return wrap("Failed to generate itinerary", func(c *gin.Context) (any, error) {
		var req trip.ItineraryRequest
		if err := bindJSON(c, &req); err != nil {
			return nil, err
		}
		itinerary, err := h.planner.GenerateItinerary(c.Request.Context(), req)
		if err != nil {
			return nil, err
		}
		return gin.H{"message": "Itinerary generated successfully", "itinerary": itinerary}, nil
	})
}

// EditItinerary handles POST /api/ai/edit-itinerary.
func (h *AIHandler) EditItinerary() gin.HandlerFunc {
	return wrap("Failed to update itinerary", func(c *gin.Context) (any, error) {
		var req trip.EditRequest
		if err := bindJSON(c, &req); err != nil {
			return nil, err
		}
		res, err := h.planner.EditItinerary(c.Request.Context(), req)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"message":    "Itinerary updated successfully",
			"itinerary":  res.Itinerary,
			"session_id": res.SessionID,
		}, nil
	})
}

// LegalDocuments handles POST /api/ai/legal-docs.
func (h *AIHandler) LegalDocuments() gin.HandlerFunc {
	return wrap("Failed to retrieve legal documents", func(c *gin.Context) (any, error) {
		var req trip.LegalDocsRequest
		if err := bindJSON(c, &req); err != nil {
			return nil, err
		}
		docs, err := h.planner.LegalDocuments(c.Request.Context(), req)
		if err != nil {
			return nil, err
		}
		return gin.H{"message": "Legal documents retrieved successfully", "documents": docs}, nil
	})
}

// DescribeImage handles POST /api/ai/describe-image (multipart field "file" or "image").
func (h *AIHandler) DescribeImage() gin.HandlerFunc {
	return wrap("Failed to analyze image", func(c *gin.Context) (any, error) {
		img, err := h.readImage(c)
		if err != nil {
			return nil, err
		}
		res, err := h.planner.DescribeImage(c.Request.Context(), img)
		if err != nil {
			return nil, err
		}
		if res.Parsed {
			return gin.H{"message": "Image analyzed successfully", "analysis": res.Analysis}, nil
		}
		return gin.H{"message": "Image analyzed successfully", "description": res.Description}, nil
	})
}

func (h *AIHandler) readImage(c *gin.Context) (ai.Image, error) {
	limit := h.maxUploadMB << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)

	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		fh, err = c.FormFile("image")
	}
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return ai.Image{}, badRequest(fmt.Sprintf("image exceeds %d MB", h.maxUploadMB))
	case err != nil:
		return ai.Image{}, badRequest("multipart field \"file\" is required")
	case fh.Size > limit:
		return ai.Image{}, badRequest(fmt.Sprintf("image exceeds %d MB", h.maxUploadMB))
	}

	data, err := readAll(fh)
	if err != nil {
		return ai.Image{}, badRequest("could not read upload")
	}
	mimeType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return ai.Image{}, badRequest("upload is not an image")
	}
	return ai.Image{Data: data, MIMEType: mimeType}, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
