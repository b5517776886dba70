// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripwise/internal/http/handlers"
	"tripwise/internal/http/middleware"
)

type RouterDeps struct {
	Planner     handlers.Planner
	Places      handlers.PlaceLookup
	Log         *zap.Logger
	MaxUploadMB int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.TraceID(), middleware.Logging(log), middleware.Recovery(log))
	if deps.MaxUploadMB > 0 {
		r.MaxMultipartMemory = int64(deps.MaxUploadMB) << 20
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Travel Planner AI Service is running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	aiHandler := handlers.NewAIHandler(deps.Planner, deps.MaxUploadMB)
	ai := r.Group("/api/ai")
	ai.POST("/generate-itinerary", aiHandler.GenerateItinerary())
	ai.POST("/generate_itinerary", aiHandler.GenerateItinerary())
	ai.POST("/edit-itinerary", aiHandler.EditItinerary())
	ai.POST("/legal-docs", aiHandler.LegalDocuments())
	ai.POST("/describe-image", aiHandler.DescribeImage())

	transportHandler := handlers.NewTransportHandler(deps.Planner)
	r.POST("/api/transportation/costs", transportHandler.Costs())

	placesHandler := handlers.NewPlacesHandler(deps.Places)
	r.POST("/api/places/details", placesHandler.Details())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}
