package api

import (
	routes "evroute/internal/api/handlers"
	"evroute/internal/service/trip"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewEngine creates a gin engine with zap logging, recovery and CORS for the map UI.
func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(ZapRecovery(log))
	r.Use(ZapLogger(log))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(config))

	return r
}

// SetupRouter initializes all application routes
func SetupRouter(r *gin.Engine, info map[string]string, trips *trip.TripService) {
	api := r.Group("/api")

	routes.SetupMainHandlers(r.Group(""), info)
	routes.SetupRouteHandlers(api, trips)
	routes.SetupTripHandlers(api, trips)
	routes.SetupEVHandlers(api)
}
