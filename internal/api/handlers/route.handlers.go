package routes

import (
	"net/http"

	"evroute/internal/model"
	"evroute/internal/service/trip"

	"github.com/gin-gonic/gin"
)

type planResponse struct {
	SessionID string         `json:"session_id"`
	TripID    string         `json:"trip_id"`
	Routes    []*model.Route `json:"routes"`
}

// SetupRouteHandlers registers the trip planning endpoint
func SetupRouteHandlers(router *gin.RouterGroup, trips *trip.TripService) {
	router.POST("/route", PlanRoute(trips))
}

// PlanRoute handles POST /api/route
func PlanRoute(trips *trip.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trip.PlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		t, err := trips.PlanTrip(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}

		routes := t.Routes
		if routes == nil {
			routes = []*model.Route{}
		}
		c.JSON(http.StatusOK, planResponse{
			SessionID: t.SessionID,
			TripID:    t.ID,
			Routes:    routes,
		})
	}
}
