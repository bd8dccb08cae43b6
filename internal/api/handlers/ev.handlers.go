package routes

import (
	"net/http"

	"evroute/internal/plan"

	"github.com/gin-gonic/gin"
)

// SetupEVHandlers registers the EV model and battery preference endpoints
func SetupEVHandlers(router *gin.RouterGroup) {
	router.GET("/ev/models", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"models":        plan.Models(),
			"default_model": plan.DefaultModel(),
			"ranges": gin.H{
				plan.ParamDeparture:   plan.DepartureRange,
				plan.ParamStartCharge: plan.StartChargeRange,
				plan.ParamStopCharge:  plan.StopChargeRange,
				plan.ParamArrival:     plan.ArrivalRange,
			},
		})
	})
}
