package routes

import (
	"errors"
	"net/http"

	"evroute/internal/osrm"
	"evroute/internal/service/trip"

	"github.com/gin-gonic/gin"
)

// statusFor maps service and routing errors to HTTP status codes.
func statusFor(err error) int {
	var rerr *osrm.Error
	switch {
	case errors.Is(err, trip.ErrInvalidRequest), errors.Is(err, osrm.ErrWaypointsNotReady):
		return http.StatusBadRequest
	case errors.Is(err, trip.ErrTripNotFound):
		return http.StatusNotFound
	case errors.As(err, &rerr):
		switch rerr.Kind {
		case osrm.KindBackendStatus:
			return http.StatusUnprocessableEntity
		case osrm.KindTimeout:
			return http.StatusGatewayTimeout
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}

	var rerr *osrm.Error
	if errors.As(err, &rerr) {
		body["kind"] = rerr.Kind.String()
		if rerr.Code != "" {
			body["code"] = rerr.Code
		}
	}

	_ = c.Error(err)
	c.JSON(statusFor(err), body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
