package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"evroute/internal/model"
	"evroute/internal/osrm"
	"evroute/internal/service/trip"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
)

// SetupTripHandlers registers the endpoints of planned trips
func SetupTripHandlers(router *gin.RouterGroup, trips *trip.TripService) {
	tripGroup := router.Group("/trip/:id")

	tripGroup.GET("", GetTrip(trips))
	tripGroup.GET("/geojson", GetTripGeoJSON(trips))
	tripGroup.GET("/detail", GetTripDetail(trips))
	tripGroup.POST("/score", ScoreTrip(trips))
}

// GetTrip handles GET /api/trip/:id
func GetTrip(trips *trip.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := trips.GetTrip(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// GetTripGeoJSON handles GET /api/trip/:id/geojson
func GetTripGeoJSON(trips *trip.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := trips.GetTrip(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, model.RoutesToFeatureCollection(t.Routes))
	}
}

// GetTripDetail handles GET /api/trip/:id/detail?bbox=minLng,minLat,maxLng,maxLat and reports,
// per route, whether the viewport needs a full-geometry request.
func GetTripDetail(trips *trip.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bounds, err := parseBBox(c.Query("bbox"))
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		t, err := trips.GetTrip(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		perRoute := make([]bool, len(t.Routes))
		needsDetail := false
		for i, r := range t.Routes {
			perRoute[i] = osrm.RequiresMoreDetail(r, bounds)
			needsDetail = needsDetail || perRoute[i]
		}

		c.JSON(http.StatusOK, gin.H{
			"trip_id":              t.ID,
			"requires_more_detail": needsDetail,
			"routes":               perRoute,
		})
	}
}

// ScoreTrip handles POST /api/trip/:id/score?score=1|0
func ScoreTrip(trips *trip.TripService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var good bool
		switch c.Query("score") {
		case "1":
			good = true
		case "0":
			good = false
		default:
			badRequest(c, "score must be 1 or 0")
			return
		}

		t, err := trips.SubmitFeedback(c.Request.Context(), c.Param("id"), good)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"trip_id": t.ID, "score": t.Score})
	}
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox must be minLng,minLat,maxLng,maxLat, got %q", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox value %q: %w", p, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox min exceeds max: %q", s)
	}
	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}
