package controllers

import (
	"net/http"
	"strconv"

	"climate-hub/airquality"

	"github.com/gin-gonic/gin"
)

// coordinatesFromQuery reads lat and lon. Both absent means the default location.
func coordinatesFromQuery(c *gin.Context) (float64, float64, bool) {
	rawLat, rawLon := c.Query("lat"), c.Query("lon")
	if rawLat == "" && rawLon == "" {
		return airquality.DefaultLatitude, airquality.DefaultLongitude, true
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

func GetAirQuality(c *gin.Context) {
	lat, lon, ok := coordinatesFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}

	c.JSON(http.StatusOK, airQuality.Current(c.Request.Context(), lat, lon))
}
