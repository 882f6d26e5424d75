package controllers

import (
	"net/http"

	"climate-hub/airquality"
	"climate-hub/models"

	"github.com/gin-gonic/gin"
)

type reportMarker struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Category  models.ReportCategory `json:"category"`
	Severity  models.ReportSeverity `json:"severity"`
	Status    models.ReportStatus   `json:"status"`
	Latitude  float64               `json:"latitude"`
	Longitude float64               `json:"longitude"`
}

func GetMapLocations(c *gin.Context) {
	c.JSON(http.StatusOK, airquality.SampleLocations())
}

func GetMapReports(c *gin.Context) {
	reports, err := reportStore.List(c.Request.Context(), models.ReportFilter{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reports", "details": err.Error()})
		return
	}

	markers := make([]reportMarker, 0, len(reports))
	for _, r := range reports {
		markers = append(markers, reportMarker{
			ID:        r.ID.Hex(),
			Title:     r.Title,
			Category:  r.Category,
			Severity:  r.Severity,
			Status:    r.Status,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	c.JSON(http.StatusOK, markers)
}
