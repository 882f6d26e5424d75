package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"climate-hub/models"
	"climate-hub/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createReportInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Photos      []string `json:"photos" binding:"max=5"`
}

const (
	maxReportPhotos = 5
	// Five photos at the 5MB decoded cap, base64 encoded, plus the form fields.
	maxReportBody = 36 << 20
)

// validateReport checks the form fields and returns the message shown to the user.
func validateReport(in *createReportInput) string {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if n := utf8.RuneCountInString(in.Title); n < 3 || n > 100 {
		return "Title must be between 3 and 100 characters"
	}
	if n := utf8.RuneCountInString(in.Description); n < 10 || n > 1000 {
		return "Description must be between 10 and 1000 characters"
	}
	if !models.IsValidCategory(in.Category) {
		return "Please select a valid category"
	}
	if in.Severity == "" {
		in.Severity = string(models.SeverityLow)
	}
	if !models.IsValidSeverity(in.Severity) {
		return "Please select a valid severity"
	}
	if *in.Latitude < -90 || *in.Latitude > 90 || *in.Longitude < -180 || *in.Longitude > 180 {
		return "Invalid coordinates"
	}
	return ""
}

func CreateReport(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxReportBody)

	var input createReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Report is too large"})
			return
		}
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(input.Photos) > maxReportPhotos {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("At most %d photos per report", maxReportPhotos)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if input.Latitude == nil || input.Longitude == nil || len(input.Photos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Location and image are required!"})
		return
	}
	if msg := validateReport(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	photos := make([]string, 0, len(input.Photos))
	for _, p := range input.Photos {
		stored, err := photoStore.Save(ctx, p)
		if errors.Is(err, services.ErrInvalidPhoto) || errors.Is(err, services.ErrPhotoTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			zap.L().Error("photo upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo", "details": err.Error()})
			return
		}
		photos = append(photos, stored)
	}

	report := models.Report{
		Title:       input.Title,
		Description: input.Description,
		Category:    models.ReportCategory(input.Category),
		Severity:    models.ReportSeverity(input.Severity),
		Latitude:    *input.Latitude,
		Longitude:   *input.Longitude,
		Photos:      photos,
	}
	if err := reportStore.Create(ctx, &report); err != nil {
		zap.L().Error("create report failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating report", "details": err.Error()})
		return
	}

	zap.L().Info("report created",
		zap.String("id", report.ID.Hex()),
		zap.String("category", string(report.Category)),
		zap.String("severity", string(report.Severity)))
	if notifier != nil {
		notifier.ReportCreated(report)
	}
	c.JSON(http.StatusCreated, report)
}

// filterParam treats "" and "all" as no filter.
func filterParam(c *gin.Context, name string, valid func(string) bool) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(c.Query(name)))
	if v == "" || v == "all" {
		return "", true
	}
	return v, valid(v)
}

func reportFilterFromQuery(c *gin.Context) (models.ReportFilter, bool) {
	category, ok := filterParam(c, "category", models.IsValidCategory)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category filter"})
		return models.ReportFilter{}, false
	}
	severity, ok := filterParam(c, "severity", models.IsValidSeverity)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid severity filter"})
		return models.ReportFilter{}, false
	}
	status, ok := filterParam(c, "status", models.IsValidStatus)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return models.ReportFilter{}, false
	}
	return models.ReportFilter{
		Category: models.ReportCategory(category),
		Severity: models.ReportSeverity(severity),
		Status:   models.ReportStatus(status),
	}, true
}

func GetReports(c *gin.Context) {
	filter, ok := reportFilterFromQuery(c)
	if !ok {
		return
	}

	reports, err := reportStore.List(c.Request.Context(), filter)
	if err != nil {
		zap.L().Error("list reports failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reports", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// reportID parses the :id param, answering 400 itself when malformed.
func reportID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func GetReportByID(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}

	report, err := reportStore.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching report", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func UpdateReportStatus(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !models.IsValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be pending, verified or resolved"})
		return
	}

	report, err := reportStore.UpdateStatus(c.Request.Context(), id, models.ReportStatus(input.Status))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		zap.L().Error("update report status failed", zap.String("id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating report", "details": err.Error()})
		return
	}

	zap.L().Info("report status changed",
		zap.String("id", id.Hex()),
		zap.String("status", input.Status),
		zap.String("by", c.GetString("admin")))
	c.JSON(http.StatusOK, report)
}

func DeleteReport(c *gin.Context) {
	id, ok := reportID(c)
	if !ok {
		return
	}

	err := reportStore.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if err != nil {
		zap.L().Error("delete report failed", zap.String("id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting report", "details": err.Error()})
		return
	}

	zap.L().Info("report deleted", zap.String("id", id.Hex()), zap.String("by", c.GetString("admin")))
	c.JSON(http.StatusOK, gin.H{"message": "Report deleted successfully"})
}

func GetReportStats(c *gin.Context) {
	stats, err := reportStore.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching report stats", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
