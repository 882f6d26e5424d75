package controllers

import (
	"net/http"
	"strings"

	"climate-hub/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func CreateFaq(c *gin.Context) {
	var input struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	question := strings.TrimSpace(input.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question is required"})
		return
	}

	faq := models.Faq{Question: question, Sender: models.SenderUser}
	if err := faqStore.Create(c.Request.Context(), &faq); err != nil {
		zap.L().Error("create faq failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Question submitted", "faq": faq})
}

func GetFaqs(c *gin.Context) {
	faqs, err := faqStore.List(c.Request.Context())
	if err != nil {
		zap.L().Error("list faqs failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, faqs)
}
