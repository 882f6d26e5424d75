package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"climate-hub/models"
	"climate-hub/payment"
	"climate-hub/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type cartLine struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, models.SearchProducts(c.Query("q"), c.Query("category")))
}

func GetProductByID(c *gin.Context) {
	product, ok := models.FindProduct(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// buildCart prices lines from the catalog. Repeated ids are merged.
func buildCart(lines []cartLine) (models.Cart, error) {
	var cart models.Cart
	for _, l := range lines {
		p, ok := models.FindProduct(l.ID)
		if !ok {
			return models.Cart{}, fmt.Errorf("unknown product %q", l.ID)
		}
		cart.AddItem(models.CartItem{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Quantity: l.Quantity,
			ImageURL: p.ImageURL,
		})
	}
	return cart, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func QuoteCart(c *gin.Context) {
	var input struct {
		Items []cartLine `json:"items" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart", "details": err.Error()})
		return
	}

	cart, err := buildCart(input.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := cart.Items
	if items == nil {
		items = []models.CartItem{}
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"totalItems": cart.TotalItems(),
		"totalPrice": roundCents(cart.TotalPrice()),
		"currency":   paymentCurrency,
	})
}

func Checkout(c *gin.Context) {
	var input struct {
		Email string     `json:"email" binding:"required,email"`
		Token string     `json:"token" binding:"required"`
		Items []cartLine `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid checkout request", "details": err.Error()})
		return
	}

	cart, err := buildCart(input.Items)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	order := models.Order{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Items:    cart.Items,
		Total:    roundCents(cart.TotalPrice()),
		Currency: paymentCurrency,
	}

	amount := payment.ToMinorUnits(order.Total, order.Currency)
	charge, err := gateway.Charge(amount, order.Currency, input.Token, "Climate Hub order for "+order.Email)
	if errors.Is(err, payment.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payments are not available right now"})
		return
	}
	if err != nil {
		zap.L().Error("charge failed", zap.String("email", order.Email), zap.Int64("amount", amount), zap.Error(err))
		order.Status = models.OrderFailed
		if saveErr := orderStore.Create(ctx, &order); saveErr != nil {
			zap.L().Error("save failed order", zap.Error(saveErr))
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment failed", "details": err.Error()})
		return
	}

	order.ChargeID = charge.ID
	switch {
	case charge.Paid:
		paidAt := time.Now().UTC()
		order.Status = models.OrderPaid
		order.PaidAt = &paidAt
	case charge.Status == "failed":
		order.Status = models.OrderFailed
	default:
		order.Status = models.OrderPending
	}

	if err := orderStore.Create(ctx, &order); err != nil {
		zap.L().Error("create order failed", zap.String("charge_id", charge.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create order failed", "details": err.Error()})
		return
	}
	zap.L().Info("order created",
		zap.String("id", order.ID.Hex()),
		zap.String("charge_id", charge.ID),
		zap.String("status", string(order.Status)))

	if order.Status == models.OrderFailed {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Payment was declined", "order": order})
		return
	}

	if mailer != nil {
		if err := mailer.SendReceipt(order); err != nil {
			zap.L().Warn("receipt email failed", zap.String("order", order.ID.Hex()), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, order)
}

func GetPaymentConfig(c *gin.Context) {
	publicKey := ""
	if gateway != nil {
		publicKey = gateway.PublicKey()
	}
	c.JSON(http.StatusOK, gin.H{
		"publicKey": publicKey,
		"currency":  paymentCurrency,
		"enabled":   publicKey != "",
	})
}

// GetOrder lets the checkout page poll a pending order. Email and charge id
// are left out.
func GetOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := orderStore.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching order", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        order.ID,
		"status":    order.Status,
		"items":     order.Items,
		"total":     order.Total,
		"currency":  order.Currency,
		"createdAt": order.CreatedAt,
		"paidAt":    order.PaidAt,
	})
}
