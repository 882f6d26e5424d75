package utils

import (
	"testing"

	"climate-hub/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := GenerateJWT(secret, "admin", RoleAdmin)
	require.NoError(t, err)

	claims, err := ParseJWT(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])

	_, err = ParseJWT([]byte("other"), tok)
	assert.Error(t, err)
}

func TestGenerateJWT_NoSecret(t *testing.T) {
	_, err := GenerateJWT(nil, "admin", RoleAdmin)
	assert.Error(t, err)
}

func TestParseJWT_RejectsNonHMAC(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"role": RoleAdmin})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT([]byte("s3cret"), s)
	assert.Error(t, err)
}

func TestReceiptMessage(t *testing.T) {
	order := models.Order{
		ID:       primitive.NewObjectID(),
		Email:    "ada@example.com",
		Currency: "usd",
		Total:    74.49,
		Status:   models.OrderPaid,
		Items: []models.CartItem{
			{ID: "n95-mask-pack", Title: "N95 Mask Pack", Price: 24.99, Quantity: 2},
			{ID: "steel-water-bottle", Title: "Steel Water Bottle", Price: 24.51, Quantity: 1},
		},
	}

	msg := ReceiptMessage("shop@example.com", order)

	assert.Contains(t, msg, "To: ada@example.com\r\n")
	assert.Contains(t, msg, "Subject: Climate Hub - Order "+order.ID.Hex())
	assert.Contains(t, msg, "2 x N95 Mask Pack  49.98")
	assert.Contains(t, msg, "Total: 74.49 USD")
	assert.Contains(t, msg, "Status: paid")
}

func TestSMTPMailer_DisabledIsNoop(t *testing.T) {
	var m *SMTPMailer
	assert.False(t, m.Enabled())
	assert.NoError(t, (&SMTPMailer{Addr: "smtp.example.com:587"}).SendReceipt(models.Order{}))
}
