package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the payment state of a checkout.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
	OrderExpired OrderStatus = "expired"
)

// Order is a checkout of the shop cart.
type Order struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Items     []CartItem         `json:"items" bson:"items"`
	Total     float64            `json:"total" bson:"total"`
	Currency  string             `json:"currency" bson:"currency"`
	ChargeID  string             `json:"chargeId,omitempty" bson:"chargeId,omitempty"`
	Status    OrderStatus        `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	PaidAt    *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}
