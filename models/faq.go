package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FaqSender says who wrote a FAQ message.
type FaqSender string

const (
	SenderUser FaqSender = "user"
	SenderBot  FaqSender = "bot"
)

// Faq is a question submitted through the FAQ widget.
type Faq struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Question  string             `json:"question" bson:"question"`
	Sender    FaqSender          `json:"sender" bson:"sender"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
