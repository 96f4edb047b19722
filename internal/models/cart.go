package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuestUserID keys the shared cart for unauthenticated shoppers.
const GuestUserID = "guest"

// CartItem is one (product, size) line. Price is the unit price snapshot
// captured when the line was added, not the live catalog price.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Size      string             `bson:"size" json:"size"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Price     float64            `bson:"price" json:"price"`
}

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
