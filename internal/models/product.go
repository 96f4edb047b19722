package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories match the school levels the store serves.
const (
	CategoryPrimary   = "primary"
	CategorySecondary = "secondary"
	CategorySixth     = "sixth"
)

// UniformSizes lists every size label a product may carry.
var UniformSizes = []string{"S", "M", "L", "XL", "XXL"}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID   int                `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	NewPrice    float64            `bson:"new_price" json:"new_price"`
	OldPrice    float64            `bson:"old_price" json:"old_price"`
	Stock       int                `bson:"stock" json:"stock"`
	Popularity  int                `bson:"popularity" json:"popularity"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	InStock     bool               `bson:"-" json:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidCategory(category string) bool {
	switch category {
	case CategoryPrimary, CategorySecondary, CategorySixth:
		return true
	}
	return false
}

func ValidSize(size string) bool {
	for _, s := range UniformSizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasSize reports whether the product is sold in the given size. Products
// without an explicit size list accept any valid uniform size.
func (p Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return ValidSize(size)
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
