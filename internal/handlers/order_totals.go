package handlers

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// Stock at or below this level triggers a restock alert after checkout.
const lowStockThreshold = 10

// Rounding slack when comparing a client-claimed total against the
// server-computed one.
const totalTolerance = 0.01

// aggregateNeed sums quantities per product across every line, keeping
// first-seen order. Two sizes of the same product draw from one stock pool,
// so they validate and decrement as a single combined need.
func aggregateNeed(items []models.OrderItem) (map[primitive.ObjectID]int, []primitive.ObjectID) {
	need := make(map[primitive.ObjectID]int, len(items))
	order := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		if _, ok := need[item.ProductID]; !ok {
			order = append(order, item.ProductID)
		}
		need[item.ProductID] += item.Quantity
	}
	return need, order
}

// checkStockAvailability rejects the whole order when any product cannot
// cover its aggregated need. It runs before any decrement, so a failed
// order never leaves the catalog partially decremented.
func checkStockAvailability(productOrder []primitive.ObjectID, need map[primitive.ObjectID]int, productByID map[primitive.ObjectID]models.Product) error {
	for _, productID := range productOrder {
		product := productByID[productID]
		if need[productID] > product.Stock {
			return insufficientStockError{
				ProductID: productID.Hex(),
				Available: product.Stock,
				Requested: need[productID],
			}
		}
	}
	return nil
}

func computeOrderTotal(items []models.OrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// checkClaimedTotal compares a client-claimed total against the
// server-computed one; the claimed value is never trusted. A nil claim
// means the client did not send a total and is accepted; an explicit value,
// zero included, must match.
func checkClaimedTotal(claimed *float64, computed float64) error {
	if claimed == nil {
		return nil
	}
	if math.Abs(*claimed-computed) > totalTolerance {
		return totalMismatchError{Claimed: *claimed, Computed: computed}
	}
	return nil
}

func isLowStock(stock int) bool {
	return stock <= lowStockThreshold
}

func formatOrderID(seq int64) string {
	return fmt.Sprintf("ORD%06d", seq)
}
