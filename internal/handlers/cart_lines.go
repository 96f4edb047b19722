package handlers

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

// Cart lines are keyed by (product, size): the same product in two sizes is
// two lines, the same product+size is always a single merged line.

func findLineIndex(items []models.CartItem, productID primitive.ObjectID, size string) int {
	for i, item := range items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}

func lineQuantity(items []models.CartItem, productID primitive.ObjectID, size string) int {
	if i := findLineIndex(items, productID, size); i >= 0 {
		return items[i].Quantity
	}
	return 0
}

// mergeLine upserts a line, adding quantity onto an existing match. The
// existing snapshot price is kept; only a brand new line takes the offered
// unit price.
func mergeLine(items []models.CartItem, line models.CartItem) []models.CartItem {
	if i := findLineIndex(items, line.ProductID, line.Size); i >= 0 {
		items[i].Quantity += line.Quantity
		return items
	}
	return append(items, line)
}

func replaceLineQuantity(items []models.CartItem, productID primitive.ObjectID, size string, quantity int) ([]models.CartItem, bool) {
	i := findLineIndex(items, productID, size)
	if i < 0 {
		return items, false
	}
	items[i].Quantity = quantity
	return items, true
}

func removeLine(items []models.CartItem, productID primitive.ObjectID, size string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == productID && item.Size == size {
			continue
		}
		out = append(out, item)
	}
	return out
}

// computeCartTotal sums live catalog prices, not the line snapshots. This
// is the display total; the authoritative order total is recomputed inside
// the checkout transaction.
func computeCartTotal(items []models.CartItem, priceByProduct map[primitive.ObjectID]float64) float64 {
	total := 0.0
	for _, item := range items {
		price, ok := priceByProduct[item.ProductID]
		if !ok {
			price = item.Price
		}
		total += price * float64(item.Quantity)
	}
	return total
}
