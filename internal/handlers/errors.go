package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

/* =========================
   FAILURE TAXONOMY
========================= */

type insufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e insufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: only %d left", e.ProductID, e.Available)
}

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return "product not found: " + e.ProductID
}

type emptyOrderError struct{}

func (emptyOrderError) Error() string {
	return "order has no items"
}

type totalMismatchError struct {
	Claimed  float64
	Computed float64
}

func (e totalMismatchError) Error() string {
	return fmt.Sprintf("claimed total %.2f does not match computed total %.2f", e.Claimed, e.Computed)
}

type invalidTransitionError struct {
	From string
	To   string
}

func (e invalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

type cartLineNotFoundError struct {
	ProductID string
	Size      string
}

func (e cartLineNotFoundError) Error() string {
	return fmt.Sprintf("cart line not found for product %s size %s", e.ProductID, e.Size)
}

/* =========================
   HTTP MAPPING
========================= */

// respondTypedError maps the failure taxonomy to a fixed HTTP status plus a
// stable machine-readable code. Returns false when err is not a taxonomy
// member so the caller can fall back to a generic 500.
func respondTypedError(c *gin.Context, route string, err error) bool {
	var stockErr insufficientStockError
	if errors.As(err, &stockErr) {
		log.Printf("[%s] insufficient stock: product=%s available=%d requested=%d",
			route, stockErr.ProductID, stockErr.Available, stockErr.Requested)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     fmt.Sprintf("Not enough stock available. Only %d items remaining.", stockErr.Available),
			"code":      "insufficient_stock",
			"productId": stockErr.ProductID,
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
		return true
	}

	var notFoundErr productNotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Product not found",
			"code":      "product_not_found",
			"productId": notFoundErr.ProductID,
		})
		return true
	}

	var emptyErr emptyOrderError
	if errors.As(err, &emptyErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "at least one item is required",
			"code":  "empty_order",
		})
		return true
	}

	var totalErr totalMismatchError
	if errors.As(err, &totalErr) {
		log.Printf("[%s] total mismatch: claimed=%.2f computed=%.2f", route, totalErr.Claimed, totalErr.Computed)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "order total does not match item prices",
			"code":     "total_mismatch",
			"expected": totalErr.Computed,
		})
		return true
	}

	var transitionErr invalidTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": transitionErr.Error(),
			"code":  "invalid_transition",
		})
		return true
	}

	var lineErr cartLineNotFoundError
	if errors.As(err, &lineErr) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Item not found in cart",
			"code":  "not_found",
		})
		return true
	}

	return false
}
