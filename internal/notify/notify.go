// Package notify holds the storefront's outbound notification collaborator.
// Checkout calls it fire-and-forget: a notification failure is logged and
// never rolls back an order.
package notify

import (
	"context"
	"log"

	"backend/internal/models"
)

type Notifier interface {
	OrderConfirmed(ctx context.Context, order models.Order) error
	LowStock(ctx context.Context, product models.Product) error
}

// LogNotifier is the default when no SMTP settings are configured.
type LogNotifier struct{}

func (LogNotifier) OrderConfirmed(_ context.Context, order models.Order) error {
	log.Printf("[NOTIFY] [INFO] order confirmation for %s (total %.2f) to %s", order.OrderID, order.Total, order.Customer.Email)
	return nil
}

func (LogNotifier) LowStock(_ context.Context, product models.Product) error {
	log.Printf("[NOTIFY] [INFO] low stock alert: %s (id=%d) has %d left", product.Name, product.ProductID, product.Stock)
	return nil
}
