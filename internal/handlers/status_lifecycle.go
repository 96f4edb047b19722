package handlers

import "backend/internal/models"

// Fulfillment moves forward only. cancelled is terminal and unreachable
// once an order has been delivered.
var orderStatusTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered, models.OrderStatusCancelled},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// Payment is an independent lifecycle; it is not coupled to fulfillment.
var paymentStatusTransitions = map[string][]string{
	models.PaymentStatusPending:   {models.PaymentStatusCompleted, models.PaymentStatusFailed},
	models.PaymentStatusCompleted: {models.PaymentStatusRefunded},
	models.PaymentStatusFailed:    {},
	models.PaymentStatusRefunded:  {},
}

func canTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func canTransitionPaymentStatus(from, to string) bool {
	for _, next := range paymentStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
