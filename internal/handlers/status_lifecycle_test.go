package handlers

import (
	"testing"

	"backend/internal/models"
)

func TestOrderStatusAllowedTransitions(t *testing.T) {
	allowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
	}
	for _, tr := range allowed {
		if !canTransitionOrderStatus(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}
}

func TestOrderStatusDisallowedTransitions(t *testing.T) {
	disallowed := [][2]string{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusProcessing, models.OrderStatusPending},
		{models.OrderStatusShipped, models.OrderStatusProcessing},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusPending},
		{models.OrderStatusCancelled, models.OrderStatusPending},
		{models.OrderStatusCancelled, models.OrderStatusProcessing},
	}
	for _, tr := range disallowed {
		if canTransitionOrderStatus(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be rejected", tr[0], tr[1])
		}
	}
}

func TestOrderStatusFullLifecycle(t *testing.T) {
	status := models.OrderStatusPending
	for _, next := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		if !canTransitionOrderStatus(status, next) {
			t.Fatalf("expected %s -> %s in sequence", status, next)
		}
		status = next
	}

	if canTransitionOrderStatus(status, models.OrderStatusCancelled) {
		t.Fatal("a delivered order must not be cancellable")
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	if !canTransitionPaymentStatus(models.PaymentStatusPending, models.PaymentStatusCompleted) {
		t.Fatal("expected pending -> completed to be allowed")
	}
	if !canTransitionPaymentStatus(models.PaymentStatusPending, models.PaymentStatusFailed) {
		t.Fatal("expected pending -> failed to be allowed")
	}
	if !canTransitionPaymentStatus(models.PaymentStatusCompleted, models.PaymentStatusRefunded) {
		t.Fatal("expected completed -> refunded to be allowed")
	}

	if canTransitionPaymentStatus(models.PaymentStatusPending, models.PaymentStatusRefunded) {
		t.Fatal("expected pending -> refunded to be rejected")
	}
	if canTransitionPaymentStatus(models.PaymentStatusCompleted, models.PaymentStatusPending) {
		t.Fatal("expected completed -> pending to be rejected")
	}
	if canTransitionPaymentStatus(models.PaymentStatusRefunded, models.PaymentStatusCompleted) {
		t.Fatal("expected refunded to be terminal")
	}
	if canTransitionPaymentStatus(models.PaymentStatusFailed, models.PaymentStatusCompleted) {
		t.Fatal("expected failed to be terminal")
	}
}

func TestUnknownStatusNeverTransitions(t *testing.T) {
	if canTransitionOrderStatus("bogus", models.OrderStatusPending) {
		t.Fatal("unknown source status must not transition")
	}
	if canTransitionOrderStatus(models.OrderStatusPending, "bogus") {
		t.Fatal("unknown target status must not transition")
	}
}
