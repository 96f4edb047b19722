package handlers

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func validOrderRequest() createOrderRequest {
	return createOrderRequest{
		Customer: createOrderCustomerRequest{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "Jane.Doe@Example.com",
			Address:   "1 School Lane",
			City:      "London",
			Country:   "UK",
			ZipCode:   "N1 1AA",
		},
		Items: []createOrderItemRequest{
			{ProductID: primitive.NewObjectID().Hex(), Quantity: 2, Size: "m"},
		},
	}
}

func TestBuildOrderFromRequestEmptyItems(t *testing.T) {
	req := validOrderRequest()
	req.Items = nil

	_, err := buildOrderFromRequest(req)
	var emptyErr emptyOrderError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected emptyOrderError, got %v", err)
	}
}

func TestBuildOrderFromRequestInvalidProductID(t *testing.T) {
	req := validOrderRequest()
	req.Items[0].ProductID = "not-a-hex-id"

	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for malformed productId")
	}
}

func TestBuildOrderFromRequestZeroQuantity(t *testing.T) {
	req := validOrderRequest()
	req.Items[0].Quantity = 0

	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}

func TestBuildOrderFromRequestInvalidSize(t *testing.T) {
	req := validOrderRequest()
	req.Items[0].Size = "XS"

	if _, err := buildOrderFromRequest(req); err == nil {
		t.Fatal("expected error for a size outside the uniform range")
	}
}

func TestBuildOrderFromRequestDefaults(t *testing.T) {
	req := validOrderRequest()

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}

	if order.Status != models.OrderStatusPending {
		t.Fatalf("expected initial status pending, got %s", order.Status)
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("expected initial paymentStatus pending, got %s", order.PaymentStatus)
	}
	if order.PaymentMethod != "card" {
		t.Fatalf("expected default payment method card, got %s", order.PaymentMethod)
	}
	if order.Customer.Email != "jane.doe@example.com" {
		t.Fatalf("expected lowercased email, got %s", order.Customer.Email)
	}
	if order.Items[0].Size != "M" {
		t.Fatalf("expected size normalized to M, got %s", order.Items[0].Size)
	}
	if order.OrderID != "" {
		t.Fatal("orderId must not be assigned before the transaction")
	}
}

func TestBuildOrderFromRequestKeepsPaymentMethod(t *testing.T) {
	req := validOrderRequest()
	req.PaymentMethod = "cash"

	order, err := buildOrderFromRequest(req)
	if err != nil {
		t.Fatalf("buildOrderFromRequest returned error: %v", err)
	}
	if order.PaymentMethod != "cash" {
		t.Fatalf("expected payment method cash, got %s", order.PaymentMethod)
	}
}
