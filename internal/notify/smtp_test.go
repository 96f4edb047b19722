package notify

import (
	"strings"
	"testing"

	"backend/internal/config"
	"backend/internal/models"
)

func TestNewFromConfigFallsBackToLogNotifier(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"empty config", config.Config{}},
		{"host without user", config.Config{SMTPHost: "smtp.example.com"}},
		{"user without host", config.Config{SMTPUser: "store@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := NewFromConfig(tt.cfg).(LogNotifier); !ok {
				t.Fatal("expected LogNotifier when SMTP is not configured")
			}
		})
	}
}

func TestNewFromConfigBuildsSMTPNotifier(t *testing.T) {
	cfg := config.Config{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     "587",
		SMTPUser:     "store@example.com",
		SMTPPassword: "secret",
	}

	notifier, ok := NewFromConfig(cfg).(*SMTPNotifier)
	if !ok {
		t.Fatal("expected *SMTPNotifier when SMTP is configured")
	}
	// alerts default to the sending account when no dedicated address is set
	if notifier.alertTo != "store@example.com" {
		t.Fatalf("alertTo = %q, want store@example.com", notifier.alertTo)
	}
}

func TestOrderConfirmationBody(t *testing.T) {
	order := models.Order{
		OrderID: "ORD000042",
		Total:   54.98,
		Items: []models.OrderItem{
			{Name: "Blazer", Size: "M", Quantity: 2, Price: 24.99},
			{Name: "Tie", Size: "S", Quantity: 1, Price: 5.00},
		},
	}

	body := orderConfirmationBody(order)
	for _, want := range []string{
		"ORD000042",
		"Blazer (M) - Quantity: 2 - $24.99",
		"Tie (S) - Quantity: 1 - $5.00",
		"Total Amount: $54.98",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestLowStockBody(t *testing.T) {
	body := lowStockBody(models.Product{Name: "Jumper", ProductID: 7, Stock: 4})
	if !strings.Contains(body, "Jumper") || !strings.Contains(body, "catalog id 7") || !strings.Contains(body, "4 units") {
		t.Fatalf("unexpected low stock body:\n%s", body)
	}
}
