package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"backend/internal/config"
	"backend/internal/models"
)

// SMTPNotifier sends order confirmations to the customer and low-stock
// alerts to the store address over plain SMTP.
type SMTPNotifier struct {
	host     string
	port     string
	user     string
	password string
	alertTo  string
}

func NewFromConfig(cfg config.Config) Notifier {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		return LogNotifier{}
	}
	alertTo := cfg.LowStockEmail
	if alertTo == "" {
		alertTo = cfg.SMTPUser
	}
	return &SMTPNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		alertTo:  alertTo,
	}
}

func (n *SMTPNotifier) OrderConfirmed(_ context.Context, order models.Order) error {
	subject := "Order Confirmation - Your order has been received"
	return n.send(order.Customer.Email, subject, orderConfirmationBody(order))
}

func (n *SMTPNotifier) LowStock(_ context.Context, product models.Product) error {
	subject := fmt.Sprintf("Low Stock Alert - %s", product.Name)
	return n.send(n.alertTo, subject, lowStockBody(product))
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("no recipient address")
	}

	msg := strings.Join([]string{
		"From: " + n.user,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", n.user, n.password, n.host)
	return smtp.SendMail(n.host+":"+n.port, auth, n.user, []string{to}, []byte(msg))
}

func orderConfirmationBody(order models.Order) string {
	var b strings.Builder
	b.WriteString("<h1>Thank you for your order!</h1>")
	fmt.Fprintf(&b, "<p>Order ID: %s</p>", order.OrderID)
	b.WriteString("<h2>Order Details:</h2><ul>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<li>%s (%s) - Quantity: %d - $%.2f</li>", item.Name, item.Size, item.Quantity, item.Price)
	}
	b.WriteString("</ul>")
	fmt.Fprintf(&b, "<p>Total Amount: $%.2f</p>", order.Total)
	b.WriteString("<p>We will process your order soon.</p>")
	return b.String()
}

func lowStockBody(product models.Product) string {
	var b strings.Builder
	b.WriteString("<h1>Low Stock Alert</h1>")
	fmt.Fprintf(&b, "<p>%s (catalog id %d) is down to %d units.</p>", product.Name, product.ProductID, product.Stock)
	b.WriteString("<p>Consider restocking soon.</p>")
	return b.String()
}
