package utils

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"climate-hub/models"
)

// Mailer sends order receipts.
type Mailer interface {
	SendReceipt(order models.Order) error
}

// SMTPMailer sends plain-text mail through an authenticated SMTP relay.
type SMTPMailer struct {
	From string
	Pass string
	Addr string // host:port
}

// Enabled reports whether credentials were configured.
func (m *SMTPMailer) Enabled() bool {
	return m != nil && m.From != "" && m.Pass != ""
}

func (m *SMTPMailer) SendReceipt(order models.Order) error {
	if !m.Enabled() {
		return nil
	}
	host, _, err := net.SplitHostPort(m.Addr)
	if err != nil {
		return fmt.Errorf("invalid SMTP address %q: %w", m.Addr, err)
	}

	return smtp.SendMail(
		m.Addr,
		smtp.PlainAuth("", m.From, m.Pass, host),
		m.From,
		[]string{order.Email},
		[]byte(ReceiptMessage(m.From, order)),
	)
}

// ReceiptMessage renders the receipt mail, headers included.
func ReceiptMessage(from string, order models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", order.Email)
	fmt.Fprintf(&b, "Subject: Climate Hub - Order %s\r\n\r\n", order.ID.Hex())

	b.WriteString("Thank you for supporting climate action!\r\n\r\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s  %.2f\r\n", item.Quantity, item.Title, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\r\nTotal: %.2f %s\r\n", order.Total, strings.ToUpper(order.Currency))
	fmt.Fprintf(&b, "Status: %s\r\n\r\nClimate Hub Team\r\n", order.Status)
	return b.String()
}
