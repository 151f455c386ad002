package services

import (
	"fmt"
	"log"

	"github.com/osmanaliaydemir/getir-sub003/models"
	"gopkg.in/gomail.v2"
)

// Notifier delivers stock alerts. Delivery and retry policy are the
// notifier's concern; the alert engine fires and forgets.
type Notifier interface {
	Notify(alert models.StockAlert)
}

// EmailNotifier sends stock alert mails over SMTP.
type EmailNotifier struct {
	Host     string
	Port     int
	Sender   string
	Password string
	To       []string
}

func NewEmailNotifier(host string, port int, sender, password string, to []string) *EmailNotifier {
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Sender:   sender,
		Password: password,
		To:       to,
	}
}

func (n *EmailNotifier) Notify(alert models.StockAlert) {
	if len(n.To) == 0 {
		return
	}

	subject := "📦 Stock Alert: " + alert.AlertType
	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Stock Alert</h3>
				<p>%s</p>
				<p>Current stock: <strong>%d</strong> (minimum: %d)</p>
				<p>This is an auto-generated email. Please do not reply.</p>
			</body>
		</html>
	`, alert.Message, alert.CurrentStock, alert.MinimumStock)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.Sender)
	msg.SetHeader("To", n.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(n.Host, n.Port, n.Sender, n.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Println("Failed to send stock alert mail:", err)
	}
}

// NopNotifier drops alerts. Used when no SMTP recipients are configured.
type NopNotifier struct{}

func (NopNotifier) Notify(alert models.StockAlert) {}
