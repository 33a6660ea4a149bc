package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// OrderConfirmationData carries the fields rendered into the confirmation email
type OrderConfirmationData struct {
	CustomerName string
	OrderNumber  string
	Total        float64
	DeliveryDate string
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<h2>Pedido {{.OrderNumber}} recebido!</h2>
	<p>Olá {{.CustomerName}},</p>
	<p>Recebemos o seu pedido e ele já está na nossa fila de produção.</p>
	<p><strong>Total:</strong> R$ {{printf "%.2f" .Total}}</p>
	{{if .DeliveryDate}}<p><strong>Data desejada:</strong> {{.DeliveryDate}}</p>{{end}}
	<p>Obrigado pela preferência!</p>
</body>
</html>
`))

// SendOrderConfirmation sends an order confirmation email to the customer
func (s *EmailService) SendOrderConfirmation(toEmail string, data OrderConfirmationData) error {
	var body bytes.Buffer
	if err := orderConfirmationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Pedido %s recebido - Doceria", data.OrderNumber)
	message := s.buildHTMLEmail(toEmail, subject, body.String())

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}
