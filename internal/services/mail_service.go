package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/smtp"
	"path/filepath"
	"strings"
	"text/template"

	"tradesync/internal/config"
	"tradesync/internal/models"
)

// MailService renders the configured order confirmation template and sends it
// to the customer as an HTML mail. With no template configured every send is
// a no-op.
type MailService struct {
	smtp         config.SMTPConfig
	templatePath string
}

func NewMailService(cfg *config.Config) *MailService {
	templatePath := cfg.TradeMaster.ClientMailTemplate
	return &MailService{
		smtp:         cfg.SMTP,
		templatePath: templatePath,
	}
}

// SendOrderConfirmation renders the template with the order and its products
// and mails the result to the order's email address.
func (s *MailService) SendOrderConfirmation(ctx context.Context, order *models.Order, products []*models.Product) error {
	if s.templatePath == "" {
		return nil
	}

	body, err := s.render(order, products)
	if err != nil {
		return err
	}

	subject := "Order confirmation"
	if order.Submitted() {
		subject = fmt.Sprintf("Order confirmation %s", *order.ExternalID)
	}
	return s.send(order.Email, subject, body)
}

func (s *MailService) render(order *models.Order, products []*models.Product) (string, error) {
	tpl, err := template.New(filepath.Base(s.templatePath)).ParseFiles(s.templatePath)
	if err != nil {
		return "", fmt.Errorf("parse mail template %s: %w", s.templatePath, err)
	}

	var buf bytes.Buffer
	data := map[string]any{
		"Order":    order,
		"Products": products,
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render mail template %s: %w", s.templatePath, err)
	}
	return buf.String(), nil
}

func (s *MailService) send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.smtp.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", s.smtp.Host, s.smtp.Port)
	var auth smtp.Auth
	if s.smtp.Username != "" {
		auth = smtp.PlainAuth("", s.smtp.Username, s.smtp.Password, s.smtp.Host)
	}
	if err := smtp.SendMail(addr, auth, s.smtp.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	log.Printf("mail: sent order confirmation to %s", to)
	return nil
}
