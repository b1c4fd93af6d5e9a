package email

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"net/url"
)

var ErrNotConfigured = errors.New("email delivery is not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	FrontendURL  string
}

// Attachment is a file sent alongside the HTML body
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// InvoiceEmail carries what the invoice template renders
type InvoiceEmail struct {
	To           string
	ClientName   string
	BusinessName string
	InvoiceNo    string
	Total        string
	BalanceDue   string
	DueDate      string
	PDF          []byte
}

// SendFunc delivers a fully built message. Swapped out in tests.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   SendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// WithSender replaces the SMTP transport
func (s *EmailService) WithSender(send SendFunc) *EmailService {
	s.send = send
	return s
}

// IsConfigured reports whether an SMTP host and sender address are set
func (s *EmailService) IsConfigured() bool {
	return s != nil && s.config.SMTPHost != "" && s.config.FromEmail != ""
}

// SendInvoiceEmail emails an invoice to a client with its PDF attached
func (s *EmailService) SendInvoiceEmail(msg InvoiceEmail) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	htmlContent, err := renderTemplate(invoiceTemplate, msg)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s from %s", msg.InvoiceNo, msg.BusinessName)

	var attachments []Attachment
	if len(msg.PDF) > 0 {
		attachments = append(attachments, Attachment{
			Filename:    msg.InvoiceNo + ".pdf",
			ContentType: "application/pdf",
			Data:        msg.PDF,
		})
	}

	body, err := s.buildMessage(msg.To, subject, htmlContent, attachments)
	if err != nil {
		return err
	}

	return s.sendEmail(msg.To, body)
}

// SendPasswordResetEmail sends the reset link for a plain token
func (s *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s",
		s.config.FrontendURL,
		url.QueryEscape(token),
	)

	htmlContent, err := renderTemplate(passwordResetTemplate, map[string]string{
		"Email":    toEmail,
		"ResetURL": resetURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	body, err := s.buildMessage(toEmail, "Reset your CleanOps password", htmlContent, nil)
	if err != nil {
		return err
	}

	return s.sendEmail(toEmail, body)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildMessage builds a multipart/mixed message with an HTML part and any attachments
func (s *EmailService) buildMessage(to, subject, htmlBody string, attachments []Attachment) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf,
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: multipart/mixed; boundary=%q\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
		mw.Boundary(),
	)

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="UTF-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	for _, a := range attachments {
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {a.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
		})
		if err != nil {
			return nil, err
		}
		if _, err := part.Write([]byte(base64.StdEncoding.EncodeToString(a.Data))); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func renderTemplate(src string, data any) (string, error) {
	tmpl, err := template.New("email").Parse(src)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const invoiceTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNo}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="background-color: #0f766e; padding: 32px 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 24px;">{{.BusinessName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 32px 30px; color: #334155; font-size: 16px; line-height: 1.6;">
                <p>Hello {{.ClientName}},</p>
                <p>Please find invoice <strong>{{.InvoiceNo}}</strong> attached.</p>
                <table role="presentation" style="width: 100%; margin: 20px 0;">
                    <tr><td>Total</td><td style="text-align: right;">{{.Total}}</td></tr>
                    <tr><td><strong>Balance due</strong></td><td style="text-align: right;"><strong>{{.BalanceDue}}</strong></td></tr>
                    {{if .DueDate}}<tr><td>Due date</td><td style="text-align: right;">{{.DueDate}}</td></tr>{{end}}
                </table>
                <p>Thank you for your business.</p>
            </td>
        </tr>
    </table>
</body>
</html>
`

const passwordResetTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Reset your password</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="padding: 32px 30px; color: #334155; font-size: 16px; line-height: 1.6;">
                <p>We received a request to reset the password for <strong>{{.Email}}</strong>.</p>
                <p style="text-align: center; margin: 32px 0;">
                    <a href="{{.ResetURL}}" style="background-color: #0f766e; color: #ffffff; padding: 14px 28px; border-radius: 8px; text-decoration: none;">Reset password</a>
                </p>
                <p>The link expires in one hour. If you did not ask for this, you can ignore this email.</p>
            </td>
        </tr>
    </table>
</body>
</html>
`
