// File: /services/email_service.go
package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"foodshare-api/config"
	"foodshare-api/models"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

// Send delivers one message with a plain text body and an HTML alternative
func (es *EmailService) Send(to, subject, textBody, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// notificationEmail renders the subject and bodies for a lifecycle notification
func notificationEmail(fromName, recipientName string, n *models.Notification) (subject, textBody, htmlBody string) {
	subject = fmt.Sprintf("%s - %s", fromName, n.Title)

	textBody = fmt.Sprintf(`
Hello %s!

%s

Open %s to see the post and what happens next.

This is an automated email, please do not reply.
`, recipientName, n.Message, fromName)

	htmlBody = fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: #16a34a; color: white; padding: 20px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>%s</h1>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>%s</p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(n.Title), html.EscapeString(recipientName), html.EscapeString(n.Message))

	return subject, textBody, htmlBody
}
