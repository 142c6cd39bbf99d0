package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/dimitrije/crowdfund-api/internal/config"
	"github.com/dimitrije/crowdfund-api/internal/models"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

// SendCampaignDecision tells a creator their campaign was approved or rejected.
func (s *EmailService) SendCampaignDecision(to, campaignTitle string, status models.CampaignStatus, campaignURL string) error {
	subject, body := campaignDecisionMessage(campaignTitle, status, campaignURL)
	return s.Send(to, subject, body)
}

func campaignDecisionMessage(title string, status models.CampaignStatus, campaignURL string) (string, string) {
	title = html.EscapeString(title)
	if status == models.CampaignActive {
		return "Your campaign is live", fmt.Sprintf(`
		<html>
		<body>
			<h2>Campaign approved</h2>
			<p>Your campaign <strong>%s</strong> has been approved and is now accepting donations.</p>
			<p><a href="%s">View your campaign</a></p>
		</body>
		</html>
	`, title, campaignURL)
	}
	return "Your campaign was not approved", fmt.Sprintf(`
		<html>
		<body>
			<h2>Campaign not approved</h2>
			<p>Your campaign <strong>%s</strong> was reviewed and not approved.</p>
		</body>
		</html>
	`, title)
}
