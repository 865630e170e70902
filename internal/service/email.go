package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ismyyear/lockin/internal/model"
	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	appURL    string
	appName   string
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		appURL:    appURL,
		appName:   appName,
	}
}

// SendPartnerMatched tells user who their new partner is.
func (s *EmailService) SendPartnerMatched(ctx context.Context, user, partner *model.User) error {
	dashboardURL := fmt.Sprintf("%s/dashboard", s.appURL)
	subject, body := partnerMatchedEmailTemplate(deref(partner.PrimaryFocus, "not set"), deref(partner.JoinedMonth, "recently"), dashboardURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "partner_matched", "to", user.Email, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{user.Email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "partner_matched", "to", user.Email)
	}
	return err
}

func deref(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
