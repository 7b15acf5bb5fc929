package service

import (
	"fmt"

	"quiz_tournament_backend/internal/config"
	"quiz_tournament_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

func NewEmailService(cfg config.EmailConfig) *EmailService {
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendBulkEmail 逐个发送，单个收件人失败不影响其余收件人
func (s *EmailService) SendBulkEmail(recipients []string, subject, body string) error {
	var failed int
	for _, recipient := range recipients {
		m := gomail.NewMessage()
		m.SetHeader("From", s.cfg.From)
		m.SetHeader("To", recipient)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		if err := s.dialer.DialAndSend(m); err != nil {
			failed++
			logger.Log.Error("failed to send email",
				zap.String("recipient", recipient),
				zap.Error(err),
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to send %d of %d emails", failed, len(recipients))
	}
	return nil
}
