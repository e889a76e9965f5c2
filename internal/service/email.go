package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendOverdueReminder(ctx context.Context, email, patronName, bookTitle string, dueDate time.Time, fineSoFar decimal.Decimal) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Overdue reminder: %s", bookTitle))

	body := fmt.Sprintf(
		"Hello %s,\n\nOur records show that %q was due on %s and has not been returned.\nYour fine so far is %s and grows by 0.50 per day.\n\nPlease return the item at your earliest convenience.\n\nYour library",
		patronName, bookTitle, dueDate.Format("2006-01-02"), fineSoFar.StringFixed(2))
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue reminder: %w", err)
	}
	return nil
}
