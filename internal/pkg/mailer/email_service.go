package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendSessionArchive(toEmail, sessionTitle, summary string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendSessionArchive mails the user a recap when their mentoring session is
// archived after the inactivity window.
func (s *emailService) SendSessionArchive(toEmail, sessionTitle, summary string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your mentoring session %q was archived", sessionTitle))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Session archived</h2>
			<p>Your mentoring session <strong>%s</strong> has been inactive for a while, so we archived it for you.</p>
			<p>%s</p>
			<p>Start a new session any time to pick up where you left off.</p>
		</div>
	`, sessionTitle, summary)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send archive notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Archive notice sent to %s\n", toEmail)
	return nil
}
