package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/joy095/gowafly/config"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/models/booking_models"
	gomail "gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).ParseFS(templateFS, "templates/*.html"))

// Template names
const (
	bookingConfirmationTemplate = "booking_confirmation.html"
	bookingCancelledTemplate    = "booking_cancelled.html"
)

// sender delivers a composed message. gomail's dialer satisfies it.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends booking e-mails in the background. It satisfies the booking
// service's notifier; delivery failures are logged and never reach the caller.
type Mailer struct {
	from   string
	sender sender
	wg     sync.WaitGroup
}

// NewMailer returns nil when no SMTP host is configured.
func NewMailer(cfg config.MailConfig) *Mailer {
	if cfg.Host == "" {
		logger.WarnLogger.Warn("SMTP_HOST not set, booking e-mails are disabled")
		return nil
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         cfg.Host,
	}
	return &Mailer{from: cfg.From, sender: dialer}
}

func (m *Mailer) BookingCreated(b *booking_models.Booking) {
	m.dispatch(b, "Your Gowa Fly booking "+b.BookingReference, bookingConfirmationTemplate)
}

func (m *Mailer) BookingCancelled(b *booking_models.Booking) {
	m.dispatch(b, "Booking "+b.BookingReference+" has been cancelled", bookingCancelledTemplate)
}

// Wait blocks until queued e-mails are handed to the SMTP server.
func (m *Mailer) Wait() {
	if m != nil {
		m.wg.Wait()
	}
}

func (m *Mailer) dispatch(b *booking_models.Booking, subject, templateName string) {
	if m == nil || b == nil || b.ContactDetails.Email == "" {
		return
	}
	// copy so later mutation by the caller cannot race with rendering
	snapshot := *b
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.send(snapshot.ContactDetails.Email, subject, templateName, snapshot); err != nil {
			logger.ErrorLogger.Errorf("Failed to e-mail booking %s: %v", snapshot.BookingReference, err)
		}
	}()
}

// --- Helper function to send email using gomail ---
func (m *Mailer) send(toEmail, subject, templateName string, data any) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to execute email template %s: %w", templateName, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	logger.InfoLogger.Infof("Sent %s to %s", templateName, toEmail)
	return nil
}
