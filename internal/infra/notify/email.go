package notify

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lmartell/crescraper/internal/scraper"
)

// Env var names the sender credentials come from (loaded from .env or
// the environment).
const (
	EnvAddress  = "EMAIL_ADDRESS"
	EnvPassword = "EMAIL_PASSWORD"
)

// Sender delivers plain-text run summaries over SMTP with STARTTLS.
type Sender struct {
	host     string
	port     int
	from     string
	password string
	logger   *zap.Logger
}

// NewSender reads credentials from the environment. It returns an error
// when either credential is missing so callers can skip email cleanly.
func NewSender(host string, port int, logger *zap.Logger) (*Sender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	from := os.Getenv(EnvAddress)
	password := os.Getenv(EnvPassword)
	if from == "" || password == "" {
		return nil, fmt.Errorf("email credentials not configured (%s/%s)", EnvAddress, EnvPassword)
	}
	return &Sender{host: host, port: port, from: from, password: password, logger: logger}, nil
}

// Send delivers a plain-text message to a single recipient.
func (s *Sender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.from, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	s.logger.Info("results email sent", zap.String("to", to))
	return nil
}

// BuildSummary renders the run results the way they appear in the
// notification email: a subject with the total count and a body with a
// per-site section listing every property.
func BuildSummary(results scraper.Results, ranAt time.Time) (subject, body string) {
	total := results.Total()
	subject = fmt.Sprintf("Commercial Real Estate Search Results - %d Properties Found", total)

	var b strings.Builder
	b.WriteString("Commercial Real Estate Search Results\n")
	b.WriteString("=====================================\n\n")
	fmt.Fprintf(&b, "Search completed: %s\n", ranAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Total properties found: %d\n\n", total)

	if total == 0 {
		b.WriteString("No new properties found matching your criteria.\n")
	} else {
		rule := strings.Repeat("=", 50)
		for _, site := range results {
			if len(site.Listings) == 0 {
				continue
			}
			b.WriteString(rule + "\n")
			fmt.Fprintf(&b, "%s - %d Properties\n", strings.ToUpper(site.Site), len(site.Listings))
			b.WriteString(rule + "\n\n")
			for i, l := range site.Listings {
				fmt.Fprintf(&b, "[%d] %s\n", i+1, l.Address)
				fmt.Fprintf(&b, "Price: %s\n", l.Price)
				fmt.Fprintf(&b, "Type: %s\n", l.PropertyType)
				if l.URL != "" {
					fmt.Fprintf(&b, "URL: %s\n", l.URL)
				}
				b.WriteString("\n" + strings.Repeat("-", 40) + "\n\n")
			}
		}
	}

	b.WriteString("\n---\nThis email was automatically sent by the Commercial Real Estate Crawler.\n")
	return subject, b.String()
}
