package email

import (
	"errors"
	"fmt"
	"net/smtp"
	"net/url"

	"github.com/dkravets/verichat/internal/logger"
)

// ErrNotConfigured is returned when the SMTP credential or the public base
// URL is missing. Registration surfaces it as a configuration error.
var ErrNotConfigured = errors.New("email dispatch is not configured")

// Dispatcher sends mail through an SMTP relay.
type Dispatcher struct {
	host     string
	port     string
	from     string
	password string
	baseURL  string // public base URL used to build verification links
}

// New creates a Dispatcher. Missing credentials are detected lazily on
// send, so an unconfigured instance is safe to construct.
func New(host, port, from, password, baseURL string) *Dispatcher {
	return &Dispatcher{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		baseURL:  baseURL,
	}
}

// Send delivers a single HTML email. It performs no retries; a failed
// delivery is reported to the caller immediately.
func (d *Dispatcher) Send(to, subject, html string) error {
	if d.password == "" || d.host == "" {
		return ErrNotConfigured
	}

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-version: 1.0;\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n"+
		"%s\r\n", to, subject, html))

	auth := smtp.PlainAuth("", d.from, d.password, d.host)

	if err := smtp.SendMail(d.host+":"+d.port, auth, d.from, []string{to}, msg); err != nil {
		logger.Log.Errorw("failed to send email", "to", to, "err", err)
		return err
	}

	logger.Log.Infow("email sent", "to", to, "subject", subject)
	return nil
}

// SendVerification sends the account verification email containing a link
// that embeds the given token.
func (d *Dispatcher) SendVerification(to, verificationToken string) error {
	if d.baseURL == "" {
		return ErrNotConfigured
	}

	link := fmt.Sprintf("%s/verify?token=%s", d.baseURL, url.QueryEscape(verificationToken))

	subject := "Verify your email"
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome to verichat</h2>
			<p>Click the link below to verify your email address and start chatting:</p>
			<p><a href="%s">Verify my email</a></p>
			<p>Or copy this link into your browser:</p>
			<p>%s</p>
			<p>The link expires in 60 minutes.</p>
		</body>
		</html>
	`, link, link)

	return d.Send(to, subject, body)
}
