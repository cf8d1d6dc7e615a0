package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPSender is the production implementation of the Sender interface.
// Port 465 uses implicit TLS (SMTPS); other ports negotiate STARTTLS when
// the server offers it.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string

	dialTimeout time.Duration
}

// NewSMTPSender creates a new SMTP sender. Host and port are required.
func NewSMTPSender(host string, port int, username, password string) (*SMTPSender, error) {
	if host == "" || port == 0 {
		return nil, fmt.Errorf("SMTP host and port are required")
	}
	return &SMTPSender{
		host:        host,
		port:        port,
		username:    username,
		password:    password,
		dialTimeout: 10 * time.Second,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	dialer := net.Dialer{Timeout: s.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return wrapSendError(fmt.Errorf("dial %s: %w", addr, err))
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if s.port == 465 {
		conn = tls.Client(conn, &tls.Config{ServerName: s.host})
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return wrapSendError(err)
	}
	defer client.Close()

	if s.port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return wrapSendError(err)
			}
		}
	}

	if s.username != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return wrapSendError(err)
			}
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return wrapSendError(err)
	}
	for _, rcpt := range append([]string{msg.To}, msg.Cc...) {
		if err := client.Rcpt(rcpt); err != nil {
			return wrapSendError(err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return wrapSendError(err)
	}
	if _, err := w.Write(buildRFC822(msg)); err != nil {
		w.Close()
		return wrapSendError(err)
	}
	if err := w.Close(); err != nil {
		return wrapSendError(err)
	}

	// The server accepted the message when DATA closed; a failed QUIT
	// must not be reported as a send failure or the pool would retry a
	// delivered message.
	_ = client.Quit()
	return nil
}

// buildRFC822 assembles the headers and HTML body.
func buildRFC822(msg Message) []byte {
	var b strings.Builder
	if msg.FromName != "" {
		fmt.Fprintf(&b, "From: %s <%s>\r\n", msg.FromName, msg.From)
	} else {
		fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	}
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	if len(msg.Cc) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(msg.Cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
