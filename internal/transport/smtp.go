package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"time"
)

// SMTP submits one message per Send call over a fresh authenticated
// STARTTLS connection (port 587 submission). Connection lifecycle and
// timeouts live here, not in the dispatch engine.
type SMTP struct {
	Host     string
	Port     int
	Sender   string
	Password string

	DialTimeout time.Duration
}

func NewSMTP(host string, port int, sender, password string) *SMTP {
	return &SMTP{
		Host:        host,
		Port:        port,
		Sender:      sender,
		Password:    password,
		DialTimeout: 30 * time.Second,
	}
}

func (s *SMTP) Send(ctx context.Context, subject, body, rcpt string) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))

	d := net.Dialer{Timeout: s.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return wrap(KindConnection, err)
	}

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return wrap(KindConnection, err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			return wrap(KindConnection, err)
		}
	}

	if ok, _ := c.Extension("AUTH"); ok && s.Password != "" {
		auth := smtp.PlainAuth("", s.Sender, s.Password, s.Host)
		if err := c.Auth(auth); err != nil {
			return wrap(KindAuth, err)
		}
	}

	if err := c.Mail(s.Sender); err != nil {
		return classify(err)
	}
	if err := c.Rcpt(rcpt); err != nil {
		return wrap(KindRejected, err)
	}

	w, err := c.Data()
	if err != nil {
		return classify(err)
	}
	if _, err := w.Write(BuildMessage(s.Sender, rcpt, subject, body)); err != nil {
		w.Close()
		return wrap(KindConnection, err)
	}
	if err := w.Close(); err != nil {
		return classify(err)
	}

	return c.Quit()
}

// classify maps an SMTP reply or network failure to an error kind by
// the server reply code, falling back on the error's shape.
func classify(err error) *Error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535, 538:
			return wrap(KindAuth, err)
		case 550, 551, 552, 553, 554:
			return wrap(KindRejected, err)
		}
		return wrap(KindUnknown, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return wrap(KindConnection, err)
	}
	return wrap(KindUnknown, err)
}
