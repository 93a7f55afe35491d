// Package smtp delivers timesheet notifications through an SMTP relay
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	netsmtp "net/smtp"
	"net/textproto"
	"strings"
	"time"

	perr "shiftlog/internal/platform/errors"
	"shiftlog/internal/platform/logger"
	"shiftlog/internal/services/timesheet/domain"
)

// Notifier sends one plain text message to every address per Notify call
type Notifier struct {
	cfg  Config
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
	now  func() time.Time
}

// New returns a relay notifier for cfg
func New(cfg Config) *Notifier {
	d := &net.Dialer{Timeout: cfg.DialTimeout}
	return &Notifier{cfg: cfg, dial: d.DialContext, now: time.Now}
}

// FromConfigOrDisabled returns a relay notifier when cfg.Enabled, otherwise Disabled
func FromConfigOrDisabled(cfg Config) domain.NotifierPort {
	if !cfg.Enabled {
		return Disabled{}
	}
	return New(cfg)
}

// Notify runs one SMTP session: EHLO, STARTTLS when offered, AUTH when credentials
// are set (a relay without AUTH is then an error), then MAIL, one RCPT per address and DATA. Refused recipients are
// reported in Delivery.Rejected; when every recipient is refused the call fails
func (n *Notifier) Notify(ctx context.Context, addrs []string) (domain.Delivery, error) {
	out := domain.Delivery{Rejected: map[string]string{}}
	if len(addrs) == 0 {
		return out, nil
	}

	conn, err := n.dial(ctx, "tcp", n.cfg.Addr())
	if err != nil {
		return out, perr.Wrapf(err, perr.ErrorCodeTransport, "smtp dial %s", n.cfg.Addr())
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	c, err := netsmtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return out, transportErr(err, "smtp greeting")
	}
	defer func() { _ = c.Close() }()

	if err := c.Hello(n.cfg.HeloName); err != nil {
		return out, transportErr(err, "smtp ehlo")
	}
	if ok, _ := c.Extension("STARTTLS"); ok && n.cfg.StartTLS {
		tc := &tls.Config{ServerName: n.cfg.Host, InsecureSkipVerify: n.cfg.SkipVerify} //nolint:gosec
		if err := c.StartTLS(tc); err != nil {
			return out, transportErr(err, "smtp starttls")
		}
	}
	if n.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			_ = c.Quit()
			return out, transportErr(nil, "smtp: relay does not offer AUTH for configured credentials")
		}
		auth := netsmtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return out, transportErr(err, "smtp auth")
		}
	}
	if err := c.Mail(n.cfg.From); err != nil {
		return out, transportErr(err, "smtp mail from")
	}

	var lastRefusal error
	for _, a := range addrs {
		if err := c.Rcpt(a); err != nil {
			out.Rejected[a] = err.Error()
			lastRefusal = err
			continue
		}
		out.Delivered = append(out.Delivered, a)
	}
	if len(out.Delivered) == 0 {
		_ = c.Quit()
		return out, transportErr(lastRefusal, "smtp: all recipients refused")
	}

	w, err := c.Data()
	if err != nil {
		return failDelivered(out), transportErr(err, "smtp data")
	}
	if _, err := w.Write(n.message()); err != nil {
		_ = w.Close()
		return failDelivered(out), transportErr(err, "smtp data write")
	}
	if err := w.Close(); err != nil {
		return failDelivered(out), transportErr(err, "smtp data end")
	}
	if err := c.Quit(); err != nil {
		l := logger.C(ctx)
		l.Debug().Err(err).Msg("smtp quit")
	}

	if len(out.Rejected) == 0 {
		out.Rejected = nil
	}
	return out, nil
}

// failDelivered moves accepted recipients to Rejected once the message itself failed
func failDelivered(d domain.Delivery) domain.Delivery {
	for _, a := range d.Delivered {
		d.Rejected[a] = "message not accepted"
	}
	d.Delivered = nil
	return d
}

func (n *Notifier) message() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	b.WriteString("To: undisclosed-recipients:;\r\n")
	fmt.Fprintf(&b, "Subject: %s\r\n", n.cfg.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(n.cfg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// transportErr wraps err as a transport failure; 421 and 45x replies are marked retryable
func transportErr(err error, msg string) error {
	if err == nil {
		return perr.Transportf("%s", msg)
	}
	e := perr.Wrap(err, perr.ErrorCodeTransport, msg)
	var tp *textproto.Error
	if errors.As(err, &tp) && (tp.Code == 421 || tp.Code/10 == 45) {
		return perr.MarkRetryable(e)
	}
	return e
}

// Disabled logs the addresses it would notify and delivers nothing
type Disabled struct{}

// Notify implements domain.NotifierPort
func (Disabled) Notify(ctx context.Context, addrs []string) (domain.Delivery, error) {
	l := logger.C(ctx)
	l.Info().Strs("addresses", addrs).Msg("smtp disabled; notification skipped")
	return domain.Delivery{}, nil
}
