package smtp

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"shiftlog/internal/platform/config"
	perr "shiftlog/internal/platform/errors"
	kit "shiftlog/internal/platform/testkit"
)

// fakeRelay is a minimal in-process SMTP server
type fakeRelay struct {
	ln     net.Listener
	refuse map[string]string // address -> full reply line, e.g. "550 no such user"
	failAt string            // command verb answered with "554 failed"
	noAuth bool              // EHLO does not advertise AUTH

	mu    sync.Mutex
	auth  string
	from  string
	rcpts []string
	data  string
	quit  bool
}

func startRelay(t *testing.T, refuse map[string]string, failAt string) *fakeRelay {
	t.Helper()
	return listenRelay(t, &fakeRelay{refuse: refuse, failAt: failAt})
}

func startRelayNoAuth(t *testing.T) *fakeRelay {
	t.Helper()
	return listenRelay(t, &fakeRelay{noAuth: true})
}

func listenRelay(t *testing.T, f *fakeRelay) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	f.ln = ln
	t.Cleanup(func() { _ = ln.Close() })
	go f.serve()
	return f
}

func (f *fakeRelay) serve() {
	for {
		conn, err := f.ln.Accept()
		if err != nil {
			return
		}
		go f.session(conn)
	}
}

func (f *fakeRelay) session(conn net.Conn) {
	defer func() { _ = conn.Close() }()
	tp := textproto.NewConn(conn)
	reply := func(s string) { _ = tp.PrintfLine("%s", s) }

	reply("220 fake ESMTP ready")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		if verb == f.failAt {
			reply("554 failed")
			continue
		}
		switch verb {
		case "EHLO", "HELO":
			reply("250-fake greets you")
			if !f.noAuth {
				reply("250-AUTH PLAIN")
			}
			reply("250 8BITMIME")
		case "AUTH":
			f.mu.Lock()
			f.auth = line
			f.mu.Unlock()
			reply("235 2.7.0 authenticated")
		case "MAIL":
			f.mu.Lock()
			f.from = line
			f.mu.Unlock()
			reply("250 ok")
		case "RCPT":
			addr := strings.TrimSuffix(strings.TrimPrefix(line[len("RCPT TO:"):], "<"), ">")
			if r, ok := f.refuse[addr]; ok {
				reply(r)
				continue
			}
			f.mu.Lock()
			f.rcpts = append(f.rcpts, addr)
			f.mu.Unlock()
			reply("250 ok")
		case "DATA":
			reply("354 go ahead")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			f.mu.Lock()
			f.data = string(body)
			f.mu.Unlock()
			reply("250 queued")
		case "RSET", "NOOP":
			reply("250 ok")
		case "QUIT":
			f.mu.Lock()
			f.quit = true
			f.mu.Unlock()
			reply("221 bye")
			return
		default:
			reply("502 not implemented")
		}
	}
}

func (f *fakeRelay) config() Config {
	host, port, _ := net.SplitHostPort(f.ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return Config{
		Enabled:     true,
		Host:        host,
		Port:        p,
		From:        "tionix.test@gmail.com",
		Subject:     DefaultSubject,
		Body:        DefaultBody,
		HeloName:    "localhost",
		StartTLS:    true,
		DialTimeout: 2 * time.Second,
	}
}

func ctxT(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNotify_Delivers(t *testing.T) {
	relay := startRelay(t, nil, "")
	cfg := relay.config()
	cfg.Username = "tionix.test"
	cfg.Password = "secret"
	n := New(cfg)
	n.now = func() time.Time { return time.Date(2016, 1, 2, 3, 4, 5, 0, time.UTC) }

	d, err := n.Notify(ctxT(t), []string{"a@mail.com", "b@mail.com"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !slices.Equal(d.Delivered, []string{"a@mail.com", "b@mail.com"}) || d.Rejected != nil {
		t.Fatalf("delivery = %+v", d)
	}

	relay.mu.Lock()
	defer relay.mu.Unlock()
	if !slices.Equal(relay.rcpts, []string{"a@mail.com", "b@mail.com"}) {
		t.Fatalf("rcpts = %v", relay.rcpts)
	}
	kit.MustContain(t, relay.auth, "AUTH PLAIN")
	kit.MustContain(t, relay.from, "<tionix.test@gmail.com>")
	kit.MustContain(t, relay.data, "Subject: The contents of tionix test task")
	kit.MustContain(t, relay.data, "Date: Sat, 02 Jan 2016 03:04:05 +0000")
	kit.MustContain(t, relay.data, " Hello ")
	if !relay.quit {
		t.Fatalf("session did not QUIT")
	}
}

func TestNotify_NoCredentialsSkipsAuth(t *testing.T) {
	relay := startRelay(t, nil, "")
	if _, err := New(relay.config()).Notify(ctxT(t), []string{"a@mail.com"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	relay.mu.Lock()
	defer relay.mu.Unlock()
	if relay.auth != "" {
		t.Fatalf("AUTH sent without credentials: %q", relay.auth)
	}
}

func TestNotify_CredentialsWithoutAuthOffer(t *testing.T) {
	relay := startRelayNoAuth(t)
	cfg := relay.config()
	cfg.Username = "tionix.test"
	cfg.Password = "secret"

	d, err := New(cfg).Notify(ctxT(t), []string{"a@mail.com"})
	if !perr.IsCode(err, perr.ErrorCodeTransport) {
		t.Fatalf("err = %v, want transport error", err)
	}
	if perr.Retryable(err) {
		t.Fatalf("missing AUTH should not be retryable")
	}
	kit.MustContain(t, err.Error(), "does not offer AUTH")
	if len(d.Delivered) != 0 {
		t.Fatalf("delivered = %v", d.Delivered)
	}

	relay.mu.Lock()
	defer relay.mu.Unlock()
	if relay.from != "" || len(relay.rcpts) != 0 {
		t.Fatalf("mail sent unauthenticated: from=%q rcpts=%v", relay.from, relay.rcpts)
	}
}

func TestNotify_PartialRefusal(t *testing.T) {
	relay := startRelay(t, map[string]string{"gone@mail.com": "550 5.1.1 no such user"}, "")
	d, err := New(relay.config()).Notify(ctxT(t), []string{"a@mail.com", "gone@mail.com"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !slices.Equal(d.Delivered, []string{"a@mail.com"}) {
		t.Fatalf("delivered = %v", d.Delivered)
	}
	kit.MustContain(t, d.Rejected["gone@mail.com"], "no such user")
}

func TestNotify_AllRefused(t *testing.T) {
	cases := []struct {
		name      string
		reply     string
		retryable bool
	}{
		{"permanent", "550 5.1.1 no such user", false},
		{"greylisted", "451 4.7.1 try again later", true},
		{"shutting down", "421 4.3.2 service not available", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			relay := startRelay(t, map[string]string{"x@mail.com": c.reply}, "")
			d, err := New(relay.config()).Notify(ctxT(t), []string{"x@mail.com"})
			if !perr.IsCode(err, perr.ErrorCodeTransport) {
				t.Fatalf("want transport error, got %v", err)
			}
			if perr.Retryable(err) != c.retryable {
				t.Fatalf("Retryable = %v, want %v", perr.Retryable(err), c.retryable)
			}
			if len(d.Delivered) != 0 || d.Rejected["x@mail.com"] == "" {
				t.Fatalf("delivery = %+v", d)
			}
		})
	}
}

func TestNotify_DataRejected(t *testing.T) {
	relay := startRelay(t, nil, "DATA")
	d, err := New(relay.config()).Notify(ctxT(t), []string{"a@mail.com"})
	if !perr.IsCode(err, perr.ErrorCodeTransport) {
		t.Fatalf("want transport error, got %v", err)
	}
	if len(d.Delivered) != 0 || d.Rejected["a@mail.com"] == "" {
		t.Fatalf("delivery = %+v", d)
	}
}

func TestNotify_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	host, port, _ := net.SplitHostPort(addr)
	p, _ := strconv.Atoi(port)
	n := New(Config{Host: host, Port: p, DialTimeout: time.Second})
	_, err = n.Notify(ctxT(t), []string{"a@mail.com"})
	if !perr.IsCode(err, perr.ErrorCodeTransport) {
		t.Fatalf("want transport error, got %v", err)
	}
}

func TestNotify_EmptyMakesNoConnection(t *testing.T) {
	n := New(Config{Host: "127.0.0.1", Port: 1})
	dialed := false
	n.dial = func(context.Context, string, string) (net.Conn, error) {
		dialed = true
		return nil, nil
	}
	if _, err := n.Notify(ctxT(t), nil); err != nil || dialed {
		t.Fatalf("err=%v dialed=%v", err, dialed)
	}
}

func TestDisabled(t *testing.T) {
	d, err := Disabled{}.Notify(context.Background(), []string{"a@mail.com"})
	if err != nil || len(d.Delivered) != 0 {
		t.Fatalf("Disabled = %+v, %v", d, err)
	}
	if _, ok := FromConfigOrDisabled(Config{}).(Disabled); !ok {
		t.Fatalf("disabled config should yield Disabled")
	}
	if _, ok := FromConfigOrDisabled(Config{Enabled: true}).(*Notifier); !ok {
		t.Fatalf("enabled config should yield *Notifier")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.New().Prefix("SMTP_TEST_")
	c := FromConfig(cfg)
	if c.Enabled || c.Host != DefaultHost || c.Port != DefaultPort || c.Body != DefaultBody ||
		c.Subject != DefaultSubject || !c.StartTLS || c.Addr() != "smtp.gmail.com:587" {
		t.Fatalf("defaults = %+v", c)
	}

	t.Setenv("SMTP_TEST_ENABLED", "true")
	t.Setenv("SMTP_TEST_HOST", "relay.local")
	t.Setenv("SMTP_TEST_PORT", "2525")
	t.Setenv("SMTP_TEST_USERNAME", "bot@relay.local")
	c = FromConfig(cfg)
	if !c.Enabled || c.Addr() != "relay.local:2525" || c.From != "bot@relay.local" {
		t.Fatalf("from env = %+v", c)
	}
}

func TestMessage(t *testing.T) {
	n := New(Config{From: "f@x", Subject: "s", Body: "line1\nline2"})
	n.now = func() time.Time { return time.Unix(0, 0) }
	msg := string(n.message())
	sc := bufio.NewScanner(strings.NewReader(msg))
	var headers []string
	for sc.Scan() {
		l := strings.TrimSuffix(sc.Text(), "\r")
		if l == "" {
			break
		}
		headers = append(headers, strings.SplitN(l, ":", 2)[0])
	}
	want := []string{"From", "To", "Subject", "Date", "MIME-Version", "Content-Type", "Content-Transfer-Encoding"}
	if !slices.Equal(headers, want) {
		t.Fatalf("headers = %v", headers)
	}
	kit.MustContain(t, msg, "line1\r\nline2\r\n")
}
