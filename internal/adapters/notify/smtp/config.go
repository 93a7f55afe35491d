package smtp

import (
	"net"
	"strconv"
	"time"

	"shiftlog/internal/platform/config"
)

// Defaults for the notification relay and message
const (
	DefaultHost    = "smtp.gmail.com"
	DefaultPort    = 587
	DefaultSubject = "The contents of tionix test task"
	DefaultBody    = " Hello "
)

// Config describes the relay and the message sent to every recipient
type Config struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	Subject     string
	Body        string
	HeloName    string
	StartTLS    bool
	SkipVerify  bool
	DialTimeout time.Duration
}

// FromConfig reads the relay settings from cfg, usually prefixed "SERVICE_SMTP_":
// ENABLED, HOST, PORT, USERNAME, PASSWORD, FROM, SUBJECT, BODY, HELO, STARTTLS,
// SKIP_VERIFY, DIAL_TIMEOUT
func FromConfig(cfg config.Conf) Config {
	c := Config{
		Enabled:     cfg.MayBool("ENABLED", false),
		Host:        cfg.MayString("HOST", DefaultHost),
		Port:        cfg.MayPositiveInt("PORT", DefaultPort),
		Username:    cfg.MayString("USERNAME", ""),
		Password:    cfg.MayString("PASSWORD", ""),
		From:        cfg.MayString("FROM", ""),
		HeloName:    cfg.MayString("HELO", "localhost"),
		StartTLS:    cfg.MayBool("STARTTLS", true),
		SkipVerify:  cfg.MayBool("SKIP_VERIFY", false),
		DialTimeout: cfg.MayDuration("DIAL_TIMEOUT", 10*time.Second),
	}
	c.Subject = cfg.MayString("SUBJECT", DefaultSubject)
	c.Body = cfg.MayString("BODY", DefaultBody)
	if c.From == "" {
		c.From = c.Username
	}
	return c
}

// Addr is host:port of the relay
func (c Config) Addr() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }
