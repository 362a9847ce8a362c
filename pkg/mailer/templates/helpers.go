package templates

import (
	"time"

	"github.com/Widedbounou/SK-B/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		d.ExpiresAtText = time.Now().UTC().Add(dur).Format("02 January 2006, 15:04")
	}
}

func base(cfg *config.Config, name, email string) EmailData {
	d := EmailData{Name: name, Email: email}
	if cfg != nil {
		d.CompanyName = cfg.CompanyName
		d.AppName = cfg.AppName
		d.SupportURL = cfg.SupportURL
	}
	return d
}

// NewVerifyEmailData builds the data map for the account confirmation email.
func NewVerifyEmailData(cfg *config.Config, name, email, link string, opts ...Option) map[string]any {
	d := base(cfg, name, email)
	d.VerifyURL = link
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}

// NewWelcomeData builds the data map for the newsletter welcome email.
func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := base(cfg, name, email)
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}
