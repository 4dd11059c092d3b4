package templates

import (
	"time"
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

func WithApp(name, url string) Option {
	return func(d *EmailData) {
		d.AppName = name
		d.AppURL = url
	}
}

func NewOpeningSharedData(recipient, sender, openingName string, opts ...Option) map[string]any {
	d := EmailData{
		RecipientEmail: recipient,
		Type:           OpeningShared,
		SenderEmail:    sender,
		OpeningName:    openingName,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
