package mailer

import (
	"context"
	"time"

	tpl "github.com/oksasatya/projecthub/pkg/mailer/templates"
)

// Publisher enqueues a JSON job; *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// ConfirmationMail is what the account flow hands to the mail dispatcher.
type ConfirmationMail struct {
	To        string
	Name      string
	Link      string
	ExpiresAt time.Time
}

// Branding is copied into every templated message.
type Branding struct {
	AppName     string
	CompanyName string
	LogoURL     string
	SupportURL  string
}

// Dispatcher turns mail requests into queued EmailJobs for cmd/email_worker.
type Dispatcher struct {
	Pub      Publisher
	Branding Branding
}

func NewDispatcher(pub Publisher, b Branding) *Dispatcher {
	return &Dispatcher{Pub: pub, Branding: b}
}

func (d *Dispatcher) SendConfirmation(ctx context.Context, m ConfirmationMail) error {
	data := tpl.EmailData{
		Name:        m.Name,
		Email:       m.To,
		ActionURL:   m.Link,
		ExpiresAt:   m.ExpiresAt.UTC(),
		AppName:     d.Branding.AppName,
		CompanyName: d.Branding.CompanyName,
		LogoURL:     d.Branding.LogoURL,
		SupportURL:  d.Branding.SupportURL,
	}
	job := EmailJob{To: m.To, Template: tpl.Confirmation, Data: tpl.ToMap(data)}
	return d.Pub.PublishJSON(ctx, job)
}
