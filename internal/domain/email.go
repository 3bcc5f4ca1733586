package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// GroupConfirmationEmailData holds data for the confirmation-request email sent
// to each pending member when a group forms.
type GroupConfirmationEmailData struct {
	Email               string
	Name                string
	GroupName           string
	DestinationName     string
	DateFrom            time.Time
	DateTo              time.Time
	FinalPricePerPerson float64
	Currency            string
	ConfirmURL          string
	ExpiresAt           time.Time
}

// GroupCancelledEmailData holds data for the notice sent to confirmed members
// when their group is cancelled.
type GroupCancelledEmailData struct {
	Email           string
	Name            string
	GroupName       string
	DestinationName string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendGroupConfirmation(ctx context.Context, data *GroupConfirmationEmailData) error
	SendGroupCancelled(ctx context.Context, data *GroupCancelledEmailData) error
}
