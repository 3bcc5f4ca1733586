package domain

import (
	"context"
	"errors"
	"time"
)

// Confirmation workflow errors. All are user-recoverable and map to 4xx responses.
var (
	// ErrTokenInvalid is returned when a token does not resolve to a known confirmation.
	ErrTokenInvalid = errors.New("invalid confirmation token")
	// ErrTokenExpired is returned when a response arrives past the deadline.
	ErrTokenExpired = errors.New("confirmation deadline has passed")
	// ErrAlreadyResponded is returned when a confirmation was already answered.
	ErrAlreadyResponded = errors.New("confirmation already answered")
	// ErrMissingReason is returned when a decline carries no reason.
	ErrMissingReason = errors.New("decline reason is required")
)

// DeclineReasonExpired is recorded when the deadline sweep resolves a pending
// confirmation; it counts as a decline for group sizing.
const DeclineReasonExpired = "expired"

// PaymentStatus is the payment state of a confirmed member.
type PaymentStatus string

// Payment states.
const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Confirmation is one member's pending/confirmed/declined response for a group.
// Confirmed is nil while the member has not answered; once set it is immutable.
// swagger:model Confirmation
type Confirmation struct {
	ID            string        `json:"id"`
	GroupID       string        `json:"group_id"`
	InterestID    string        `json:"interest_id"`
	Token         string        `json:"-"`
	UserName      string        `json:"user_name"`
	UserEmail     string        `json:"user_email"`
	NumPeople     int           `json:"num_people"`
	Confirmed     *bool         `json:"confirmed"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	DeclineReason *string       `json:"decline_reason,omitempty"`
	ExpiresAt     time.Time     `json:"expires_at"`
	RespondedAt   *time.Time    `json:"responded_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ConfirmationRepository defines storage operations for confirmations.
type ConfirmationRepository interface {
	GetByToken(ctx context.Context, token string) (*Confirmation, error)
	GetByID(ctx context.Context, id string) (*Confirmation, error)
	ListByGroupID(ctx context.Context, groupID string) ([]*Confirmation, error)
	// SetResponse records the member's answer. The update is guarded by
	// confirmed IS NULL; if the row was answered in the meantime it returns
	// ErrAlreadyResponded.
	SetResponse(ctx context.Context, id string, confirmed bool, declineReason *string, respondedAt time.Time) error
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus) error
	// ListExpiredPending returns confirmations still unanswered past their deadline.
	ListExpiredPending(ctx context.Context, now time.Time) ([]*Confirmation, error)
	// ListPendingByGroupID returns unanswered confirmations for the group.
	ListPendingByGroupID(ctx context.Context, groupID string) ([]*Confirmation, error)
}

// ConfirmationStatusView is what the public token page sees: group summary plus
// the member's own confirmation state.
type ConfirmationStatusView struct {
	Group        *Group        `json:"group"`
	Confirmation *Confirmation `json:"confirmation"`
}

// RespondResult is returned on a successful confirm/decline.
type RespondResult struct {
	Confirmation    *Confirmation `json:"confirmation"`
	PaymentRequired bool          `json:"payment_required"`
	PaymentURL      string        `json:"payment_url,omitempty"`
}

// ConfirmationService drives the per-group confirm/decline/payment state machine.
type ConfirmationService interface {
	// StatusByToken returns the group summary and confirmation for the token,
	// lazily expiring it when the deadline has passed.
	StatusByToken(ctx context.Context, groupID, token string) (*ConfirmationStatusView, error)
	// Respond applies a confirm (confirmed=true) or decline (confirmed=false,
	// reason required) for the token.
	Respond(ctx context.Context, groupID, token string, confirmed bool, declineReason string) (*RespondResult, error)
	// MarkPaid records the payment collaborator's callback. Only legal once confirmed.
	MarkPaid(ctx context.Context, confirmationID string) error
	// SweepExpired resolves every pending confirmation past its deadline as a
	// decline and recomputes the affected groups. Idempotent. Returns the number
	// of confirmations expired.
	SweepExpired(ctx context.Context) (int, error)
	// SendConfirmations dispatches the confirmation email to every pending member
	// of the group. Returns the number of emails sent.
	SendConfirmations(ctx context.Context, groupID string) (int, error)
}
