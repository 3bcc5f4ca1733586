package domain

import (
	"context"
	"time"
)

// InterestStatus is the lifecycle status of an interest request.
type InterestStatus string

// Interest lifecycle. An interest is never deleted, only status-transitioned.
const (
	InterestStatusOpen      InterestStatus = "open"
	InterestStatusMatched   InterestStatus = "matched"
	InterestStatusConverted InterestStatus = "converted"
	InterestStatusCancelled InterestStatus = "cancelled"
)

// Interest represents a traveler's request to join a group trip to a destination.
// GroupID is set iff status is matched or converted.
// swagger:model Interest
type Interest struct {
	ID              string         `json:"id"`
	DestinationID   string         `json:"destination_id"`
	UserName        string         `json:"user_name"`
	UserEmail       string         `json:"user_email"`
	UserPhone       *string        `json:"user_phone,omitempty"`
	NumPeople       int            `json:"num_people"`
	DateFrom        time.Time      `json:"date_from"`
	DateTo          time.Time      `json:"date_to"`
	BudgetMin       *float64       `json:"budget_min,omitempty"`
	BudgetMax       *float64       `json:"budget_max,omitempty"`
	SpecialRequests *string        `json:"special_requests,omitempty"`
	ClientUUID      string         `json:"client_uuid"`
	Status          InterestStatus `json:"status"`
	GroupID         *string        `json:"group_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// InterestFilter narrows admin interest listings.
type InterestFilter struct {
	DestinationID string
	Status        InterestStatus
}

// InterestRepository defines storage operations for interests.
type InterestRepository interface {
	// Create inserts the interest. If an interest with the same client_uuid already
	// exists, it returns that row and created=false instead of inserting.
	Create(ctx context.Context, in *Interest) (created bool, err error)
	GetByID(ctx context.Context, id string) (*Interest, error)
	// ListOpenByDestination returns open interests for the destination, earliest created first.
	ListOpenByDestination(ctx context.Context, destinationID string) ([]*Interest, error)
	List(ctx context.Context, filter InterestFilter, p PaginationParams) ([]*Interest, int, error)
	// Release returns a matched interest to the open pool, clearing its group.
	Release(ctx context.Context, id string) error
	// MarkConverted transitions a matched interest to converted after payment.
	MarkConverted(ctx context.Context, id string) error
}

// InterestService defines the public interest-intake operations.
type InterestService interface {
	// Submit validates and stores an interest request. Resubmission with the same
	// client_uuid returns the original row and created=false.
	Submit(ctx context.Context, in *Interest) (created bool, err error)
	List(ctx context.Context, filter InterestFilter, p PaginationParams) ([]*Interest, int, error)
}
