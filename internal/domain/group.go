package domain

import (
	"context"
	"errors"
	"time"
)

// Group-sizing errors.
var (
	// ErrGroupFull is returned when a confirm arrives after the group reached max size.
	ErrGroupFull = errors.New("group is full")
	// ErrConcurrentMutation is returned when a versioned group update loses a race.
	// Callers retry under the per-group serialization discipline; it is never
	// surfaced to HTTP clients.
	ErrConcurrentMutation = errors.New("concurrent group mutation")
)

// GroupStatus is the lifecycle status of a group.
type GroupStatus string

// Group lifecycle. Terminal states are full and cancelled.
const (
	GroupStatusForming   GroupStatus = "forming"
	GroupStatusConfirmed GroupStatus = "confirmed"
	GroupStatusFull      GroupStatus = "full"
	GroupStatusCancelled GroupStatus = "cancelled"
)

// PriceBreakdown is the pricing snapshot taken when a group is formed, so the
// quote shown to members stays reproducible.
// swagger:model PriceBreakdown
type PriceBreakdown struct {
	BasePrice           float64 `json:"base_price"`
	GroupSize           int     `json:"group_size"`
	DiscountRate        float64 `json:"discount_rate"`
	FinalPricePerPerson float64 `json:"final_price_per_person"`
}

// Group represents a priced cohort formed from compatible interests.
// CurrentSize is derived: the number of confirmations with confirmed = true.
// swagger:model Group
type Group struct {
	ID                  string         `json:"id"`
	DestinationID       string         `json:"destination_id"`
	Name                string         `json:"name"`
	DateFrom            time.Time      `json:"date_from"`
	DateTo              time.Time      `json:"date_to"`
	MinSize             int            `json:"min_size"`
	MaxSize             int            `json:"max_size"`
	CurrentSize         int            `json:"current_size"`
	BasePrice           float64        `json:"base_price"`
	FinalPricePerPerson float64        `json:"final_price_per_person"`
	Breakdown           PriceBreakdown `json:"breakdown"`
	Status              GroupStatus    `json:"status"`
	AdminNotes          *string        `json:"admin_notes,omitempty"`
	ConfirmDeadline     time.Time      `json:"confirm_deadline"`
	Version             int            `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// GroupFilter narrows admin group listings.
type GroupFilter struct {
	DestinationID string
	Status        GroupStatus
}

// GroupWithConfirmations bundles a group with its confirmation sub-records.
type GroupWithConfirmations struct {
	Group         *Group          `json:"group"`
	Confirmations []*Confirmation `json:"confirmations"`
}

// GroupRepository defines storage operations for the group aggregate.
type GroupRepository interface {
	// CreateWithMembers atomically creates the group, claims the given open
	// interests (open -> matched, group_id set), and inserts one pending
	// confirmation per member. If any interest is no longer open the whole
	// operation is rolled back and ErrConcurrentMutation is returned.
	CreateWithMembers(ctx context.Context, g *Group, interestIDs []string, confs []*Confirmation) error
	GetByID(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context, filter GroupFilter, p PaginationParams) ([]*Group, int, error)
	// UpdateStatusAndSize persists a recomputed status/size guarded by version.
	// Returns ErrConcurrentMutation when the version no longer matches.
	UpdateStatusAndSize(ctx context.Context, id string, status GroupStatus, currentSize, version int) error
}

// GroupService defines the operator-facing read surface over groups.
type GroupService interface {
	GetByID(ctx context.Context, id string) (*GroupWithConfirmations, error)
	List(ctx context.Context, filter GroupFilter, p PaginationParams) ([]*Group, int, error)
}
