package domain

import (
	"context"
	"time"
)

// ItineraryDay is one day of a destination's trip plan.
// swagger:model ItineraryDay
type ItineraryDay struct {
	Day           int      `json:"day"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Activities    []string `json:"activities"`
	Accommodation *string  `json:"accommodation,omitempty"`
	Meals         []string `json:"meals,omitempty"`
}

// Destination represents a trip destination with its group-sizing and discount parameters.
// swagger:model Destination
type Destination struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Country            string         `json:"country"`
	BasePrice          float64        `json:"base_price"`
	Currency           string         `json:"currency"`
	MinGroupSize       int            `json:"min_group_size"`
	MaxGroupSize       int            `json:"max_group_size"`
	MaxDiscount        float64        `json:"max_discount"`
	DiscountPerMember  float64        `json:"discount_per_member"`
	ConfirmationWindow time.Duration  `json:"-"`
	Itinerary          []ItineraryDay `json:"itinerary"`
	Active             bool           `json:"active"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DestinationRepository defines storage operations for destinations.
type DestinationRepository interface {
	Create(ctx context.Context, d *Destination) error
	GetByID(ctx context.Context, id string) (*Destination, error)
	ListActive(ctx context.Context) ([]*Destination, error)
}

// DestinationService defines destination operations used by the public and operator surfaces.
type DestinationService interface {
	Create(ctx context.Context, d *Destination) error
	GetByID(ctx context.Context, id string) (*Destination, error)
	ListActive(ctx context.Context) ([]*Destination, error)
}
