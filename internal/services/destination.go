package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groupgetaway/internal/domain"
)

type destinationService struct {
	destinationRepo domain.DestinationRepository
}

// NewDestinationService creates a DestinationService over the given repository.
func NewDestinationService(destinationRepo domain.DestinationRepository) domain.DestinationService {
	return &destinationService{destinationRepo: destinationRepo}
}

func (s *destinationService) Create(ctx context.Context, d *domain.Destination) error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if d.BasePrice <= 0 {
		return fmt.Errorf("%w: base_price must be positive", domain.ErrInvalidInput)
	}
	if d.MinGroupSize < 1 || d.MaxGroupSize < d.MinGroupSize {
		return fmt.Errorf("%w: group size bounds must satisfy 1 <= min <= max", domain.ErrInvalidInput)
	}
	if d.MaxDiscount < 0 || d.MaxDiscount >= 1 {
		return fmt.Errorf("%w: max_discount must be in [0, 1)", domain.ErrInvalidInput)
	}
	if d.DiscountPerMember < 0 || d.DiscountPerMember > d.MaxDiscount {
		return fmt.Errorf("%w: discount_per_member must be in [0, max_discount]", domain.ErrInvalidInput)
	}
	if d.Itinerary == nil {
		d.Itinerary = []domain.ItineraryDay{}
	}

	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if err := s.destinationRepo.Create(ctx, d); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	return nil
}

func (s *destinationService) GetByID(ctx context.Context, id string) (*domain.Destination, error) {
	d, err := s.destinationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get destination: %w", err)
	}
	return d, nil
}

func (s *destinationService) ListActive(ctx context.Context) ([]*domain.Destination, error) {
	destinations, err := s.destinationRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return destinations, nil
}
