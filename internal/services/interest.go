package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"groupgetaway/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type interestService struct {
	interestRepo    domain.InterestRepository
	destinationRepo domain.DestinationRepository
}

// NewInterestService creates an InterestService with the given repositories.
func NewInterestService(interestRepo domain.InterestRepository, destinationRepo domain.DestinationRepository) domain.InterestService {
	return &interestService{
		interestRepo:    interestRepo,
		destinationRepo: destinationRepo,
	}
}

// Submit validates and stores an interest request. A malformed request never
// enters the matching pool. client_uuid is an idempotency key: resubmission
// with the same value returns the stored row and created=false.
func (s *interestService) Submit(ctx context.Context, in *domain.Interest) (bool, error) {
	if err := validateInterest(in); err != nil {
		return false, err
	}

	dest, err := s.destinationRepo.GetByID(ctx, in.DestinationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("%w: unknown destination", domain.ErrInvalidInput)
		}
		return false, fmt.Errorf("get destination: %w", err)
	}
	if !dest.Active {
		return false, fmt.Errorf("%w: destination is not accepting interests", domain.ErrInvalidInput)
	}

	now := time.Now()
	in.Status = domain.InterestStatusOpen
	in.GroupID = nil
	in.CreatedAt = now
	in.UpdatedAt = now

	created, err := s.interestRepo.Create(ctx, in)
	if err != nil {
		return false, fmt.Errorf("create interest: %w", err)
	}
	return created, nil
}

func (s *interestService) List(ctx context.Context, filter domain.InterestFilter, p domain.PaginationParams) ([]*domain.Interest, int, error) {
	interests, total, err := s.interestRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list interests: %w", err)
	}
	return interests, total, nil
}

func validateInterest(in *domain.Interest) error {
	in.UserName = strings.TrimSpace(in.UserName)
	in.UserEmail = strings.TrimSpace(strings.ToLower(in.UserEmail))

	if in.DestinationID == "" {
		return fmt.Errorf("%w: destination_id is required", domain.ErrInvalidInput)
	}
	if in.UserName == "" {
		return fmt.Errorf("%w: user_name is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(in.UserEmail) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if in.NumPeople < 1 {
		return fmt.Errorf("%w: num_people must be at least 1", domain.ErrInvalidInput)
	}
	if in.DateFrom.IsZero() || in.DateTo.IsZero() {
		return fmt.Errorf("%w: date_from and date_to are required", domain.ErrInvalidInput)
	}
	if in.DateTo.Before(in.DateFrom) {
		return fmt.Errorf("%w: date_to must not be before date_from", domain.ErrInvalidInput)
	}
	if in.BudgetMin != nil && *in.BudgetMin < 0 {
		return fmt.Errorf("%w: budget_min must not be negative", domain.ErrInvalidInput)
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMax < *in.BudgetMin {
		return fmt.Errorf("%w: budget_max must not be below budget_min", domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(in.ClientUUID); err != nil {
		return fmt.Errorf("%w: client_uuid must be a valid UUID", domain.ErrInvalidInput)
	}
	return nil
}
