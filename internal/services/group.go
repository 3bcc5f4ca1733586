package services

import (
	"context"
	"errors"
	"fmt"

	"groupgetaway/internal/domain"
)

type groupService struct {
	groupRepo        domain.GroupRepository
	confirmationRepo domain.ConfirmationRepository
}

// NewGroupService creates the operator-facing read surface over groups.
func NewGroupService(groupRepo domain.GroupRepository, confirmationRepo domain.ConfirmationRepository) domain.GroupService {
	return &groupService{
		groupRepo:        groupRepo,
		confirmationRepo: confirmationRepo,
	}
}

func (s *groupService) GetByID(ctx context.Context, id string) (*domain.GroupWithConfirmations, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	confs, err := s.confirmationRepo.ListByGroupID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list confirmations: %w", err)
	}
	return &domain.GroupWithConfirmations{Group: group, Confirmations: confs}, nil
}

func (s *groupService) List(ctx context.Context, filter domain.GroupFilter, p domain.PaginationParams) ([]*domain.Group, int, error) {
	groups, total, err := s.groupRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}
	return groups, total, nil
}
