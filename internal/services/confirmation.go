package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"groupgetaway/internal/domain"
)

// recomputeRetries bounds the optimistic-version retry loop. The per-group
// mutex already serializes writers within this process; the version guard is a
// backstop for anything writing the group row from outside it.
const recomputeRetries = 3

// groupLocks serializes confirmation transitions and group recomputation per
// group id. Two confirmations racing on the same group must not both observe a
// stale current_size.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGroupLocks() *groupLocks {
	return &groupLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *groupLocks) acquire(groupID string) func() {
	l.mu.Lock()
	m, ok := l.locks[groupID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[groupID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

type confirmationService struct {
	confirmationRepo domain.ConfirmationRepository
	groupRepo        domain.GroupRepository
	interestRepo     domain.InterestRepository
	destinationRepo  domain.DestinationRepository
	emailService     domain.EmailService
	locks            *groupLocks
	paymentURLBase   string
	confirmURLBase   string
	logger           *slog.Logger
}

// NewConfirmationService creates the per-group confirm/decline/payment workflow.
func NewConfirmationService(
	confirmationRepo domain.ConfirmationRepository,
	groupRepo domain.GroupRepository,
	interestRepo domain.InterestRepository,
	destinationRepo domain.DestinationRepository,
	emailService domain.EmailService,
	paymentURLBase string,
	confirmURLBase string,
	logger *slog.Logger,
) domain.ConfirmationService {
	return &confirmationService{
		confirmationRepo: confirmationRepo,
		groupRepo:        groupRepo,
		interestRepo:     interestRepo,
		destinationRepo:  destinationRepo,
		emailService:     emailService,
		locks:            newGroupLocks(),
		paymentURLBase:   paymentURLBase,
		confirmURLBase:   confirmURLBase,
		logger:           logger,
	}
}

func (s *confirmationService) StatusByToken(ctx context.Context, groupID, token string) (*domain.ConfirmationStatusView, error) {
	conf, err := s.resolveToken(ctx, groupID, token)
	if err != nil {
		return nil, err
	}

	// Lazy expiry: a pending confirmation past its deadline is resolved before
	// the status is reported.
	if conf.Confirmed == nil && !time.Now().Before(conf.ExpiresAt) {
		unlock := s.locks.acquire(conf.GroupID)
		if err := s.expireLocked(ctx, conf); err != nil {
			unlock()
			return nil, err
		}
		unlock()
		conf, err = s.confirmationRepo.GetByID(ctx, conf.ID)
		if err != nil {
			return nil, fmt.Errorf("reload confirmation: %w", err)
		}
	}

	group, err := s.groupRepo.GetByID(ctx, conf.GroupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &domain.ConfirmationStatusView{Group: group, Confirmation: conf}, nil
}

func (s *confirmationService) Respond(ctx context.Context, groupID, token string, confirmed bool, declineReason string) (*domain.RespondResult, error) {
	conf, err := s.resolveToken(ctx, groupID, token)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(conf.GroupID)
	defer unlock()

	// Re-read under the lock; another response may have landed first.
	conf, err = s.confirmationRepo.GetByID(ctx, conf.ID)
	if err != nil {
		return nil, fmt.Errorf("reload confirmation: %w", err)
	}
	if conf.Confirmed != nil {
		return nil, domain.ErrAlreadyResponded
	}

	now := time.Now()
	if !now.Before(conf.ExpiresAt) {
		if err := s.expireLocked(ctx, conf); err != nil {
			return nil, err
		}
		return nil, domain.ErrTokenExpired
	}

	if confirmed {
		group, err := s.groupRepo.GetByID(ctx, conf.GroupID)
		if err != nil {
			return nil, fmt.Errorf("get group: %w", err)
		}
		if group.Status == domain.GroupStatusCancelled {
			return nil, domain.ErrTokenExpired
		}
		// First max_size confirms win; a late confirm into a full group is
		// rejected even before its own deadline.
		if group.Status == domain.GroupStatusFull || group.CurrentSize >= group.MaxSize {
			return nil, domain.ErrGroupFull
		}
		if err := s.confirmationRepo.SetResponse(ctx, conf.ID, true, nil, now); err != nil {
			return nil, err
		}
	} else {
		reason := strings.TrimSpace(declineReason)
		if reason == "" {
			return nil, domain.ErrMissingReason
		}
		if err := s.confirmationRepo.SetResponse(ctx, conf.ID, false, &reason, now); err != nil {
			return nil, err
		}
	}

	if err := s.recomputeLocked(ctx, conf.GroupID); err != nil {
		return nil, fmt.Errorf("recompute group: %w", err)
	}

	conf, err = s.confirmationRepo.GetByID(ctx, conf.ID)
	if err != nil {
		return nil, fmt.Errorf("reload confirmation: %w", err)
	}
	result := &domain.RespondResult{Confirmation: conf}
	if confirmed {
		result.PaymentRequired = true
		result.PaymentURL = fmt.Sprintf("%s/%s", s.paymentURLBase, conf.ID)
	}
	return result, nil
}

func (s *confirmationService) MarkPaid(ctx context.Context, confirmationID string) error {
	conf, err := s.confirmationRepo.GetByID(ctx, confirmationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get confirmation: %w", err)
	}
	if conf.Confirmed == nil || !*conf.Confirmed {
		return fmt.Errorf("%w: confirmation is not confirmed", domain.ErrInvalidInput)
	}
	if err := s.confirmationRepo.SetPaymentStatus(ctx, conf.ID, domain.PaymentStatusPaid); err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	// The member's interest converts once payment completes. A repeated
	// callback finds it already converted; that is not an error.
	if err := s.interestRepo.MarkConverted(ctx, conf.InterestID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("convert interest: %w", err)
	}
	return nil
}

func (s *confirmationService) SweepExpired(ctx context.Context) (int, error) {
	pending, err := s.confirmationRepo.ListExpiredPending(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list expired confirmations: %w", err)
	}

	byGroup := make(map[string][]*domain.Confirmation)
	for _, c := range pending {
		byGroup[c.GroupID] = append(byGroup[c.GroupID], c)
	}

	expired := 0
	for groupID, confs := range byGroup {
		unlock := s.locks.acquire(groupID)
		for _, c := range confs {
			reason := domain.DeclineReasonExpired
			err := s.confirmationRepo.SetResponse(ctx, c.ID, false, &reason, time.Now())
			if err != nil {
				if errors.Is(err, domain.ErrAlreadyResponded) {
					continue
				}
				unlock()
				return expired, fmt.Errorf("expire confirmation %s: %w", c.ID, err)
			}
			expired++
		}
		if err := s.recomputeLocked(ctx, groupID); err != nil {
			unlock()
			return expired, fmt.Errorf("recompute group %s: %w", groupID, err)
		}
		unlock()
	}
	if expired > 0 {
		s.logger.Info("deadline sweep resolved confirmations", "expired", expired, "groups", len(byGroup))
	}
	return expired, nil
}

func (s *confirmationService) SendConfirmations(ctx context.Context, groupID string) (int, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get group: %w", err)
	}
	dest, err := s.destinationRepo.GetByID(ctx, group.DestinationID)
	if err != nil {
		return 0, fmt.Errorf("get destination: %w", err)
	}
	pending, err := s.confirmationRepo.ListPendingByGroupID(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("list pending confirmations: %w", err)
	}

	sent := 0
	for _, c := range pending {
		data := &domain.GroupConfirmationEmailData{
			Email:               c.UserEmail,
			Name:                c.UserName,
			GroupName:           group.Name,
			DestinationName:     dest.Name,
			DateFrom:            group.DateFrom,
			DateTo:              group.DateTo,
			FinalPricePerPerson: group.FinalPricePerPerson,
			Currency:            dest.Currency,
			ConfirmURL:          fmt.Sprintf("%s/%s/confirm/%s", s.confirmURLBase, group.ID, c.Token),
			ExpiresAt:           c.ExpiresAt,
		}
		if err := s.emailService.SendGroupConfirmation(ctx, data); err != nil {
			s.logger.Error("send confirmation email failed",
				"group_id", group.ID, "confirmation_id", c.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// resolveToken looks the token up and checks it belongs to the group in the URL.
func (s *confirmationService) resolveToken(ctx context.Context, groupID, token string) (*domain.Confirmation, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}
	conf, err := s.confirmationRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("get confirmation by token: %w", err)
	}
	if groupID != "" && conf.GroupID != groupID {
		return nil, domain.ErrTokenInvalid
	}
	return conf, nil
}

// expireLocked resolves a pending confirmation past its deadline as a decline
// and recomputes the group. Caller holds the group lock. Safe to repeat: the
// response update is guarded and the recompute is derived.
func (s *confirmationService) expireLocked(ctx context.Context, conf *domain.Confirmation) error {
	reason := domain.DeclineReasonExpired
	err := s.confirmationRepo.SetResponse(ctx, conf.ID, false, &reason, time.Now())
	if err != nil && !errors.Is(err, domain.ErrAlreadyResponded) {
		return fmt.Errorf("expire confirmation: %w", err)
	}
	if err := s.recomputeLocked(ctx, conf.GroupID); err != nil {
		return fmt.Errorf("recompute group: %w", err)
	}
	return nil
}

// recomputeLocked derives current_size and status from the confirmations and
// persists them with a version guard. Caller holds the group lock.
func (s *confirmationService) recomputeLocked(ctx context.Context, groupID string) error {
	var lastErr error
	for attempt := 0; attempt < recomputeRetries; attempt++ {
		group, err := s.groupRepo.GetByID(ctx, groupID)
		if err != nil {
			return fmt.Errorf("get group: %w", err)
		}
		if group.Status == domain.GroupStatusCancelled {
			return nil
		}

		confs, err := s.confirmationRepo.ListByGroupID(ctx, groupID)
		if err != nil {
			return fmt.Errorf("list confirmations: %w", err)
		}

		confirmedCount, unresolved := 0, 0
		for _, c := range confs {
			switch {
			case c.Confirmed == nil:
				unresolved++
			case *c.Confirmed:
				confirmedCount++
			}
		}

		newStatus := group.Status
		switch {
		case confirmedCount >= group.MaxSize:
			newStatus = domain.GroupStatusFull
		case confirmedCount >= group.MinSize:
			newStatus = domain.GroupStatusConfirmed
		case unresolved == 0:
			// Everyone resolved to non-true and the group never reached min_size.
			newStatus = domain.GroupStatusCancelled
		}

		err = s.groupRepo.UpdateStatusAndSize(ctx, groupID, newStatus, confirmedCount, group.Version)
		if err != nil {
			if errors.Is(err, domain.ErrConcurrentMutation) {
				lastErr = err
				continue
			}
			return fmt.Errorf("update group: %w", err)
		}

		if newStatus != group.Status {
			s.logger.Info("group status changed",
				"group_id", groupID, "from", group.Status, "to", newStatus, "current_size", confirmedCount)
		}
		if newStatus == domain.GroupStatusCancelled {
			s.cancelFollowUp(ctx, group, confs)
		}
		return nil
	}
	return lastErr
}

// cancelFollowUp releases the interests of members who never confirmed back to
// the open pool and notifies confirmed members. Best effort: a failed email or
// release is logged, not surfaced, so one member's failure does not block the rest.
func (s *confirmationService) cancelFollowUp(ctx context.Context, group *domain.Group, confs []*domain.Confirmation) {
	var dest *domain.Destination
	if d, err := s.destinationRepo.GetByID(ctx, group.DestinationID); err == nil {
		dest = d
	}

	for _, c := range confs {
		if c.Confirmed != nil && *c.Confirmed {
			destName := group.Name
			if dest != nil {
				destName = dest.Name
			}
			data := &domain.GroupCancelledEmailData{
				Email:           c.UserEmail,
				Name:            c.UserName,
				GroupName:       group.Name,
				DestinationName: destName,
			}
			if err := s.emailService.SendGroupCancelled(ctx, data); err != nil {
				s.logger.Error("send cancellation email failed",
					"group_id", group.ID, "confirmation_id", c.ID, "err", err)
			}
			continue
		}
		if err := s.interestRepo.Release(ctx, c.InterestID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("release interest failed",
				"group_id", group.ID, "interest_id", c.InterestID, "err", err)
		}
	}
}
