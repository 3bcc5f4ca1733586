package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"groupgetaway/internal/domain"
	"groupgetaway/internal/pricing"
)

type clusteringService struct {
	destinationRepo domain.DestinationRepository
	interestRepo    domain.InterestRepository
	groupRepo       domain.GroupRepository
	defaultWindow   time.Duration
	logger          *slog.Logger
}

// NewClusteringService creates the batch clusterer. defaultWindow is the
// confirmation response window used when a destination does not configure one.
func NewClusteringService(
	destinationRepo domain.DestinationRepository,
	interestRepo domain.InterestRepository,
	groupRepo domain.GroupRepository,
	defaultWindow time.Duration,
	logger *slog.Logger,
) domain.ClusteringService {
	return &clusteringService{
		destinationRepo: destinationRepo,
		interestRepo:    interestRepo,
		groupRepo:       groupRepo,
		defaultWindow:   defaultWindow,
		logger:          logger,
	}
}

// Run clusters open interests per destination. Only open interests enter the
// pool and members are claimed with an atomic open->matched transition inside
// CreateWithMembers, so re-running without new interests creates no groups and
// a concurrent run cannot claim the same interest twice.
func (s *clusteringService) Run(ctx context.Context, force bool) (*domain.ClusteringResult, error) {
	destinations, err := s.destinationRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}

	result := &domain.ClusteringResult{}
	for _, dest := range destinations {
		pool, err := s.interestRepo.ListOpenByDestination(ctx, dest.ID)
		if err != nil {
			return nil, fmt.Errorf("list open interests for destination %s: %w", dest.ID, err)
		}

		clusters := buildClusters(pool, dest.MinGroupSize, dest.MaxGroupSize)
		if len(clusters) == 0 {
			// Fewer than min_size compatible interests is the expected steady state.
			s.logger.Info("clustering: insufficient pool",
				"destination_id", dest.ID, "open_interests", len(pool))
			continue
		}

		for _, cluster := range clusters {
			created, err := s.createGroup(ctx, dest, cluster)
			if err != nil {
				if errors.Is(err, domain.ErrConcurrentMutation) {
					// A concurrent run claimed one of the members first. Skip;
					// the remaining open interests are picked up next run.
					s.logger.Warn("clustering: cluster lost claim race",
						"destination_id", dest.ID, "members", len(cluster))
					continue
				}
				return nil, fmt.Errorf("create group for destination %s: %w", dest.ID, err)
			}
			s.logger.Info("clustering: group created",
				"group_id", created.ID, "destination_id", dest.ID,
				"members", len(cluster), "final_price", created.FinalPricePerPerson)
			result.ClustersCreated++
			result.InterestsMatched += len(cluster)
		}
	}
	return result, nil
}

func (s *clusteringService) createGroup(ctx context.Context, dest *domain.Destination, cluster []*domain.Interest) (*domain.Group, error) {
	dateFrom, dateTo := clusterWindow(cluster)

	window := dest.ConfirmationWindow
	if window <= 0 {
		window = s.defaultWindow
	}
	now := time.Now()
	deadline := now.Add(window)

	breakdown := pricing.Quote(dest.BasePrice, len(cluster), dest.MaxDiscount, dest.DiscountPerMember)
	group := &domain.Group{
		DestinationID:       dest.ID,
		Name:                fmt.Sprintf("%s trip, %s", dest.Name, dateFrom.Format("2 Jan 2006")),
		DateFrom:            dateFrom,
		DateTo:              dateTo,
		MinSize:             dest.MinGroupSize,
		MaxSize:             dest.MaxGroupSize,
		CurrentSize:         0,
		BasePrice:           dest.BasePrice,
		FinalPricePerPerson: breakdown.FinalPricePerPerson,
		Breakdown:           breakdown,
		Status:              domain.GroupStatusForming,
		ConfirmDeadline:     deadline,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	interestIDs := make([]string, 0, len(cluster))
	confs := make([]*domain.Confirmation, 0, len(cluster))
	for _, in := range cluster {
		interestIDs = append(interestIDs, in.ID)
		confs = append(confs, &domain.Confirmation{
			InterestID:    in.ID,
			Token:         uuid.NewString(),
			UserName:      in.UserName,
			UserEmail:     in.UserEmail,
			NumPeople:     in.NumPeople,
			PaymentStatus: domain.PaymentStatusPending,
			ExpiresAt:     deadline,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.groupRepo.CreateWithMembers(ctx, group, interestIDs, confs); err != nil {
		return nil, err
	}
	return group, nil
}

// buildClusters greedily forms clusters from the pool, which must be ordered
// earliest created first. Each cluster satisfies: all member date ranges share
// at least one day, budget ranges (where both bounds exist) overlap pairwise,
// member count stays within [minSize, maxSize], and the party-size sum stays
// within maxSize. When several candidates fit, the one shrinking the shared
// date window least is admitted, earliest created winning ties, which keeps
// runs stable and the matched count maximal for the greedy order.
func buildClusters(pool []*domain.Interest, minSize, maxSize int) [][]*domain.Interest {
	if minSize < 1 {
		minSize = 1
	}
	used := make(map[string]bool, len(pool))
	var clusters [][]*domain.Interest

	for _, seed := range pool {
		if used[seed.ID] {
			continue
		}
		members := []*domain.Interest{seed}
		windowFrom, windowTo := seed.DateFrom, seed.DateTo
		seats := seed.NumPeople

		for len(members) < maxSize {
			var best *domain.Interest
			var bestFrom, bestTo time.Time
			for _, cand := range pool {
				if used[cand.ID] || cand.ID == seed.ID || contains(members, cand.ID) {
					continue
				}
				if seats+cand.NumPeople > maxSize {
					continue
				}
				from, to, ok := intersect(windowFrom, windowTo, cand.DateFrom, cand.DateTo)
				if !ok {
					continue
				}
				if !budgetsCompatible(members, cand) {
					continue
				}
				if best == nil || to.Sub(from) > bestTo.Sub(bestFrom) {
					best = cand
					bestFrom, bestTo = from, to
				}
			}
			if best == nil {
				break
			}
			members = append(members, best)
			windowFrom, windowTo = bestFrom, bestTo
			seats += best.NumPeople
		}

		if len(members) < minSize {
			// Not viable; leave everything open for a future run.
			continue
		}
		for _, m := range members {
			used[m.ID] = true
		}
		clusters = append(clusters, members)
	}
	return clusters
}

func contains(members []*domain.Interest, id string) bool {
	for _, m := range members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// clusterWindow returns the date range shared by every member.
func clusterWindow(members []*domain.Interest) (time.Time, time.Time) {
	from, to := members[0].DateFrom, members[0].DateTo
	for _, m := range members[1:] {
		if m.DateFrom.After(from) {
			from = m.DateFrom
		}
		if m.DateTo.Before(to) {
			to = m.DateTo
		}
	}
	return from, to
}

// intersect returns the overlap of two date ranges; ok is false when they share
// no day.
func intersect(aFrom, aTo, bFrom, bTo time.Time) (time.Time, time.Time, bool) {
	from, to := aFrom, aTo
	if bFrom.After(from) {
		from = bFrom
	}
	if bTo.Before(to) {
		to = bTo
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// budgetsCompatible reports whether cand's budget range overlaps every member's.
// A missing bound is treated as unbounded.
func budgetsCompatible(members []*domain.Interest, cand *domain.Interest) bool {
	for _, m := range members {
		if !budgetsOverlap(m, cand) {
			return false
		}
	}
	return true
}

func budgetsOverlap(a, b *domain.Interest) bool {
	if a.BudgetMin != nil && b.BudgetMax != nil && *a.BudgetMin > *b.BudgetMax {
		return false
	}
	if b.BudgetMin != nil && a.BudgetMax != nil && *b.BudgetMin > *a.BudgetMax {
		return false
	}
	return true
}
