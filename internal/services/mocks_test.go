package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"groupgetaway/internal/domain"
)

// memStore is a shared in-memory backing store for the repository fakes. One
// mutex guards all entities so CreateWithMembers and the guarded updates have
// the same atomicity the real database gives them.
type memStore struct {
	mu            sync.Mutex
	seq           int
	destinations  map[string]*domain.Destination
	interests     map[string]*domain.Interest
	interestOrder []string
	groups        map[string]*domain.Group
	confs         map[string]*domain.Confirmation
	confOrder     []string
}

func newMemStore() *memStore {
	return &memStore{
		destinations: make(map[string]*domain.Destination),
		interests:    make(map[string]*domain.Interest),
		groups:       make(map[string]*domain.Group),
		confs:        make(map[string]*domain.Confirmation),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) addDestination(d *domain.Destination) *domain.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = s.nextID("dest")
	}
	s.destinations[d.ID] = d
	return d
}

func (s *memStore) addInterest(in *domain.Interest) *domain.Interest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.ID == "" {
		in.ID = s.nextID("int")
	}
	s.interests[in.ID] = in
	s.interestOrder = append(s.interestOrder, in.ID)
	return in
}

func (s *memStore) addGroup(g *domain.Group) *domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = s.nextID("grp")
	}
	if g.Version == 0 {
		g.Version = 1
	}
	s.groups[g.ID] = g
	return g
}

func (s *memStore) addConfirmation(c *domain.Confirmation) *domain.Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.nextID("conf")
	}
	s.confs[c.ID] = c
	s.confOrder = append(s.confOrder, c.ID)
	return c
}

func (s *memStore) interestStatus(id string) domain.InterestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interests[id].Status
}

func (s *memStore) group(id string) domain.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.groups[id]
}

func copyInterest(in *domain.Interest) *domain.Interest {
	c := *in
	return &c
}

func copyGroup(g *domain.Group) *domain.Group {
	c := *g
	return &c
}

func copyConfirmation(c *domain.Confirmation) *domain.Confirmation {
	cc := *c
	return &cc
}

type memDestinationRepo struct {
	store *memStore
	err   error
}

func (m *memDestinationRepo) Create(ctx context.Context, d *domain.Destination) error {
	if m.err != nil {
		return m.err
	}
	m.store.addDestination(d)
	return nil
}

func (m *memDestinationRepo) GetByID(ctx context.Context, id string) (*domain.Destination, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	d, ok := m.store.destinations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *d
	return &c, nil
}

func (m *memDestinationRepo) ListActive(ctx context.Context) ([]*domain.Destination, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Destination, 0)
	for _, d := range m.store.destinations {
		if d.Active {
			c := *d
			out = append(out, &c)
		}
	}
	return out, nil
}

type memInterestRepo struct {
	store *memStore
	err   error
}

func (m *memInterestRepo) Create(ctx context.Context, in *domain.Interest) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, id := range m.store.interestOrder {
		if existing := m.store.interests[id]; existing.ClientUUID == in.ClientUUID {
			*in = *existing
			return false, nil
		}
	}
	in.ID = m.store.nextID("int")
	m.store.interests[in.ID] = copyInterest(in)
	m.store.interestOrder = append(m.store.interestOrder, in.ID)
	return true, nil
}

func (m *memInterestRepo) GetByID(ctx context.Context, id string) (*domain.Interest, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	in, ok := m.store.interests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyInterest(in), nil
}

func (m *memInterestRepo) ListOpenByDestination(ctx context.Context, destinationID string) ([]*domain.Interest, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Interest, 0)
	for _, id := range m.store.interestOrder {
		in := m.store.interests[id]
		if in.DestinationID == destinationID && in.Status == domain.InterestStatusOpen {
			out = append(out, copyInterest(in))
		}
	}
	return out, nil
}

func (m *memInterestRepo) List(ctx context.Context, filter domain.InterestFilter, p domain.PaginationParams) ([]*domain.Interest, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Interest, 0)
	for _, id := range m.store.interestOrder {
		in := m.store.interests[id]
		if filter.DestinationID != "" && in.DestinationID != filter.DestinationID {
			continue
		}
		if filter.Status != "" && in.Status != filter.Status {
			continue
		}
		out = append(out, copyInterest(in))
	}
	return out, len(out), nil
}

func (m *memInterestRepo) Release(ctx context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	in, ok := m.store.interests[id]
	if !ok || in.Status != domain.InterestStatusMatched {
		return domain.ErrNotFound
	}
	in.Status = domain.InterestStatusOpen
	in.GroupID = nil
	return nil
}

func (m *memInterestRepo) MarkConverted(ctx context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	in, ok := m.store.interests[id]
	if !ok || in.Status != domain.InterestStatusMatched {
		return domain.ErrNotFound
	}
	in.Status = domain.InterestStatusConverted
	return nil
}

type memGroupRepo struct {
	store *memStore
	err   error
}

func (m *memGroupRepo) CreateWithMembers(ctx context.Context, g *domain.Group, interestIDs []string, confs []*domain.Confirmation) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, id := range interestIDs {
		in, ok := m.store.interests[id]
		if !ok || in.Status != domain.InterestStatusOpen {
			return domain.ErrConcurrentMutation
		}
	}
	g.ID = m.store.nextID("grp")
	m.store.groups[g.ID] = copyGroup(g)
	for _, id := range interestIDs {
		in := m.store.interests[id]
		in.Status = domain.InterestStatusMatched
		gid := g.ID
		in.GroupID = &gid
	}
	for _, c := range confs {
		c.GroupID = g.ID
		c.ID = m.store.nextID("conf")
		m.store.confs[c.ID] = copyConfirmation(c)
		m.store.confOrder = append(m.store.confOrder, c.ID)
	}
	return nil
}

func (m *memGroupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyGroup(g), nil
}

func (m *memGroupRepo) List(ctx context.Context, filter domain.GroupFilter, p domain.PaginationParams) ([]*domain.Group, int, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Group, 0)
	for _, g := range m.store.groups {
		if filter.DestinationID != "" && g.DestinationID != filter.DestinationID {
			continue
		}
		if filter.Status != "" && g.Status != filter.Status {
			continue
		}
		out = append(out, copyGroup(g))
	}
	return out, len(out), nil
}

func (m *memGroupRepo) UpdateStatusAndSize(ctx context.Context, id string, status domain.GroupStatus, currentSize, version int) error {
	if m.err != nil {
		return m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	g, ok := m.store.groups[id]
	if !ok || g.Version != version {
		return domain.ErrConcurrentMutation
	}
	g.Status = status
	g.CurrentSize = currentSize
	g.Version++
	return nil
}

type memConfirmationRepo struct {
	store *memStore
	err   error
}

func (m *memConfirmationRepo) GetByToken(ctx context.Context, token string) (*domain.Confirmation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, id := range m.store.confOrder {
		if c := m.store.confs[id]; c.Token == token {
			return copyConfirmation(c), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memConfirmationRepo) GetByID(ctx context.Context, id string) (*domain.Confirmation, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.confs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyConfirmation(c), nil
}

func (m *memConfirmationRepo) ListByGroupID(ctx context.Context, groupID string) ([]*domain.Confirmation, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Confirmation, 0)
	for _, id := range m.store.confOrder {
		if c := m.store.confs[id]; c.GroupID == groupID {
			out = append(out, copyConfirmation(c))
		}
	}
	return out, nil
}

func (m *memConfirmationRepo) ListPendingByGroupID(ctx context.Context, groupID string) ([]*domain.Confirmation, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Confirmation, 0)
	for _, id := range m.store.confOrder {
		if c := m.store.confs[id]; c.GroupID == groupID && c.Confirmed == nil {
			out = append(out, copyConfirmation(c))
		}
	}
	return out, nil
}

func (m *memConfirmationRepo) ListExpiredPending(ctx context.Context, now time.Time) ([]*domain.Confirmation, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]*domain.Confirmation, 0)
	for _, id := range m.store.confOrder {
		if c := m.store.confs[id]; c.Confirmed == nil && c.ExpiresAt.Before(now) {
			out = append(out, copyConfirmation(c))
		}
	}
	return out, nil
}

func (m *memConfirmationRepo) SetResponse(ctx context.Context, id string, confirmed bool, declineReason *string, respondedAt time.Time) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.confs[id]
	if !ok || c.Confirmed != nil {
		return domain.ErrAlreadyResponded
	}
	c.Confirmed = &confirmed
	c.DeclineReason = declineReason
	c.RespondedAt = &respondedAt
	return nil
}

func (m *memConfirmationRepo) SetPaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.confs[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.PaymentStatus = status
	return nil
}

// recordingEmailService captures sent emails instead of delivering them.
type recordingEmailService struct {
	mu            sync.Mutex
	confirmations []*domain.GroupConfirmationEmailData
	cancellations []*domain.GroupCancelledEmailData
	err           error
}

func (m *recordingEmailService) SendGroupConfirmation(ctx context.Context, data *domain.GroupConfirmationEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, data)
	return nil
}

func (m *recordingEmailService) SendGroupCancelled(ctx context.Context, data *domain.GroupCancelledEmailData) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations = append(m.cancellations, data)
	return nil
}
