package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, admin domain.Admin) (domain.Admin, error) {
	args := m.Called(ctx, admin)
	return args.Get(0).(domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uint) (domain.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Admin), args.Error(1)
}

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) AssignHousing(ctx context.Context, target domain.HousingTarget, pilgrimIDs []uint, policy domain.PlacementPolicy) error {
	return m.Called(ctx, target, pilgrimIDs, policy).Error(0)
}

func (m *MockAssignmentRepository) AssignTransport(ctx context.Context, target domain.TransportTarget, pilgrimIDs []uint, policy domain.PlacementPolicy) error {
	return m.Called(ctx, target, pilgrimIDs, policy).Error(0)
}

func (m *MockAssignmentRepository) AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error {
	return m.Called(ctx, supervisorIDs, pilgrimIDs).Error(0)
}

func (m *MockAssignmentRepository) AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error {
	return m.Called(ctx, tagIDs, pilgrimIDs).Error(0)
}

func (m *MockAssignmentRepository) SetDepartureStatus(ctx context.Context, status domain.DepartureStatus, pilgrimIDs []uint) error {
	return m.Called(ctx, status, pilgrimIDs).Error(0)
}

type MockReferenceCounter struct {
	mock.Mock
}

func (m *MockReferenceCounter) CountExisting(ctx context.Context, kind string, ids []uint) (int64, error) {
	args := m.Called(ctx, kind, ids)
	return args.Get(0).(int64), args.Error(1)
}

// recordingCache remembers every call so tests can check invalidation order.
type recordingCache struct {
	mu          sync.Mutex
	pilgrims    map[uint]domain.Pilgrim
	pages       map[string]domain.PilgrimPage
	listBumps   int
	invalidated []uint
	events      []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		pilgrims: map[uint]domain.Pilgrim{},
		pages:    map[string]domain.PilgrimPage{},
	}
}

func (c *recordingCache) GetPilgrim(_ context.Context, id uint) (domain.Pilgrim, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pilgrims[id]

	return p, ok
}

func (c *recordingCache) SetPilgrim(_ context.Context, p domain.Pilgrim) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pilgrims[p.ID] = p
}

func (c *recordingCache) GetPage(_ context.Context, query string) (domain.PilgrimPage, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pages[pageKey(c.listBumps, query)]

	return p, int64(c.listBumps), ok
}

func (c *recordingCache) SetPage(_ context.Context, version int64, query string, page domain.PilgrimPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[pageKey(int(version), query)] = page
}

func pageKey(version int, query string) string {
	return strconv.Itoa(version) + ":" + query
}

func (c *recordingCache) InvalidateLists(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listBumps++
	c.events = append(c.events, "invalidate-lists")

	return nil
}

func (c *recordingCache) InvalidateDetails(_ context.Context, ids ...uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.pilgrims, id)
	}
	c.invalidated = append(c.invalidated, ids...)
	c.events = append(c.events, "invalidate-details")

	return nil
}

func (c *recordingCache) record(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

type recordingObserver struct {
	dimension string
	pilgrims  int
	err       error
	calls     int
}

func (o *recordingObserver) ObserveBulk(dimension string, pilgrims int, err error) {
	o.dimension, o.pilgrims, o.err = dimension, pilgrims, err
	o.calls++
}
