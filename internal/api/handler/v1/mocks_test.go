package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/api/middleware"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (domain.Admin, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Admin), args.Error(1)
}

func (m *MockAuthService) IssueTokens(adminID uint, userAgent string) (service.TokenPair, error) {
	args := m.Called(adminID, userAgent)
	return args.Get(0).(service.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken, userAgent string) (service.TokenPair, domain.Admin, error) {
	args := m.Called(ctx, refreshToken, userAgent)
	return args.Get(0).(service.TokenPair), args.Get(1).(domain.Admin), args.Error(2)
}

func (m *MockAuthService) GetAdmin(ctx context.Context, id uint) (domain.Admin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Admin), args.Error(1)
}

type MockPilgrimService struct {
	mock.Mock
}

func (m *MockPilgrimService) Get(ctx context.Context, id uint) (domain.Pilgrim, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Pilgrim), args.Error(1)
}

func (m *MockPilgrimService) List(ctx context.Context, q service.ListQuery) (domain.PilgrimPage, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.PilgrimPage), args.Error(1)
}

func (m *MockPilgrimService) Create(ctx context.Context, p domain.Pilgrim, photo *service.Photo) (domain.Pilgrim, error) {
	args := m.Called(ctx, p, photo)
	return args.Get(0).(domain.Pilgrim), args.Error(1)
}

func (m *MockPilgrimService) Update(ctx context.Context, p domain.Pilgrim, photo *service.Photo) (domain.Pilgrim, error) {
	args := m.Called(ctx, p, photo)
	return args.Get(0).(domain.Pilgrim), args.Error(1)
}

func (m *MockPilgrimService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPilgrimService) PhotoURL(ctx context.Context, id uint) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) AssignHousing(ctx context.Context, ritualID uint, campIDs, pilgrimIDs []uint) error {
	return m.Called(ctx, ritualID, campIDs, pilgrimIDs).Error(0)
}

func (m *MockAssignmentService) AssignTransport(ctx context.Context, gatheringPointTypeID uint, busIDs, pilgrimIDs []uint) error {
	return m.Called(ctx, gatheringPointTypeID, busIDs, pilgrimIDs).Error(0)
}

func (m *MockAssignmentService) AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error {
	return m.Called(ctx, supervisorIDs, pilgrimIDs).Error(0)
}

func (m *MockAssignmentService) AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error {
	return m.Called(ctx, tagIDs, pilgrimIDs).Error(0)
}

func (m *MockAssignmentService) SetDepartureStatus(ctx context.Context, late bool, pilgrimIDs []uint) error {
	return m.Called(ctx, late, pilgrimIDs).Error(0)
}

type MockHallService struct {
	mock.Mock
}

func (m *MockHallService) CreateHall(ctx context.Context, name domain.LocalizedName, ritualID uint, capacity int) (domain.Hall, error) {
	args := m.Called(ctx, name, ritualID, capacity)
	return args.Get(0).(domain.Hall), args.Error(1)
}

func (m *MockHallService) GetHall(ctx context.Context, hallID uint) (domain.Hall, error) {
	args := m.Called(ctx, hallID)
	return args.Get(0).(domain.Hall), args.Error(1)
}

func (m *MockHallService) ListHalls(ctx context.Context) ([]service.HallSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]service.HallSummary), args.Error(1)
}

func (m *MockHallService) SetBedStatus(ctx context.Context, hallID uint, number int, status domain.BedStatus, name string) (domain.Hall, error) {
	args := m.Called(ctx, hallID, number, status, name)
	return args.Get(0).(domain.Hall), args.Error(1)
}

func (m *MockHallService) ReleaseBed(ctx context.Context, hallID uint, number int) (domain.Hall, error) {
	args := m.Called(ctx, hallID, number)
	return args.Get(0).(domain.Hall), args.Error(1)
}

func (m *MockHallService) SearchBeds(ctx context.Context, hallID uint, query string) (iter.Seq[domain.Bed], error) {
	args := m.Called(ctx, hallID, query)
	return args.Get(0).(iter.Seq[domain.Bed]), args.Error(1)
}

func (m *MockHallService) DeleteHall(ctx context.Context, hallID uint) error {
	return m.Called(ctx, hallID).Error(0)
}

type stubResolver map[filter.Key]string

func (r stubResolver) Resolve(_ context.Context, key filter.Key, id uint) (filter.Option, error) {
	label, ok := r[key]
	if !ok {
		return filter.Option{}, service.ErrNotFound
	}

	return filter.Option{ID: id, Label: label}, nil
}

// withAdmin stands in for the JWT middleware.
func withAdmin(id uint) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.AdminIDKey, id)
		ctx.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "dashboard-test")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) response.Err {
	t.Helper()

	var e response.Err
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))

	return e
}
