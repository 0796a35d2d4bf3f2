package v1

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

type fakeReferenceService struct {
	lastKind   domain.LookupKind
	lastParent *uint
	created    []any
}

func (f *fakeReferenceService) ListLookups(_ context.Context, kind domain.LookupKind, parentID *uint) ([]domain.LookupItem, error) {
	f.lastKind, f.lastParent = kind, parentID
	if kind == "planets" {
		return nil, service.ErrValidation
	}

	return []domain.LookupItem{{ID: 1, Kind: kind, Name: domain.LocalizedName{EN: "Olaya"}, ParentID: parentID}}, nil
}

func (f *fakeReferenceService) CreateLookup(_ context.Context, item domain.LookupItem) (domain.LookupItem, error) {
	f.created = append(f.created, item)
	item.ID = 2

	return item, nil
}

func (f *fakeReferenceService) ListBuses(context.Context) ([]domain.Bus, error) {
	return []domain.Bus{}, nil
}

func (f *fakeReferenceService) CreateBus(_ context.Context, bus domain.Bus) (domain.Bus, error) {
	f.created = append(f.created, bus)
	bus.ID = 3

	return bus, nil
}

func (f *fakeReferenceService) ListEmployees(context.Context) ([]domain.Employee, error) {
	return []domain.Employee{}, nil
}

func (f *fakeReferenceService) CreateEmployee(_ context.Context, e domain.Employee) (domain.Employee, error) {
	f.created = append(f.created, e)
	e.ID = 4

	return e, nil
}

func newReferenceRouter(svc ReferenceService) *gin.Engine {
	h := NewReferenceHandler(svc)
	r := gin.New()
	r.GET("/lookups/:kind", h.HandleListLookups)
	r.POST("/lookups/:kind", h.HandleCreateLookup)
	r.POST("/buses", h.HandleCreateBus)
	r.POST("/employees", h.HandleCreateEmployee)

	return r
}

func TestHandleListLookups(t *testing.T) {
	svc := &fakeReferenceService{}
	r := newReferenceRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/lookups/gathering-points?parent_id=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.LookupKind("gathering-points"), svc.lastKind)
	require.NotNil(t, svc.lastParent)
	assert.Equal(t, uint(7), *svc.lastParent)

	w = doJSON(t, r, http.MethodGet, "/lookups/cities?parent_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/lookups/planets", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCreateReferences(t *testing.T) {
	svc := &fakeReferenceService{}
	r := newReferenceRouter(svc)

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
	}{
		{"lookup", "/lookups/nationalities", map[string]any{"name": map[string]string{"ar": "سعودي", "en": "Saudi"}}, http.StatusCreated},
		{"lookup without name", "/lookups/nationalities", map[string]any{"name": map[string]string{}}, http.StatusBadRequest},
		{"bus", "/buses", map[string]any{"name": "Bus 7", "capacity": 45}, http.StatusCreated},
		{"bus without seats", "/buses", map[string]any{"name": "Bus 7", "capacity": 0}, http.StatusBadRequest},
		{"bus too large", "/buses", map[string]any{"name": "Bus 7", "capacity": 500}, http.StatusBadRequest},
		{"employee", "/employees", map[string]any{"name": map[string]string{"en": "Saad"}, "mobile": "0501234567"}, http.StatusCreated},
		{"employee with unknown role", "/employees", map[string]any{"name": map[string]string{"en": "Saad"}, "role": "pilot"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}

	assert.Len(t, svc.created, 3)
}

type fakePackageService struct {
	packages map[uint]domain.Package
	inUse    map[uint]bool
}

func (f *fakePackageService) ListPackages(context.Context) ([]domain.Package, error) {
	out := make([]domain.Package, 0, len(f.packages))
	for _, p := range f.packages {
		out = append(out, p)
	}

	return out, nil
}

func (f *fakePackageService) CreatePackage(_ context.Context, p domain.Package) (domain.Package, error) {
	p.ID = uint(len(f.packages) + 1)
	f.packages[p.ID] = p

	return p, nil
}

func (f *fakePackageService) UpdatePackage(_ context.Context, p domain.Package) (domain.Package, error) {
	if _, ok := f.packages[p.ID]; !ok {
		return domain.Package{}, service.ErrNotFound
	}
	f.packages[p.ID] = p

	return p, nil
}

func (f *fakePackageService) DeletePackage(_ context.Context, id uint) error {
	if f.inUse[id] {
		return service.ErrPackageInUse
	}
	delete(f.packages, id)

	return nil
}

func TestPackageHandlers(t *testing.T) {
	svc := &fakePackageService{packages: map[uint]domain.Package{}, inUse: map[uint]bool{}}
	h := NewPackageHandler(svc)
	r := gin.New()
	r.GET("/packages", h.HandleListPackages)
	r.POST("/packages", h.HandleCreatePackage)
	r.PUT("/packages/:id", h.HandleUpdatePackage)
	r.DELETE("/packages/:id", h.HandleDeletePackage)

	w := doJSON(t, r, http.MethodPost, "/packages", map[string]any{"name": map[string]string{"en": "Gold"}, "price": 12500, "capacity": 40})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/packages", map[string]any{"name": map[string]string{"en": "Gold"}, "price": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/packages/1", map[string]any{"name": map[string]string{"en": "Platinum"}, "is_active": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Platinum", svc.packages[1].Name.EN)
	assert.Equal(t, uint(1), svc.packages[1].ID)

	w = doJSON(t, r, http.MethodPut, "/packages/9", map[string]any{"name": map[string]string{"en": "Silver"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.inUse[1] = true
	w = doJSON(t, r, http.MethodDelete, "/packages/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	svc.inUse[1] = false
	w = doJSON(t, r, http.MethodDelete, "/packages/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/packages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
