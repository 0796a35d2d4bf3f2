package v1

import (
	"encoding/json"
	"net/http"
	"slices"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

func newHallRouter(svc HallService) *gin.Engine {
	h := NewHallHandler(svc)
	r := gin.New()
	r.GET("/halls", h.HandleListHalls)
	r.POST("/halls", h.HandleCreateHall)
	r.GET("/halls/:hallID", h.HandleGetHall)
	r.DELETE("/halls/:hallID", h.HandleDeleteHall)
	r.GET("/halls/:hallID/beds", h.HandleSearchBeds)
	r.PUT("/halls/:hallID/beds/:number", h.HandleSetBedStatus)
	r.DELETE("/halls/:hallID/beds/:number", h.HandleReleaseBed)

	return r
}

func TestHandleSetBedStatus(t *testing.T) {
	svc := new(MockHallService)
	hall := domain.Hall{ID: 1, Capacity: 3, Beds: []domain.Bed{{Number: 1}, {Number: 2}, {Number: 3, Status: domain.BedNamed, Name: "Guest"}}}
	svc.On("SetBedStatus", mock.Anything, uint(1), 3, domain.BedNamed, "Guest").Return(hall, nil)
	r := newHallRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/halls/1/beds/3", map[string]string{"status": "named", "name": "Guest"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"named"`)

	w = doJSON(t, r, http.MethodPut, "/halls/1/beds/3", map[string]string{"status": "occupied"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/halls/1/beds/x", map[string]string{"status": "empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNumberOfCalls(t, "SetBedStatus", 1)
}

type hallBody struct {
	ID       uint             `json:"id"`
	Capacity int              `json:"capacity"`
	Beds     []domain.Bed     `json:"beds"`
	Stats    domain.HallStats `json:"stats"`
}

func decodeHall(t *testing.T, raw []byte) hallBody {
	t.Helper()

	var body hallBody
	require.NoError(t, json.Unmarshal(raw, &body))

	return body
}

func TestHandleHall_ResponsesCarryStats(t *testing.T) {
	afterSet := domain.Hall{ID: 2, Capacity: 4, Beds: []domain.Bed{
		{Number: 1, Status: domain.BedFull},
		{Number: 2, Status: domain.BedSameGroup},
		{Number: 3, Status: domain.BedNamed, Name: "Guest"},
		{Number: 4},
	}}
	afterRelease := domain.Hall{ID: 2, Capacity: 4, Beds: []domain.Bed{
		{Number: 1, Status: domain.BedFull},
		{Number: 2},
		{Number: 3, Status: domain.BedNamed, Name: "Guest"},
		{Number: 4},
	}}

	svc := new(MockHallService)
	svc.On("SetBedStatus", mock.Anything, uint(2), 2, domain.BedSameGroup, "").Return(afterSet, nil)
	svc.On("ReleaseBed", mock.Anything, uint(2), 2).Return(afterRelease, nil)
	svc.On("GetHall", mock.Anything, uint(2)).Return(afterRelease, nil)
	r := newHallRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/halls/2/beds/2", map[string]string{"status": "same-group"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeHall(t, w.Body.Bytes())
	assert.Len(t, body.Beds, 4)
	assert.Equal(t, domain.HallStats{Capacity: 4, Reserved: 1, Full: 1, Available: 2, OccupancyPercentage: 50}, body.Stats)
	assert.Equal(t, body.Stats.Capacity-body.Stats.Reserved-body.Stats.Full, body.Stats.Available)

	w = doJSON(t, r, http.MethodDelete, "/halls/2/beds/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeHall(t, w.Body.Bytes())
	assert.Equal(t, domain.HallStats{Capacity: 4, Reserved: 0, Full: 1, Available: 3, OccupancyPercentage: 25}, body.Stats)

	w = doJSON(t, r, http.MethodGet, "/halls/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeHall(t, w.Body.Bytes())
	assert.Equal(t, uint(2), body.ID)
	assert.Equal(t, 4, body.Capacity)
	assert.Equal(t, 3, body.Stats.Available)
	assert.Equal(t, 25, body.Stats.OccupancyPercentage)
}

func TestHandleSetBedStatus_OutOfRange(t *testing.T) {
	svc := new(MockHallService)
	svc.On("SetBedStatus", mock.Anything, uint(1), 9, domain.BedReserved, "").
		Return(domain.Hall{}, service.ErrValidation)

	w := doJSON(t, newHallRouter(svc), http.MethodPut, "/halls/1/beds/9", map[string]string{"status": "reserved"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearchBeds(t *testing.T) {
	svc := new(MockHallService)
	beds := []domain.Bed{{Number: 2, Status: domain.BedFull}}
	svc.On("SearchBeds", mock.Anything, uint(4), "0551").Return(slices.Values(beds), nil)
	svc.On("SearchBeds", mock.Anything, uint(4), "nobody").Return(slices.Values([]domain.Bed(nil)), nil)
	r := newHallRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/halls/4/beds?q=0551", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hall_id":4,"beds":[{"number":2,"status":"full"}]}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/halls/4/beds?q=nobody", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"hall_id":4,"beds":[]}`, w.Body.String())
}

func TestHandleCreateHall(t *testing.T) {
	svc := new(MockHallService)
	svc.On("CreateHall", mock.Anything, domain.LocalizedName{EN: "Mina A"}, uint(1), 40).Return(domain.Hall{ID: 5, Capacity: 40}, nil)
	r := newHallRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/halls", map[string]any{"name": map[string]string{"en": "Mina A"}, "ritual_id": 1, "capacity": 40})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/halls", map[string]any{"name": map[string]string{}, "ritual_id": 1, "capacity": 40})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/halls", map[string]any{"name": map[string]string{"en": "Mina"}, "capacity": 40})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNumberOfCalls(t, "CreateHall", 1)
}

func TestHandleDeleteHall_NotFound(t *testing.T) {
	svc := new(MockHallService)
	svc.On("DeleteHall", mock.Anything, uint(6)).Return(service.ErrNotFound)

	w := doJSON(t, newHallRouter(svc), http.MethodDelete, "/halls/6", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
