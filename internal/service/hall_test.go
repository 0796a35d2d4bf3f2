package service

import (
	"context"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type memoryHallRepo struct {
	halls     map[uint]domain.Hall
	occupants map[uint]domain.Pilgrim
	saves     int
}

func (r *memoryHallRepo) Create(_ context.Context, h domain.Hall) (domain.Hall, error) {
	h.ID = uint(len(r.halls) + 1)
	r.halls[h.ID] = h

	return h, nil
}

func (r *memoryHallRepo) FindByID(_ context.Context, id uint) (domain.Hall, error) {
	h, ok := r.halls[id]
	if !ok {
		return domain.Hall{}, ErrHallNotFound
	}
	h.Beds = slices.Clone(h.Beds)

	return h, nil
}

func (r *memoryHallRepo) List(context.Context) ([]domain.Hall, []domain.HallStats, error) {
	var (
		halls []domain.Hall
		stats []domain.HallStats
	)
	for _, h := range r.halls {
		stats = append(stats, h.Stats())
		h.Beds = nil
		halls = append(halls, h)
	}

	return halls, stats, nil
}

func (r *memoryHallRepo) SaveBed(_ context.Context, hallID uint, bed domain.Bed) error {
	h := r.halls[hallID]
	h.Beds[bed.Number-1] = bed
	r.saves++

	return nil
}

func (r *memoryHallRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.halls[id]; !ok {
		return ErrHallNotFound
	}
	delete(r.halls, id)

	return nil
}

func (r *memoryHallRepo) FindOccupants(context.Context, uint) (map[uint]domain.Pilgrim, error) {
	return r.occupants, nil
}

func newHallFixture(t *testing.T) (*HallService, *memoryHallRepo, *recordingCache) {
	t.Helper()

	refs := new(MockReferenceCounter)
	refs.On("CountExisting", mock.Anything, string(domain.LookupRitual), []uint{1}).Return(int64(1), nil)
	refs.On("CountExisting", mock.Anything, string(domain.LookupRitual), []uint{2}).Return(int64(0), nil)

	repo := &memoryHallRepo{halls: map[uint]domain.Hall{}}
	cache := newRecordingCache()

	return NewHallService(repo, refs, cache), repo, cache
}

func TestHallService_CreateHall(t *testing.T) {
	svc, _, _ := newHallFixture(t)

	hall, err := svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Mina A"}, 1, 3)
	require.NoError(t, err)
	want := []domain.Bed{
		{Number: 1, Status: domain.BedEmpty},
		{Number: 2, Status: domain.BedEmpty},
		{Number: 3, Status: domain.BedEmpty},
	}
	if diff := cmp.Diff(want, hall.Beds); diff != "" {
		t.Errorf("beds mismatch (-want +got):\n%s", diff)
	}

	_, err = svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Mina B"}, 2, 3)
	assert.ErrorIs(t, err, ErrUnknownReference)

	_, err = svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Mina C"}, 1, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidCapacity)
}

func TestHallService_SetBedStatus(t *testing.T) {
	svc, repo, cache := newHallFixture(t)
	hall, err := svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Arafat"}, 1, 4)
	require.NoError(t, err)

	occupant := uint(77)
	repo.halls[hall.ID].Beds[1] = domain.Bed{Number: 2, Status: domain.BedFull, PilgrimID: &occupant}

	updated, err := svc.SetBedStatus(context.Background(), hall.ID, 2, domain.BedNamed, "Family of Saad")
	require.NoError(t, err)
	assert.Equal(t, domain.Bed{Number: 2, Status: domain.BedNamed, Name: "Family of Saad"}, updated.Beds[1])
	assert.Equal(t, []uint{77}, cache.invalidated)

	_, err = svc.SetBedStatus(context.Background(), hall.ID, 2, domain.BedNamed, "Family of Saad")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves, "repeating a status change is a no-op")

	_, err = svc.SetBedStatus(context.Background(), hall.ID, 5, domain.BedReserved, "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidBedNumber)

	_, err = svc.SetBedStatus(context.Background(), hall.ID, 1, domain.BedNamed, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	released, err := svc.ReleaseBed(context.Background(), hall.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.Bed{Number: 2, Status: domain.BedEmpty}, released.Beds[1])

	_, err = svc.SetBedStatus(context.Background(), 404, 1, domain.BedEmpty, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHallService_SearchBeds(t *testing.T) {
	svc, repo, _ := newHallFixture(t)
	hall, err := svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Muzdalifah"}, 1, 3)
	require.NoError(t, err)

	occupant := uint(5)
	repo.halls[hall.ID].Beds[0] = domain.Bed{Number: 1, Status: domain.BedFull, PilgrimID: &occupant}
	repo.halls[hall.ID].Beds[2] = domain.Bed{Number: 3, Status: domain.BedNamed, Name: "Guest"}
	repo.occupants = map[uint]domain.Pilgrim{5: {ID: 5, Mobile: "0551112222", NationalID: "2123456789"}}

	numbers := func(query string) []int {
		seq, err := svc.SearchBeds(context.Background(), hall.ID, query)
		require.NoError(t, err)
		var out []int
		for b := range seq {
			out = append(out, b.Number)
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 3}, numbers(""))
	assert.Equal(t, []int{1}, numbers("055111"))
	assert.Equal(t, []int{3}, numbers("guest"))
	assert.Empty(t, numbers("nobody"))
}

func TestHallService_ListHalls(t *testing.T) {
	svc, repo, _ := newHallFixture(t)
	hall, err := svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Mina"}, 1, 4)
	require.NoError(t, err)
	repo.halls[hall.ID].Beds[0].Status = domain.BedReserved
	repo.halls[hall.ID].Beds[1].Status = domain.BedFull

	halls, err := svc.ListHalls(context.Background())
	require.NoError(t, err)
	require.Len(t, halls, 1)
	assert.Nil(t, halls[0].Beds)
	assert.Equal(t, domain.HallStats{Capacity: 4, Reserved: 1, Full: 1, Available: 2, OccupancyPercentage: 50}, halls[0].Stats)
}

func TestHallService_DeleteHall(t *testing.T) {
	svc, repo, cache := newHallFixture(t)
	hall, err := svc.CreateHall(context.Background(), domain.LocalizedName{EN: "Mina"}, 1, 2)
	require.NoError(t, err)
	repo.occupants = map[uint]domain.Pilgrim{9: {ID: 9}}

	require.NoError(t, svc.DeleteHall(context.Background(), hall.ID))
	assert.Equal(t, []uint{9}, cache.invalidated)
	assert.Equal(t, 1, cache.listBumps)

	assert.ErrorIs(t, svc.DeleteHall(context.Background(), hall.ID), ErrNotFound)
}
