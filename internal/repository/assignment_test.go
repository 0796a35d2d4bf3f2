package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
)

type fakeAssignmentDAO struct {
	free  []dao.FreeBeds
	loads []dao.BusLoad

	bedPlacements  []dao.BedPlacement
	seatPlacements []dao.SeatPlacement
}

func (f *fakeAssignmentDAO) AssignHousing(_ context.Context, _ uint, _, _ []uint, place func([]dao.FreeBeds) ([]dao.BedPlacement, error)) error {
	var err error
	f.bedPlacements, err = place(f.free)

	return err
}

func (f *fakeAssignmentDAO) AssignTransport(_ context.Context, _ uint, _, _ []uint, place func([]dao.BusLoad) ([]dao.SeatPlacement, error)) error {
	var err error
	f.seatPlacements, err = place(f.loads)

	return err
}

func (f *fakeAssignmentDAO) AssignSupervisors(context.Context, []uint, []uint) error { return nil }
func (f *fakeAssignmentDAO) AssignTags(context.Context, []uint, []uint) error        { return nil }
func (f *fakeAssignmentDAO) SetDepartureStatus(context.Context, int, []uint) error   { return nil }

func TestAssignmentRepository_AssignHousing_FirstFit(t *testing.T) {
	fake := &fakeAssignmentDAO{free: []dao.FreeBeds{
		{HallID: 1, Numbers: []int{3}},
		{HallID: 2, Numbers: []int{1, 2}},
	}}
	repo := NewAssignmentRepository(fake)

	err := repo.AssignHousing(context.Background(),
		domain.HousingTarget{RitualID: 9, CampIDs: []uint{1, 2}},
		[]uint{10, 11, 12},
		domain.FirstFitPolicy{})
	require.NoError(t, err)
	assert.Equal(t, []dao.BedPlacement{
		{PilgrimID: 10, HallID: 1, Number: 3},
		{PilgrimID: 11, HallID: 2, Number: 1},
		{PilgrimID: 12, HallID: 2, Number: 2},
	}, fake.bedPlacements)
}

func TestAssignmentRepository_AssignTransport_InsufficientSeats(t *testing.T) {
	fake := &fakeAssignmentDAO{loads: []dao.BusLoad{{BusID: 4, Capacity: 2, Taken: 1}}}
	repo := NewAssignmentRepository(fake)

	err := repo.AssignTransport(context.Background(),
		domain.TransportTarget{GatheringPointTypeID: 1, BusIDs: []uint{4}},
		[]uint{10, 11},
		domain.FirstFitPolicy{})
	assert.ErrorIs(t, err, domain.ErrInsufficientCapacity)
}

func TestAssignmentRepository_AssignTransport_UsesRemainingSeats(t *testing.T) {
	fake := &fakeAssignmentDAO{loads: []dao.BusLoad{
		{BusID: 4, Capacity: 2, Taken: 2},
		{BusID: 5, Capacity: 50, Taken: 0},
	}}
	repo := NewAssignmentRepository(fake)

	err := repo.AssignTransport(context.Background(),
		domain.TransportTarget{GatheringPointTypeID: 1, BusIDs: []uint{4, 5}},
		[]uint{10, 11},
		domain.FirstFitPolicy{})
	require.NoError(t, err)
	assert.Equal(t, []dao.SeatPlacement{{PilgrimID: 10, BusID: 5}, {PilgrimID: 11, BusID: 5}}, fake.seatPlacements)
}
