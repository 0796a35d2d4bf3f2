package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
)

var (
	ErrUnknownReference = dao.ErrUnknownReference
	ErrCampNotInRitual  = dao.ErrCampNotInRitual
)

type AssignmentDAO interface {
	AssignHousing(ctx context.Context, ritualID uint, campIDs, pilgrimIDs []uint, place func([]dao.FreeBeds) ([]dao.BedPlacement, error)) error
	AssignTransport(ctx context.Context, gatheringPointTypeID uint, busIDs, pilgrimIDs []uint, place func([]dao.BusLoad) ([]dao.SeatPlacement, error)) error
	AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error
	AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error
	SetDepartureStatus(ctx context.Context, status int, pilgrimIDs []uint) error
}

// AssignmentRepository adapts placement policies to the locked rows the
// DAO reads inside its transaction.
type AssignmentRepository struct {
	dao AssignmentDAO
}

func NewAssignmentRepository(dao AssignmentDAO) *AssignmentRepository {
	return &AssignmentRepository{
		dao: dao,
	}
}

func (r *AssignmentRepository) AssignHousing(ctx context.Context, target domain.HousingTarget, pilgrimIDs []uint, policy domain.PlacementPolicy) error {
	err := r.dao.AssignHousing(ctx, target.RitualID, target.CampIDs, pilgrimIDs, func(free []dao.FreeBeds) ([]dao.BedPlacement, error) {
		slots := make([]domain.SlotSet, len(free))
		for i, f := range free {
			slots[i] = domain.SlotSet{TargetID: f.HallID, Free: f.Numbers}
		}

		placements, err := policy.Place(pilgrimIDs, slots)
		if err != nil {
			return nil, err
		}

		out := make([]dao.BedPlacement, len(placements))
		for i, p := range placements {
			out[i] = dao.BedPlacement{PilgrimID: p.PilgrimID, HallID: p.TargetID, Number: p.Slot}
		}

		return out, nil
	})
	if err != nil {
		return fmt.Errorf("r.dao.AssignHousing -> %w", err)
	}

	return nil
}

func (r *AssignmentRepository) AssignTransport(ctx context.Context, target domain.TransportTarget, pilgrimIDs []uint, policy domain.PlacementPolicy) error {
	err := r.dao.AssignTransport(ctx, target.GatheringPointTypeID, target.BusIDs, pilgrimIDs, func(loads []dao.BusLoad) ([]dao.SeatPlacement, error) {
		slots := make([]domain.SlotSet, len(loads))
		for i, l := range loads {
			slots[i] = domain.SlotSet{TargetID: l.BusID, Free: domain.SeatOrdinals(l.Capacity, l.Taken)}
		}

		placements, err := policy.Place(pilgrimIDs, slots)
		if err != nil {
			return nil, err
		}

		out := make([]dao.SeatPlacement, len(placements))
		for i, p := range placements {
			out[i] = dao.SeatPlacement{PilgrimID: p.PilgrimID, BusID: p.TargetID}
		}

		return out, nil
	})
	if err != nil {
		return fmt.Errorf("r.dao.AssignTransport -> %w", err)
	}

	return nil
}

func (r *AssignmentRepository) AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error {
	if err := r.dao.AssignSupervisors(ctx, supervisorIDs, pilgrimIDs); err != nil {
		return fmt.Errorf("r.dao.AssignSupervisors -> %w", err)
	}

	return nil
}

func (r *AssignmentRepository) AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error {
	if err := r.dao.AssignTags(ctx, tagIDs, pilgrimIDs); err != nil {
		return fmt.Errorf("r.dao.AssignTags -> %w", err)
	}

	return nil
}

func (r *AssignmentRepository) SetDepartureStatus(ctx context.Context, status domain.DepartureStatus, pilgrimIDs []uint) error {
	if err := r.dao.SetDepartureStatus(ctx, int(status), pilgrimIDs); err != nil {
		return fmt.Errorf("r.dao.SetDepartureStatus -> %w", err)
	}

	return nil
}
