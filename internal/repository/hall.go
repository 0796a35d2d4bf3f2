package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
)

var (
	ErrHallNotFound = dao.ErrHallNotFound
	ErrBedNotFound  = dao.ErrBedNotFound
)

type HallDAO interface {
	Insert(ctx context.Context, hall dao.Hall) (dao.Hall, error)
	FindByID(ctx context.Context, id uint) (dao.Hall, error)
	List(ctx context.Context) ([]dao.Hall, []dao.BedStatusCount, error)
	SaveBed(ctx context.Context, hallID uint, bed dao.Bed) error
	Delete(ctx context.Context, id uint) error
	FindOccupants(ctx context.Context, hallID uint) ([]dao.Pilgrim, error)
}

type HallRepository struct {
	dao HallDAO
}

func NewHallRepository(dao HallDAO) *HallRepository {
	return &HallRepository{
		dao: dao,
	}
}

func (r *HallRepository) Create(ctx context.Context, hall domain.Hall) (domain.Hall, error) {
	beds := make([]dao.Bed, len(hall.Beds))
	for i, b := range hall.Beds {
		beds[i] = bedToDAO(b)
	}

	created, err := r.dao.Insert(ctx, dao.Hall{
		NameAR:   hall.Name.AR,
		NameEN:   hall.Name.EN,
		RitualID: hall.RitualID,
		Capacity: hall.Capacity,
		Beds:     beds,
	})
	if err != nil {
		return domain.Hall{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return hallToDomain(created)
}

func (r *HallRepository) FindByID(ctx context.Context, id uint) (domain.Hall, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Hall{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return hallToDomain(found)
}

// List returns every hall without beds, together with its computed stats.
func (r *HallRepository) List(ctx context.Context) ([]domain.Hall, []domain.HallStats, error) {
	halls, counts, err := r.dao.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	byHall := make(map[uint][]dao.BedStatusCount, len(halls))
	for _, c := range counts {
		byHall[c.HallID] = append(byHall[c.HallID], c)
	}

	out := make([]domain.Hall, len(halls))
	stats := make([]domain.HallStats, len(halls))
	for i, h := range halls {
		out[i] = domain.Hall{
			ID:        h.ID,
			Name:      domain.LocalizedName{AR: h.NameAR, EN: h.NameEN},
			RitualID:  h.RitualID,
			Capacity:  h.Capacity,
			CreatedAt: h.CreatedAt,
			UpdatedAt: h.UpdatedAt,
		}

		perStatus := make(map[domain.BedStatus]int, len(byHall[h.ID]))
		for _, c := range byHall[h.ID] {
			status, err := domain.ParseBedStatus(c.Status)
			if err != nil {
				return nil, nil, fmt.Errorf("hall %d -> %w", h.ID, err)
			}
			perStatus[status] += c.Count
		}
		stats[i] = domain.StatsOf(h.Capacity, perStatus)
	}

	return out, stats, nil
}

func (r *HallRepository) SaveBed(ctx context.Context, hallID uint, bed domain.Bed) error {
	if err := r.dao.SaveBed(ctx, hallID, bedToDAO(bed)); err != nil {
		return fmt.Errorf("r.dao.SaveBed -> %w", err)
	}

	return nil
}

func (r *HallRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *HallRepository) FindOccupants(ctx context.Context, hallID uint) (map[uint]domain.Pilgrim, error) {
	found, err := r.dao.FindOccupants(ctx, hallID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOccupants -> %w", err)
	}

	occupants := make(map[uint]domain.Pilgrim, len(found))
	for _, p := range found {
		occupants[p.ID] = pilgrimToDomain(p)
	}

	return occupants, nil
}

func hallToDomain(h dao.Hall) (domain.Hall, error) {
	beds := make([]domain.Bed, len(h.Beds))
	for i, b := range h.Beds {
		status, err := domain.ParseBedStatus(b.Status)
		if err != nil {
			return domain.Hall{}, fmt.Errorf("bed %d -> %w", b.Number, err)
		}
		beds[i] = domain.Bed{Number: b.Number, Status: status, Name: b.Name, PilgrimID: b.PilgrimID}
	}

	return domain.Hall{
		ID:        h.ID,
		Name:      domain.LocalizedName{AR: h.NameAR, EN: h.NameEN},
		RitualID:  h.RitualID,
		Capacity:  h.Capacity,
		Beds:      beds,
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}, nil
}

func bedToDAO(b domain.Bed) dao.Bed {
	return dao.Bed{
		Number:    b.Number,
		Status:    b.Status.String(),
		Name:      b.Name,
		PilgrimID: b.PilgrimID,
	}
}
