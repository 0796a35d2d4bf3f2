package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

var (
	ErrPilgrimNotFound  = dao.ErrPilgrimNotFound
	ErrNationalIDExists = dao.ErrNationalIDExists
)

type PilgrimDAO interface {
	Insert(ctx context.Context, pilgrim dao.Pilgrim) (dao.Pilgrim, error)
	Update(ctx context.Context, pilgrim dao.Pilgrim) (dao.Pilgrim, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Pilgrim, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.Pilgrim, error)
	List(ctx context.Context, query dao.PilgrimQuery) ([]dao.Pilgrim, int64, error)
}

type PilgrimRepository struct {
	dao PilgrimDAO
}

func NewPilgrimRepository(dao PilgrimDAO) *PilgrimRepository {
	return &PilgrimRepository{
		dao: dao,
	}
}

func (r *PilgrimRepository) Create(ctx context.Context, pilgrim domain.Pilgrim) (domain.Pilgrim, error) {
	created, err := r.dao.Insert(ctx, pilgrimToDAO(pilgrim))
	if err != nil {
		return domain.Pilgrim{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return pilgrimToDomain(created), nil
}

func (r *PilgrimRepository) Update(ctx context.Context, pilgrim domain.Pilgrim) (domain.Pilgrim, error) {
	updated, err := r.dao.Update(ctx, pilgrimToDAO(pilgrim))
	if err != nil {
		return domain.Pilgrim{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return pilgrimToDomain(updated), nil
}

func (r *PilgrimRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PilgrimRepository) FindByID(ctx context.Context, id uint) (domain.Pilgrim, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Pilgrim{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return pilgrimToDomain(found), nil
}

func (r *PilgrimRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Pilgrim, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return pilgrimsToDomain(found), nil
}

// List returns one page. page is 1-based.
func (r *PilgrimRepository) List(ctx context.Context, sel filter.Selection, search string, page, limit int) (domain.PilgrimPage, error) {
	found, total, err := r.dao.List(ctx, dao.PilgrimQuery{
		Filter: sel,
		Search: search,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return domain.PilgrimPage{}, fmt.Errorf("r.dao.List -> %w", err)
	}

	return domain.PilgrimPage{
		Items: pilgrimsToDomain(found),
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func pilgrimsToDomain(ps []dao.Pilgrim) []domain.Pilgrim {
	out := make([]domain.Pilgrim, len(ps))
	for i, p := range ps {
		out[i] = pilgrimToDomain(p)
	}

	return out
}

func pilgrimToDomain(p dao.Pilgrim) domain.Pilgrim {
	return domain.Pilgrim{
		ID:                   p.ID,
		Name:                 domain.LocalizedName{AR: p.NameAR, EN: p.NameEN},
		NationalID:           p.NationalID,
		NationalityID:        p.NationalityID,
		CityID:               p.CityID,
		PackageID:            p.PackageID,
		Gender:               domain.Gender(p.Gender),
		BirthDate:            p.BirthDate,
		BirthDateHijri:       p.BirthDateHijri,
		Age:                  p.Age,
		Mobile:               p.Mobile,
		Mobile2:              p.Mobile2,
		PhotoKey:             p.PhotoKey,
		ReservationID:        p.ReservationID,
		PilgrimTypeID:        p.PilgrimTypeID,
		BookingStatusID:      p.BookingStatusID,
		HealthStatusID:       p.HealthStatusID,
		MuhrimStatus:         p.MuhrimStatus,
		DepartureStatus:      domain.DepartureStatus(p.DepartureStatus),
		Notes:                p.Notes,
		Source:               domain.PilgrimSource(p.Source),
		ImportHistoryID:      p.ImportHistoryID,
		TagIDs:               nonNil(p.TagIDs),
		SupervisorIDs:        nonNil(p.SupervisorIDs),
		BusID:                p.BusID,
		CampID:               p.CampID,
		BedNumber:            p.BedNumber,
		GatheringPointTypeID: p.GatheringPointTypeID,
		GatheringPointID:     p.GatheringPointID,
		DestinationID:        p.DestinationID,
		GatheringPointTimeID: p.GatheringPointTimeID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func pilgrimToDAO(p domain.Pilgrim) dao.Pilgrim {
	return dao.Pilgrim{
		ID:                   p.ID,
		NameAR:               p.Name.AR,
		NameEN:               p.Name.EN,
		NationalID:           p.NationalID,
		NationalityID:        p.NationalityID,
		CityID:               p.CityID,
		PackageID:            p.PackageID,
		Gender:               int(p.Gender),
		BirthDate:            p.BirthDate,
		BirthDateHijri:       p.BirthDateHijri,
		Age:                  p.Age,
		Mobile:               p.Mobile,
		Mobile2:              p.Mobile2,
		PhotoKey:             p.PhotoKey,
		ReservationID:        p.ReservationID,
		PilgrimTypeID:        p.PilgrimTypeID,
		BookingStatusID:      p.BookingStatusID,
		HealthStatusID:       p.HealthStatusID,
		MuhrimStatus:         p.MuhrimStatus,
		DepartureStatus:      int(p.DepartureStatus),
		Notes:                p.Notes,
		Source:               string(p.Source),
		ImportHistoryID:      p.ImportHistoryID,
		TagIDs:               p.TagIDs,
		SupervisorIDs:        p.SupervisorIDs,
		BusID:                p.BusID,
		CampID:               p.CampID,
		BedNumber:            p.BedNumber,
		GatheringPointTypeID: p.GatheringPointTypeID,
		GatheringPointID:     p.GatheringPointID,
		DestinationID:        p.DestinationID,
		GatheringPointTimeID: p.GatheringPointTimeID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func nonNil(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}

	return ids
}
