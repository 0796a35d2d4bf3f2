package service

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type HallRepository interface {
	Create(ctx context.Context, hall domain.Hall) (domain.Hall, error)
	FindByID(ctx context.Context, id uint) (domain.Hall, error)
	List(ctx context.Context) ([]domain.Hall, []domain.HallStats, error)
	SaveBed(ctx context.Context, hallID uint, bed domain.Bed) error
	Delete(ctx context.Context, id uint) error
	FindOccupants(ctx context.Context, hallID uint) (map[uint]domain.Pilgrim, error)
}

type HallSummary struct {
	domain.Hall
	Stats domain.HallStats `json:"stats"`
}

type HallService struct {
	repo  HallRepository
	refs  ReferenceCounter
	cache PilgrimCache
}

func NewHallService(repo HallRepository, refs ReferenceCounter, cache PilgrimCache) *HallService {
	return &HallService{
		repo:  repo,
		refs:  refs,
		cache: cache,
	}
}

// CreateHall creates a hall with capacity empty beds numbered from 1.
func (s *HallService) CreateHall(ctx context.Context, name domain.LocalizedName, ritualID uint, capacity int) (domain.Hall, error) {
	name.AR = strings.TrimSpace(name.AR)
	name.EN = strings.TrimSpace(name.EN)
	if name.AR == "" && name.EN == "" {
		return domain.Hall{}, validationErr("hall name is required")
	}
	if ritualID == 0 {
		return domain.Hall{}, validationErr("ritual_id is required")
	}
	beds, err := domain.NewBeds(capacity)
	if err != nil {
		return domain.Hall{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err = ensureExist(ctx, s.refs, string(domain.LookupRitual), []uint{ritualID}); err != nil {
		return domain.Hall{}, err
	}

	created, err := s.repo.Create(ctx, domain.Hall{Name: name, RitualID: ritualID, Capacity: capacity, Beds: beds})
	if err != nil {
		return domain.Hall{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *HallService) GetHall(ctx context.Context, hallID uint) (domain.Hall, error) {
	hall, err := s.repo.FindByID(ctx, hallID)
	if err != nil {
		return domain.Hall{}, fmt.Errorf("s.repo.FindByID -> %w", classify(err))
	}

	return hall, nil
}

// ListHalls returns every hall without its beds.
func (s *HallService) ListHalls(ctx context.Context) ([]HallSummary, error) {
	halls, stats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	out := make([]HallSummary, len(halls))
	for i := range halls {
		out[i] = HallSummary{Hall: halls[i], Stats: stats[i]}
	}

	return out, nil
}

// SetBedStatus applies a manual status change and returns the updated hall.
// Setting the status a bed already has is a no-op.
func (s *HallService) SetBedStatus(ctx context.Context, hallID uint, number int, status domain.BedStatus, name string) (domain.Hall, error) {
	hall, err := s.GetHall(ctx, hallID)
	if err != nil {
		return domain.Hall{}, err
	}
	previous, err := hall.Bed(number)
	if err != nil {
		return domain.Hall{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	bed, err := hall.SetBedStatus(number, status, name)
	if err != nil {
		return domain.Hall{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if bed == previous {
		return hall, nil
	}

	if err = s.repo.SaveBed(ctx, hallID, bed); err != nil {
		return domain.Hall{}, fmt.Errorf("s.repo.SaveBed -> %w", classify(err))
	}
	if previous.PilgrimID != nil {
		s.invalidate(ctx, *previous.PilgrimID)
	}

	return hall, nil
}

func (s *HallService) ReleaseBed(ctx context.Context, hallID uint, number int) (domain.Hall, error) {
	return s.SetBedStatus(ctx, hallID, number, domain.BedEmpty, "")
}

// SearchBeds returns the beds of a hall matching query. An empty query
// matches every bed.
func (s *HallService) SearchBeds(ctx context.Context, hallID uint, query string) (iter.Seq[domain.Bed], error) {
	hall, err := s.GetHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	occupants := map[uint]domain.Pilgrim{}
	if strings.TrimSpace(query) != "" {
		occupants, err = s.repo.FindOccupants(ctx, hallID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindOccupants -> %w", err)
		}
	}

	return domain.MatchBeds(hall.Beds, occupants, query), nil
}

// DeleteHall removes the hall and unassigns every pilgrim housed in it.
func (s *HallService) DeleteHall(ctx context.Context, hallID uint) error {
	occupants, err := s.repo.FindOccupants(ctx, hallID)
	if err != nil {
		return fmt.Errorf("s.repo.FindOccupants -> %w", err)
	}
	if err = s.repo.Delete(ctx, hallID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", classify(err))
	}

	ids := make([]uint, 0, len(occupants))
	for id := range occupants {
		ids = append(ids, id)
	}
	s.invalidate(ctx, ids...)

	return nil
}

func (s *HallService) invalidate(ctx context.Context, ids ...uint) {
	invalidatePilgrims(ctx, s.cache, ids...)
}
