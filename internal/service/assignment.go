package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type AssignmentRepository interface {
	AssignHousing(ctx context.Context, target domain.HousingTarget, pilgrimIDs []uint, policy domain.PlacementPolicy) error
	AssignTransport(ctx context.Context, target domain.TransportTarget, pilgrimIDs []uint, policy domain.PlacementPolicy) error
	AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error
	AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error
	SetDepartureStatus(ctx context.Context, status domain.DepartureStatus, pilgrimIDs []uint) error
}

type BulkObserver interface {
	ObserveBulk(dimension string, pilgrims int, err error)
}

type AssignmentService struct {
	repo     AssignmentRepository
	cache    PilgrimCache
	observer BulkObserver
	policy   domain.PlacementPolicy
}

type AssignmentOption func(*AssignmentService)

// WithPlacementPolicy replaces the default first-fit placement.
func WithPlacementPolicy(p domain.PlacementPolicy) AssignmentOption {
	return func(s *AssignmentService) {
		s.policy = p
	}
}

func NewAssignmentService(repo AssignmentRepository, cache PilgrimCache, observer BulkObserver, opts ...AssignmentOption) *AssignmentService {
	s := &AssignmentService{
		repo:     repo,
		cache:    cache,
		observer: observer,
		policy:   domain.FirstFitPolicy{},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AssignHousing places every pilgrim on an empty bed of the given camps,
// filling camps in the order given.
func (s *AssignmentService) AssignHousing(ctx context.Context, ritualID uint, campIDs, pilgrimIDs []uint) error {
	pilgrimIDs = domain.NormalizeIDs(pilgrimIDs)
	campIDs = domain.NormalizeIDs(campIDs)
	switch {
	case len(pilgrimIDs) == 0:
		return validationErr("pilgrim_ids must not be empty")
	case ritualID == 0:
		return validationErr("ritual_id is required")
	case len(campIDs) == 0:
		return validationErr("camp_ids must not be empty")
	}

	return s.run(ctx, domain.DimensionHousing, pilgrimIDs, func() error {
		return s.repo.AssignHousing(ctx, domain.HousingTarget{RitualID: ritualID, CampIDs: campIDs}, pilgrimIDs, s.policy)
	})
}

// AssignTransport seats every pilgrim on the given buses and resets the
// gathering point details that depend on the gathering point type.
func (s *AssignmentService) AssignTransport(ctx context.Context, gatheringPointTypeID uint, busIDs, pilgrimIDs []uint) error {
	pilgrimIDs = domain.NormalizeIDs(pilgrimIDs)
	busIDs = domain.NormalizeIDs(busIDs)
	switch {
	case len(pilgrimIDs) == 0:
		return validationErr("pilgrim_ids must not be empty")
	case gatheringPointTypeID == 0:
		return validationErr("gathering_point_type_id is required")
	case len(busIDs) == 0:
		return validationErr("bus_ids must not be empty")
	}

	target := domain.TransportTarget{GatheringPointTypeID: gatheringPointTypeID, BusIDs: busIDs}

	return s.run(ctx, domain.DimensionTransport, pilgrimIDs, func() error {
		return s.repo.AssignTransport(ctx, target, pilgrimIDs, s.policy)
	})
}

// AssignSupervisors replaces the supervisors of every pilgrim.
func (s *AssignmentService) AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error {
	pilgrimIDs = domain.NormalizeIDs(pilgrimIDs)
	supervisorIDs = domain.NormalizeIDs(supervisorIDs)
	switch {
	case len(pilgrimIDs) == 0:
		return validationErr("pilgrim_ids must not be empty")
	case len(supervisorIDs) == 0:
		return validationErr("supervisor_ids must not be empty")
	}

	return s.run(ctx, domain.DimensionSupervisors, pilgrimIDs, func() error {
		return s.repo.AssignSupervisors(ctx, supervisorIDs, pilgrimIDs)
	})
}

// AssignTags replaces the tags of every pilgrim.
func (s *AssignmentService) AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error {
	pilgrimIDs = domain.NormalizeIDs(pilgrimIDs)
	tagIDs = domain.NormalizeIDs(tagIDs)
	switch {
	case len(pilgrimIDs) == 0:
		return validationErr("pilgrim_ids must not be empty")
	case len(tagIDs) == 0:
		return validationErr("tag_ids must not be empty")
	}

	return s.run(ctx, domain.DimensionTags, pilgrimIDs, func() error {
		return s.repo.AssignTags(ctx, tagIDs, pilgrimIDs)
	})
}

func (s *AssignmentService) SetDepartureStatus(ctx context.Context, late bool, pilgrimIDs []uint) error {
	pilgrimIDs = domain.NormalizeIDs(pilgrimIDs)
	if len(pilgrimIDs) == 0 {
		return validationErr("pilgrim_ids must not be empty")
	}

	status := domain.DepartureEarly
	if late {
		status = domain.DepartureLate
	}

	return s.run(ctx, domain.DimensionDeparture, pilgrimIDs, func() error {
		return s.repo.SetDepartureStatus(ctx, status, pilgrimIDs)
	})
}

// run executes one transactional write and invalidates the cache only once
// it has committed.
func (s *AssignmentService) run(ctx context.Context, dim domain.AssignmentDimension, pilgrimIDs []uint, write func() error) error {
	start := time.Now()
	err := classify(write())
	s.observer.ObserveBulk(string(dim), len(pilgrimIDs), err)

	logger := zap.L().With(
		zap.String("dimension", string(dim)),
		zap.Int("pilgrims", len(pilgrimIDs)),
		zap.Duration("took", time.Since(start)),
	)
	if err != nil {
		logger.Info("bulk assignment rejected", zap.Error(err))
		return fmt.Errorf("s.repo.Assign(%s) -> %w", dim, err)
	}
	logger.Info("bulk assignment applied")

	invalidatePilgrims(ctx, s.cache, pilgrimIDs...)

	return nil
}
