package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

// Collections accepted by EnsureExist besides lookup kinds.
const (
	KindBuses     = "buses"
	KindEmployees = "employees"
	KindHalls     = "halls"
)

// ReferenceCounter reports how many of ids exist in a collection.
type ReferenceCounter interface {
	CountExisting(ctx context.Context, kind string, ids []uint) (int64, error)
}

type ReferenceRepository interface {
	ReferenceCounter
	ListLookups(ctx context.Context, kind domain.LookupKind, parentID *uint) ([]domain.LookupItem, error)
	CreateLookup(ctx context.Context, item domain.LookupItem) (domain.LookupItem, error)
	FindLookup(ctx context.Context, kind domain.LookupKind, id uint) (domain.LookupItem, error)
	ListBuses(ctx context.Context) ([]domain.Bus, error)
	CreateBus(ctx context.Context, bus domain.Bus) (domain.Bus, error)
	FindBus(ctx context.Context, id uint) (domain.Bus, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error)
	FindEmployee(ctx context.Context, id uint) (domain.Employee, error)
}

type ReferenceService struct {
	repo     ReferenceRepository
	packages PackageRepository
	halls    HallRepository
	imports  ImportRepository
}

func NewReferenceService(repo ReferenceRepository, packages PackageRepository, halls HallRepository, imports ImportRepository) *ReferenceService {
	return &ReferenceService{
		repo:     repo,
		packages: packages,
		halls:    halls,
		imports:  imports,
	}
}

func (s *ReferenceService) ListLookups(ctx context.Context, kind domain.LookupKind, parentID *uint) ([]domain.LookupItem, error) {
	if !kind.Valid() {
		return nil, validationErr("unknown lookup kind %q", kind)
	}
	if parentID != nil && !kind.Scoped() {
		return nil, validationErr("%s cannot be filtered by parent_id", kind)
	}

	items, err := s.repo.ListLookups(ctx, kind, parentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListLookups -> %w", err)
	}

	return items, nil
}

// CreateLookup seeds one option. Gathering points, destinations and times
// must name the gathering point type they belong to.
func (s *ReferenceService) CreateLookup(ctx context.Context, item domain.LookupItem) (domain.LookupItem, error) {
	if !item.Kind.Valid() {
		return domain.LookupItem{}, validationErr("unknown lookup kind %q", item.Kind)
	}
	item.Name.AR = strings.TrimSpace(item.Name.AR)
	item.Name.EN = strings.TrimSpace(item.Name.EN)
	if item.Name.AR == "" && item.Name.EN == "" {
		return domain.LookupItem{}, validationErr("name is required")
	}

	switch {
	case item.Kind.Scoped() && item.ParentID == nil:
		return domain.LookupItem{}, validationErr("%s requires a parent_id", item.Kind)
	case !item.Kind.Scoped() && item.ParentID != nil:
		return domain.LookupItem{}, validationErr("%s does not take a parent_id", item.Kind)
	case item.ParentID != nil:
		if _, err := s.repo.FindLookup(ctx, domain.LookupGatheringPointType, *item.ParentID); err != nil {
			if errors.Is(err, ErrLookupNotFound) {
				return domain.LookupItem{}, validationErr("unknown gathering point type %d", *item.ParentID)
			}

			return domain.LookupItem{}, fmt.Errorf("s.repo.FindLookup -> %w", err)
		}
	}

	created, err := s.repo.CreateLookup(ctx, item)
	if err != nil {
		return domain.LookupItem{}, fmt.Errorf("s.repo.CreateLookup -> %w", err)
	}

	return created, nil
}

func (s *ReferenceService) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	buses, err := s.repo.ListBuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListBuses -> %w", err)
	}

	return buses, nil
}

func (s *ReferenceService) CreateBus(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	bus.Name = strings.TrimSpace(bus.Name)
	if bus.Name == "" {
		return domain.Bus{}, validationErr("bus name is required")
	}
	if bus.Capacity < 1 {
		return domain.Bus{}, validationErr("bus capacity must be positive")
	}

	created, err := s.repo.CreateBus(ctx, bus)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("s.repo.CreateBus -> %w", err)
	}

	return created, nil
}

func (s *ReferenceService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListEmployees -> %w", err)
	}

	return employees, nil
}

func (s *ReferenceService) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	if strings.TrimSpace(employee.Name.AR) == "" && strings.TrimSpace(employee.Name.EN) == "" {
		return domain.Employee{}, validationErr("employee name is required")
	}
	if employee.Mobile != "" {
		if err := domain.ValidateSaudiMobile(employee.Mobile); err != nil {
			return domain.Employee{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}
	if employee.Role == "" {
		employee.Role = "supervisor"
	}

	created, err := s.repo.CreateEmployee(ctx, employee)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("s.repo.CreateEmployee -> %w", err)
	}

	return created, nil
}

// EnsureExist fails with ErrUnknownReference unless every id is present in
// the collection named by kind.
func (s *ReferenceService) EnsureExist(ctx context.Context, kind string, ids []uint) error {
	return ensureExist(ctx, s.repo, kind, ids)
}

func ensureExist(ctx context.Context, refs ReferenceCounter, kind string, ids []uint) error {
	ids = domain.NormalizeIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	n, err := refs.CountExisting(ctx, kind, ids)
	if err != nil {
		return fmt.Errorf("refs.CountExisting -> %w", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("%w: %w: %d of %d %s not found", ErrValidation, ErrUnknownReference, int64(len(ids))-n, len(ids), kind)
	}

	return nil
}

var lookupKeys = map[filter.Key]domain.LookupKind{
	filter.KeyNationality:        domain.LookupNationality,
	filter.KeyCity:               domain.LookupCity,
	filter.KeyTag:                domain.LookupTag,
	filter.KeyBookingStatus:      domain.LookupBookingStatus,
	filter.KeyPilgrimType:        domain.LookupPilgrimType,
	filter.KeyHealthStatus:       domain.LookupHealthStatus,
	filter.KeyGatheringPointType: domain.LookupGatheringPointType,
	filter.KeyGatheringPoint:     domain.LookupGatheringPoint,
	filter.KeyDestination:        domain.LookupDestination,
	filter.KeyGatheringPointTime: domain.LookupGatheringPointTime,
}

// Resolve implements filter.Resolver.
func (s *ReferenceService) Resolve(ctx context.Context, key filter.Key, id uint) (filter.Option, error) {
	if kind, ok := lookupKeys[key]; ok {
		item, err := s.repo.FindLookup(ctx, kind, id)
		if err != nil {
			return filter.Option{}, fmt.Errorf("s.repo.FindLookup -> %w", classify(err))
		}

		return filter.Option{ID: id, Label: item.Name.String()}, nil
	}

	var (
		label string
		err   error
	)
	switch key {
	case filter.KeyPackage:
		var p domain.Package
		p, err = s.packages.FindByID(ctx, id)
		label = p.Name.String()
	case filter.KeyCamp:
		var h domain.Hall
		h, err = s.halls.FindByID(ctx, id)
		label = h.Name.String()
	case filter.KeyBus:
		var b domain.Bus
		b, err = s.repo.FindBus(ctx, id)
		label = b.Name
	case filter.KeySupervisor:
		var e domain.Employee
		e, err = s.repo.FindEmployee(ctx, id)
		label = e.Name.String()
	case filter.KeyImportHistory:
		var h domain.ImportHistory
		h, err = s.imports.FindByID(ctx, id)
		label = h.FileName
	default:
		return filter.Option{}, fmt.Errorf("%w: %q", filter.ErrUnknownKey, key)
	}
	if err != nil {
		return filter.Option{}, fmt.Errorf("resolve %s -> %w", key, classify(err))
	}

	return filter.Option{ID: id, Label: label}, nil
}
