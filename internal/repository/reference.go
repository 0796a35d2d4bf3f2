package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
)

var (
	ErrLookupNotFound   = dao.ErrLookupNotFound
	ErrBusNotFound      = dao.ErrBusNotFound
	ErrEmployeeNotFound = dao.ErrEmployeeNotFound
)

type ReferenceDAO interface {
	ListLookups(ctx context.Context, kind string, parentID *uint) ([]dao.Lookup, error)
	InsertLookup(ctx context.Context, item dao.Lookup) (dao.Lookup, error)
	FindLookup(ctx context.Context, kind string, id uint) (dao.Lookup, error)
	CountLookups(ctx context.Context, kind string, ids []uint) (int64, error)
	ListBuses(ctx context.Context) ([]dao.Bus, error)
	InsertBus(ctx context.Context, bus dao.Bus) (dao.Bus, error)
	FindBus(ctx context.Context, id uint) (dao.Bus, error)
	CountBuses(ctx context.Context, ids []uint) (int64, error)
	ListEmployees(ctx context.Context) ([]dao.Employee, error)
	InsertEmployee(ctx context.Context, employee dao.Employee) (dao.Employee, error)
	FindEmployee(ctx context.Context, id uint) (dao.Employee, error)
	CountEmployees(ctx context.Context, ids []uint) (int64, error)
	CountHalls(ctx context.Context, ids []uint) (int64, error)
}

type ReferenceRepository struct {
	dao ReferenceDAO
}

func NewReferenceRepository(dao ReferenceDAO) *ReferenceRepository {
	return &ReferenceRepository{
		dao: dao,
	}
}

func (r *ReferenceRepository) ListLookups(ctx context.Context, kind domain.LookupKind, parentID *uint) ([]domain.LookupItem, error) {
	found, err := r.dao.ListLookups(ctx, string(kind), parentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListLookups -> %w", err)
	}

	items := make([]domain.LookupItem, len(found))
	for i, l := range found {
		items[i] = lookupToDomain(l)
	}

	return items, nil
}

func (r *ReferenceRepository) CreateLookup(ctx context.Context, item domain.LookupItem) (domain.LookupItem, error) {
	created, err := r.dao.InsertLookup(ctx, dao.Lookup{
		Kind:     string(item.Kind),
		ParentID: item.ParentID,
		NameAR:   item.Name.AR,
		NameEN:   item.Name.EN,
	})
	if err != nil {
		return domain.LookupItem{}, fmt.Errorf("r.dao.InsertLookup -> %w", err)
	}

	return lookupToDomain(created), nil
}

func (r *ReferenceRepository) FindLookup(ctx context.Context, kind domain.LookupKind, id uint) (domain.LookupItem, error) {
	found, err := r.dao.FindLookup(ctx, string(kind), id)
	if err != nil {
		return domain.LookupItem{}, fmt.Errorf("r.dao.FindLookup -> %w", err)
	}

	return lookupToDomain(found), nil
}

// CountExisting counts how many of ids exist in the collection named by kind.
// Besides lookup kinds it understands "buses", "employees" and "halls".
func (r *ReferenceRepository) CountExisting(ctx context.Context, kind string, ids []uint) (int64, error) {
	var (
		n   int64
		err error
	)
	switch kind {
	case "buses":
		n, err = r.dao.CountBuses(ctx, ids)
	case "employees":
		n, err = r.dao.CountEmployees(ctx, ids)
	case "halls":
		n, err = r.dao.CountHalls(ctx, ids)
	default:
		n, err = r.dao.CountLookups(ctx, kind, ids)
	}
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count(%s) -> %w", kind, err)
	}

	return n, nil
}

func (r *ReferenceRepository) ListBuses(ctx context.Context) ([]domain.Bus, error) {
	found, err := r.dao.ListBuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListBuses -> %w", err)
	}

	buses := make([]domain.Bus, len(found))
	for i, b := range found {
		buses[i] = busToDomain(b)
	}

	return buses, nil
}

func (r *ReferenceRepository) CreateBus(ctx context.Context, bus domain.Bus) (domain.Bus, error) {
	created, err := r.dao.InsertBus(ctx, dao.Bus{Name: bus.Name, PlateNumber: bus.PlateNumber, Capacity: bus.Capacity})
	if err != nil {
		return domain.Bus{}, fmt.Errorf("r.dao.InsertBus -> %w", err)
	}

	return busToDomain(created), nil
}

func (r *ReferenceRepository) FindBus(ctx context.Context, id uint) (domain.Bus, error) {
	found, err := r.dao.FindBus(ctx, id)
	if err != nil {
		return domain.Bus{}, fmt.Errorf("r.dao.FindBus -> %w", err)
	}

	return busToDomain(found), nil
}

func (r *ReferenceRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	found, err := r.dao.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListEmployees -> %w", err)
	}

	employees := make([]domain.Employee, len(found))
	for i, e := range found {
		employees[i] = employeeToDomain(e)
	}

	return employees, nil
}

func (r *ReferenceRepository) CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error) {
	created, err := r.dao.InsertEmployee(ctx, dao.Employee{
		NameAR: employee.Name.AR,
		NameEN: employee.Name.EN,
		Mobile: employee.Mobile,
		Role:   employee.Role,
	})
	if err != nil {
		return domain.Employee{}, fmt.Errorf("r.dao.InsertEmployee -> %w", err)
	}

	return employeeToDomain(created), nil
}

func (r *ReferenceRepository) FindEmployee(ctx context.Context, id uint) (domain.Employee, error) {
	found, err := r.dao.FindEmployee(ctx, id)
	if err != nil {
		return domain.Employee{}, fmt.Errorf("r.dao.FindEmployee -> %w", err)
	}

	return employeeToDomain(found), nil
}

func lookupToDomain(l dao.Lookup) domain.LookupItem {
	return domain.LookupItem{
		ID:       l.ID,
		Kind:     domain.LookupKind(l.Kind),
		Name:     domain.LocalizedName{AR: l.NameAR, EN: l.NameEN},
		ParentID: l.ParentID,
	}
}

func busToDomain(b dao.Bus) domain.Bus {
	return domain.Bus{ID: b.ID, Name: b.Name, PlateNumber: b.PlateNumber, Capacity: b.Capacity}
}

func employeeToDomain(e dao.Employee) domain.Employee {
	return domain.Employee{
		ID:     e.ID,
		Name:   domain.LocalizedName{AR: e.NameAR, EN: e.NameEN},
		Mobile: e.Mobile,
		Role:   e.Role,
	}
}
