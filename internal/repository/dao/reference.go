package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ReferenceDAO struct {
	db *gorm.DB
}

func NewReferenceDAO(db *gorm.DB) *ReferenceDAO {
	return &ReferenceDAO{
		db: db,
	}
}

// ListLookups returns the items of kind. A non-nil parentID restricts the
// result to children of that item.
func (d *ReferenceDAO) ListLookups(ctx context.Context, kind string, parentID *uint) ([]Lookup, error) {
	var items []Lookup

	q := d.db.WithContext(ctx).Where("kind = ?", kind)
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	}
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (d *ReferenceDAO) InsertLookup(ctx context.Context, item Lookup) (Lookup, error) {
	if err := d.db.WithContext(ctx).Create(&item).Error; err != nil {
		return Lookup{}, err
	}

	return item, nil
}

func (d *ReferenceDAO) FindLookup(ctx context.Context, kind string, id uint) (Lookup, error) {
	var item Lookup

	result := d.db.WithContext(ctx).Where("kind = ?", kind).First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Lookup{}, ErrLookupNotFound
		}

		return Lookup{}, result.Error
	}

	return item, nil
}

func (d *ReferenceDAO) CountLookups(ctx context.Context, kind string, ids []uint) (int64, error) {
	return countLookups(d.db.WithContext(ctx), kind, ids)
}

func countLookups(tx *gorm.DB, kind string, ids []uint) (int64, error) {
	var n int64
	err := tx.Model(&Lookup{}).Where("kind = ? AND id IN ?", kind, ids).Count(&n).Error

	return n, err
}

func (d *ReferenceDAO) ListBuses(ctx context.Context) ([]Bus, error) {
	var buses []Bus
	if err := d.db.WithContext(ctx).Order("id").Find(&buses).Error; err != nil {
		return nil, err
	}

	return buses, nil
}

func (d *ReferenceDAO) InsertBus(ctx context.Context, bus Bus) (Bus, error) {
	if err := d.db.WithContext(ctx).Create(&bus).Error; err != nil {
		return Bus{}, err
	}

	return bus, nil
}

func (d *ReferenceDAO) FindBus(ctx context.Context, id uint) (Bus, error) {
	var bus Bus

	result := d.db.WithContext(ctx).First(&bus, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Bus{}, ErrBusNotFound
		}

		return Bus{}, result.Error
	}

	return bus, nil
}

func (d *ReferenceDAO) CountBuses(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&Bus{}).Where("id IN ?", ids).Count(&n).Error

	return n, err
}

func (d *ReferenceDAO) ListEmployees(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	if err := d.db.WithContext(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}

	return employees, nil
}

func (d *ReferenceDAO) InsertEmployee(ctx context.Context, employee Employee) (Employee, error) {
	if err := d.db.WithContext(ctx).Create(&employee).Error; err != nil {
		return Employee{}, err
	}

	return employee, nil
}

func (d *ReferenceDAO) FindEmployee(ctx context.Context, id uint) (Employee, error) {
	var employee Employee

	result := d.db.WithContext(ctx).First(&employee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Employee{}, ErrEmployeeNotFound
		}

		return Employee{}, result.Error
	}

	return employee, nil
}

func (d *ReferenceDAO) CountEmployees(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&Employee{}).Where("id IN ?", ids).Count(&n).Error

	return n, err
}

func (d *ReferenceDAO) CountHalls(ctx context.Context, ids []uint) (int64, error) {
	var n int64
	err := d.db.WithContext(ctx).Model(&Hall{}).Where("id IN ?", ids).Count(&n).Error

	return n, err
}
