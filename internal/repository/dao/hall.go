package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BedStatusCount struct {
	HallID uint
	Status string
	Count  int
}

type HallDAO struct {
	db *gorm.DB
}

func NewHallDAO(db *gorm.DB) *HallDAO {
	return &HallDAO{
		db: db,
	}
}

// Insert stores the hall together with its beds.
func (d *HallDAO) Insert(ctx context.Context, hall Hall) (Hall, error) {
	if err := d.db.WithContext(ctx).Create(&hall).Error; err != nil {
		return Hall{}, err
	}

	return hall, nil
}

func (d *HallDAO) FindByID(ctx context.Context, id uint) (Hall, error) {
	var hall Hall

	result := d.db.WithContext(ctx).
		Preload("Beds", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		First(&hall, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Hall{}, ErrHallNotFound
		}

		return Hall{}, result.Error
	}

	return hall, nil
}

func (d *HallDAO) List(ctx context.Context) ([]Hall, []BedStatusCount, error) {
	db := d.db.WithContext(ctx)

	var halls []Hall
	if err := db.Order("id").Find(&halls).Error; err != nil {
		return nil, nil, err
	}

	var counts []BedStatusCount
	err := db.Model(&Bed{}).
		Select("hall_id, status, count(*) AS count").
		Group("hall_id, status").
		Scan(&counts).Error
	if err != nil {
		return nil, nil, err
	}

	return halls, counts, nil
}

// SaveBed writes one bed row. The previous occupant, if any, loses its
// camp and bed placement.
func (d *HallDAO) SaveBed(ctx context.Context, hallID uint, bed Bed) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current Bed
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hall_id = ? AND number = ?", hallID, bed.Number).
			First(&current)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrBedNotFound
			}

			return result.Error
		}

		if current.PilgrimID != nil && (bed.PilgrimID == nil || *bed.PilgrimID != *current.PilgrimID) {
			if err := clearHousing(tx.Where("id = ?", *current.PilgrimID)); err != nil {
				return err
			}
		}

		return tx.Model(&Bed{}).
			Where("id = ?", current.ID).
			Updates(map[string]any{"status": bed.Status, "name": bed.Name, "pilgrim_id": bed.PilgrimID}).Error
	})
}

// Delete removes the hall and its beds and unassigns every pilgrim housed there.
func (d *HallDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearHousing(tx.Where("camp_id = ?", id)); err != nil {
			return err
		}
		if err := tx.Where("hall_id = ?", id).Delete(&Bed{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Hall{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrHallNotFound
		}

		return nil
	})
}

func (d *HallDAO) FindOccupants(ctx context.Context, hallID uint) ([]Pilgrim, error) {
	var pilgrims []Pilgrim
	err := d.db.WithContext(ctx).
		Where("id IN (?)", d.db.Model(&Bed{}).Select("pilgrim_id").Where("hall_id = ? AND pilgrim_id IS NOT NULL", hallID)).
		Find(&pilgrims).Error
	if err != nil {
		return nil, err
	}

	return pilgrims, nil
}

func clearHousing(scoped *gorm.DB) error {
	return scoped.Model(&Pilgrim{}).
		Updates(map[string]any{"camp_id": nil, "bed_number": nil}).Error
}
