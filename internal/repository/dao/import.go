package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type ImportDAO struct {
	db *gorm.DB
}

func NewImportDAO(db *gorm.DB) *ImportDAO {
	return &ImportDAO{
		db: db,
	}
}

// Insert stores the history record and every imported pilgrim, or nothing.
func (d *ImportDAO) Insert(ctx context.Context, history ImportHistory, pilgrims []Pilgrim) (ImportHistory, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history.Imported = len(pilgrims)
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
		if len(pilgrims) == 0 {
			return nil
		}

		for i := range pilgrims {
			pilgrims[i].Source = "import"
			pilgrims[i].ImportHistoryID = &history.ID
		}

		return tx.CreateInBatches(&pilgrims, 200).Error
	})
	if err != nil {
		if isUniqueViolation(err, nationalIDConstraint) {
			return ImportHistory{}, ErrNationalIDExists
		}

		return ImportHistory{}, err
	}

	return history, nil
}

func (d *ImportDAO) FindByID(ctx context.Context, id uint) (ImportHistory, error) {
	var history ImportHistory

	result := d.db.WithContext(ctx).First(&history, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ImportHistory{}, ErrImportNotFound
		}

		return ImportHistory{}, result.Error
	}

	return history, nil
}

func (d *ImportDAO) List(ctx context.Context) ([]ImportHistory, error) {
	var histories []ImportHistory
	if err := d.db.WithContext(ctx).Order("id DESC").Find(&histories).Error; err != nil {
		return nil, err
	}

	return histories, nil
}
