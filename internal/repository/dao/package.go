package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type PackageDAO struct {
	db *gorm.DB
}

func NewPackageDAO(db *gorm.DB) *PackageDAO {
	return &PackageDAO{
		db: db,
	}
}

func (d *PackageDAO) List(ctx context.Context) ([]Package, error) {
	var packages []Package
	if err := d.db.WithContext(ctx).Order("id").Find(&packages).Error; err != nil {
		return nil, err
	}

	return packages, nil
}

func (d *PackageDAO) FindByID(ctx context.Context, id uint) (Package, error) {
	var pkg Package

	result := d.db.WithContext(ctx).First(&pkg, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Package{}, ErrPackageNotFound
		}

		return Package{}, result.Error
	}

	return pkg, nil
}

func (d *PackageDAO) Insert(ctx context.Context, pkg Package) (Package, error) {
	if err := d.db.WithContext(ctx).Create(&pkg).Error; err != nil {
		return Package{}, err
	}

	return pkg, nil
}

func (d *PackageDAO) Update(ctx context.Context, pkg Package) (Package, error) {
	result := d.db.WithContext(ctx).Model(&Package{ID: pkg.ID}).
		Select("name_ar", "name_en", "description", "price", "capacity", "is_active", "updated_at").
		Updates(&pkg)
	if result.Error != nil {
		return Package{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Package{}, ErrPackageNotFound
	}

	return d.FindByID(ctx, pkg.ID)
}

// Delete refuses to remove a package that pilgrims still reference.
func (d *PackageDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&Pilgrim{}).Where("package_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrPackageInUse
		}

		result := tx.Delete(&Package{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPackageNotFound
		}

		return nil
	})
}
