package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
)

var (
	ErrPackageNotFound = dao.ErrPackageNotFound
	ErrPackageInUse    = dao.ErrPackageInUse
)

type PackageDAO interface {
	List(ctx context.Context) ([]dao.Package, error)
	FindByID(ctx context.Context, id uint) (dao.Package, error)
	Insert(ctx context.Context, pkg dao.Package) (dao.Package, error)
	Update(ctx context.Context, pkg dao.Package) (dao.Package, error)
	Delete(ctx context.Context, id uint) error
}

type PackageRepository struct {
	dao PackageDAO
}

func NewPackageRepository(dao PackageDAO) *PackageRepository {
	return &PackageRepository{
		dao: dao,
	}
}

func (r *PackageRepository) List(ctx context.Context) ([]domain.Package, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	packages := make([]domain.Package, len(found))
	for i, p := range found {
		packages[i] = packageToDomain(p)
	}

	return packages, nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id uint) (domain.Package, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Package{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return packageToDomain(found), nil
}

func (r *PackageRepository) Create(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	created, err := r.dao.Insert(ctx, packageToDAO(pkg))
	if err != nil {
		return domain.Package{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return packageToDomain(created), nil
}

func (r *PackageRepository) Update(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	updated, err := r.dao.Update(ctx, packageToDAO(pkg))
	if err != nil {
		return domain.Package{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return packageToDomain(updated), nil
}

func (r *PackageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func packageToDomain(p dao.Package) domain.Package {
	return domain.Package{
		ID:          p.ID,
		Name:        domain.LocalizedName{AR: p.NameAR, EN: p.NameEN},
		Description: p.Description,
		Price:       p.Price,
		Capacity:    p.Capacity,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func packageToDAO(p domain.Package) dao.Package {
	return dao.Package{
		ID:          p.ID,
		NameAR:      p.Name.AR,
		NameEN:      p.Name.EN,
		Description: p.Description,
		Price:       p.Price,
		Capacity:    p.Capacity,
		IsActive:    p.IsActive,
	}
}
