package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type PackageRepository interface {
	List(ctx context.Context) ([]domain.Package, error)
	FindByID(ctx context.Context, id uint) (domain.Package, error)
	Create(ctx context.Context, pkg domain.Package) (domain.Package, error)
	Update(ctx context.Context, pkg domain.Package) (domain.Package, error)
	Delete(ctx context.Context, id uint) error
}

type PackageService struct {
	repo PackageRepository
}

func NewPackageService(repo PackageRepository) *PackageService {
	return &PackageService{
		repo: repo,
	}
}

func validatePackage(p *domain.Package) error {
	p.Name.AR = strings.TrimSpace(p.Name.AR)
	p.Name.EN = strings.TrimSpace(p.Name.EN)
	name := p.Name.String()
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return validationErr("package name must be between 2 and 100 characters")
	}
	if p.Price < 0 {
		return validationErr("price must not be negative")
	}
	if p.Capacity < 0 {
		return validationErr("capacity must not be negative")
	}

	return nil
}

func (s *PackageService) ListPackages(ctx context.Context) ([]domain.Package, error) {
	packages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.List -> %w", err)
	}

	return packages, nil
}

func (s *PackageService) GetPackage(ctx context.Context, id uint) (domain.Package, error) {
	pkg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Package{}, fmt.Errorf("s.repo.FindByID -> %w", classify(err))
	}

	return pkg, nil
}

func (s *PackageService) CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	pkg.ID = 0
	if err := validatePackage(&pkg); err != nil {
		return domain.Package{}, err
	}

	created, err := s.repo.Create(ctx, pkg)
	if err != nil {
		return domain.Package{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PackageService) UpdatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error) {
	if err := validatePackage(&pkg); err != nil {
		return domain.Package{}, err
	}

	updated, err := s.repo.Update(ctx, pkg)
	if err != nil {
		return domain.Package{}, fmt.Errorf("s.repo.Update -> %w", classify(err))
	}

	return updated, nil
}

// DeletePackage fails with ErrPackageInUse while pilgrims still reference it.
func (s *PackageService) DeletePackage(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", classify(err))
	}

	return nil
}
