package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/repository/dao"
)

var ErrImportNotFound = dao.ErrImportNotFound

type ImportDAO interface {
	Insert(ctx context.Context, history dao.ImportHistory, pilgrims []dao.Pilgrim) (dao.ImportHistory, error)
	FindByID(ctx context.Context, id uint) (dao.ImportHistory, error)
	List(ctx context.Context) ([]dao.ImportHistory, error)
}

type ImportRepository struct {
	dao ImportDAO
}

func NewImportRepository(dao ImportDAO) *ImportRepository {
	return &ImportRepository{
		dao: dao,
	}
}

func (r *ImportRepository) Create(ctx context.Context, history domain.ImportHistory, pilgrims []domain.Pilgrim) (domain.ImportHistory, error) {
	rows := make([]dao.Pilgrim, len(pilgrims))
	for i, p := range pilgrims {
		rows[i] = pilgrimToDAO(p)
	}

	created, err := r.dao.Insert(ctx, dao.ImportHistory{
		FileName:  history.FileName,
		TotalRows: history.TotalRows,
		CreatedBy: history.CreatedBy,
	}, rows)
	if err != nil {
		return domain.ImportHistory{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return importToDomain(created), nil
}

func (r *ImportRepository) FindByID(ctx context.Context, id uint) (domain.ImportHistory, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.ImportHistory{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return importToDomain(found), nil
}

func (r *ImportRepository) List(ctx context.Context) ([]domain.ImportHistory, error) {
	found, err := r.dao.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.List -> %w", err)
	}

	histories := make([]domain.ImportHistory, len(found))
	for i, h := range found {
		histories[i] = importToDomain(h)
	}

	return histories, nil
}

func importToDomain(h dao.ImportHistory) domain.ImportHistory {
	return domain.ImportHistory{
		ID:        h.ID,
		FileName:  h.FileName,
		TotalRows: h.TotalRows,
		Imported:  h.Imported,
		CreatedBy: h.CreatedBy,
		CreatedAt: h.CreatedAt,
	}
}
