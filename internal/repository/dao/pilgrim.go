package dao

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

const nationalIDConstraint = "uni_pilgrims_national_id"

type PilgrimQuery struct {
	Filter filter.Selection
	Search string
	Offset int
	Limit  int
}

type PilgrimDAO struct {
	db *gorm.DB
}

func NewPilgrimDAO(db *gorm.DB) *PilgrimDAO {
	return &PilgrimDAO{
		db: db,
	}
}

func (d *PilgrimDAO) Insert(ctx context.Context, pilgrim Pilgrim) (Pilgrim, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pilgrim).Error; err != nil {
			return err
		}

		return replaceLinks(tx, []uint{pilgrim.ID}, pilgrim.TagIDs, pilgrim.SupervisorIDs)
	})
	if err != nil {
		if isUniqueViolation(err, nationalIDConstraint) {
			return Pilgrim{}, ErrNationalIDExists
		}

		return Pilgrim{}, err
	}

	return pilgrim, nil
}

// Update replaces every editable column. Placement columns (bus, camp, bed)
// are owned by the assignment flows and left untouched.
func (d *PilgrimDAO) Update(ctx context.Context, pilgrim Pilgrim) (Pilgrim, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Pilgrim{ID: pilgrim.ID}).
			Select(
				"name_ar", "name_en", "national_id", "nationality_id", "city_id", "package_id",
				"gender", "birth_date", "birth_date_hijri", "age", "mobile", "mobile2", "photo_key",
				"reservation_id", "pilgrim_type_id", "booking_status_id", "health_status_id",
				"muhrim_status", "departure_status", "notes", "updated_at",
			).
			Updates(&pilgrim)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPilgrimNotFound
		}

		return replaceLinks(tx, []uint{pilgrim.ID}, pilgrim.TagIDs, pilgrim.SupervisorIDs)
	})
	if err != nil {
		if isUniqueViolation(err, nationalIDConstraint) {
			return Pilgrim{}, ErrNationalIDExists
		}

		return Pilgrim{}, err
	}

	return d.FindByID(ctx, pilgrim.ID)
}

// Delete removes the pilgrim and frees any bed it occupied.
func (d *PilgrimDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := releaseBedsOf(tx, []uint{id}); err != nil {
			return err
		}
		if err := tx.Where("pilgrim_id = ?", id).Delete(&PilgrimTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pilgrim_id = ?", id).Delete(&PilgrimSupervisor{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Pilgrim{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPilgrimNotFound
		}

		return nil
	})
}

func (d *PilgrimDAO) FindByID(ctx context.Context, id uint) (Pilgrim, error) {
	var pilgrim Pilgrim

	db := d.db.WithContext(ctx)
	result := db.First(&pilgrim, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Pilgrim{}, ErrPilgrimNotFound
		}

		return Pilgrim{}, result.Error
	}

	pilgrims := []Pilgrim{pilgrim}
	if err := loadLinks(db, pilgrims); err != nil {
		return Pilgrim{}, err
	}

	return pilgrims[0], nil
}

func (d *PilgrimDAO) FindByIDs(ctx context.Context, ids []uint) ([]Pilgrim, error) {
	var pilgrims []Pilgrim
	if len(ids) == 0 {
		return pilgrims, nil
	}

	db := d.db.WithContext(ctx)
	if err := db.Where("id IN ?", ids).Order("id").Find(&pilgrims).Error; err != nil {
		return nil, err
	}
	if err := loadLinks(db, pilgrims); err != nil {
		return nil, err
	}

	return pilgrims, nil
}

func (d *PilgrimDAO) List(ctx context.Context, query PilgrimQuery) ([]Pilgrim, int64, error) {
	db := d.db.WithContext(ctx)
	base := db.Model(&Pilgrim{}).Scopes(selectionScope(query.Filter), searchScope(query.Search))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pilgrims []Pilgrim
	if total == 0 {
		return pilgrims, 0, nil
	}

	err := db.Scopes(selectionScope(query.Filter), searchScope(query.Search)).
		Order("id DESC").
		Offset(query.Offset).
		Limit(query.Limit).
		Find(&pilgrims).Error
	if err != nil {
		return nil, 0, err
	}
	if err := loadLinks(db, pilgrims); err != nil {
		return nil, 0, err
	}

	return pilgrims, total, nil
}

func (d *PilgrimDAO) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	return countPilgrims(d.db.WithContext(ctx), ids)
}

func countPilgrims(tx *gorm.DB, ids []uint) (int64, error) {
	var n int64
	err := tx.Model(&Pilgrim{}).Where("id IN ?", ids).Count(&n).Error

	return n, err
}

func requirePilgrims(tx *gorm.DB, ids []uint) error {
	n, err := countPilgrims(tx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrPilgrimNotFound
	}

	return nil
}

func loadLinks(db *gorm.DB, pilgrims []Pilgrim) error {
	if len(pilgrims) == 0 {
		return nil
	}

	ids := make([]uint, len(pilgrims))
	index := make(map[uint]int, len(pilgrims))
	for i, p := range pilgrims {
		ids[i] = p.ID
		index[p.ID] = i
	}

	var tags []PilgrimTag
	if err := db.Where("pilgrim_id IN ?", ids).Order("lookup_id").Find(&tags).Error; err != nil {
		return err
	}
	for _, t := range tags {
		p := &pilgrims[index[t.PilgrimID]]
		p.TagIDs = append(p.TagIDs, t.LookupID)
	}

	var supervisors []PilgrimSupervisor
	if err := db.Where("pilgrim_id IN ?", ids).Order("employee_id").Find(&supervisors).Error; err != nil {
		return err
	}
	for _, s := range supervisors {
		p := &pilgrims[index[s.PilgrimID]]
		p.SupervisorIDs = append(p.SupervisorIDs, s.EmployeeID)
	}

	return nil
}

// replaceLinks overwrites the tag and supervisor sets of every pilgrim in
// pilgrimIDs. A nil slice leaves that set untouched.
func replaceLinks(tx *gorm.DB, pilgrimIDs, tagIDs, supervisorIDs []uint) error {
	if tagIDs != nil {
		if err := tx.Where("pilgrim_id IN ?", pilgrimIDs).Delete(&PilgrimTag{}).Error; err != nil {
			return err
		}
		rows := make([]PilgrimTag, 0, len(pilgrimIDs)*len(tagIDs))
		for _, p := range pilgrimIDs {
			for _, t := range tagIDs {
				rows = append(rows, PilgrimTag{PilgrimID: p, LookupID: t})
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if supervisorIDs != nil {
		if err := tx.Where("pilgrim_id IN ?", pilgrimIDs).Delete(&PilgrimSupervisor{}).Error; err != nil {
			return err
		}
		rows := make([]PilgrimSupervisor, 0, len(pilgrimIDs)*len(supervisorIDs))
		for _, p := range pilgrimIDs {
			for _, s := range supervisorIDs {
				rows = append(rows, PilgrimSupervisor{PilgrimID: p, EmployeeID: s})
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func releaseBedsOf(tx *gorm.DB, pilgrimIDs []uint) error {
	return tx.Model(&Bed{}).
		Where("pilgrim_id IN ?", pilgrimIDs).
		Updates(map[string]any{"status": "empty", "name": "", "pilgrim_id": nil}).Error
}

// selectionScope turns a filter selection into WHERE clauses. Most keys are
// named after their column.
func selectionScope(sel filter.Selection) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, key := range filter.Keys {
			switch key {
			case filter.KeySource:
				if sel.Source != "" {
					db = db.Where("source = ?", sel.Source)
				}
			case filter.KeyTag:
				if id, ok := sel.ID(key); ok {
					db = db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
						Model(&PilgrimTag{}).Select("pilgrim_id").Where("lookup_id = ?", id))
				}
			case filter.KeySupervisor:
				if id, ok := sel.ID(key); ok {
					db = db.Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).
						Model(&PilgrimSupervisor{}).Select("pilgrim_id").Where("employee_id = ?", id))
				}
			default:
				if id, ok := sel.ID(key); ok {
					db = db.Where(string(key)+" = ?", id)
				}
			}
		}

		return db
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func searchScope(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(search) + "%"

		return db.Where(
			"name_ar ILIKE @q OR name_en ILIKE @q OR mobile ILIKE @q OR mobile2 ILIKE @q OR reservation_id ILIKE @q OR national_id ILIKE @q",
			map[string]any{"q": pattern},
		)
	}
}
