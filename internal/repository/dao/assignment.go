package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	lookupKindTags               = "tags"
	lookupKindGatheringPointType = "gathering-point-types"
)

// FreeBeds lists the empty beds of one hall in ascending order.
type FreeBeds struct {
	HallID  uint
	Numbers []int
}

// BusLoad is a bus with its seats taken by pilgrims outside the request.
type BusLoad struct {
	BusID    uint
	Capacity int
	Taken    int
}

type BedPlacement struct {
	PilgrimID uint
	HallID    uint
	Number    int
}

type SeatPlacement struct {
	PilgrimID uint
	BusID     uint
}

// AssignmentDAO applies bulk assignments. Every method runs in one
// transaction and locks the target rows it reads capacity from.
type AssignmentDAO struct {
	db *gorm.DB
}

func NewAssignmentDAO(db *gorm.DB) *AssignmentDAO {
	return &AssignmentDAO{
		db: db,
	}
}

func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (d *AssignmentDAO) AssignHousing(
	ctx context.Context,
	ritualID uint,
	campIDs, pilgrimIDs []uint,
	place func([]FreeBeds) ([]BedPlacement, error),
) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var halls []Hall
		if err := forUpdate(tx).Where("id IN ?", campIDs).Find(&halls).Error; err != nil {
			return err
		}
		if len(halls) != len(campIDs) {
			return ErrUnknownReference
		}
		for _, h := range halls {
			if h.RitualID != ritualID {
				return ErrCampNotInRitual
			}
		}
		if err := requirePilgrims(tx, pilgrimIDs); err != nil {
			return err
		}
		if err := releaseBedsOf(tx, pilgrimIDs); err != nil {
			return err
		}

		var beds []Bed
		err := forUpdate(tx).
			Where("hall_id IN ? AND status = ?", campIDs, "empty").
			Order("hall_id, number").
			Find(&beds).Error
		if err != nil {
			return err
		}

		byHall := make(map[uint][]int, len(campIDs))
		for _, b := range beds {
			byHall[b.HallID] = append(byHall[b.HallID], b.Number)
		}
		free := make([]FreeBeds, 0, len(campIDs))
		for _, id := range campIDs {
			free = append(free, FreeBeds{HallID: id, Numbers: byHall[id]})
		}

		placements, err := place(free)
		if err != nil {
			return err
		}

		for _, p := range placements {
			err := tx.Model(&Bed{}).
				Where("hall_id = ? AND number = ?", p.HallID, p.Number).
				Updates(map[string]any{"status": "full", "name": "", "pilgrim_id": p.PilgrimID}).Error
			if err != nil {
				return err
			}
			err = tx.Model(&Pilgrim{}).
				Where("id = ?", p.PilgrimID).
				Updates(map[string]any{"camp_id": p.HallID, "bed_number": p.Number}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *AssignmentDAO) AssignTransport(
	ctx context.Context,
	gatheringPointTypeID uint,
	busIDs, pilgrimIDs []uint,
	place func([]BusLoad) ([]SeatPlacement, error),
) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireLookups(tx, lookupKindGatheringPointType, []uint{gatheringPointTypeID}); err != nil {
			return err
		}

		var buses []Bus
		if err := forUpdate(tx).Where("id IN ?", busIDs).Find(&buses).Error; err != nil {
			return err
		}
		if len(buses) != len(busIDs) {
			return ErrUnknownReference
		}
		if err := requirePilgrims(tx, pilgrimIDs); err != nil {
			return err
		}

		var taken []struct {
			BusID uint
			Count int
		}
		err := tx.Model(&Pilgrim{}).
			Select("bus_id, count(*) AS count").
			Where("bus_id IN ? AND id NOT IN ?", busIDs, pilgrimIDs).
			Group("bus_id").
			Scan(&taken).Error
		if err != nil {
			return err
		}
		takenByBus := make(map[uint]int, len(taken))
		for _, t := range taken {
			takenByBus[t.BusID] = t.Count
		}

		capacity := make(map[uint]int, len(buses))
		for _, b := range buses {
			capacity[b.ID] = b.Capacity
		}
		loads := make([]BusLoad, 0, len(busIDs))
		for _, id := range busIDs {
			loads = append(loads, BusLoad{BusID: id, Capacity: capacity[id], Taken: takenByBus[id]})
		}

		placements, err := place(loads)
		if err != nil {
			return err
		}

		byBus := make(map[uint][]uint, len(busIDs))
		for _, p := range placements {
			byBus[p.BusID] = append(byBus[p.BusID], p.PilgrimID)
		}
		for _, busID := range busIDs {
			ids := byBus[busID]
			if len(ids) == 0 {
				continue
			}
			err := tx.Model(&Pilgrim{}).
				Where("id IN ?", ids).
				Updates(map[string]any{
					"bus_id":                  busID,
					"gathering_point_type_id": gatheringPointTypeID,
					"gathering_point_id":      nil,
					"destination_id":          nil,
					"gathering_point_time_id": nil,
				}).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// AssignSupervisors replaces the supervisor set of every listed pilgrim.
func (d *AssignmentDAO) AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Employee{}).Where("id IN ?", supervisorIDs).Count(&n).Error; err != nil {
			return err
		}
		if n != int64(len(supervisorIDs)) {
			return ErrUnknownReference
		}
		if err := requirePilgrims(tx, pilgrimIDs); err != nil {
			return err
		}

		return replaceLinks(tx, pilgrimIDs, nil, supervisorIDs)
	})
}

// AssignTags replaces the tag set of every listed pilgrim.
func (d *AssignmentDAO) AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireLookups(tx, lookupKindTags, tagIDs); err != nil {
			return err
		}
		if err := requirePilgrims(tx, pilgrimIDs); err != nil {
			return err
		}

		return replaceLinks(tx, pilgrimIDs, tagIDs, nil)
	})
}

func (d *AssignmentDAO) SetDepartureStatus(ctx context.Context, status int, pilgrimIDs []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePilgrims(tx, pilgrimIDs); err != nil {
			return err
		}

		return tx.Model(&Pilgrim{}).
			Where("id IN ?", pilgrimIDs).
			Update("departure_status", status).Error
	})
}

func requireLookups(tx *gorm.DB, kind string, ids []uint) error {
	n, err := countLookups(tx, kind, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrUnknownReference
	}

	return nil
}
