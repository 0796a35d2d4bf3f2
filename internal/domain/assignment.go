package domain

import (
	"errors"
	"fmt"
)

var ErrInsufficientCapacity = errors.New("not enough free capacity in the selected targets")

type AssignmentDimension string

const (
	DimensionHousing     AssignmentDimension = "housing"
	DimensionTransport   AssignmentDimension = "transport"
	DimensionSupervisors AssignmentDimension = "supervisors"
	DimensionTags        AssignmentDimension = "tags"
	DimensionDeparture   AssignmentDimension = "departure"
)

type HousingTarget struct {
	RitualID uint
	CampIDs  []uint
}

type TransportTarget struct {
	GatheringPointTypeID uint
	BusIDs               []uint
}

// SlotSet describes the free slots of one assignment target. For halls the
// slots are bed numbers; for buses they are seat ordinals.
type SlotSet struct {
	TargetID uint
	Free     []int
}

type Placement struct {
	PilgrimID uint
	TargetID  uint
	Slot      int
}

// PlacementPolicy decides which target slot each pilgrim receives.
type PlacementPolicy interface {
	Place(pilgrimIDs []uint, targets []SlotSet) ([]Placement, error)
}

// FirstFitPolicy fills targets in the order given, lowest slot first.
type FirstFitPolicy struct{}

func (FirstFitPolicy) Place(pilgrimIDs []uint, targets []SlotSet) ([]Placement, error) {
	total := 0
	for _, t := range targets {
		total += len(t.Free)
	}
	if total < len(pilgrimIDs) {
		return nil, fmt.Errorf("%w: %d requested, %d free", ErrInsufficientCapacity, len(pilgrimIDs), total)
	}

	placements := make([]Placement, 0, len(pilgrimIDs))
	next := 0
	for _, t := range targets {
		for _, slot := range t.Free {
			if next == len(pilgrimIDs) {
				return placements, nil
			}
			placements = append(placements, Placement{PilgrimID: pilgrimIDs[next], TargetID: t.TargetID, Slot: slot})
			next++
		}
	}

	return placements, nil
}

// NormalizeIDs drops duplicates while keeping the first occurrence order.
// A nil input stays nil and an empty one stays empty, since callers read nil
// as "not supplied".
func NormalizeIDs(ids []uint) []uint {
	if ids == nil {
		return nil
	}
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// SeatOrdinals returns the ordinals of the seats still free on a vehicle.
func SeatOrdinals(capacity, taken int) []int {
	free := capacity - taken
	if free <= 0 {
		return nil
	}
	seats := make([]int, free)
	for i := range seats {
		seats[i] = taken + i + 1
	}

	return seats
}
