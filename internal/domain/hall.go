package domain

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidBedNumber        = errors.New("invalid bed number")
	ErrInvalidStatusTransition = errors.New("invalid bed status transition")
	ErrInvalidCapacity         = errors.New("capacity must not be negative")
)

// BedStatus is the occupancy state of one bed slot. The zero value is BedEmpty.
type BedStatus uint8

const (
	BedEmpty BedStatus = iota
	BedFull
	BedReserved
	BedSameReservation
	BedSameGroup
	BedBreakBetween
	BedBreakReservation
	BedNamed
)

var bedStatusNames = [...]string{
	BedEmpty:            "empty",
	BedFull:             "full",
	BedReserved:         "reserved",
	BedSameReservation:  "same-reservation",
	BedSameGroup:        "same-group",
	BedBreakBetween:     "break-between",
	BedBreakReservation: "break-reservation",
	BedNamed:            "named",
}

func ParseBedStatus(v string) (BedStatus, error) {
	for i, name := range bedStatusNames {
		if name == v {
			return BedStatus(i), nil
		}
	}

	return BedEmpty, fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, v)
}

func (s BedStatus) Valid() bool {
	return int(s) < len(bedStatusNames)
}

func (s BedStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("BedStatus(%d)", uint8(s))
	}

	return bedStatusNames[s]
}

func (s BedStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatusTransition, uint8(s))
	}

	return []byte(bedStatusNames[s]), nil
}

func (s *BedStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseBedStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed

	return nil
}

// BedKind groups statuses by how they count toward hall aggregates.
type BedKind int

const (
	BedKindFree BedKind = iota
	BedKindHold
	BedKindFull
)

func (s BedStatus) Kind() BedKind {
	switch s {
	case BedEmpty, BedNamed:
		return BedKindFree
	case BedReserved, BedSameReservation, BedSameGroup, BedBreakBetween, BedBreakReservation:
		return BedKindHold
	case BedFull:
		return BedKindFull
	}

	panic(fmt.Sprintf("domain: unclassified bed status %d", uint8(s)))
}

type Bed struct {
	Number    int       `json:"number"`
	Status    BedStatus `json:"status"`
	Name      string    `json:"name,omitempty"`
	PilgrimID *uint     `json:"pilgrim_id,omitempty"`
}

type Hall struct {
	ID        uint          `json:"id"`
	Name      LocalizedName `json:"name"`
	RitualID  uint          `json:"ritual_id"`
	Capacity  int           `json:"capacity"`
	Beds      []Bed         `json:"beds"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// HallStats are projections of bed state and are never stored.
type HallStats struct {
	Capacity            int `json:"capacity"`
	Reserved            int `json:"reserved"`
	Full                int `json:"full"`
	Available           int `json:"available"`
	OccupancyPercentage int `json:"occupancy_percentage"`
}

// NewBeds returns capacity empty beds numbered from 1.
func NewBeds(capacity int) ([]Bed, error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	beds := make([]Bed, capacity)
	for i := range beds {
		beds[i] = Bed{Number: i + 1, Status: BedEmpty}
	}

	return beds, nil
}

func (h Hall) Stats() HallStats {
	counts := make(map[BedStatus]int, len(bedStatusNames))
	for _, b := range h.Beds {
		counts[b.Status]++
	}

	return StatsOf(h.Capacity, counts)
}

// StatsOf computes hall aggregates from per-status bed counts.
func StatsOf(capacity int, counts map[BedStatus]int) HallStats {
	st := HallStats{Capacity: capacity}
	for status, n := range counts {
		switch status.Kind() {
		case BedKindHold:
			st.Reserved += n
		case BedKindFull:
			st.Full += n
		case BedKindFree:
		}
	}
	st.Available = capacity - st.Reserved - st.Full
	if capacity > 0 {
		pct := math.Round(float64(capacity-st.Available) / float64(capacity) * 100)
		st.OccupancyPercentage = int(min(max(pct, 0), 100))
	}

	return st
}

func (h Hall) bedIndex(number int) (int, error) {
	if number < 1 || number > h.Capacity {
		return -1, fmt.Errorf("%w: %d is outside [1, %d]", ErrInvalidBedNumber, number, h.Capacity)
	}
	for i := range h.Beds {
		if h.Beds[i].Number == number {
			return i, nil
		}
	}

	return -1, fmt.Errorf("%w: bed %d does not exist", ErrInvalidBedNumber, number)
}

func (h Hall) Bed(number int) (Bed, error) {
	i, err := h.bedIndex(number)
	if err != nil {
		return Bed{}, err
	}

	return h.Beds[i], nil
}

// SetBedStatus applies a manual status change. A name is required for
// BedNamed and forbidden otherwise; any occupant link is cleared.
func (h *Hall) SetBedStatus(number int, status BedStatus, name string) (Bed, error) {
	i, err := h.bedIndex(number)
	if err != nil {
		return Bed{}, err
	}
	if !status.Valid() {
		return Bed{}, fmt.Errorf("%w: unknown status %d", ErrInvalidStatusTransition, uint8(status))
	}

	name = strings.TrimSpace(name)
	if status == BedNamed && name == "" {
		return Bed{}, fmt.Errorf("%w: a named bed requires a name", ErrInvalidStatusTransition)
	}
	if status != BedNamed && name != "" {
		return Bed{}, fmt.Errorf("%w: only named beds carry a name", ErrInvalidStatusTransition)
	}

	h.Beds[i] = Bed{Number: number, Status: status, Name: name}

	return h.Beds[i], nil
}

// Occupy places a pilgrim on a bed as part of an assignment.
func (h *Hall) Occupy(number int, pilgrimID uint) error {
	i, err := h.bedIndex(number)
	if err != nil {
		return err
	}
	id := pilgrimID
	h.Beds[i] = Bed{Number: number, Status: BedFull, PilgrimID: &id}

	return nil
}

func (h *Hall) Release(number int) error {
	_, err := h.SetBedStatus(number, BedEmpty, "")
	return err
}

// FreeBeds lists empty bed numbers in ascending order.
func (h Hall) FreeBeds() []int {
	var free []int
	for _, b := range h.Beds {
		if b.Status == BedEmpty {
			free = append(free, b.Number)
		}
	}

	return free
}

// MatchBeds yields the beds whose display name or occupant matches query.
// The sequence can be ranged over any number of times.
func MatchBeds(beds []Bed, occupants map[uint]Pilgrim, query string) iter.Seq[Bed] {
	q := strings.ToLower(strings.TrimSpace(query))

	return func(yield func(Bed) bool) {
		for _, b := range beds {
			if q != "" && !bedMatches(b, occupants, q) {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

func bedMatches(b Bed, occupants map[uint]Pilgrim, q string) bool {
	if b.Name != "" && strings.Contains(strings.ToLower(b.Name), q) {
		return true
	}
	if b.PilgrimID == nil {
		return false
	}
	p, ok := occupants[*b.PilgrimID]
	if !ok {
		return false
	}
	for _, field := range []string{p.Name.AR, p.Name.EN, p.Mobile, p.Mobile2, p.ReservationID, p.NationalID} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}

	return false
}
