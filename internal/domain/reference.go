package domain

import "time"

// LookupKind names a reference collection used to populate dropdowns.
type LookupKind string

const (
	LookupNationality        LookupKind = "nationalities"
	LookupCity               LookupKind = "cities"
	LookupTag                LookupKind = "tags"
	LookupBookingStatus      LookupKind = "booking-statuses"
	LookupPilgrimType        LookupKind = "pilgrim-types"
	LookupHealthStatus       LookupKind = "health-statuses"
	LookupRitual             LookupKind = "rituals"
	LookupGatheringPointType LookupKind = "gathering-point-types"
	LookupGatheringPoint     LookupKind = "gathering-points"
	LookupDestination        LookupKind = "destinations"
	LookupGatheringPointTime LookupKind = "gathering-point-times"
)

var lookupKinds = map[LookupKind]bool{
	LookupNationality:        true,
	LookupCity:               true,
	LookupTag:                true,
	LookupBookingStatus:      true,
	LookupPilgrimType:        true,
	LookupHealthStatus:       true,
	LookupRitual:             true,
	LookupGatheringPointType: true,
	LookupGatheringPoint:     true,
	LookupDestination:        true,
	LookupGatheringPointTime: true,
}

func (k LookupKind) Valid() bool {
	return lookupKinds[k]
}

// Scoped reports whether items of this kind belong to a gathering point type.
func (k LookupKind) Scoped() bool {
	return k == LookupGatheringPoint || k == LookupDestination || k == LookupGatheringPointTime
}

type LookupItem struct {
	ID       uint          `json:"id"`
	Kind     LookupKind    `json:"kind"`
	Name     LocalizedName `json:"name"`
	ParentID *uint         `json:"parent_id,omitempty"`
}

type Bus struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	Capacity    int    `json:"capacity"`
}

type Employee struct {
	ID     uint          `json:"id"`
	Name   LocalizedName `json:"name"`
	Mobile string        `json:"mobile"`
	Role   string        `json:"role"`
}

type Package struct {
	ID          uint          `json:"id"`
	Name        LocalizedName `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Capacity    int           `json:"capacity"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Admin struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
