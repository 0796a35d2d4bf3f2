package dao

import "time"

type Admin struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Lookup stores the simple reference collections. Gathering points,
// destinations and times carry the gathering point type as ParentID.
type Lookup struct {
	ID       uint   `gorm:"primaryKey"`
	Kind     string `gorm:"not null;index:idx_lookups_kind_parent"`
	ParentID *uint  `gorm:"index:idx_lookups_kind_parent"`
	NameAR   string `gorm:"not null"`
	NameEN   string
}

type Employee struct {
	ID     uint   `gorm:"primaryKey"`
	NameAR string `gorm:"not null"`
	NameEN string
	Mobile string
	Role   string `gorm:"not null;default:supervisor"`
}

type Bus struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	PlateNumber string
	Capacity    int `gorm:"not null"`
}

type Package struct {
	ID          uint   `gorm:"primaryKey"`
	NameAR      string `gorm:"not null"`
	NameEN      string
	Description string
	Price       float64 `gorm:"not null"`
	Capacity    int     `gorm:"not null"`
	IsActive    bool    `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Hall struct {
	ID        uint   `gorm:"primaryKey"`
	NameAR    string `gorm:"not null"`
	NameEN    string
	RitualID  uint  `gorm:"not null;index"`
	Capacity  int   `gorm:"not null"`
	Beds      []Bed `gorm:"foreignKey:HallID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Bed struct {
	ID        uint   `gorm:"primaryKey"`
	HallID    uint   `gorm:"not null;uniqueIndex:idx_beds_hall_number"`
	Number    int    `gorm:"not null;uniqueIndex:idx_beds_hall_number"`
	Status    string `gorm:"not null"`
	Name      string
	PilgrimID *uint `gorm:"index"`
}

type ImportHistory struct {
	ID        uint   `gorm:"primaryKey"`
	FileName  string `gorm:"not null"`
	TotalRows int    `gorm:"not null"`
	Imported  int    `gorm:"not null"`
	CreatedBy uint
	CreatedAt time.Time
}

type Pilgrim struct {
	ID              uint   `gorm:"primaryKey"`
	NameAR          string `gorm:"not null"`
	NameEN          string
	NationalID      string `gorm:"size:10;unique;not null"`
	NationalityID   uint   `gorm:"index"`
	CityID          uint   `gorm:"index"`
	PackageID       uint   `gorm:"index"`
	Gender          int    `gorm:"not null"`
	BirthDate       *time.Time
	BirthDateHijri  string
	Age             int    `gorm:"not null"`
	Mobile          string `gorm:"not null"`
	Mobile2         string
	PhotoKey        string
	ReservationID   string `gorm:"index"`
	PilgrimTypeID   *uint
	BookingStatusID *uint
	HealthStatusID  *uint
	MuhrimStatus    int `gorm:"not null"`
	DepartureStatus int `gorm:"not null"`
	Notes           string
	Source          string `gorm:"not null;default:manual"`
	ImportHistoryID *uint  `gorm:"index"`

	TagIDs        []uint `gorm:"-"`
	SupervisorIDs []uint `gorm:"-"`

	BusID                *uint `gorm:"index"`
	CampID               *uint `gorm:"index"`
	BedNumber            *int
	GatheringPointTypeID *uint
	GatheringPointID     *uint
	DestinationID        *uint
	GatheringPointTimeID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PilgrimTag struct {
	PilgrimID uint `gorm:"primaryKey"`
	LookupID  uint `gorm:"primaryKey;index"`
}

type PilgrimSupervisor struct {
	PilgrimID  uint `gorm:"primaryKey"`
	EmployeeID uint `gorm:"primaryKey;index"`
}
