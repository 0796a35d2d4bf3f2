package domain

import "time"

type LocalizedName struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

// String prefers the Arabic name.
func (n LocalizedName) String() string {
	if n.AR != "" {
		return n.AR
	}

	return n.EN
}

type Gender int

const (
	GenderFemale Gender = 0
	GenderMale   Gender = 1
)

type DepartureStatus int

const (
	DepartureEarly DepartureStatus = 0
	DepartureLate  DepartureStatus = 1
)

type PilgrimSource string

const (
	SourceManual PilgrimSource = "manual"
	SourceImport PilgrimSource = "import"
)

type Pilgrim struct {
	ID              uint            `json:"id"`
	Name            LocalizedName   `json:"name"`
	NationalID      string          `json:"national_id"`
	NationalityID   uint            `json:"nationality_id"`
	CityID          uint            `json:"city_id"`
	PackageID       uint            `json:"package_id"`
	Gender          Gender          `json:"gender"`
	BirthDate       *time.Time      `json:"birth_date,omitempty"`
	BirthDateHijri  string          `json:"birth_date_hijri,omitempty"`
	Age             int             `json:"age"`
	Mobile          string          `json:"mobile"`
	Mobile2         string          `json:"mobile2,omitempty"`
	PhotoKey        string          `json:"photo_key,omitempty"`
	ReservationID   string          `json:"reservation_id,omitempty"`
	PilgrimTypeID   *uint           `json:"pilgrim_type_id,omitempty"`
	BookingStatusID *uint           `json:"booking_status_id,omitempty"`
	HealthStatusID  *uint           `json:"health_status_id,omitempty"`
	MuhrimStatus    int             `json:"muhrim_status"`
	DepartureStatus DepartureStatus `json:"departure_status"`
	Notes           string          `json:"notes,omitempty"`
	Source          PilgrimSource   `json:"source"`
	ImportHistoryID *uint           `json:"import_history_id,omitempty"`

	TagIDs        []uint `json:"tag_ids"`
	SupervisorIDs []uint `json:"supervisor_ids"`

	BusID                *uint `json:"bus_id,omitempty"`
	CampID               *uint `json:"camp_id,omitempty"`
	BedNumber            *int  `json:"bed_number,omitempty"`
	GatheringPointTypeID *uint `json:"gathering_point_type_id,omitempty"`
	GatheringPointID     *uint `json:"gathering_point_id,omitempty"`
	DestinationID        *uint `json:"destination_id,omitempty"`
	GatheringPointTimeID *uint `json:"gathering_point_time_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the invariants every stored pilgrim must satisfy.
func (p Pilgrim) Validate() error {
	if err := ValidateNationalID(p.NationalID); err != nil {
		return err
	}
	if p.Mobile == "" {
		return ErrMobileRequired
	}
	if p.Mobile2 != "" {
		if err := ValidateSaudiMobile(p.Mobile2); err != nil {
			return err
		}
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return ErrInvalidAge
	}
	if p.Gender != GenderFemale && p.Gender != GenderMale {
		return ErrInvalidGender
	}

	return nil
}

type PilgrimPage struct {
	Items []Pilgrim `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

type ImportHistory struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	TotalRows int       `json:"total_rows"`
	Imported  int       `json:"imported"`
	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
