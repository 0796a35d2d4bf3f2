package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

const birthDateLayout = "2006-01-02"

var errNameRequired = errors.New("either name_ar or name_en is required")

// PilgrimRequest is the multipart form sent by the create and edit dialogs.
// Reference ids arrive as stringified integers and id lists as JSON arrays.
type PilgrimRequest struct {
	NameAR          string `form:"name_ar"`
	NameEN          string `form:"name_en"`
	NationalID      string `form:"national_id"`
	NationalityID   string `form:"nationality_id"`
	CityID          string `form:"city_id"`
	PackageID       string `form:"package_id"`
	Gender          string `form:"gender"`
	BirthDate       string `form:"birth_date"`
	BirthDateHijri  string `form:"birth_date_hijri"`
	Age             int    `form:"age"`
	Mobile          string `form:"mobile"`
	Mobile2         string `form:"mobile2"`
	ReservationID   string `form:"reservation_id"`
	PilgrimTypeID   string `form:"pilgrim_type_id"`
	BookingStatusID string `form:"booking_status_id"`
	HealthStatusID  string `form:"health_status_id"`
	MuhrimStatus    string `form:"muhrim_status"`
	DepartureStatus string `form:"departure_status"`
	Notes           string `form:"notes"`
	SupervisorIDs   string `form:"supervisor_ids"`
	TagIDs          string `form:"tag_ids"`
}

func (req *PilgrimRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.NameAR, validation.Length(0, 150)),
		validation.Field(&req.NameEN, validation.Length(0, 150)),
		validation.Field(&req.NationalID, validation.Required, validation.Length(10, 10), is.Digit),
		validation.Field(&req.NationalityID, is.Digit),
		validation.Field(&req.CityID, is.Digit),
		validation.Field(&req.PackageID, is.Digit),
		validation.Field(&req.Gender, validation.Required, validation.In("0", "1")),
		validation.Field(&req.BirthDate, validation.Date(birthDateLayout)),
		validation.Field(&req.Age, validation.Min(domain.MinAge), validation.Max(domain.MaxAge)),
		validation.Field(&req.Mobile, validation.Required),
		validation.Field(&req.PilgrimTypeID, is.Digit),
		validation.Field(&req.BookingStatusID, is.Digit),
		validation.Field(&req.HealthStatusID, is.Digit),
		validation.Field(&req.MuhrimStatus, validation.In("0", "1")),
		validation.Field(&req.DepartureStatus, validation.In("0", "1")),
		validation.Field(&req.Notes, validation.Length(0, 2000)),
		validation.Field(&req.SupervisorIDs, validation.By(jsonIDs)),
		validation.Field(&req.TagIDs, validation.By(jsonIDs)),
	)
	if err != nil {
		return err
	}

	if strings.TrimSpace(req.NameAR) == "" && strings.TrimSpace(req.NameEN) == "" {
		return errNameRequired
	}

	return nil
}

// ToDomain assumes Validate has passed.
func (req *PilgrimRequest) ToDomain(id uint) (domain.Pilgrim, error) {
	p := domain.Pilgrim{
		ID:             id,
		Name:           domain.LocalizedName{AR: strings.TrimSpace(req.NameAR), EN: strings.TrimSpace(req.NameEN)},
		NationalID:     req.NationalID,
		NationalityID:  parseID(req.NationalityID),
		CityID:         parseID(req.CityID),
		PackageID:      parseID(req.PackageID),
		Gender:         domain.Gender(parseID(req.Gender)),
		BirthDateHijri: req.BirthDateHijri,
		Age:            req.Age,
		Mobile:         req.Mobile,
		Mobile2:        req.Mobile2,
		ReservationID:  req.ReservationID,
		MuhrimStatus:   int(parseID(req.MuhrimStatus)),
		Notes:          req.Notes,

		PilgrimTypeID:   optionalID(req.PilgrimTypeID),
		BookingStatusID: optionalID(req.BookingStatusID),
		HealthStatusID:  optionalID(req.HealthStatusID),
		DepartureStatus: domain.DepartureStatus(parseID(req.DepartureStatus)),
	}

	if req.BirthDate != "" {
		t, err := time.Parse(birthDateLayout, req.BirthDate)
		if err != nil {
			return domain.Pilgrim{}, fmt.Errorf("birth_date: %w", err)
		}
		p.BirthDate = &t
	}

	var err error
	if p.SupervisorIDs, err = decodeIDs(req.SupervisorIDs); err != nil {
		return domain.Pilgrim{}, fmt.Errorf("supervisor_ids: %w", err)
	}
	if p.TagIDs, err = decodeIDs(req.TagIDs); err != nil {
		return domain.Pilgrim{}, fmt.Errorf("tag_ids: %w", err)
	}

	return p, nil
}

func parseID(v string) uint {
	n, _ := strconv.ParseUint(v, 10, 0)

	return uint(n)
}

func optionalID(v string) *uint {
	if v == "" {
		return nil
	}
	n := parseID(v)
	if n == 0 {
		return nil
	}

	return &n
}

func decodeIDs(v string) ([]uint, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(v), &ids); err != nil {
		return nil, errors.New("must be a JSON array of ids")
	}

	return ids, nil
}

func jsonIDs(value any) error {
	s, _ := value.(string)
	_, err := decodeIDs(s)

	return err
}
