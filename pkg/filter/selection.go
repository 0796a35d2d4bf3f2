// Package filter holds the pilgrim list filter: the id-only Selection sent
// as query parameters, the Builder that edits it, and the hydrated
// DisplayState used for rendering.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

var (
	ErrUnknownKey   = errors.New("unknown filter key")
	ErrInvalidValue = errors.New("invalid filter value")
)

type Key string

const (
	KeyNationality        Key = "nationality_id"
	KeyCity               Key = "city_id"
	KeyPackage            Key = "package_id"
	KeyTag                Key = "tag_id"
	KeyBookingStatus      Key = "booking_status_id"
	KeyPilgrimType        Key = "pilgrim_type_id"
	KeyMuhrimStatus       Key = "muhrim_status"
	KeyGender             Key = "gender"
	KeyDepartureStatus    Key = "departure_status"
	KeyGatheringPointType Key = "gathering_point_type_id"
	KeyGatheringPoint     Key = "gathering_point_id"
	KeyDestination        Key = "destination_id"
	KeyGatheringPointTime Key = "gathering_point_time_id"
	KeyCamp               Key = "camp_id"
	KeyBus                Key = "bus_id"
	KeyHealthStatus       Key = "health_status_id"
	KeySupervisor         Key = "supervisor_id"
	KeySource             Key = "source"
	KeyImportHistory      Key = "import_history_id"
)

// Keys lists every filter key in query-parameter order.
var Keys = []Key{
	KeyNationality, KeyCity, KeyPackage, KeyTag, KeyBookingStatus, KeyPilgrimType,
	KeyMuhrimStatus, KeyGender, KeyDepartureStatus,
	KeyGatheringPointType, KeyGatheringPoint, KeyDestination, KeyGatheringPointTime,
	KeyCamp, KeyBus, KeyHealthStatus, KeySupervisor, KeySource, KeyImportHistory,
}

// dependents are cleared whenever their parent key changes.
var dependents = map[Key][]Key{
	KeyGatheringPointType: {KeyGatheringPoint, KeyDestination, KeyGatheringPointTime},
}

// binaryKeys only accept 0 or 1.
var binaryKeys = map[Key]bool{
	KeyMuhrimStatus:    true,
	KeyGender:          true,
	KeyDepartureStatus: true,
}

// Selection carries ids only. A nil field means "no filter".
type Selection struct {
	NationalityID        *uint  `json:"nationality_id,omitempty"`
	CityID               *uint  `json:"city_id,omitempty"`
	PackageID            *uint  `json:"package_id,omitempty"`
	TagID                *uint  `json:"tag_id,omitempty"`
	BookingStatusID      *uint  `json:"booking_status_id,omitempty"`
	PilgrimTypeID        *uint  `json:"pilgrim_type_id,omitempty"`
	MuhrimStatus         *uint  `json:"muhrim_status,omitempty"`
	Gender               *uint  `json:"gender,omitempty"`
	DepartureStatus      *uint  `json:"departure_status,omitempty"`
	GatheringPointTypeID *uint  `json:"gathering_point_type_id,omitempty"`
	GatheringPointID     *uint  `json:"gathering_point_id,omitempty"`
	DestinationID        *uint  `json:"destination_id,omitempty"`
	GatheringPointTimeID *uint  `json:"gathering_point_time_id,omitempty"`
	CampID               *uint  `json:"camp_id,omitempty"`
	BusID                *uint  `json:"bus_id,omitempty"`
	HealthStatusID       *uint  `json:"health_status_id,omitempty"`
	SupervisorID         *uint  `json:"supervisor_id,omitempty"`
	Source               string `json:"source,omitempty"`
	ImportHistoryID      *uint  `json:"import_history_id,omitempty"`
}

func (s *Selection) ref(key Key) (**uint, bool) {
	switch key {
	case KeyNationality:
		return &s.NationalityID, true
	case KeyCity:
		return &s.CityID, true
	case KeyPackage:
		return &s.PackageID, true
	case KeyTag:
		return &s.TagID, true
	case KeyBookingStatus:
		return &s.BookingStatusID, true
	case KeyPilgrimType:
		return &s.PilgrimTypeID, true
	case KeyMuhrimStatus:
		return &s.MuhrimStatus, true
	case KeyGender:
		return &s.Gender, true
	case KeyDepartureStatus:
		return &s.DepartureStatus, true
	case KeyGatheringPointType:
		return &s.GatheringPointTypeID, true
	case KeyGatheringPoint:
		return &s.GatheringPointID, true
	case KeyDestination:
		return &s.DestinationID, true
	case KeyGatheringPointTime:
		return &s.GatheringPointTimeID, true
	case KeyCamp:
		return &s.CampID, true
	case KeyBus:
		return &s.BusID, true
	case KeyHealthStatus:
		return &s.HealthStatusID, true
	case KeySupervisor:
		return &s.SupervisorID, true
	case KeyImportHistory:
		return &s.ImportHistoryID, true
	}

	return nil, false
}

// Get returns the raw value for key and whether it is set.
func (s Selection) Get(key Key) (string, bool) {
	if key == KeySource {
		return s.Source, s.Source != ""
	}
	p, ok := s.ref(key)
	if !ok || *p == nil {
		return "", false
	}

	return strconv.FormatUint(uint64(**p), 10), true
}

// ID returns the numeric value for key, if set.
func (s Selection) ID(key Key) (uint, bool) {
	p, ok := s.ref(key)
	if !ok || *p == nil {
		return 0, false
	}

	return **p, true
}

// set stores a parsed value without applying cascading resets. An empty
// value clears the field.
func (s *Selection) set(key Key, value string) error {
	if key == KeySource {
		if value != "" && value != "manual" && value != "import" {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		s.Source = value
		return nil
	}

	p, ok := s.ref(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if value == "" {
		*p = nil
		return nil
	}

	n, err := strconv.ParseUint(value, 10, 0)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
	}
	if binaryKeys[key] && n > 1 {
		return fmt.Errorf("%w: %s must be 0 or 1", ErrInvalidValue, key)
	}
	if !binaryKeys[key] && n == 0 {
		return fmt.Errorf("%w: %s must be a positive id", ErrInvalidValue, key)
	}
	v := uint(n)
	*p = &v

	return nil
}

func (s Selection) Clone() Selection {
	out := Selection{Source: s.Source}
	for _, k := range Keys {
		if k == KeySource {
			continue
		}
		src, _ := s.ref(k)
		if *src == nil {
			continue
		}
		dst, _ := out.ref(k)
		v := **src
		*dst = &v
	}

	return out
}

func (s Selection) IsZero() bool {
	for _, k := range Keys {
		if _, ok := s.Get(k); ok {
			return false
		}
	}

	return true
}

// Values encodes the selection as list-query parameters.
func (s Selection) Values() url.Values {
	v := url.Values{}
	for _, k := range Keys {
		if raw, ok := s.Get(k); ok {
			v.Set(string(k), raw)
		}
	}

	return v
}

// ParseValues decodes list-query parameters, ignoring unrelated keys.
func ParseValues(v url.Values) (Selection, error) {
	var s Selection
	for _, k := range Keys {
		raw := v.Get(string(k))
		if raw == "" {
			continue
		}
		if err := s.set(k, raw); err != nil {
			return Selection{}, err
		}
	}

	return s, nil
}
