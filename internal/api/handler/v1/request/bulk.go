package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var errNoPilgrims = errors.New("at least one pilgrim must be selected")

type pilgrimSet struct {
	PilgrimIDs []uint `json:"pilgrim_ids"`
}

func (s *pilgrimSet) validate() error {
	if len(s.PilgrimIDs) == 0 {
		return errNoPilgrims
	}

	return nil
}

type HousingRequest struct {
	pilgrimSet
	RitualID uint   `json:"ritual_id"`
	CampIDs  []uint `json:"camp_ids"`
}

func (req *HousingRequest) Validate() error {
	if err := req.validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.RitualID, validation.Required),
		validation.Field(&req.CampIDs, validation.Required),
	)
}

type TransportRequest struct {
	pilgrimSet
	GatheringPointTypeID uint   `json:"gathering_point_type_id"`
	BusIDs               []uint `json:"bus_ids"`
}

func (req *TransportRequest) Validate() error {
	if err := req.validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.GatheringPointTypeID, validation.Required),
		validation.Field(&req.BusIDs, validation.Required),
	)
}

type SupervisorsRequest struct {
	pilgrimSet
	SupervisorIDs []uint `json:"supervisor_ids"`
}

func (req *SupervisorsRequest) Validate() error {
	if err := req.validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.SupervisorIDs, validation.Required),
	)
}

type TagsRequest struct {
	pilgrimSet
	TagIDs []uint `json:"tag_ids"`
}

func (req *TagsRequest) Validate() error {
	if err := req.validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.TagIDs, validation.Required),
	)
}

// DepartureStatusRequest uses true for late arrival and false for early.
type DepartureStatusRequest struct {
	pilgrimSet
	DepartureStatus *bool `json:"departure_status"`
}

func (req *DepartureStatusRequest) Validate() error {
	if err := req.validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.DepartureStatus, validation.NotNil),
	)
}
