package request

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

const maxHallCapacity = 2000

var errLocalizedName = errors.New("name needs an arabic or english value")

type NameRequest struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

func (n NameRequest) Validate() error {
	err := validation.ValidateStruct(
		&n,
		validation.Field(&n.AR, validation.Length(0, 100)),
		validation.Field(&n.EN, validation.Length(0, 100)),
	)
	if err != nil {
		return err
	}
	if strings.TrimSpace(n.AR) == "" && strings.TrimSpace(n.EN) == "" {
		return errLocalizedName
	}

	return nil
}

func (n NameRequest) ToDomain() domain.LocalizedName {
	return domain.LocalizedName{AR: strings.TrimSpace(n.AR), EN: strings.TrimSpace(n.EN)}
}

type CreateHallRequest struct {
	Name     NameRequest `json:"name"`
	RitualID uint        `json:"ritual_id"`
	Capacity int         `json:"capacity"`
}

func (req *CreateHallRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name),
		validation.Field(&req.RitualID, validation.Required),
		validation.Field(&req.Capacity, validation.Min(0), validation.Max(maxHallCapacity)),
	)
}

// SetBedStatusRequest carries the status name, e.g. "reserved" or "named".
type SetBedStatusRequest struct {
	Status string `json:"status"`
	Name   string `json:"name"`
}

func (req *SetBedStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required),
		validation.Field(&req.Name, validation.Length(0, 100)),
	)
}
