package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type LookupRequest struct {
	Name     NameRequest `json:"name"`
	ParentID *uint       `json:"parent_id"`
}

func (req *LookupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name),
	)
}

type BusRequest struct {
	Name        string `json:"name"`
	PlateNumber string `json:"plate_number"`
	Capacity    int    `json:"capacity"`
}

func (req *BusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.PlateNumber, validation.Length(0, 20)),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1), validation.Max(120)),
	)
}

func (req *BusRequest) ToDomain() domain.Bus {
	return domain.Bus{Name: req.Name, PlateNumber: req.PlateNumber, Capacity: req.Capacity}
}

type EmployeeRequest struct {
	Name   NameRequest `json:"name"`
	Mobile string      `json:"mobile"`
	Role   string      `json:"role"`
}

func (req *EmployeeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name),
		validation.Field(&req.Role, validation.In("supervisor", "driver", "coordinator")),
	)
}

func (req *EmployeeRequest) ToDomain() domain.Employee {
	return domain.Employee{Name: req.Name.ToDomain(), Mobile: req.Mobile, Role: req.Role}
}

type PackageRequest struct {
	Name        NameRequest `json:"name"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Capacity    int         `json:"capacity"`
	IsActive    bool        `json:"is_active"`
}

func (req *PackageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Price, validation.Min(0.0)),
		validation.Field(&req.Capacity, validation.Min(0)),
	)
}

func (req *PackageRequest) ToDomain(id uint) domain.Package {
	return domain.Package{
		ID:          id,
		Name:        req.Name.ToDomain(),
		Description: req.Description,
		Price:       req.Price,
		Capacity:    req.Capacity,
		IsActive:    req.IsActive,
	}
}
