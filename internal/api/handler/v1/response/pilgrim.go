package response

import (
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

type PilgrimListResponse struct {
	domain.PilgrimPage
	Filter filter.DisplayState `json:"filter"`
}

type PhotoURLResponse struct {
	URL string `json:"url"`
}

type BulkResponse struct {
	Message  string `json:"message"`
	Pilgrims int    `json:"pilgrims"`
}

type BedsResponse struct {
	HallID uint         `json:"hall_id"`
	Beds   []domain.Bed `json:"beds"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
