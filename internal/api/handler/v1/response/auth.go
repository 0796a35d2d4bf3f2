package response

import (
	"time"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type LoginResponse struct {
	AccessToken      string       `json:"access_token"`
	AccessExpiresAt  time.Time    `json:"access_expires_at"`
	RefreshToken     string       `json:"refresh_token"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	Admin            domain.Admin `json:"admin"`
}
