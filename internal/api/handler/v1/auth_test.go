package v1

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

func newAuthRouter(svc AuthService, adminID uint) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/login", h.HandleLogin)
	r.POST("/auth/refresh", h.HandleRefresh)
	if adminID != 0 {
		r.GET("/auth/me", withAdmin(adminID), h.HandleMe)
	} else {
		r.GET("/auth/me", h.HandleMe)
	}

	return r
}

func TestHandleLogin(t *testing.T) {
	svc := new(MockAuthService)
	admin := domain.Admin{ID: 3, Email: "ops@example.com", Name: "Ops"}
	exp := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.On("Login", mock.Anything, "ops@example.com", "s3cretpass").Return(admin, nil)
	svc.On("IssueTokens", uint(3), "dashboard-test").Return(service.TokenPair{
		AccessToken:      "access",
		AccessExpiresAt:  exp,
		RefreshToken:     "refresh",
		RefreshExpiresAt: exp.Add(7 * 24 * time.Hour),
	}, nil)

	w := doJSON(t, newAuthRouter(svc, 0), http.MethodPost, "/auth/login", map[string]string{
		"email":    "ops@example.com",
		"password": "s3cretpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got response.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "access", got.AccessToken)
	assert.Equal(t, "refresh", got.RefreshToken)
	assert.True(t, exp.Equal(got.AccessExpiresAt))
	assert.Equal(t, "ops@example.com", got.Admin.Email)
	svc.AssertExpectations(t)
}

func TestHandleLogin_WrongCredentials(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Login", mock.Anything, "ops@example.com", "wrong-pass1").Return(domain.Admin{}, service.ErrWrongPassword)

	w := doJSON(t, newAuthRouter(svc, 0), http.MethodPost, "/auth/login", map[string]string{
		"email":    "ops@example.com",
		"password": "wrong-pass1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "IssueTokens", mock.Anything, mock.Anything)
}

func TestHandleLogin_InvalidBody(t *testing.T) {
	svc := new(MockAuthService)

	w := doJSON(t, newAuthRouter(svc, 0), http.MethodPost, "/auth/login", map[string]string{
		"email":    "not-an-email",
		"password": "s3cretpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRefresh_InvalidToken(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Refresh", mock.Anything, "expired", "dashboard-test").
		Return(service.TokenPair{}, domain.Admin{}, service.ErrInvalidToken)

	w := doJSON(t, newAuthRouter(svc, 0), http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": "expired"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleMe(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("GetAdmin", mock.Anything, uint(9)).Return(domain.Admin{ID: 9, Email: "a@b.co"}, nil)

	w := doJSON(t, newAuthRouter(svc, 9), http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@b.co"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(t, newAuthRouter(svc, 0), http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
