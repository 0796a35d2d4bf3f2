package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/api/middleware"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

var errNoAdminInContext = errors.New("no authenticated admin in context")

// HandleHealthcheck godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.MessageResponse
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.MessageResponse{Message: "ok"})
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %s %q", name, ctx.Param(name)))
	}

	return uint(id), nil
}

func adminIDFromContext(ctx *gin.Context) (uint, *response.Err) {
	v, ok := ctx.Get(middleware.AdminIDKey)
	if !ok {
		return 0, response.ErrUnauthorized(errNoAdminInContext)
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		return 0, response.ErrUnauthorized(errNoAdminInContext)
	}

	return id, nil
}

// renderServiceErr maps the service error markers onto HTTP statuses. op
// names the failing call chain for the server log.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrNationalIDExists),
		errors.Is(err, service.ErrAdminEmailExists),
		errors.Is(err, service.ErrPackageInUse):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}
