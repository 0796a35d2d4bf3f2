package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type PackageService interface {
	ListPackages(ctx context.Context) ([]domain.Package, error)
	CreatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error)
	UpdatePackage(ctx context.Context, pkg domain.Package) (domain.Package, error)
	DeletePackage(ctx context.Context, id uint) error
}

type PackageHandler struct {
	svc PackageService
}

func NewPackageHandler(svc PackageService) *PackageHandler {
	return &PackageHandler{
		svc: svc,
	}
}

// HandleListPackages godoc
// @Summary      List packages
// @Tags         settings
// @Produce      json
// @Success      200  {array}   domain.Package
// @Failure      500  {object}  response.Err
// @Router       /dashboard/settings/packages [get]
// @Security     BearerAuth
func (h *PackageHandler) HandleListPackages(ctx *gin.Context) {
	packages, err := h.svc.ListPackages(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPackages -> h.svc.ListPackages", err)
		return
	}

	ctx.JSON(http.StatusOK, packages)
}

// HandleCreatePackage godoc
// @Summary      Create a package
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      request.PackageRequest  true  "request body"
// @Success      201      {object}  domain.Package
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /dashboard/settings/packages [post]
// @Security     BearerAuth
func (h *PackageHandler) HandleCreatePackage(ctx *gin.Context) {
	var req request.PackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	pkg, err := h.svc.CreatePackage(ctx.Request.Context(), req.ToDomain(0))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreatePackage -> h.svc.CreatePackage", err)
		return
	}

	ctx.JSON(http.StatusCreated, pkg)
}

// HandleUpdatePackage godoc
// @Summary      Update a package
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Package ID"
// @Param        request  body      request.PackageRequest  true  "request body"
// @Success      200      {object}  domain.Package
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /dashboard/settings/packages/{id} [put]
// @Security     BearerAuth
func (h *PackageHandler) HandleUpdatePackage(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.PackageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	pkg, err := h.svc.UpdatePackage(ctx.Request.Context(), req.ToDomain(id))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdatePackage -> h.svc.UpdatePackage", err)
		return
	}

	ctx.JSON(http.StatusOK, pkg)
}

// HandleDeletePackage godoc
// @Summary      Delete a package that no pilgrim references
// @Tags         settings
// @Param        id  path  int  true  "Package ID"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /dashboard/settings/packages/{id} [delete]
// @Security     BearerAuth
func (h *PackageHandler) HandleDeletePackage(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeletePackage(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePackage -> h.svc.DeletePackage", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
