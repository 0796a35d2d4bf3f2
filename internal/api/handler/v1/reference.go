package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type ReferenceService interface {
	ListLookups(ctx context.Context, kind domain.LookupKind, parentID *uint) ([]domain.LookupItem, error)
	CreateLookup(ctx context.Context, item domain.LookupItem) (domain.LookupItem, error)
	ListBuses(ctx context.Context) ([]domain.Bus, error)
	CreateBus(ctx context.Context, bus domain.Bus) (domain.Bus, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, employee domain.Employee) (domain.Employee, error)
}

type ReferenceHandler struct {
	svc ReferenceService
}

func NewReferenceHandler(svc ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{
		svc: svc,
	}
}

// HandleListLookups godoc
// @Summary      List a reference collection
// @Description  parent_id scopes gathering points, destinations and times to a gathering point type.
// @Tags         reference
// @Produce      json
// @Param        kind       path      string  true   "Collection, e.g. nationalities or gathering-points"
// @Param        parent_id  query     int     false  "Gathering point type"
// @Success      200        {array}   domain.LookupItem
// @Failure      400        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /lookups/{kind} [get]
// @Security     BearerAuth
func (h *ReferenceHandler) HandleListLookups(ctx *gin.Context) {
	var parentID *uint
	if raw := ctx.Query("parent_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid parent_id %q", raw)))
			return
		}
		id := uint(n)
		parentID = &id
	}

	items, err := h.svc.ListLookups(ctx.Request.Context(), domain.LookupKind(ctx.Param("kind")), parentID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListLookups -> h.svc.ListLookups", err)
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleCreateLookup godoc
// @Summary      Add an entry to a reference collection
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        kind     path      string                 true  "Collection"
// @Param        request  body      request.LookupRequest  true  "request body"
// @Success      201      {object}  domain.LookupItem
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /lookups/{kind} [post]
// @Security     BearerAuth
func (h *ReferenceHandler) HandleCreateLookup(ctx *gin.Context) {
	var req request.LookupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.CreateLookup(ctx.Request.Context(), domain.LookupItem{
		Kind:     domain.LookupKind(ctx.Param("kind")),
		Name:     req.Name.ToDomain(),
		ParentID: req.ParentID,
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateLookup -> h.svc.CreateLookup", err)
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleListBuses godoc
// @Summary      List buses
// @Tags         reference
// @Produce      json
// @Success      200  {array}   domain.Bus
// @Failure      500  {object}  response.Err
// @Router       /buses [get]
// @Security     BearerAuth
func (h *ReferenceHandler) HandleListBuses(ctx *gin.Context) {
	buses, err := h.svc.ListBuses(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListBuses -> h.svc.ListBuses", err)
		return
	}

	ctx.JSON(http.StatusOK, buses)
}

// HandleCreateBus godoc
// @Summary      Register a bus
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        request  body      request.BusRequest  true  "request body"
// @Success      201      {object}  domain.Bus
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /buses [post]
// @Security     BearerAuth
func (h *ReferenceHandler) HandleCreateBus(ctx *gin.Context) {
	var req request.BusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	bus, err := h.svc.CreateBus(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateBus -> h.svc.CreateBus", err)
		return
	}

	ctx.JSON(http.StatusCreated, bus)
}

// HandleListEmployees godoc
// @Summary      List employees (supervisors)
// @Tags         reference
// @Produce      json
// @Success      200  {array}   domain.Employee
// @Failure      500  {object}  response.Err
// @Router       /employees [get]
// @Security     BearerAuth
func (h *ReferenceHandler) HandleListEmployees(ctx *gin.Context) {
	employees, err := h.svc.ListEmployees(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEmployees -> h.svc.ListEmployees", err)
		return
	}

	ctx.JSON(http.StatusOK, employees)
}

// HandleCreateEmployee godoc
// @Summary      Register an employee
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        request  body      request.EmployeeRequest  true  "request body"
// @Success      201      {object}  domain.Employee
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /employees [post]
// @Security     BearerAuth
func (h *ReferenceHandler) HandleCreateEmployee(ctx *gin.Context) {
	var req request.EmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	employee, err := h.svc.CreateEmployee(ctx.Request.Context(), req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEmployee -> h.svc.CreateEmployee", err)
		return
	}

	ctx.JSON(http.StatusCreated, employee)
}
