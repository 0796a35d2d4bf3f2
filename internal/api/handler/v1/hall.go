package v1

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

type HallService interface {
	CreateHall(ctx context.Context, name domain.LocalizedName, ritualID uint, capacity int) (domain.Hall, error)
	GetHall(ctx context.Context, hallID uint) (domain.Hall, error)
	ListHalls(ctx context.Context) ([]service.HallSummary, error)
	SetBedStatus(ctx context.Context, hallID uint, number int, status domain.BedStatus, name string) (domain.Hall, error)
	ReleaseBed(ctx context.Context, hallID uint, number int) (domain.Hall, error)
	SearchBeds(ctx context.Context, hallID uint, query string) (iter.Seq[domain.Bed], error)
	DeleteHall(ctx context.Context, hallID uint) error
}

type HallHandler struct {
	svc HallService
}

func NewHallHandler(svc HallService) *HallHandler {
	return &HallHandler{
		svc: svc,
	}
}

// HandleListHalls godoc
// @Summary      List halls with occupancy statistics
// @Tags         accommodation
// @Produce      json
// @Success      200  {array}   service.HallSummary
// @Failure      500  {object}  response.Err
// @Router       /accommodation/halls [get]
// @Security     BearerAuth
func (h *HallHandler) HandleListHalls(ctx *gin.Context) {
	halls, err := h.svc.ListHalls(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListHalls -> h.svc.ListHalls", err)
		return
	}

	ctx.JSON(http.StatusOK, halls)
}

// HandleCreateHall godoc
// @Summary      Create a hall with empty beds numbered from 1
// @Tags         accommodation
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateHallRequest  true  "request body"
// @Success      201      {object}  service.HallSummary
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /accommodation/halls [post]
// @Security     BearerAuth
func (h *HallHandler) HandleCreateHall(ctx *gin.Context) {
	var req request.CreateHallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	hall, err := h.svc.CreateHall(ctx.Request.Context(), req.Name.ToDomain(), req.RitualID, req.Capacity)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateHall -> h.svc.CreateHall", err)
		return
	}

	ctx.JSON(http.StatusCreated, withStats(hall))
}

// HandleGetHall godoc
// @Summary      Get a hall with every bed
// @Tags         accommodation
// @Produce      json
// @Param        hallID  path      int  true  "Hall ID"
// @Success      200     {object}  service.HallSummary
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /accommodation/halls/{hallID} [get]
// @Security     BearerAuth
func (h *HallHandler) HandleGetHall(ctx *gin.Context) {
	hallID, respErr := parseIDParam(ctx, "hallID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	hall, err := h.svc.GetHall(ctx.Request.Context(), hallID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetHall -> h.svc.GetHall", err)
		return
	}

	ctx.JSON(http.StatusOK, withStats(hall))
}

// HandleDeleteHall godoc
// @Summary      Delete a hall and unhouse its pilgrims
// @Tags         accommodation
// @Param        hallID  path  int  true  "Hall ID"
// @Success      204
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /accommodation/halls/{hallID} [delete]
// @Security     BearerAuth
func (h *HallHandler) HandleDeleteHall(ctx *gin.Context) {
	hallID, respErr := parseIDParam(ctx, "hallID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteHall(ctx.Request.Context(), hallID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteHall -> h.svc.DeleteHall", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSetBedStatus godoc
// @Summary      Change the status of one bed
// @Description  "named" requires a name; every other status must not carry one.
// @Tags         accommodation
// @Accept       json
// @Produce      json
// @Param        hallID   path      int                          true  "Hall ID"
// @Param        number   path      int                          true  "Bed number"
// @Param        request  body      request.SetBedStatusRequest  true  "request body"
// @Success      200      {object}  service.HallSummary
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /accommodation/halls/{hallID}/beds/{number} [put]
// @Security     BearerAuth
func (h *HallHandler) HandleSetBedStatus(ctx *gin.Context) {
	hallID, number, respErr := bedParams(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SetBedStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	status, err := domain.ParseBedStatus(req.Status)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	hall, err := h.svc.SetBedStatus(ctx.Request.Context(), hallID, number, status, req.Name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSetBedStatus -> h.svc.SetBedStatus", err)
		return
	}

	ctx.JSON(http.StatusOK, withStats(hall))
}

// HandleReleaseBed godoc
// @Summary      Release one bed
// @Tags         accommodation
// @Produce      json
// @Param        hallID  path      int  true  "Hall ID"
// @Param        number  path      int  true  "Bed number"
// @Success      200     {object}  service.HallSummary
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /accommodation/halls/{hallID}/beds/{number} [delete]
// @Security     BearerAuth
func (h *HallHandler) HandleReleaseBed(ctx *gin.Context) {
	hallID, number, respErr := bedParams(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	hall, err := h.svc.ReleaseBed(ctx.Request.Context(), hallID, number)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleReleaseBed -> h.svc.ReleaseBed", err)
		return
	}

	ctx.JSON(http.StatusOK, withStats(hall))
}

// HandleSearchBeds godoc
// @Summary      Search the beds of a hall
// @Description  Matches the bed name and the occupant's names, mobile, reservation and national id.
// @Tags         accommodation
// @Produce      json
// @Param        hallID  path      int     true   "Hall ID"
// @Param        q       query     string  false  "Free text"
// @Success      200     {object}  response.BedsResponse
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /accommodation/halls/{hallID}/beds [get]
// @Security     BearerAuth
func (h *HallHandler) HandleSearchBeds(ctx *gin.Context) {
	hallID, respErr := parseIDParam(ctx, "hallID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	beds, err := h.svc.SearchBeds(ctx.Request.Context(), hallID, ctx.Query("q"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleSearchBeds -> h.svc.SearchBeds", err)
		return
	}

	out := slices.Collect(beds)
	if out == nil {
		out = []domain.Bed{}
	}
	ctx.JSON(http.StatusOK, response.BedsResponse{HallID: hallID, Beds: out})
}

// withStats attaches the occupancy aggregates every single-hall response carries.
func withStats(hall domain.Hall) service.HallSummary {
	return service.HallSummary{Hall: hall, Stats: hall.Stats()}
}

func bedParams(ctx *gin.Context) (uint, int, *response.Err) {
	hallID, respErr := parseIDParam(ctx, "hallID")
	if respErr != nil {
		return 0, 0, respErr
	}
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		return 0, 0, response.ErrBadRequest(fmt.Errorf("invalid bed number %q", ctx.Param("number")))
	}

	return hallID, number, nil
}
