package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
)

type AssignmentService interface {
	AssignHousing(ctx context.Context, ritualID uint, campIDs, pilgrimIDs []uint) error
	AssignTransport(ctx context.Context, gatheringPointTypeID uint, busIDs, pilgrimIDs []uint) error
	AssignSupervisors(ctx context.Context, supervisorIDs, pilgrimIDs []uint) error
	AssignTags(ctx context.Context, tagIDs, pilgrimIDs []uint) error
	SetDepartureStatus(ctx context.Context, late bool, pilgrimIDs []uint) error
}

type BulkHandler struct {
	svc AssignmentService
}

func NewBulkHandler(svc AssignmentService) *BulkHandler {
	return &BulkHandler{
		svc: svc,
	}
}

type validatable interface {
	Validate() error
}

func bindBulk(ctx *gin.Context, req validatable) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}

func bulkDone(ctx *gin.Context, message string, pilgrimIDs []uint) {
	ctx.JSON(http.StatusOK, response.BulkResponse{Message: message, Pilgrims: len(domain.NormalizeIDs(pilgrimIDs))})
}

// HandleAssignHousing godoc
// @Summary      Place pilgrims on free beds of the given camps
// @Description  Camps are filled in request order. The whole request fails when the camps lack free beds.
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body      request.HousingRequest  true  "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /pilgrims/bulk/housing/auto-assign [post]
// @Security     BearerAuth
func (h *BulkHandler) HandleAssignHousing(ctx *gin.Context) {
	var req request.HousingRequest
	if !bindBulk(ctx, &req) {
		return
	}

	if err := h.svc.AssignHousing(ctx.Request.Context(), req.RitualID, req.CampIDs, req.PilgrimIDs); err != nil {
		renderServiceErr(ctx, "v1.HandleAssignHousing -> h.svc.AssignHousing", err)
		return
	}

	bulkDone(ctx, "housing assigned", req.PilgrimIDs)
}

// HandleAssignTransport godoc
// @Summary      Distribute pilgrims over the given buses
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body      request.TransportRequest  true  "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /pilgrims/bulk/transport/manual-distribute [post]
// @Security     BearerAuth
func (h *BulkHandler) HandleAssignTransport(ctx *gin.Context) {
	var req request.TransportRequest
	if !bindBulk(ctx, &req) {
		return
	}

	if err := h.svc.AssignTransport(ctx.Request.Context(), req.GatheringPointTypeID, req.BusIDs, req.PilgrimIDs); err != nil {
		renderServiceErr(ctx, "v1.HandleAssignTransport -> h.svc.AssignTransport", err)
		return
	}

	bulkDone(ctx, "transport assigned", req.PilgrimIDs)
}

// HandleAssignSupervisors godoc
// @Summary      Replace the supervisors of the selected pilgrims
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body      request.SupervisorsRequest  true  "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /pilgrims/bulk/supervisors [post]
// @Security     BearerAuth
func (h *BulkHandler) HandleAssignSupervisors(ctx *gin.Context) {
	var req request.SupervisorsRequest
	if !bindBulk(ctx, &req) {
		return
	}

	if err := h.svc.AssignSupervisors(ctx.Request.Context(), req.SupervisorIDs, req.PilgrimIDs); err != nil {
		renderServiceErr(ctx, "v1.HandleAssignSupervisors -> h.svc.AssignSupervisors", err)
		return
	}

	bulkDone(ctx, "supervisors assigned", req.PilgrimIDs)
}

// HandleAssignTags godoc
// @Summary      Replace the tags of the selected pilgrims
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body      request.TagsRequest  true  "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /pilgrims/bulk/tags [post]
// @Security     BearerAuth
func (h *BulkHandler) HandleAssignTags(ctx *gin.Context) {
	var req request.TagsRequest
	if !bindBulk(ctx, &req) {
		return
	}

	if err := h.svc.AssignTags(ctx.Request.Context(), req.TagIDs, req.PilgrimIDs); err != nil {
		renderServiceErr(ctx, "v1.HandleAssignTags -> h.svc.AssignTags", err)
		return
	}

	bulkDone(ctx, "tags assigned", req.PilgrimIDs)
}

// HandleSetDepartureStatus godoc
// @Summary      Mark the selected pilgrims as early or late arrivals
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body      request.DepartureStatusRequest  true  "request body"
// @Success      200      {object}  response.BulkResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /pilgrims/bulk/departure-status [post]
// @Security     BearerAuth
func (h *BulkHandler) HandleSetDepartureStatus(ctx *gin.Context) {
	var req request.DepartureStatusRequest
	if !bindBulk(ctx, &req) {
		return
	}

	if err := h.svc.SetDepartureStatus(ctx.Request.Context(), *req.DepartureStatus, req.PilgrimIDs); err != nil {
		renderServiceErr(ctx, "v1.HandleSetDepartureStatus -> h.svc.SetDepartureStatus", err)
		return
	}

	bulkDone(ctx, "departure status updated", req.PilgrimIDs)
}
