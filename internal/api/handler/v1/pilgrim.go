package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
	"github.com/vietanh2810/pilgrim-api/pkg/filter"
)

const maxPhotoSize = 5 << 20

var errPhotoTooLarge = fmt.Errorf("photo must not exceed %d bytes", maxPhotoSize)

type PilgrimService interface {
	Get(ctx context.Context, id uint) (domain.Pilgrim, error)
	List(ctx context.Context, q service.ListQuery) (domain.PilgrimPage, error)
	Create(ctx context.Context, p domain.Pilgrim, photo *service.Photo) (domain.Pilgrim, error)
	Update(ctx context.Context, p domain.Pilgrim, photo *service.Photo) (domain.Pilgrim, error)
	Delete(ctx context.Context, id uint) error
	PhotoURL(ctx context.Context, id uint) (string, error)
}

type PilgrimHandler struct {
	svc      PilgrimService
	resolver filter.Resolver
}

func NewPilgrimHandler(svc PilgrimService, resolver filter.Resolver) *PilgrimHandler {
	return &PilgrimHandler{
		svc:      svc,
		resolver: resolver,
	}
}

// HandleListPilgrims godoc
// @Summary      List pilgrims
// @Description  Every filter key is an optional query parameter. The response echoes the selection with display labels.
// @Tags         pilgrims
// @Produce      json
// @Param        page                     query     int     false  "Page, starting at 1"
// @Param        limit                    query     int     false  "Page size (max 100)"
// @Param        search                   query     string  false  "Name, mobile, national id or reservation id"
// @Param        nationality_id           query     int     false  "Nationality"
// @Param        gathering_point_type_id  query     int     false  "Gathering point type"
// @Param        camp_id                  query     int     false  "Camp (hall)"
// @Param        bus_id                   query     int     false  "Bus"
// @Param        import_history_id        query     int     false  "Import batch"
// @Success      200  {object}  response.PilgrimListResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/pilgrims [get]
// @Security     BearerAuth
func (h *PilgrimHandler) HandleListPilgrims(ctx *gin.Context) {
	sel, err := filter.ParseValues(ctx.Request.URL.Query())
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	page, err := queryInt(ctx, "page", 1)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	limit, err := queryInt(ctx, "limit", service.DefaultPageLimit)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.List(ctx.Request.Context(), service.ListQuery{
		Filter: sel,
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPilgrims -> h.svc.List", err)
		return
	}

	display, err := filter.Hydrate(ctx.Request.Context(), sel, h.resolver)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListPilgrims -> filter.Hydrate", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PilgrimListResponse{
		PilgrimPage: result,
		Filter:      display,
	})
}

// HandleGetPilgrim godoc
// @Summary      Get a pilgrim
// @Tags         pilgrims
// @Produce      json
// @Param        id   path      int  true  "Pilgrim ID"
// @Success      200  {object}  domain.Pilgrim
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/{id} [get]
// @Security     BearerAuth
func (h *PilgrimHandler) HandleGetPilgrim(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	p, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetPilgrim -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// HandleCreatePilgrim godoc
// @Summary      Create a pilgrim
// @Description  Multipart form. nationality_id, city_id and package_id are stringified integers; supervisor_ids and tag_ids are JSON arrays.
// @Tags         pilgrims
// @Accept       multipart/form-data
// @Produce      json
// @Param        national_id     formData  string  true   "10-digit national id"
// @Param        name_ar         formData  string  false  "Arabic name"
// @Param        name_en         formData  string  false  "English name"
// @Param        mobile          formData  string  true   "Mobile"
// @Param        gender          formData  string  true   "0 female, 1 male"
// @Param        age             formData  int     false  "Age"
// @Param        supervisor_ids  formData  string  false  "JSON array of employee ids"
// @Param        tag_ids         formData  string  false  "JSON array of tag ids"
// @Param        photo           formData  file    false  "Photo"
// @Success      201  {object}  domain.Pilgrim
// @Failure      400  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/pilgrims [post]
// @Security     BearerAuth
func (h *PilgrimHandler) HandleCreatePilgrim(ctx *gin.Context) {
	p, photo, respErr := bindPilgrim(ctx, 0)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), p, photo)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreatePilgrim -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdatePilgrim godoc
// @Summary      Replace the editable fields of a pilgrim
// @Tags         pilgrims
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      int   true   "Pilgrim ID"
// @Param        photo  formData  file  false  "New photo"
// @Success      200  {object}  domain.Pilgrim
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/{id} [put]
// @Security     BearerAuth
func (h *PilgrimHandler) HandleUpdatePilgrim(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	p, photo, respErr := bindPilgrim(ctx, id)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), p, photo)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdatePilgrim -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeletePilgrim godoc
// @Summary      Delete a pilgrim
// @Tags         pilgrims
// @Param        id   path  int  true  "Pilgrim ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/{id} [delete]
// @Security     BearerAuth
func (h *PilgrimHandler) HandleDeletePilgrim(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeletePilgrim -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandlePhotoURL godoc
// @Summary      Time-limited URL of the pilgrim photo
// @Tags         pilgrims
// @Produce      json
// @Param        id   path      int  true  "Pilgrim ID"
// @Success      200  {object}  response.PhotoURLResponse
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/{id}/photo [get]
// @Security     BearerAuth
func (h *PilgrimHandler) HandlePhotoURL(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	url, err := h.svc.PhotoURL(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandlePhotoURL -> h.svc.PhotoURL", err)
		return
	}

	ctx.JSON(http.StatusOK, response.PhotoURLResponse{URL: url})
}

func bindPilgrim(ctx *gin.Context, id uint) (domain.Pilgrim, *service.Photo, *response.Err) {
	var req request.PilgrimRequest
	if err := ctx.ShouldBind(&req); err != nil {
		return domain.Pilgrim{}, nil, response.ErrBadRequest(err)
	}

	if err := req.Validate(); err != nil {
		return domain.Pilgrim{}, nil, response.ErrBadRequest(err)
	}

	p, err := req.ToDomain(id)
	if err != nil {
		return domain.Pilgrim{}, nil, response.ErrBadRequest(err)
	}

	photo, err := readPhoto(ctx)
	if err != nil {
		return domain.Pilgrim{}, nil, response.ErrBadRequest(err)
	}

	return p, photo, nil
}

// readPhoto returns nil when the form carries no photo.
func readPhoto(ctx *gin.Context) (*service.Photo, error) {
	header, err := ctx.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}

		return nil, err
	}
	if header.Size > maxPhotoSize {
		return nil, errPhotoTooLarge
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("header.Open -> %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll -> %w", err)
	}
	if len(data) > maxPhotoSize {
		return nil, errPhotoTooLarge
	}

	return &service.Photo{Data: data}, nil
}

func queryInt(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}

	return n, nil
}
