package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
)

const (
	maxWorkbookSize = 20 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errNotWorkbook = errors.New("file must be an .xlsx workbook")

type ImportService interface {
	Import(ctx context.Context, fileName string, r io.Reader, adminID uint) (domain.ImportHistory, error)
	GetImport(ctx context.Context, id uint) (domain.ImportHistory, error)
	ListImports(ctx context.Context) ([]domain.ImportHistory, error)
	Template() ([]byte, error)
}

type ImportHandler struct {
	svc ImportService
}

func NewImportHandler(svc ImportService) *ImportHandler {
	return &ImportHandler{
		svc: svc,
	}
}

// HandleImport godoc
// @Summary      Import pilgrims from an Excel workbook
// @Description  Any invalid row rejects the whole file; the error names the row.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "xlsx workbook"
// @Success      201   {object}  domain.ImportHistory
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /pilgrims/import [post]
// @Security     BearerAuth
func (h *ImportHandler) HandleImport(ctx *gin.Context) {
	adminID, respErr := adminIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		response.RenderErr(ctx, response.ErrBadRequest(errNotWorkbook))
		return
	}
	if header.Size > maxWorkbookSize {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("workbook must not exceed %d bytes", maxWorkbookSize)))
		return
	}

	f, err := header.Open()
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("v1.HandleImport -> header.Open -> %w", err)))
		return
	}
	defer f.Close()

	history, err := h.svc.Import(ctx.Request.Context(), filepath.Base(header.Filename), f, adminID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyWorkbook) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		renderServiceErr(ctx, "v1.HandleImport -> h.svc.Import", err)
		return
	}

	ctx.JSON(http.StatusCreated, history)
}

// HandleImportTemplate godoc
// @Summary      Download the import template
// @Tags         import
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/import/template [get]
// @Security     BearerAuth
func (h *ImportHandler) HandleImportTemplate(ctx *gin.Context) {
	data, err := h.svc.Template()
	if err != nil {
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("v1.HandleImportTemplate -> h.svc.Template -> %w", err)))
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="pilgrims-template.xlsx"`)
	ctx.Data(http.StatusOK, xlsxContentType, data)
}

// HandleListImports godoc
// @Summary      List import batches
// @Tags         import
// @Produce      json
// @Success      200  {array}   domain.ImportHistory
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/import/history [get]
// @Security     BearerAuth
func (h *ImportHandler) HandleListImports(ctx *gin.Context) {
	history, err := h.svc.ListImports(ctx.Request.Context())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListImports -> h.svc.ListImports", err)
		return
	}

	ctx.JSON(http.StatusOK, history)
}

// HandleGetImport godoc
// @Summary      Get an import batch
// @Tags         import
// @Produce      json
// @Param        id   path      int  true  "Import history ID"
// @Success      200  {object}  domain.ImportHistory
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pilgrims/import/history/{id} [get]
// @Security     BearerAuth
func (h *ImportHandler) HandleGetImport(ctx *gin.Context) {
	id, respErr := parseIDParam(ctx, "id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	history, err := h.svc.GetImport(ctx.Request.Context(), id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetImport -> h.svc.GetImport", err)
		return
	}

	ctx.JSON(http.StatusOK, history)
}
