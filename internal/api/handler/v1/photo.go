package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/pilgrim-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/pilgrim-api/internal/storage"
)

type PhotoOpener interface {
	Open(key string) (string, io.Reader, error)
}

// PhotoHandler serves photos kept by the in-memory store. S3 deployments
// hand out presigned URLs instead and never reach it.
type PhotoHandler struct {
	store PhotoOpener
}

func NewPhotoHandler(store PhotoOpener) *PhotoHandler {
	return &PhotoHandler{
		store: store,
	}
}

func (h *PhotoHandler) HandleGetPhoto(ctx *gin.Context) {
	key := strings.TrimPrefix(ctx.Param("key"), "/")

	contentType, r, err := h.store.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			response.RenderErr(ctx, response.ErrNotFound(err))
			return
		}

		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("v1.HandleGetPhoto -> h.store.Open -> %w", err)))
		return
	}

	ctx.DataFromReader(http.StatusOK, -1, contentType, r, nil)
}
