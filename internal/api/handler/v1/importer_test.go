package v1

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/service"
	"github.com/vietanh2810/pilgrim-api/internal/storage"
)

type fakeImportService struct {
	fileName string
	adminID  uint
	body     []byte
	err      error
}

func (f *fakeImportService) Import(_ context.Context, fileName string, r io.Reader, adminID uint) (domain.ImportHistory, error) {
	f.fileName, f.adminID = fileName, adminID
	f.body, _ = io.ReadAll(r)
	if f.err != nil {
		return domain.ImportHistory{}, f.err
	}

	return domain.ImportHistory{ID: 1, FileName: fileName, Imported: 2}, nil
}

func (f *fakeImportService) GetImport(context.Context, uint) (domain.ImportHistory, error) {
	return domain.ImportHistory{}, service.ErrNotFound
}

func (f *fakeImportService) ListImports(context.Context) ([]domain.ImportHistory, error) {
	return []domain.ImportHistory{}, nil
}

func (f *fakeImportService) Template() ([]byte, error) {
	return []byte("PK-template"), nil
}

func newImportRouter(svc ImportService) *gin.Engine {
	h := NewImportHandler(svc)
	r := gin.New()
	r.POST("/import", withAdmin(7), h.HandleImport)
	r.GET("/import/template", h.HandleImportTemplate)
	r.GET("/import/history/:id", h.HandleGetImport)

	return r
}

func uploadRequest(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHandleImport(t *testing.T) {
	svc := &fakeImportService{}

	w := httptest.NewRecorder()
	newImportRouter(svc).ServeHTTP(w, uploadRequest(t, "batch.XLSX", []byte("workbook")))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "batch.XLSX", svc.fileName)
	assert.Equal(t, uint(7), svc.adminID)
	assert.Equal(t, []byte("workbook"), svc.body)
}

func TestHandleImport_Rejects(t *testing.T) {
	w := httptest.NewRecorder()
	newImportRouter(&fakeImportService{}).ServeHTTP(w, uploadRequest(t, "batch.csv", []byte("a,b")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	newImportRouter(&fakeImportService{err: service.ErrEmptyWorkbook}).ServeHTTP(w, uploadRequest(t, "empty.xlsx", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	rowErr := &service.RowError{Row: 4, Err: domain.ErrNationalIDFormat}
	newImportRouter(&fakeImportService{err: fmt.Errorf("%w: %w", service.ErrValidation, rowErr)}).ServeHTTP(w, uploadRequest(t, "bad.xlsx", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "row 4")
}

func TestHandleImportTemplate(t *testing.T) {
	w := doJSON(t, newImportRouter(&fakeImportService{}), http.MethodGet, "/import/template", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pilgrims-template.xlsx")
	assert.Equal(t, "PK-template", w.Body.String())
}

func TestHandleGetImport_NotFound(t *testing.T) {
	w := doJSON(t, newImportRouter(&fakeImportService{}), http.MethodGet, "/import/history/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetPhoto(t *testing.T) {
	store := storage.NewMemoryStore("http://api/photos")
	require.NoError(t, store.Put(context.Background(), "pilgrims/a.png", "image/png", pngHeader))

	r := gin.New()
	r.GET("/photos/*key", NewPhotoHandler(store).HandleGetPhoto)

	w := doJSON(t, r, http.MethodGet, "/photos/pilgrims/a.png", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, pngHeader, w.Body.Bytes())

	w = doJSON(t, r, http.MethodGet, "/photos/pilgrims/missing.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
