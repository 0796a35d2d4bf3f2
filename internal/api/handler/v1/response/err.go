package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON body of every failed request.
type Err struct {
	Err        error  `json:"-"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	ErrorText  string `json:"error_text,omitempty"`
}

func (e *Err) Error() string {
	if e.Err == nil {
		return e.Message
	}

	return e.Err.Error()
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr aborts the request with e. Server errors are logged and their
// cause is never sent to the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err))
	}

	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

func newErr(status int, err error, message string) *Err {
	text := ""
	if err != nil {
		text = err.Error()
	}

	return &Err{
		Err:        err,
		StatusCode: status,
		Message:    message,
		ErrorText:  text,
	}
}

func ErrBadRequest(err error) *Err {
	return newErr(http.StatusBadRequest, err, "Invalid request.")
}

func ErrNotFound(err error) *Err {
	return newErr(http.StatusNotFound, err, "Resource not found.")
}

func ErrWrongCredentials(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "Wrong email or password.")
}

func ErrUnauthorized(err error) *Err {
	return newErr(http.StatusUnauthorized, err, "Authentication required.")
}

func ErrPermissionDenied(err error) *Err {
	return newErr(http.StatusForbidden, err, "Permission denied.")
}

func ErrConflict(err error) *Err {
	return newErr(http.StatusConflict, err, "Resource already exists or is still in use.")
}

func ErrInternalServerError(err error) *Err {
	e := newErr(http.StatusInternalServerError, err, "Internal server error.")
	e.ErrorText = ""

	return e
}
