package client

import (
	"errors"
	"fmt"
)

// ErrValidation marks calls rejected before any request was sent.
var ErrValidation = errors.New("client: invalid request")

const (
	LangAR = "ar"
	LangEN = "en"
)

var fallbackMessages = map[string]string{
	LangAR: "حدث خطأ غير متوقع، يرجى المحاولة مرة أخرى",
	LangEN: "Something went wrong, please try again.",
}

// ServiceError is a non-2xx answer from the API.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("client: status %d: %s", e.StatusCode, e.Message)
}

// errorBody mirrors the JSON the API renders for failed requests.
type errorBody struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	ErrorText  string `json:"error_text"`
}

func newServiceError(status int, body *errorBody, lang string) *ServiceError {
	msg := ""
	if body != nil {
		msg = body.ErrorText
		if msg == "" {
			msg = body.Message
		}
	}
	if msg == "" {
		msg = fallbackMessage(lang)
	}

	return &ServiceError{
		StatusCode: status,
		Message:    msg,
	}
}

func fallbackMessage(lang string) string {
	if msg, ok := fallbackMessages[lang]; ok {
		return msg
	}

	return fallbackMessages[LangAR]
}
