package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/glow-advisor/pkg/errors"
)

// HTTPError is the rendered form of a failed request: the status plus the
// {"error":{"code","message"}} body.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError builds an HTTPError for failures detected in the handler itself.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// statusByCode maps domain error codes onto response statuses. Codes not
// listed here surface as 500 with their own code.
var statusByCode = map[string]int{
	"invalid_input":        http.StatusBadRequest,
	"not_found":            http.StatusNotFound,
	"analysis_unavailable": http.StatusServiceUnavailable,
	"queue_error":          http.StatusServiceUnavailable,
}

// asHTTPError resolves any error returned by a service or handler. Errors
// without a domain code are reported as internal_error with a generic
// message so internals do not leak to clients.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	if code := apperrors.Code(err); code != "" {
		status, ok := statusByCode[code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return &HTTPError{Status: status, Code: code, Message: err.Error(), Err: err}
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func badRequest(err error) *HTTPError {
	message := "malformed request"
	if err != nil {
		message = err.Error()
	}
	return NewHTTPError(http.StatusBadRequest, "invalid_request", message, err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
