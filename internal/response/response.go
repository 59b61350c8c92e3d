// Package response renders the JSON envelope shared by every endpoint:
// a success flag, a translatable message key with optional parameters, and
// the payload under "response". HTTP status codes follow the failure
// taxonomy (400 credential, 401 need auth, 403 denied, 404 missing,
// 410 gone) independently of the message key.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Common message keys for failures that carry no more specific key.
const (
	MsgNeedAuth        = "common.messages.need_auth"
	MsgAccessDenied    = "common.messages.access_denied"
	MsgNotFound        = "common.messages.not_found"
	MsgDeleted         = "common.messages.deleted"
	MsgFailed          = "common.messages.failed"
	MsgTooManyRequests = "common.messages.too_many_requests"
)

// Body is the wire envelope.
type Body struct {
	Success           bool                   `json:"success"`
	Message           string                 `json:"message,omitempty"`
	MessageParameters map[string]interface{} `json:"message_parameters,omitempty"`
	Response          interface{}            `json:"response,omitempty"`
	Errors            interface{}            `json:"errors,omitempty"`
	Warnings          interface{}            `json:"warnings,omitempty"`
}

// Success writes a 200 envelope. Message may be empty for plain data
// responses.
func Success(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Body{Success: true, Message: message, Response: data})
}

// Failure writes a 400 envelope for credential and validation failures.
func Failure(c echo.Context, message string, errs interface{}) error {
	if message == "" {
		message = MsgFailed
	}
	return c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Errors: errs})
}

// NeedAuth writes a 401 envelope: the caller must authenticate first.
func NeedAuth(c echo.Context, message string) error {
	if message == "" {
		message = MsgNeedAuth
	}
	return c.JSON(http.StatusUnauthorized, Body{Success: false, Message: message})
}

// AccessDenied writes a 403 envelope, downgraded to 401 when the caller is
// anonymous and authenticating might change the verdict.
func AccessDenied(c echo.Context, message string, needAuth bool) error {
	if message == "" {
		message = MsgAccessDenied
	}
	status := http.StatusForbidden
	if needAuth {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, Body{Success: false, Message: message})
}

// NotFound writes a 404 envelope.
func NotFound(c echo.Context, message string) error {
	if message == "" {
		message = MsgNotFound
	}
	return c.JSON(http.StatusNotFound, Body{Success: false, Message: message})
}

// TooManyRequests writes a 429 envelope with the retry delay in seconds as a
// message parameter.
func TooManyRequests(c echo.Context, retryAfter int) error {
	return c.JSON(http.StatusTooManyRequests, Body{
		Success:           false,
		Message:           MsgTooManyRequests,
		MessageParameters: map[string]interface{}{"retry_after": retryAfter},
	})
}

// Gone writes a 410 envelope for subjects that exist but are soft-deleted or
// erased for this viewer.
func Gone(c echo.Context, message string) error {
	if message == "" {
		message = MsgDeleted
	}
	return c.JSON(http.StatusGone, Body{Success: false, Message: message})
}
