// Package apierrors defines errors that are safe to show to API callers.
package apierrors

import (
	"fmt"
	"net/http"
)

// APIError is a user-facing failure with its HTTP mapping.
type APIError struct {
	HTTPCode   int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"error"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Is matches API errors by machine code so callers can use errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Machine-readable codes.
const (
	CodeValidation          = "validation_failed"
	CodeEmailIsTaken        = "email_is_taken"
	CodeInvalidCredentials  = "invalid_credentials"
	CodeUserNotFound        = "user_not_found"
	CodeProfileNotFound     = "profile_not_found"
	CodeMissingToken        = "missing_authorization_token"
	CodeInvalidToken        = "invalid_authorization_token"
	CodeInvalidRefreshToken = "invalid_refresh_token"
	CodeForbidden           = "forbidden"
	CodeOfferNotFound       = "offer_not_found"
	CodeApplicationNotFound = "application_not_found"
	CodeAlreadyApplied      = "already_applied"
	CodeInvalidStatus       = "invalid_status"
	CodeInvalidRole         = "invalid_role"
	CodeResumeNotFound      = "resume_not_found"
	CodeStorageDisabled     = "storage_disabled"
	CodeInternal            = "internal_error"
)

func NewErrValidation(format string, args ...any) *APIError {
	return &APIError{HTTPCode: http.StatusBadRequest, Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{HTTPCode: http.StatusConflict, Code: CodeEmailIsTaken, Message: fmt.Sprintf("email %s is already registered", email)}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Code: CodeInvalidCredentials, Message: "invalid login credentials"}
}

func NewErrUserNotFound(id string) *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Code: CodeUserNotFound, Message: fmt.Sprintf("user %s not found", id)}
}

func NewErrProfileNotFound(id string) *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Code: CodeProfileNotFound, Message: fmt.Sprintf("profile %s not found", id)}
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Code: CodeMissingToken, Message: "missing authorization token"}
}

func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Code: CodeInvalidToken, Message: "invalid authorization token"}
}

func NewErrInvalidRefreshToken() *APIError {
	return &APIError{HTTPCode: http.StatusUnauthorized, Code: CodeInvalidRefreshToken, Message: "invalid refresh token"}
}

// NewErrForbidden carries the route the caller should be sent to instead.
func NewErrForbidden(redirectTo string) *APIError {
	return &APIError{HTTPCode: http.StatusForbidden, Code: CodeForbidden, Message: "not allowed for this profile", RedirectTo: redirectTo}
}

func NewErrOfferNotFound(id string) *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Code: CodeOfferNotFound, Message: fmt.Sprintf("job offer %s not found", id)}
}

func NewErrApplicationNotFound(id string) *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Code: CodeApplicationNotFound, Message: fmt.Sprintf("application %s not found", id)}
}

func NewErrAlreadyApplied(jobID string) *APIError {
	return &APIError{HTTPCode: http.StatusConflict, Code: CodeAlreadyApplied, Message: fmt.Sprintf("already applied to job offer %s", jobID)}
}

func NewErrInvalidStatus(status string) *APIError {
	return &APIError{HTTPCode: http.StatusBadRequest, Code: CodeInvalidStatus, Message: fmt.Sprintf("unknown application status %q", status)}
}

func NewErrInvalidRole(role string) *APIError {
	return &APIError{HTTPCode: http.StatusBadRequest, Code: CodeInvalidRole, Message: fmt.Sprintf("unknown role %q", role)}
}

func NewErrResumeNotFound(applicationID string) *APIError {
	return &APIError{HTTPCode: http.StatusNotFound, Code: CodeResumeNotFound, Message: fmt.Sprintf("application %s has no resume", applicationID)}
}

func NewErrStorageDisabled() *APIError {
	return &APIError{HTTPCode: http.StatusServiceUnavailable, Code: CodeStorageDisabled, Message: "resume storage is disabled"}
}

func NewErrInternalServerError() *APIError {
	return &APIError{HTTPCode: http.StatusInternalServerError, Code: CodeInternal, Message: "internal server error"}
}
