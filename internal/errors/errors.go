package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is returned when request input is missing or malformed.
	ErrValidation = errors.New("please provide all required fields")
	// ErrEmailTaken is returned when an email is already registered.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUnauthenticated is returned when no usable token accompanies the request.
	ErrUnauthenticated = errors.New("login to get access")
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired, please log in again")
	// ErrTokenSignature is returned when a token signature does not verify.
	ErrTokenSignature = errors.New("invalid token, please log in again")
	// ErrTokenMalformed is returned when a token cannot be parsed.
	ErrTokenMalformed = errors.New("malformed token, please log in again")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrForbidden is returned when the caller lacks the required role or ownership.
	ErrForbidden = errors.New("you do not have access to this resource")
	// ErrQuotaExceeded is returned when a user already owns as many posts as allowed.
	ErrQuotaExceeded = errors.New("post limit exceeded")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound is returned when a post is not found.
	ErrPostNotFound = errors.New("post not found")
	// ErrNoPosts is returned when a listing that requires content finds none.
	ErrNoPosts = errors.New("no posts found")
	// ErrUploadFailed is returned when the asset host does not store an image.
	ErrUploadFailed = errors.New("image upload failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Success    bool   `json:"success"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		StatusCode: e.StatusCode,
		Message:    e.Message,
		Code:       e.Code,
	}
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters only for errors that wrap more than one sentinel.
var mappings = []mapping{
	{ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR", ""},
	{ErrEmailTaken, http.StatusBadRequest, "EMAIL_ALREADY_EXISTS", "Email already exists"},
	{ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "Login to get access."},
	{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token expired. Please log in again."},
	{ErrTokenSignature, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token. Please log in again."},
	{ErrTokenMalformed, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token. Please log in again."},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN", "You do not have access to this resource"},
	{ErrQuotaExceeded, http.StatusForbidden, "QUOTA_EXCEEDED", "Post limit exceeded"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND", "User not found"},
	{ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND", "Post not found"},
	{ErrNoPosts, http.StatusNotFound, "NOT_FOUND", "No posts found"},
	{ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED", "Image upload failed"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 so internal details never reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := m.message
		if msg == "" {
			// validation messages carry the offending field
			msg = err.Error()
		}
		return NewHTTPError(m.status, msg, m.code)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Validation wraps a human readable message as a validation failure.
func Validation(message string) error {
	return &validationError{message: message}
}

type validationError struct {
	message string
}

func (e *validationError) Error() string { return e.message }

func (e *validationError) Unwrap() error { return ErrValidation }
