package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "linkboard/internal/errors"
)

// ApiResponse is the envelope wrapping every successful response.
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func respond(c echo.Context, status int, data interface{}, message string) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(status, ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// bindAndValidate decodes the request into req and runs its validate tags.
// fallback replaces the field-level message when set.
func bindAndValidate(c echo.Context, req interface{}, fallback string) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		if fallback != "" {
			return apperrors.Validation(fallback)
		}
		return apperrors.Validation(describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func pathID(c echo.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid " + what + " id")
	}
	return id, nil
}
