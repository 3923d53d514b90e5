package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "linkboard/internal/errors"
	"linkboard/internal/logging"
)

// ErrorHandler renders every error returned by a handler or middleware as
// the error envelope. Server errors are logged with the request id; their
// details never reach the client.
func ErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &echoErr):
			// routing, binding and middleware errors raised by echo itself
			httpErr = apperrors.NewHTTPError(echoErr.Code, echoMessage(echoErr), statusCode(echoErr.Code))
			if echoErr.Internal != nil {
				err = echoErr.Internal
			}
		default:
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			log.Error(c.Request().Context(), "request failed",
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		resp := httpErr.ToErrorResponse()
		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(resp.StatusCode)
		} else {
			writeErr = c.JSON(resp.StatusCode, resp)
		}
		if writeErr != nil {
			log.Warn(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

func echoMessage(e *echo.HTTPError) string {
	if msg, ok := e.Message.(string); ok {
		return msg
	}
	return fmt.Sprint(e.Message)
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
