package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindAuthentication:
		return http.StatusUnauthorized
	case errs.KindForbidden:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// handleError renders err as exactly one ErrorResponse. Internal errors are logged and
// their details withheld from the client.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	response := ErrorResponse{}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		response.Code = httpErr.Code
		response.Kind = kindOfStatus(httpErr.Code)
		response.Message = http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok && msg != "" {
			response.Message = msg
		}
	} else {
		kind := errs.KindOf(err)
		response.Code = statusOf(kind)
		response.Kind = string(kind)
		response.Message = err.Error()
	}

	if response.Code >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		response.Message = http.StatusText(response.Code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(response.Code)
	} else {
		writeErr = c.JSON(response.Code, response)
	}
	if writeErr != nil {
		s.logger.WarnContext(c.Request().Context(), "failed to write error response", slog.Any("error", writeErr))
	}
}

func kindOfStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return string(errs.KindValidation)
	case http.StatusUnauthorized:
		return string(errs.KindAuthentication)
	case http.StatusForbidden:
		return string(errs.KindForbidden)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return string(errs.KindNotFound)
	case http.StatusConflict:
		return string(errs.KindConflict)
	default:
		return string(errs.KindInternal)
	}
}
