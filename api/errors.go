/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/bookstore/database"
	"github.com/tomoncle/bookstore/repository"
)

const (
	notFoundDetail      = "Identifier not found"
	internalErrorDetail = "Internal Server Error"
	rateLimitedDetail   = "rate limit exceeded"
)

// ErrorResponse is every non-2xx body. Detail is a string, or a list of
// FieldError for body validation failures.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// newErrorHandler maps domain errors to status codes. Only 5xx are logged;
// their cause never reaches the client.
func newErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			fields := logrus.Fields{
				"req_method": c.Request().Method,
				"req_uri":    c.Request().RequestURI,
			}
			if ok, kind := database.IsSqlError(err); ok && kind.IsValid() {
				fields["sql_error"] = kind.Name()
				fields["sql_error_desc"] = kind.Desc()
			}
			logger.WithError(err).WithFields(fields).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.WithError(writeErr).Warn("failed to write error response")
		}
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		fieldErrs validator.ValidationErrors
		pageErr   *repository.ValidationError
		conflict  *repository.ConflictError
		httpErr   *echo.HTTPError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return http.StatusUnprocessableEntity, ErrorResponse{Detail: toFieldErrors(fieldErrs)}
	case errors.As(err, &pageErr):
		return http.StatusBadRequest, ErrorResponse{Detail: pageErr.Message}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Detail: notFoundDetail}
	case errors.As(err, &conflict):
		return http.StatusConflict, ErrorResponse{Detail: conflict.Detail}
	case errors.As(err, &httpErr):
		if httpErr.Code >= http.StatusInternalServerError {
			return httpErr.Code, ErrorResponse{Detail: internalErrorDetail}
		}
		return httpErr.Code, ErrorResponse{Detail: httpMessage(httpErr)}
	default:
		return http.StatusInternalServerError, ErrorResponse{Detail: internalErrorDetail}
	}
}

func httpMessage(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	if he.Message != nil {
		return fmt.Sprint(he.Message)
	}
	return http.StatusText(he.Code)
}

func toFieldErrors(errs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "gte":
		return "must be >= " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "maxbytes":
		return "must be at most " + fe.Param() + " bytes"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
