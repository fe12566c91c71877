// Package common holds the response envelope, problem details and request
// binding shared by every HTTP handler.
package common

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(
	c *fiber.Ctx,
	status int,
	message string,
	data any,
) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes an RFC 9457 problem. The status comes from
// ErrorToStatusCode unless one is passed explicitly.
func ProblemDetailsJSON(
	c *fiber.Ctx,
	title string,
	err error,
	detail any,
	status ...int,
) error {
	code := ErrorToStatusCode(err)
	if len(status) > 0 {
		code = status[0]
	}
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   code,
		Instance: c.OriginalURL(),
	}
	switch d := detail.(type) {
	case nil:
		if err != nil && code < fiber.StatusInternalServerError {
			pd.Detail = err.Error()
		}
	case string:
		pd.Detail = d
	default:
		pd.Errors = d
	}
	if code == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(code).JSON(pd)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyAssigned), errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNoAccountAvailable):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

var titles = map[int]string{
	fiber.StatusBadRequest:          "Validation failed",
	fiber.StatusUnauthorized:        "Unauthorized",
	fiber.StatusForbidden:           "Access denied",
	fiber.StatusNotFound:            "Not found",
	fiber.StatusConflict:            "Conflict",
	fiber.StatusUnprocessableEntity: "No account available",
	fiber.StatusTooManyRequests:     "Too Many Requests",
}

// ErrorHandler turns errors returned by handlers and middleware into problems.
// Server errors are logged and their detail is hidden.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := ErrorToStatusCode(err)
		title, ok := titles[code]
		if !ok {
			title = "Internal Server Error"
		}
		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
			if errors.Is(err, domain.ErrReportFailure) {
				return ProblemDetailsJSON(c, "Report failure", err, "the report could not be computed", code)
			}
			return ProblemDetailsJSON(c, title, err, nil, code)
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ProblemDetailsJSON(c, title, err, fe.Message, code)
		}
		return ProblemDetailsJSON(c, title, err, nil, code)
	}
}

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// BindAndValidate parses the request body and validates it using go-playground/validator.
// Returns a pointer to the struct (populated), or writes an error response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, err.Error(), fiber.StatusBadRequest)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, FieldError{
					Field: strings.ToLower(fe.Field()),
					Rule:  fe.Tag(),
					Param: fe.Param(),
				})
			}
			return nil, ProblemDetailsJSON(c, "Validation failed", err, fields, fiber.StatusBadRequest)
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", err, err.Error(), fiber.StatusBadRequest)
	}
	return &input, nil
}

// ParseID reads a UUID route parameter.
func ParseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.Validationf("%s must be a valid UUID", name)
	}
	return id, nil
}

// Caller returns the identity stored by the JWT middleware.
func Caller(c *fiber.Ctx) (access.Identity, error) {
	who, ok := middleware.Identity(c)
	if !ok {
		return access.Identity{}, domain.ErrUnauthenticated
	}
	return who, nil
}
