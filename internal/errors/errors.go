package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the errors key for failures not tied to a single field.
const NonFieldErrors = "non_field_errors"

// Response is the success envelope. Data is always serialized, so an absent
// resource is reported as "data": null.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// MessageResponse is the success envelope for operations without a payload.
type MessageResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// APIError is the failure envelope. Errors maps field names to messages.
type APIError struct {
	Status  int                 `json:"status"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// NewFieldError creates an APIError carrying a single field message.
func NewFieldError(status int, message, field string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
		Errors:  map[string][]string{field: {message}},
	}
}

// Respond sends a success envelope with data.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Status: status, Message: message, Data: data})
}

// RespondMessage sends a success envelope without data.
func RespondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Status: status, Message: message})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.Status, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication credentials were not provided."
	}
	RespondWithError(c, NewAPIError(http.StatusUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have permission to perform this action."
	}
	RespondWithError(c, NewAPIError(http.StatusForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found."
	}
	RespondWithError(c, NewAPIError(http.StatusNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request."
	}
	RespondWithError(c, NewAPIError(http.StatusBadRequest, message))
}

// FieldError sends a 400 response attributing message to field.
func FieldError(c *gin.Context, field, message string) {
	RespondWithError(c, NewFieldError(http.StatusBadRequest, message, field))
}

// ValidationFailed sends a 400 response with field level messages.
func ValidationFailed(c *gin.Context, fields map[string][]string) {
	RespondWithError(c, &APIError{
		Status:  http.StatusBadRequest,
		Message: "Validation error.",
		Errors:  fields,
	})
}

// BindingFailed translates a gin binding error into a validation response.
func BindingFailed(c *gin.Context, err error) {
	ValidationFailed(c, FieldErrors(err))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error."
	}
	RespondWithError(c, NewAPIError(http.StatusInternalServerError, message))
}

// FieldErrors converts validator errors into field to messages. Errors that are
// not validation errors (malformed JSON, wrong types) land under
// non_field_errors.
func FieldErrors(err error) map[string][]string {
	fields := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields[NonFieldErrors] = []string{"Malformed request body."}
		return fields
	}

	for _, fe := range verrs {
		name := fieldName(fe)
		fields[name] = append(fields[name], describe(fe))
	}
	return fields
}

func fieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return strings.ToLower(fe.StructField())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Ensure this field has at least " + fe.Param() + " characters."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + fe.Param() + "."
	case "uuid", "uuid4":
		return "Must be a valid UUID."
	case "project_status":
		return "Invalid status value."
	case "assignable_role":
		return "Invalid role value."
	case "eqfield":
		return "Values do not match."
	default:
		return "Invalid value."
	}
}
