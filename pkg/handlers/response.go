package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoice-ocr/pkg/logger"
	"invoice-ocr/pkg/schemas"
)

// Error codes returned in the error body
const (
	CodeValidation  = "ERR_VALIDATION"
	CodeNotFound    = "ERR_NOT_FOUND"
	CodeBadRequest  = "ERR_BAD_REQUEST"
	CodeUpstream    = "ERR_UPSTREAM"
	CodeUnavailable = "ERR_UNAVAILABLE"
	CodeInternal    = "ERR_INTERNAL"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo describes what went wrong
type ErrorInfo struct {
	Code      string               `json:"code"`
	Message   string               `json:"message"`
	RequestID string               `json:"request_id,omitempty"`
	Details   []schemas.FieldError `json:"details,omitempty"`
}

func abortWithError(c *gin.Context, status int, code, message string, details ...schemas.FieldError) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(logger.RequestIDKey),
		Details:   details,
	}})
}

func validationError(c *gin.Context, details []schemas.FieldError) {
	abortWithError(c, http.StatusUnprocessableEntity, CodeValidation, "request validation failed", details...)
}

func bindError(c *gin.Context, err error) {
	validationError(c, schemas.DescribeBindError(err))
}

func notFound(c *gin.Context, message string) {
	abortWithError(c, http.StatusNotFound, CodeNotFound, message)
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, CodeInternal, "Internal server error: "+err.Error())
}

func panicResponse(c *gin.Context, recovered any) {
	abortWithError(c, http.StatusInternalServerError, CodeInternal, fmt.Sprintf("Internal server error: %v", recovered))
}
