// File: /utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// ErrorResponse is the body of every non-2xx reply. Message carries
// validation detail only.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const internalErrorText = "Something went wrong, please try again"

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

func SendValidationError(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Message: err,
		Code:    http.StatusBadRequest,
	})
}

func SendUnauthorized(c *gin.Context, err string) {
	SendError(c, http.StatusUnauthorized, err)
}

// SendForbidden covers both "not your post" and "your own post" refusals.
func SendForbidden(c *gin.Context, err string) {
	SendError(c, http.StatusForbidden, err)
}

func SendNotFound(c *gin.Context, err string) {
	SendError(c, http.StatusNotFound, err)
}

// SendConflict reports a lifecycle step that no longer applies, usually
// because another user changed the post first.
func SendConflict(c *gin.Context, err string) {
	SendError(c, http.StatusConflict, err)
}

// SendInternalError hides the cause; callers log it first.
func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, internalErrorText)
}

func SendSuccess(c *gin.Context, message string, data any) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// SendMessage replies 200 with a bare confirmation, e.g. after a delete.
func SendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// SendList writes items under key next to their count. A nil slice is sent
// as [] so clients never see null.
func SendList[T any](c *gin.Context, key string, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		key:     items,
		"count": len(items),
	})
}
