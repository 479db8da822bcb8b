package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/postboard/internal/store/memory"
)

type ApiError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func (e ApiError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

var (
	errNotFound   = ApiError{ErrorCode: "NOT_FOUND", Message: "post not found"}
	errBadRequest = ApiError{ErrorCode: "BAD_REQUEST", Message: "invalid request body"}
	errInternal   = ApiError{ErrorCode: "INTERNAL", Message: "an unknown error occurred"}
)

func sendError(c *gin.Context, err error) {
	var apiErr ApiError
	switch {
	case errors.Is(err, memory.ErrPostNotFound):
		c.JSON(http.StatusNotFound, errNotFound)
	case errors.As(err, &apiErr):
		c.JSON(http.StatusBadRequest, apiErr)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errInternal)
	}
}

func badRequest(err error) ApiError {
	return ApiError{ErrorCode: errBadRequest.ErrorCode, Message: err.Error()}
}
