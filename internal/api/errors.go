package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/neobrutal/internal/task"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"-"`
	Field   string `json:"field,omitempty"`
	Message string `json:"error"`
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, err)
}

func newBadRequestError(message string) apiError {
	return apiError{Code: http.StatusBadRequest, Message: message}
}

// newUnprocessableError reports a rejected field. err should hold a
// task.ValidationError.
func newUnprocessableError(err error) apiError {
	var ve task.ValidationError
	if errors.As(err, &ve) {
		return apiError{Code: http.StatusUnprocessableEntity, Field: ve.Field, Message: ve.Message}
	}
	return apiError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
}
