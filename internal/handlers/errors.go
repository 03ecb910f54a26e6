package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/api"
	"github.com/servinear/marketplace-backend/internal/services"
	"github.com/servinear/marketplace-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[services.ErrorKind]struct {
	status int
	code   string
}{
	services.KindValidation:   {http.StatusBadRequest, api.CodeValidation},
	services.KindUnauthorized: {http.StatusUnauthorized, api.CodeUnauthorized},
	services.KindForbidden:    {http.StatusForbidden, api.CodeForbidden},
	services.KindNotFound:     {http.StatusNotFound, api.CodeNotFound},
	services.KindConflict:     {http.StatusConflict, api.CodeConflict},
}

// respondError writes err as an ErrorResponse. Internal errors are logged and
// replaced by a generic message.
func respondError(c *gin.Context, logger logrus.FieldLogger, err error) {
	appErr := services.AsAppError(err)

	mapped, ok := kindStatus[appErr.Kind]
	if !ok {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).Error("Internal error")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:   api.CodeInternal,
			Message: "Internal server error",
		})
		return
	}

	c.JSON(mapped.status, api.ErrorResponse{
		Error:   mapped.code,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

// bindJSON binds and validates the body, answering 400 with the first failing field
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// bindQuery binds and validates query parameters
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var field, message string

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &typeErr):
		field, message = typeErr.Field, fmt.Sprintf("%s has an invalid type", typeErr.Field)
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		message = "Invalid request body"
	case errors.As(err, &numErr):
		message = "Invalid number: " + numErr.Num
	default:
		field, message = validator.FirstError(err)
	}

	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:   api.CodeValidation,
		Message: message,
		Field:   field,
	})
}

// idParam parses a positive integer path parameter
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:   api.CodeValidation,
			Message: name + " must be a positive integer",
			Field:   name,
		})
		return 0, false
	}
	return id, true
}
