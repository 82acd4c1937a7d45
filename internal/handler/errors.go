package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"ward-rounds/internal/apperr"
	"ward-rounds/pkg/utils"
)

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// attached to the context for the request logger and reported with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var validation *apperr.ValidationError
	var notFound *apperr.NotFoundError
	switch {
	case errors.As(err, &validation):
		utils.FieldErrorResponse(c, validation.Field, validation.Error())
	case errors.As(err, &notFound):
		utils.ErrorResponse(c, http.StatusNotFound, notFound.Error())
	default:
		_ = c.Error(err)
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

// bindJSON decodes the body into req and reports the first failing field
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			utils.FieldErrorResponse(c, fe.Field(), fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
			return false
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func parseID(c *gin.Context, param, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return uint(id), true
}

func patientID(c *gin.Context) (uint, bool) {
	return parseID(c, "id", "patient")
}

func recordID(c *gin.Context) (uint, bool) {
	return parseID(c, "recordId", "record")
}
