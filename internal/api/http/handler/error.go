package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/jobboard/internal/apierrors"
	"github.com/dtroode/jobboard/internal/model"
)

func handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.HTTPCode, apiErr)
		return
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, &apierrors.APIError{Code: "not_found", Message: "not found"})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierrors.NewErrInternalServerError())
	}
}
