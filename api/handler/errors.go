package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/api/dto"
)

func statusOf(err error) int {
	switch {
	case errors.IsBadRequest(err), errors.IsNotValid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsMethodNotAllowed(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %s", c.Request.Method, c.Request.URL.Path, errors.ErrorStack(err))
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, err.Error()))
}
