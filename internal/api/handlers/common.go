package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/devconnect/internal/api/middleware"
	"github.com/yoockh/devconnect/internal/utils"
)

type APIError struct {
	Code    utils.Code        `json:"code"`
	Message string            `json:"message"`
	Errors  utils.FieldErrors `json:"errors,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		msg := ae.Message
		if status >= http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: msg,
			Errors:  ae.Fields,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if s := c.GetString(middleware.CtxUserID); s != "" {
		return s, true
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func bindJSON(c *gin.Context, op string, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return false
	}
	return true
}
