package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dersly/dersly-api/internal/middleware"
	appErrors "github.com/dersly/dersly-api/pkg/errors"
)

func sessionFromContext(c *gin.Context) string {
	return middleware.SessionID(c)
}

func idParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+name+" parameter")
	}
	return id, nil
}

func idQuery(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid id query value")
	}
	return id, nil
}
