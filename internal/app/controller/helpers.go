package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/service"
	apperrors "github.com/guialocal/guialocal-backend/internal/errors"
	"github.com/guialocal/guialocal-backend/internal/middleware"
)

// currentActor reads the authenticated caller. It writes a 401 and returns
// false when there is none.
func currentActor(c *gin.Context) (service.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return service.Actor{}, false
	}
	role, _ := middleware.GetUserRole(c)
	return service.Actor{UserID: userID, Role: role}, true
}

// respondError logs err and writes the mapped error body. 5xx are logged as
// errors, everything else as warnings.
func respondError(c *gin.Context, err error, operation string, fields map[string]interface{}) {
	log := middleware.GetLoggerFromContext(c)
	info := apperrors.ParseError(err, operation)

	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["operation"] = operation
	fields["code"] = info.Code
	if info.Status >= 500 {
		log.Error("Request failed", err, fields)
	} else {
		fields["error"] = err.Error()
		log.Warn("Request rejected", fields)
	}

	apperrors.RespondWithError(c, info.Status, info.Code, info.Message)
}

func invalidInput(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Dados de entrada inválidos")
}
