package errors

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/places"
)

// ErrorInfo is the client-facing shape of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

type sentinelRule struct {
	target error
	status int
	code   string
}

// Service sentinels carry their user-facing message in Error().
var sentinelRules = []sentinelRule{
	{service.ErrBusinessNotFound, http.StatusNotFound, BusinessNotFound},
	{service.ErrBusinessAccessDenied, http.StatusForbidden, AuthzOwnerOnly},
	{service.ErrBusinessAlreadyClaimed, http.StatusConflict, BusinessAlreadyClaimed},
	{service.ErrDuplicatePlace, http.StatusConflict, BusinessDuplicatePlace},
	{service.ErrInvalidBusiness, http.StatusBadRequest, ValidationInvalidInput},
	{service.ErrInvalidForcedStatus, http.StatusBadRequest, BusinessInvalidStatus},
	{service.ErrInvalidTrackEvent, http.StatusBadRequest, BusinessInvalidEvent},
	{service.ErrAdminOnly, http.StatusForbidden, AuthzAdminOnly},
	{service.ErrInvalidVoteType, http.StatusBadRequest, VoteInvalidType},
	{service.ErrReviewNotFound, http.StatusNotFound, ReviewNotFound},
	{service.ErrInvalidRating, http.StatusBadRequest, ReviewInvalidRating},
	{service.ErrReviewForbidden, http.StatusForbidden, AuthzAccessDenied},
	{service.ErrReviewAlreadyPublic, http.StatusConflict, ReviewAlreadyPublic},
	{service.ErrCampaignNotFound, http.StatusNotFound, CampaignNotFound},
	{service.ErrInvalidCampaign, http.StatusBadRequest, CampaignInvalid},
	{service.ErrCampaignNotCancelable, http.StatusConflict, CampaignNotCancelable},
	{service.ErrInvalidCategory, http.StatusBadRequest, CategoryInvalid},
	{service.ErrProviderUnavailable, http.StatusServiceUnavailable, PlacesUnavailable},
}

// ParseError turns an error into a status, code and a message safe to show
// to users. Storage internals are never leaked. context names the failed
// operation ("create business", "list reviews") and picks the fallback text.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Erro interno do servidor",
		}
	}

	// 1. Domain sentinels
	for _, rule := range sentinelRules {
		if errors.Is(err, rule.target) {
			return ErrorInfo{Status: rule.status, Code: rule.code, Message: sentinelMessage(err, rule.target)}
		}
	}

	// 2. Storage
	if errors.Is(err, docstore.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || mongo.IsDuplicateKeyError(err) || isDuplicateKeyText(err) {
		return ErrorInfo{
			Status:  http.StatusConflict,
			Code:    ResourceAlreadyExists,
			Message: "Este registro já existe",
		}
	}

	// 3. Places provider
	switch {
	case errors.Is(err, places.ErrNotConfigured):
		return ErrorInfo{
			Status:  http.StatusServiceUnavailable,
			Code:    PlacesUnavailable,
			Message: service.ErrProviderUnavailable.Error(),
		}
	case errors.Is(err, places.ErrQuotaExceeded):
		return ErrorInfo{
			Status:  http.StatusTooManyRequests,
			Code:    PlacesQuotaExceeded,
			Message: "Limite de buscas no Google atingido. Tente novamente mais tarde",
		}
	case errors.Is(err, places.ErrInvalidRequest):
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ValidationInvalidInput,
			Message: "Parâmetros de busca inválidos",
		}
	case errors.Is(err, places.ErrNotFound):
		return ErrorInfo{
			Status:  http.StatusNotFound,
			Code:    ResourceNotFound,
			Message: "Local não encontrado no Google",
		}
	case errors.Is(err, places.ErrRequestDenied),
		errors.Is(err, places.ErrNetworkError),
		errors.Is(err, places.ErrUpstream):
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "Falha ao consultar serviço externo. Tente novamente em instantes",
		}
	}

	// 4. Timeouts and connectivity
	if isNetworkError(err) {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "Falha ao consultar serviço externo. Tente novamente em instantes",
		}
	}

	// 5. Fallback
	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// sentinelMessage keeps detail appended by the service ("<sentinel>: nome é
// obrigatório") and drops any other wrapping.
func sentinelMessage(err, target error) string {
	if msg := err.Error(); strings.HasPrefix(msg, target.Error()) {
		return msg
	}
	return target.Error()
}

func isDuplicateKeyText(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "connection refused") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "timeout")
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "business"):
		return service.ErrBusinessNotFound.Error()
	case strings.Contains(contextLower, "review"):
		return service.ErrReviewNotFound.Error()
	case strings.Contains(contextLower, "campaign"):
		return service.ErrCampaignNotFound.Error()
	case strings.Contains(contextLower, "category"):
		return "Categoria não encontrada"
	}
	return "Registro não encontrado"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "import"):
		return "Erro ao cadastrar. Tente novamente em instantes"
	case strings.Contains(contextLower, "update"):
		return "Erro ao atualizar. Tente novamente em instantes"
	case strings.Contains(contextLower, "delete"):
		return "Erro ao remover. Tente novamente em instantes"
	case strings.Contains(contextLower, "claim"):
		return "Erro ao reivindicar o estabelecimento. Tente novamente em instantes"
	}
	return "Erro interno do servidor. Tente novamente em instantes"
}

// ParseAndRespond parses err and writes the response.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	info := ParseError(err, context)
	c.JSON(info.Status, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
