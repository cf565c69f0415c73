package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/greenbasket/greenbasket/internal/domain/errors"
	"github.com/greenbasket/greenbasket/internal/domain/model"
	"github.com/greenbasket/greenbasket/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentRole extracts the authenticated role from context.
func CurrentRole(c *gin.Context) model.Role {
	val, ok := c.Get(middleware.RoleContextKey)
	if !ok {
		return ""
	}
	role, _ := val.(model.Role)
	return role
}

// statusForError maps the domain error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrInvalidWindow),
		errors.Is(err, domainErrors.ErrSignatureMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrScoreOutOfRange),
		errors.Is(err, domainErrors.ErrReviewTooLong):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidState),
		errors.Is(err, domainErrors.ErrIllegalTransition):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrDependencyFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
