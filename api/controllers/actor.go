package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/api/middleware"
	pkgerrors "github.com/willowrootwellness/willowroot-backend/pkg/errors"
)

// actorFromRequest resolves the authenticated user from the request context.
func actorFromRequest(r *http.Request) (uuid.UUID, string, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return userID, middleware.EmailFromContext(r.Context()), nil
}
