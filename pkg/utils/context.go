package utils

import (
	"context"

	"snab-system/pkg/constants"
	"snab-system/pkg/contextkeys"
	apperrors "snab-system/pkg/errors"
)

// ActorFromContext достает ID и роль текущего пользователя, положенные auth-middleware.
func ActorFromContext(ctx context.Context) (uint64, constants.Role, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, "", apperrors.ErrUserIDNotFoundInContext
	}
	role, ok := ctx.Value(contextkeys.UserRoleKey).(constants.Role)
	if !ok || role == "" {
		return 0, "", apperrors.ErrUserIDNotFoundInContext
	}
	return userID, role, nil
}
