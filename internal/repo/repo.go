package repo

import (
	"context"
	"errors"

	"docshare-sync/internal/models"
)

// ErrUserNotFound is returned when no user exists for the requested id.
var ErrUserNotFound = errors.New("user not found")

// UserRepo looks up registered accounts in the surrounding application's
// store. The relay only needs the read path.
type UserRepo interface {
	FindByID(ctx context.Context, id int64) (models.User, error)
}
