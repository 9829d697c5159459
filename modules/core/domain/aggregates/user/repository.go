package user

import (
	"context"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrUserNotFound     = serrors.NotFound("USER_NOT_FOUND", "user not found")
	ErrLoginTaken       = serrors.Conflict("LOGIN_TAKEN", "login is already registered")
	ErrConcurrentUpdate = serrors.Conflict("CONCURRENT_UPDATE", "identity changed concurrently, retry")
)

// Session stages document writes. Nothing is visible to readers until
// Commit; Abort discards the staged writes.
type Session interface {
	Create(u *User)
	Commit(ctx context.Context) error
	Abort()
}

type Repository interface {
	Begin() Session
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Save(ctx context.Context, u *User) error
	// SaveMany writes all users or none.
	SaveMany(ctx context.Context, users ...*User) error
	Delete(ctx context.Context, id string) error
	// OpenDutyHolders returns the ids of users with an open interval for
	// the key.
	OpenDutyHolders(ctx context.Context, wp workpoligon.WorkPoligon, cs CredentialSet) ([]string, error)
}
