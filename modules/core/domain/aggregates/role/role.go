package role

import (
	"context"
	"strings"

	"github.com/iota-uz/railway-dispatch/pkg/constants"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var ErrRoleNotFound = serrors.NotFound("ROLE_NOT_FOUND", "role not found")

// Role groups the credentials a user receives in one front-end application.
type Role struct {
	ID          string   `json:"id" validate:"required,max=64"`
	Title       string   `json:"title" validate:"required,max=255"`
	Application string   `json:"application" validate:"required,max=64"`
	Credentials []string `json:"credentials" validate:"dive,required"`
}

func (r *Role) Validate() error {
	r.ID = strings.TrimSpace(r.ID)
	r.Title = strings.TrimSpace(r.Title)
	return serrors.FromValidator(constants.Validate.Struct(r))
}

type Repository interface {
	Save(ctx context.Context, r *Role) error
	GetByID(ctx context.Context, id string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Delete(ctx context.Context, id string) error
}
