package workpoligon

import (
	"context"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrAlreadyAssigned = serrors.Conflict("WORK_POLIGON_ALREADY_ASSIGNED", "work poligon already assigned to user")
	ErrTargetNotFound  = serrors.NotFound("WORK_POLIGON_TARGET_NOT_FOUND", "work poligon refers to a missing station, work place or sector")
)

// Repository stores which work poligons a user may occupy. Assignments are
// removed through the UserWorkPoligons cascade.
type Repository interface {
	Assign(ctx context.Context, userID string, wps ...WorkPoligon) error
	ListForUser(ctx context.Context, userID string) ([]WorkPoligon, error)
	Holds(ctx context.Context, userID string, wp WorkPoligon) (bool, error)
}
