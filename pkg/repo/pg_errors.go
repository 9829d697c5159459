package repo

import (
	stderrors "errors"
	"net"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

const storeName = "relational"

// MapPgError translates driver errors into the shared taxonomy. Errors that are
// already typed pass through unchanged.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var typed *serrors.Error
	if stderrors.As(err, &typed) {
		return err
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrUniqueViolation.Wrap(err).WithMeta("constraint", pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return ErrForeignKeyViolation.Wrap(err).WithMeta("constraint", pgErr.ConstraintName)
		case "08000", "08003", "08006", "57P01", "57P03": // connection_exception family, admin_shutdown, cannot_connect_now
			return serrors.Unavailable(storeName, err)
		default:
			return errors.Wrapf(err, "database error (%s)", pgErr.Code)
		}
	}

	var connErr *pgconn.ConnectError
	if stderrors.As(err, &connErr) || pgconn.Timeout(err) {
		return serrors.Unavailable(storeName, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return serrors.Unavailable(storeName, err)
	}
	return err
}
