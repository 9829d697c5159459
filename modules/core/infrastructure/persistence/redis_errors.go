package persistence

import (
	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

const documentStore = "document"

var errSessionClosed = errors.New("document session already closed")

// mapRedisError keeps typed errors, turns a lost WATCH race into
// ErrConcurrentUpdate and anything that is not a server reply into
// StoreUnavailable.
func mapRedisError(err error, op string) error {
	if err == nil {
		return nil
	}
	var typed *serrors.Error
	if stderrors.As(err, &typed) {
		return err
	}
	if stderrors.Is(err, redis.TxFailedErr) {
		return user.ErrConcurrentUpdate.Wrap(err)
	}
	var reply redis.Error
	if stderrors.As(err, &reply) {
		return errors.Wrap(err, op)
	}
	return serrors.Unavailable(documentStore, errors.Wrap(err, op))
}
