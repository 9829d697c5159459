package repo_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/iota-uz/railway-dispatch/pkg/repo"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

func TestMapPgError(t *testing.T) {
	assert.NoError(t, repo.MapPgError(nil))

	cases := []struct {
		name string
		err  error
		want serrors.Kind
	}{
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "uq_station_unmc"}, serrors.KindConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, serrors.KindConflict},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, serrors.KindStoreUnavailable},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, serrors.KindInternal},
		{"typed passes through", serrors.NotFound("NODE_NOT_FOUND", "missing"), serrors.KindNotFound},
		{"plain", errors.New("boom"), serrors.KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, serrors.KindOf(repo.MapPgError(tc.err)))
		})
	}
}
