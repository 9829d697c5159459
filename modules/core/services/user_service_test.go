package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	infrapersistence "github.com/iota-uz/railway-dispatch/modules/infra/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
	"github.com/iota-uz/railway-dispatch/pkg/saga"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var orders = []string{
	configuration.RegistrationOrderRelationalFirst,
	configuration.RegistrationOrderDocumentFirst,
}

func TestUserService_Register(t *testing.T) {
	for _, order := range orders {
		t.Run(order, func(t *testing.T) {
			t.Run("commits both stores", func(t *testing.T) {
				e := newEnv(t, order)
				var events []*user.RegisteredEvent
				e.bus.Subscribe(func(_ context.Context, ev *user.RegisteredEvent) {
					events = append(events, ev)
				})

				u, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
				require.NoError(t, err)

				stored, err := e.users.GetByID(e.ctx, u.ID)
				require.NoError(t, err)
				assert.False(t, stored.Confirmed)
				assert.NotEqual(t, "secret1", stored.PasswordHash)
				wps, err := e.infra.UserWorkPoligons(e.ctx, u.ID)
				require.NoError(t, err)
				assert.Len(t, wps, 2)
				require.Len(t, events, 1)
				assert.Equal(t, 2, events[0].WorkPoligons)
			})

			t.Run("relational conflict leaves no document", func(t *testing.T) {
				e := newEnv(t, order)
				cmd := e.registerCommand("ivan")
				cmd.WorkPoligons = append(cmd.WorkPoligons, cmd.WorkPoligons[0])

				_, err := e.service.Register(e.ctx, cmd)
				require.ErrorIs(t, err, workpoligon.ErrAlreadyAssigned)
				assert.Equal(t, serrors.KindConflict, serrors.KindOf(err))
				var sagaErr *saga.Error
				require.ErrorAs(t, err, &sagaErr)
				assert.True(t, sagaErr.Compensated())

				assert.Zero(t, e.userCount(t))
				assert.Zero(t, e.junctionRows())
				_, err = e.users.GetByLogin(e.ctx, "ivan")
				assert.ErrorIs(t, err, user.ErrUserNotFound)
			})

			t.Run("missing target rolls back", func(t *testing.T) {
				e := newEnv(t, order)
				cmd := e.registerCommand("ivan")
				cmd.WorkPoligons = append(cmd.WorkPoligons, workpoligon.New(workpoligon.EcdSector, 404))

				_, err := e.service.Register(e.ctx, cmd)
				require.ErrorIs(t, err, workpoligon.ErrTargetNotFound)
				assert.Zero(t, e.userCount(t))
				assert.Zero(t, e.junctionRows())
			})

			t.Run("fails fast on taken login", func(t *testing.T) {
				e := newEnv(t, order)
				_, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
				require.NoError(t, err)
				rows := e.junctionRows()

				_, err = e.service.Register(e.ctx, e.registerCommand("ivan"))
				require.ErrorIs(t, err, user.ErrLoginTaken)
				assert.Equal(t, rows, e.junctionRows())
			})

			t.Run("fails fast on unknown role", func(t *testing.T) {
				e := newEnv(t, order)
				cmd := e.registerCommand("ivan")
				cmd.Roles = []string{"ghost"}
				_, err := e.service.Register(e.ctx, cmd)
				require.ErrorIs(t, err, role.ErrRoleNotFound)
				assert.Zero(t, e.junctionRows())
			})
		})
	}
}

func TestUserService_Register_DocumentCommitFailureCompensatesRows(t *testing.T) {
	e := newEnv(t, configuration.RegistrationOrderRelationalFirst)
	unavailable := serrors.Unavailable("document", errors.New("connection reset"))
	e.users.FailWith(func(op string) error {
		if op == "commit" {
			return unavailable
		}
		return nil
	})

	_, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
	require.Error(t, err)
	assert.Equal(t, serrors.KindStoreUnavailable, serrors.KindOf(err))
	var sagaErr *saga.Error
	require.ErrorAs(t, err, &sagaErr)
	assert.Equal(t, "commit-identity", sagaErr.Step)
	assert.True(t, sagaErr.Compensated())

	assert.Zero(t, e.junctionRows())
	assert.Zero(t, e.userCount(t))
}

func TestUserService_Register_DocumentFirstCompensationFailure(t *testing.T) {
	e := newEnv(t, configuration.RegistrationOrderDocumentFirst)
	e.users.FailWith(func(op string) error {
		if op == "delete" {
			return errors.New("document store went away")
		}
		return nil
	})
	e.tables.FailWith(func(op, table string) error {
		if op == "insert" && table == infrapersistence.DncWorkPoligonsTable {
			return errors.New("relational store went away")
		}
		return nil
	})

	_, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
	require.ErrorIs(t, err, saga.ErrCompensationFailed)
	assert.Equal(t, serrors.KindSagaCompensationFailed, serrors.KindOf(err))
	// the relational transaction itself rolled back
	assert.Zero(t, e.junctionRows())
	assert.Equal(t, 1, e.userCount(t))
}

func TestUserService_Delete(t *testing.T) {
	t.Run("removes both sides", func(t *testing.T) {
		e := newEnv(t, configuration.RegistrationOrderRelationalFirst)
		u, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
		require.NoError(t, err)
		e.sessions.Put(u.ID, app, "token")
		var deleted []*user.DeletedEvent
		e.bus.Subscribe(func(_ context.Context, ev *user.DeletedEvent) {
			deleted = append(deleted, ev)
		})

		require.NoError(t, e.service.Delete(e.ctx, &user.DeleteCommand{UserID: u.ID}))
		assert.Zero(t, e.userCount(t))
		assert.Zero(t, e.junctionRows())
		assert.Zero(t, e.sessions.Users())
		require.Len(t, deleted, 1)
		assert.Equal(t, int64(2), deleted[0].WorkPoligons)
	})

	t.Run("unknown user", func(t *testing.T) {
		e := newEnv(t, configuration.RegistrationOrderRelationalFirst)
		err := e.service.Delete(e.ctx, &user.DeleteCommand{UserID: "ghost"})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("relational failure is reported uncompensated", func(t *testing.T) {
		e := newEnv(t, configuration.RegistrationOrderRelationalFirst)
		u, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
		require.NoError(t, err)
		e.tables.FailWith(func(op, table string) error {
			if op == "delete" {
				return errors.New("relational store went away")
			}
			return nil
		})

		err = e.service.Delete(e.ctx, &user.DeleteCommand{UserID: u.ID})
		require.ErrorIs(t, err, saga.ErrUncompensated)
		var sagaErr *saga.Error
		require.ErrorAs(t, err, &sagaErr)
		assert.Equal(t, []string{"delete-identity"}, sagaErr.Uncompensated)
		assert.Zero(t, e.userCount(t))
		assert.Equal(t, 2, e.junctionRows())
	})
}

func TestUserService_Confirm(t *testing.T) {
	e := newEnv(t, configuration.RegistrationOrderRelationalFirst)
	u, err := e.service.Register(e.ctx, e.registerCommand("ivan"))
	require.NoError(t, err)

	confirmed, err := e.service.Confirm(e.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, confirmed.Confirmed)

	stored, err := e.service.GetByID(e.ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Confirmed)

	_, err = e.service.Confirm(e.ctx, "ghost")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserService_Roles(t *testing.T) {
	e := newEnv(t, configuration.RegistrationOrderRelationalFirst)
	err := e.service.SaveRole(e.ctx, &role.Role{ID: "ecd", Title: "", Application: app})
	assert.Equal(t, serrors.KindValidation, serrors.KindOf(err))

	require.NoError(t, e.service.SaveRole(e.ctx, &role.Role{ID: "ecd", Title: "Power dispatcher", Application: app, Credentials: []string{"ECD"}}))
	roles, err := e.service.ListRoles(e.ctx)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
	require.NoError(t, e.service.DeleteRole(e.ctx, "ecd"))
}
