package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/itf"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

const prefix = "dispatch-test"

func newRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type repoFactory func(t *testing.T) user.Repository

func factories() map[string]repoFactory {
	return map[string]repoFactory{
		"redis": func(t *testing.T) user.Repository {
			_, client := newRedis(t)
			return persistence.NewUserRepository(client, prefix)
		},
		"inmem": func(t *testing.T) user.Repository {
			return persistence.NewInmemUserRepository()
		},
	}
}

var (
	takenAt = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	station = workpoligon.New(workpoligon.Station, 5)
	dsp     = user.NewCredentialSet("DSP")
)

func newUser(id, login string) *user.User {
	return &user.User{
		ID:        id,
		Login:     login,
		Name:      "Ivan",
		Surname:   "Petrov",
		Roles:     []string{"dsp"},
		CreatedAt: takenAt,
	}
}

func TestUserRepository(t *testing.T) {
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			t.Run("create and read back", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				u := newUser("u1", "ivan")
				_, err := u.TakeDuty(workpoligon.NewWorkPlace(5, 2), dsp, takenAt)
				require.NoError(t, err)
				require.NoError(t, r.Create(ctx, u))

				got, err := r.GetByID(ctx, "u1")
				require.NoError(t, err)
				assert.Equal(t, "ivan", got.Login)
				require.Len(t, got.DutyIntervals, 1)
				assert.True(t, got.DutyIntervals[0].WorkPoligon.Equal(workpoligon.NewWorkPlace(5, 2)))
				assert.True(t, got.DutyIntervals[0].TakenAt.Equal(takenAt))

				byLogin, err := r.GetByLogin(ctx, "ivan")
				require.NoError(t, err)
				assert.Equal(t, "u1", byLogin.ID)

				_, err = r.GetByID(ctx, "missing")
				assert.ErrorIs(t, err, user.ErrUserNotFound)
			})

			t.Run("login is unique", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				require.NoError(t, r.Create(ctx, newUser("u1", "ivan")))
				err := r.Create(ctx, newUser("u2", "ivan"))
				require.ErrorIs(t, err, user.ErrLoginTaken)
				assert.Equal(t, serrors.KindConflict, serrors.KindOf(err))
				_, err = r.GetByID(ctx, "u2")
				assert.ErrorIs(t, err, user.ErrUserNotFound)
			})

			t.Run("session stages until commit", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				s := r.Begin()
				s.Create(newUser("u1", "ivan"))
				_, err := r.GetByID(ctx, "u1")
				require.ErrorIs(t, err, user.ErrUserNotFound)

				require.NoError(t, s.Commit(ctx))
				_, err = r.GetByID(ctx, "u1")
				require.NoError(t, err)
				assert.Error(t, s.Commit(ctx))

				aborted := r.Begin()
				aborted.Create(newUser("u2", "petr"))
				aborted.Abort()
				assert.Error(t, aborted.Commit(ctx))
				_, err = r.GetByLogin(ctx, "petr")
				assert.ErrorIs(t, err, user.ErrUserNotFound)
			})

			t.Run("open duty index follows saves", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				a, b := newUser("a", "a"), newUser("b", "b")
				require.NoError(t, r.Create(ctx, a))
				require.NoError(t, r.Create(ctx, b))

				_, err := a.TakeDuty(station, dsp, takenAt)
				require.NoError(t, err)
				require.NoError(t, r.Save(ctx, a))
				holders, err := r.OpenDutyHolders(ctx, station, dsp)
				require.NoError(t, err)
				assert.Equal(t, []string{"a"}, holders)

				later := takenAt.Add(time.Hour)
				a.Preempt(station, dsp, later)
				_, err = b.TakeDuty(station, dsp, later)
				require.NoError(t, err)
				require.NoError(t, r.SaveMany(ctx, a, b))
				holders, err = r.OpenDutyHolders(ctx, station, dsp)
				require.NoError(t, err)
				assert.Equal(t, []string{"b"}, holders)

				holders, err = r.OpenDutyHolders(ctx, station, user.NewCredentialSet("DSP", "DSP_Operator"))
				require.NoError(t, err)
				assert.Empty(t, holders)
			})

			t.Run("save many is all or nothing", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				a := newUser("a", "a")
				require.NoError(t, r.Create(ctx, a))
				a.Confirmed = true

				err := r.SaveMany(ctx, a, newUser("ghost", "ghost"))
				require.ErrorIs(t, err, user.ErrUserNotFound)
				got, err := r.GetByID(ctx, "a")
				require.NoError(t, err)
				assert.False(t, got.Confirmed)
			})

			t.Run("delete clears document login and index", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				a := newUser("a", "a")
				_, err := a.TakeDuty(station, dsp, takenAt)
				require.NoError(t, err)
				require.NoError(t, r.Create(ctx, a))

				require.NoError(t, r.Delete(ctx, "a"))
				_, err = r.GetByLogin(ctx, "a")
				assert.ErrorIs(t, err, user.ErrUserNotFound)
				holders, err := r.OpenDutyHolders(ctx, station, dsp)
				require.NoError(t, err)
				assert.Empty(t, holders)
				assert.ErrorIs(t, r.Delete(ctx, "a"), user.ErrUserNotFound)

				require.NoError(t, r.Create(ctx, newUser("a2", "a")))
			})

			t.Run("list is ordered by login", func(t *testing.T) {
				r, ctx := factory(t), itf.Ctx(t)
				require.NoError(t, r.Create(ctx, newUser("2", "zoya")))
				require.NoError(t, r.Create(ctx, newUser("1", "anna")))
				list, err := r.List(ctx)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, "anna", list[0].Login)
			})
		})
	}
}

func TestUserRepository_RedisLayout(t *testing.T) {
	mr, client := newRedis(t)
	r := persistence.NewUserRepository(client, prefix)
	ctx := itf.Ctx(t)

	u := newUser("u1", "ivan")
	_, err := u.TakeDuty(station, dsp, takenAt)
	require.NoError(t, err)
	require.NoError(t, r.Create(ctx, u))

	assert.Equal(t, "u1", mr.HGet(prefix+":logins", "ivan"))
	assert.True(t, mr.Exists(prefix+":users"))
	members, err := mr.SMembers(prefix + ":duty:open:station:5|DSP")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, members)
}

func TestUserRepository_RedisUnavailable(t *testing.T) {
	mr, client := newRedis(t)
	r := persistence.NewUserRepository(client, prefix)
	mr.Close()

	ctx, cancel := context.WithTimeout(itf.Ctx(t), 5*time.Second)
	defer cancel()
	_, err := r.GetByID(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, serrors.KindStoreUnavailable, serrors.KindOf(err))
}

func TestRoleRepository(t *testing.T) {
	_, client := newRedis(t)
	repos := map[string]role.Repository{
		"redis": persistence.NewRoleRepository(client, prefix),
		"inmem": persistence.NewInmemRoleRepository(),
	}
	for name, r := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := itf.Ctx(t)
			require.NoError(t, r.Save(ctx, &role.Role{ID: "dsp", Title: "Station duty officer", Application: "dy58", Credentials: []string{"DSP"}}))
			require.NoError(t, r.Save(ctx, &role.Role{ID: "admin", Title: "Admin", Application: "admin", Credentials: []string{"ADMIN"}}))

			got, err := r.GetByID(ctx, "dsp")
			require.NoError(t, err)
			assert.Equal(t, []string{"DSP"}, got.Credentials)

			list, err := r.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "admin", list[0].ID)

			require.NoError(t, r.Delete(ctx, "admin"))
			assert.ErrorIs(t, r.Delete(ctx, "admin"), role.ErrRoleNotFound)
			_, err = r.GetByID(ctx, "admin")
			assert.ErrorIs(t, err, role.ErrRoleNotFound)
		})
	}
}
