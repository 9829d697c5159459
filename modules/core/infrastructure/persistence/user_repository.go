package persistence

import (
	"context"
	"encoding/json"
	"slices"
	"sort"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence/models"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

// UserRepository keeps identity documents in Redis:
//
//	<prefix>:users              hash  id -> json document
//	<prefix>:logins             hash  login -> id
//	<prefix>:duty:open:<key>    set   ids of users with an open interval for key
//	<prefix>:duty:user:<id>     set   keys the user is currently indexed under
//
// Every write goes through WATCH + MULTI/EXEC so the document and its
// indexes change together.
type UserRepository struct {
	client redis.UniversalClient
	prefix string
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(client redis.UniversalClient, prefix string) *UserRepository {
	return &UserRepository{client: client, prefix: prefix}
}

func (r *UserRepository) usersKey() string {
	return r.prefix + ":users"
}

func (r *UserRepository) loginsKey() string {
	return r.prefix + ":logins"
}

func (r *UserRepository) openKey(dutyKey string) string {
	return r.prefix + ":duty:open:" + dutyKey
}

func (r *UserRepository) userIndexKey(id string) string {
	return r.prefix + ":duty:user:" + id
}

func (r *UserRepository) Begin() user.Session {
	return &redisSession{repo: r}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	return r.write(ctx, []*user.User{u}, true)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	raw, err := r.client.HGet(ctx, r.usersKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, user.ErrUserNotFound.WithMeta("id", id)
	}
	if err != nil {
		return nil, mapRedisError(err, "get user")
	}
	return decodeUser(raw)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	id, err := r.client.HGet(ctx, r.loginsKey(), login).Result()
	if errors.Is(err, redis.Nil) {
		return nil, user.ErrUserNotFound.WithMeta("login", login)
	}
	if err != nil {
		return nil, mapRedisError(err, "get login")
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	all, err := r.client.HGetAll(ctx, r.usersKey()).Result()
	if err != nil {
		return nil, mapRedisError(err, "list users")
	}
	users := make([]*user.User, 0, len(all))
	for _, raw := range all {
		u, err := decodeUser(raw)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Login < users[j].Login })
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	return r.write(ctx, []*user.User{u}, false)
}

func (r *UserRepository) SaveMany(ctx context.Context, users ...*user.User) error {
	if len(users) == 0 {
		return nil
	}
	return r.write(ctx, users, false)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	indexKey := r.userIndexKey(id)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		indexed, err := tx.SMembers(ctx, indexKey).Result()
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HDel(ctx, r.usersKey(), id)
			p.HDel(ctx, r.loginsKey(), u.Login)
			for _, k := range indexed {
				p.SRem(ctx, r.openKey(k), id)
			}
			p.Del(ctx, indexKey)
			return nil
		})
		return err
	}, indexKey, r.loginsKey())
	return mapRedisError(err, "delete user")
}

func (r *UserRepository) OpenDutyHolders(ctx context.Context, wp workpoligon.WorkPoligon, cs user.CredentialSet) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.openKey(user.DutyKey(wp, cs))).Result()
	if err != nil {
		return nil, mapRedisError(err, "open duty holders")
	}
	slices.Sort(ids)
	return ids, nil
}

// write stores users in one MULTI/EXEC. With create set, every login must be
// unused; otherwise every user must already exist.
func (r *UserRepository) write(ctx context.Context, users []*user.User, create bool) error {
	docs := make([][]byte, len(users))
	for i, u := range users {
		data, err := json.Marshal(ToDBUser(u))
		if err != nil {
			return errors.Wrap(err, "encode user")
		}
		docs[i] = data
	}

	watched := []string{r.loginsKey()}
	for _, u := range users {
		watched = append(watched, r.userIndexKey(u.ID))
	}

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		indexed := make(map[string][]string, len(users))
		for _, u := range users {
			if create {
				taken, err := tx.HExists(ctx, r.loginsKey(), u.Login).Result()
				if err != nil {
					return err
				}
				if taken {
					return user.ErrLoginTaken.WithMeta("login", u.Login)
				}
			} else {
				exists, err := tx.HExists(ctx, r.usersKey(), u.ID).Result()
				if err != nil {
					return err
				}
				if !exists {
					return user.ErrUserNotFound.WithMeta("id", u.ID)
				}
			}
			keys, err := tx.SMembers(ctx, r.userIndexKey(u.ID)).Result()
			if err != nil {
				return err
			}
			indexed[u.ID] = keys
		}

		_, err := tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			for i, u := range users {
				p.HSet(ctx, r.usersKey(), u.ID, docs[i])
				p.HSet(ctx, r.loginsKey(), u.Login, u.ID)
				for _, k := range indexed[u.ID] {
					p.SRem(ctx, r.openKey(k), u.ID)
				}
				p.Del(ctx, r.userIndexKey(u.ID))
				open := u.OpenKeys()
				for _, k := range open {
					p.SAdd(ctx, r.openKey(k), u.ID)
				}
				if len(open) > 0 {
					p.SAdd(ctx, r.userIndexKey(u.ID), toArgs(open)...)
				}
			}
			return nil
		})
		return err
	}, watched...)
	return mapRedisError(err, "write users")
}

func decodeUser(raw string) (*user.User, error) {
	var m models.User
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, errors.Wrap(err, "decode user")
	}
	return ToDomainUser(m)
}

func toArgs(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

type redisSession struct {
	repo   *UserRepository
	staged []*user.User
	closed bool
}

func (s *redisSession) Create(u *user.User) {
	s.staged = append(s.staged, u.Clone())
}

func (s *redisSession) Commit(ctx context.Context) error {
	if s.closed {
		return errSessionClosed
	}
	s.closed = true
	if len(s.staged) == 0 {
		return nil
	}
	return s.repo.write(ctx, s.staged, true)
}

func (s *redisSession) Abort() {
	s.staged = nil
	s.closed = true
}
