package persistence

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence/models"
)

type RoleRepository struct {
	client redis.UniversalClient
	prefix string
}

var _ role.Repository = (*RoleRepository)(nil)

func NewRoleRepository(client redis.UniversalClient, prefix string) *RoleRepository {
	return &RoleRepository{client: client, prefix: prefix}
}

func (r *RoleRepository) key() string {
	return r.prefix + ":roles"
}

func (r *RoleRepository) Save(ctx context.Context, rl *role.Role) error {
	data, err := json.Marshal(ToDBRole(rl))
	if err != nil {
		return errors.Wrap(err, "encode role")
	}
	return mapRedisError(r.client.HSet(ctx, r.key(), rl.ID, data).Err(), "save role")
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*role.Role, error) {
	raw, err := r.client.HGet(ctx, r.key(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, role.ErrRoleNotFound.WithMeta("id", id)
	}
	if err != nil {
		return nil, mapRedisError(err, "get role")
	}
	return decodeRole(raw)
}

func (r *RoleRepository) List(ctx context.Context) ([]*role.Role, error) {
	all, err := r.client.HGetAll(ctx, r.key()).Result()
	if err != nil {
		return nil, mapRedisError(err, "list roles")
	}
	roles := make([]*role.Role, 0, len(all))
	for _, raw := range all {
		rl, err := decodeRole(raw)
		if err != nil {
			return nil, err
		}
		roles = append(roles, rl)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
	return roles, nil
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	n, err := r.client.HDel(ctx, r.key(), id).Result()
	if err != nil {
		return mapRedisError(err, "delete role")
	}
	if n == 0 {
		return role.ErrRoleNotFound.WithMeta("id", id)
	}
	return nil
}

func decodeRole(raw string) (*role.Role, error) {
	var m models.Role
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, errors.Wrap(err, "decode role")
	}
	return ToDomainRole(m), nil
}
