// Package seed bootstraps the administrative role and its first identity.
package seed

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
)

const (
	AdminRoleID      = "admin"
	AdminApplication = "admin"
	AdminCredential  = "ADMIN"
)

type Admin struct {
	Login    string
	Password string
	Name     string
	Surname  string
}

// CreateAdmin makes sure the admin role exists and that a confirmed identity
// with a.Login holds it. Existing identities are confirmed, never replaced.
func CreateAdmin(ctx context.Context, users *services.UserService, a Admin) (*user.User, error) {
	logger := composables.UseLogger(ctx).WithField("login", a.Login)
	if err := getOrCreateRole(ctx, users, logger); err != nil {
		return nil, err
	}

	u, err := users.Register(ctx, &user.RegisterCommand{
		Login:    a.Login,
		Password: a.Password,
		Name:     a.Name,
		Surname:  a.Surname,
		Roles:    []string{AdminRoleID},
	})
	if errors.Is(err, user.ErrLoginTaken) {
		logger.Info("admin already exists")
		existing, err := users.GetByLogin(ctx, a.Login)
		if err != nil {
			return nil, err
		}
		return users.Confirm(ctx, existing.ID)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("admin created")
	return users.Confirm(ctx, u.ID)
}

func getOrCreateRole(ctx context.Context, users *services.UserService, logger *logrus.Entry) error {
	roles, err := users.ListRoles(ctx)
	if err != nil {
		return err
	}
	for _, r := range roles {
		if r.ID == AdminRoleID {
			return nil
		}
	}
	logger.Infof("creating role %s", AdminRoleID)
	return users.SaveRole(ctx, &role.Role{
		ID:          AdminRoleID,
		Title:       "Administrator",
		Application: AdminApplication,
		Credentials: []string{AdminCredential},
	})
}
