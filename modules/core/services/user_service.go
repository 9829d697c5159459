package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/configuration"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/saga"
)

const (
	storeDocument   = "document"
	storeRelational = "relational"
)

// WorkPoligonAssigner owns the relational side of a user: the work poligon
// junction rows. Each call runs in its own relational transaction.
type WorkPoligonAssigner interface {
	AssignWorkPoligons(ctx context.Context, userID string, wps ...workpoligon.WorkPoligon) error
	RemoveUserWorkPoligons(ctx context.Context, userID string) (int64, error)
}

type UserService struct {
	users     user.Repository
	roles     role.Repository
	poligons  WorkPoligonAssigner
	sessions  *SessionRegistry
	publisher eventbus.EventBus
	order     string
	hashCost  int
	now       func() time.Time
}

func NewUserService(
	users user.Repository,
	roles role.Repository,
	poligons WorkPoligonAssigner,
	sessions *SessionRegistry,
	publisher eventbus.EventBus,
	registrationOrder string,
) *UserService {
	return &UserService{
		users:     users,
		roles:     roles,
		poligons:  poligons,
		sessions:  sessions,
		publisher: publisher,
		order:     registrationOrder,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}
}

// WithHashCost sets the bcrypt cost for new passwords.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// Register creates the identity document and its work poligon rows. Either
// both exist afterwards or, after compensation, neither does.
func (s *UserService) Register(ctx context.Context, cmd *user.RegisterCommand) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	_, err := s.users.GetByLogin(ctx, cmd.Login)
	if err == nil {
		return nil, user.ErrLoginTaken.WithMeta("login", cmd.Login)
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}
	for _, id := range cmd.Roles {
		if _, err := s.roles.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Login:        cmd.Login,
		PasswordHash: string(hash),
		Post:         cmd.Post,
		Name:         cmd.Name,
		FatherName:   cmd.FatherName,
		Surname:      cmd.Surname,
		Service:      cmd.Service,
		Roles:        cmd.Roles,
		CreatedAt:    s.now(),
	}
	if _, err := s.registrationSaga(u, cmd.WorkPoligons).Run(ctx); err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, &user.RegisteredEvent{
		UserID:       u.ID,
		Login:        u.Login,
		WorkPoligons: len(cmd.WorkPoligons),
		At:           s.now(),
	})
	return u, nil
}

func (s *UserService) registrationSaga(u *user.User, wps []workpoligon.WorkPoligon) *saga.Saga {
	assign := saga.Step{
		Name:  "assign-work-poligons",
		Store: storeRelational,
		Forward: func(ctx context.Context) error {
			return s.poligons.AssignWorkPoligons(ctx, u.ID, wps...)
		},
		Compensate: func(ctx context.Context) error {
			_, err := s.poligons.RemoveUserWorkPoligons(ctx, u.ID)
			return err
		},
	}

	if s.order == configuration.RegistrationOrderDocumentFirst {
		return saga.New("register-user",
			saga.Step{
				Name:  "create-identity",
				Store: storeDocument,
				Forward: func(ctx context.Context) error {
					return s.users.Create(ctx, u)
				},
				Compensate: func(ctx context.Context) error {
					return s.users.Delete(ctx, u.ID)
				},
			},
			assign,
		)
	}

	// The document is staged first and committed last; until the commit
	// nothing is visible, so aborting the session is its whole compensation.
	session := s.users.Begin()
	return saga.New("register-user",
		saga.Step{
			Name:  "stage-identity",
			Store: storeDocument,
			Forward: func(context.Context) error {
				session.Create(u)
				return nil
			},
			Compensate: func(context.Context) error {
				session.Abort()
				return nil
			},
		},
		assign,
		saga.Step{
			Name:    "commit-identity",
			Store:   storeDocument,
			Forward: session.Commit,
		},
	)
}

// Delete removes the identity document, then the user's work poligon rows.
// Re-creating a deleted document is not attempted: a failure in the second
// step surfaces as saga.ErrUncompensated.
func (s *UserService) Delete(ctx context.Context, cmd *user.DeleteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return err
	}

	var removed int64
	res, err := saga.New("delete-user",
		saga.Step{
			Name:  "delete-identity",
			Store: storeDocument,
			Forward: func(ctx context.Context) error {
				return s.users.Delete(ctx, u.ID)
			},
		},
		saga.Step{
			Name:  "remove-work-poligons",
			Store: storeRelational,
			Forward: func(ctx context.Context) error {
				n, err := s.poligons.RemoveUserWorkPoligons(ctx, u.ID)
				removed = n
				return err
			},
		},
	).Run(ctx)
	if res.Steps[0].Status != saga.StepFailed {
		s.sessions.RemoveUser(u.ID)
	}
	if err != nil {
		return err
	}
	s.publisher.Publish(ctx, &user.DeletedEvent{
		UserID:       u.ID,
		Login:        u.Login,
		WorkPoligons: removed,
		At:           s.now(),
	})
	return nil
}

func (s *UserService) Confirm(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Confirmed {
		return u, nil
	}
	u.Confirmed = true
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, &user.ConfirmedEvent{UserID: u.ID, At: s.now()})
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	return s.users.GetByLogin(ctx, login)
}

func (s *UserService) List(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) SaveRole(ctx context.Context, r *role.Role) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return s.roles.Save(ctx, r)
}

func (s *UserService) ListRoles(ctx context.Context) ([]*role.Role, error) {
	return s.roles.List(ctx)
}

func (s *UserService) DeleteRole(ctx context.Context, id string) error {
	return s.roles.Delete(ctx, id)
}
