package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrInvalidCredentials  = serrors.Unauthorized("INVALID_CREDENTIALS", "login or password is incorrect")
	ErrNotConfirmed        = serrors.Forbidden("REGISTRATION_NOT_CONFIRMED", "registration is awaiting confirmation")
	ErrNoApplicationAccess = serrors.Forbidden("NO_APPLICATION_ACCESS", "user has no role in this application")
	ErrSessionEnded        = serrors.Unauthorized("SESSION_ENDED", "session is no longer active")
)

// DutyContext is the work poligon state carried in a refreshed token.
type DutyContext struct {
	WorkPoligon workpoligon.WorkPoligon
	Credentials user.CredentialSet
	TakenAt     *time.Time
	PassedAt    *time.Time
}

type LoginResult struct {
	Token  string
	Claims *Claims
}

type AuthService struct {
	users     user.Repository
	roles     role.Repository
	tokens    *TokenService
	sessions  *SessionRegistry
	publisher eventbus.EventBus
	now       func() time.Time
}

func NewAuthService(
	users user.Repository,
	roles role.Repository,
	tokens *TokenService,
	sessions *SessionRegistry,
	publisher eventbus.EventBus,
) *AuthService {
	return &AuthService{
		users:     users,
		roles:     roles,
		tokens:    tokens,
		sessions:  sessions,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, cmd *user.LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	u, err := s.users.GetByLogin(ctx, cmd.Login)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.Confirmed {
		return nil, ErrNotConfirmed
	}

	token, claims, err := s.Issue(ctx, u, cmd.Application, nil)
	if err != nil {
		return nil, err
	}
	composables.UseLogger(ctx).WithFields(logrus.Fields{
		"user-id": u.ID,
		"app":     cmd.Application,
	}).Info("user logged in")
	s.publisher.Publish(ctx, &user.LoggedInEvent{UserID: u.ID, Application: cmd.Application, At: s.now()})
	return &LoginResult{Token: token, Claims: claims}, nil
}

// Authenticate accepts only the token currently registered for the claims'
// (user, application) pair.
func (s *AuthService) Authenticate(raw string) (*Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	if !s.sessions.Current(claims.UserID, claims.Application, raw) {
		return nil, ErrSessionEnded
	}
	return claims, nil
}

// Credentials collects the titles and credentials of the user's roles in
// app. Roles that no longer exist are skipped.
func (s *AuthService) Credentials(ctx context.Context, u *user.User, app string) ([]string, user.CredentialSet, error) {
	var titles, creds []string
	for _, id := range u.Roles {
		r, err := s.roles.GetByID(ctx, id)
		if errors.Is(err, role.ErrRoleNotFound) {
			composables.UseLogger(ctx).WithField("role-id", id).Warn("user references a missing role")
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		if r.Application != app {
			continue
		}
		titles = append(titles, r.Title)
		creds = append(creds, r.Credentials...)
	}
	slices.Sort(titles)
	return titles, user.NewCredentialSet(creds...), nil
}

// Issue mints a token for (u, app), optionally carrying duty state, and
// makes it the live session token.
func (s *AuthService) Issue(ctx context.Context, u *user.User, app string, duty *DutyContext) (string, *Claims, error) {
	roles, creds, err := s.Credentials(ctx, u, app)
	if err != nil {
		return "", nil, err
	}
	if len(roles) == 0 {
		return "", nil, ErrNoApplicationAccess.WithMeta("app", app)
	}
	claims := &Claims{
		UserID:      u.ID,
		Application: app,
		Post:        u.Post,
		Name:        u.Name,
		FatherName:  u.FatherName,
		Surname:     u.Surname,
		Service:     u.Service,
		Roles:       roles,
		Credentials: creds,
	}
	if duty != nil {
		wp := duty.WorkPoligon
		claims.WorkPoligon = &wp
		claims.DutyCredentials = user.NewCredentialSet(duty.Credentials...)
		claims.LastTakeDutyTime = duty.TakenAt
		claims.LastPassDutyTime = duty.PassedAt
	}
	token, err := s.tokens.Mint(claims)
	if err != nil {
		return "", nil, err
	}
	s.sessions.Put(u.ID, app, token)
	return token, claims, nil
}

// Active reports whether (userID, app) has a live session.
func (s *AuthService) Active(userID, app string) bool {
	_, ok := s.sessions.Get(userID, app)
	return ok
}

// EndSession drops the (user, app) session and returns how many application
// sessions the user still has.
func (s *AuthService) EndSession(userID, app string) int {
	return s.sessions.Remove(userID, app)
}
