package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/duty/domain/duty"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrWorkPoligonNotHeld = serrors.Forbidden("WORK_POLIGON_NOT_HELD", "work poligon is not assigned to the user")
	ErrCredentialNotHeld  = serrors.Forbidden("CREDENTIAL_NOT_HELD", "user does not hold the requested credentials")
)

type PoligonChecker interface {
	HoldsWorkPoligon(ctx context.Context, userID string, wp workpoligon.WorkPoligon) (bool, error)
}

// DutyService drives the per (user, work poligon, credential set) duty state
// machine: NeverDutied, OnDuty, OffDuty.
type DutyService struct {
	users     user.Repository
	auth      *coreservices.AuthService
	poligons  PoligonChecker
	publisher eventbus.EventBus
	now       func() time.Time
}

func NewDutyService(
	users user.Repository,
	auth *coreservices.AuthService,
	poligons PoligonChecker,
	publisher eventbus.EventBus,
) *DutyService {
	return &DutyService{
		users:     users,
		auth:      auth,
		poligons:  poligons,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *DutyService) WithClock(now func() time.Time) *DutyService {
	s.now = now
	return s
}

// StartWithoutTakingDuty attaches the session to the work poligon and
// restores any prior interval for the key without touching timestamps.
func (s *DutyService) StartWithoutTakingDuty(ctx context.Context, cmd *duty.Command) (*duty.Result, error) {
	u, err := s.prepare(ctx, cmd, true)
	if err != nil {
		return nil, err
	}
	cs := cmd.CredentialSet()
	res := &duty.Result{State: user.NeverDutied, WorkPoligon: cmd.WorkPoligon, Credentials: cs}
	if d, ok := u.Interval(cmd.WorkPoligon, cs); ok {
		res.State = d.State()
		res.TakenAt = d.TakenAt
		res.PassedAt = d.PassedAt
	}
	if err := s.refresh(ctx, u, cmd.Application, res); err != nil {
		return nil, err
	}
	metricsSingleton().transitions.WithLabelValues("start").Inc()
	return res, nil
}

// TakeDuty opens the user's interval for the key and closes every other
// user's open interval for it. The taker and all pre-empted occupants are
// written with one SaveMany.
func (s *DutyService) TakeDuty(ctx context.Context, cmd *duty.Command) (*duty.Result, error) {
	u, err := s.prepare(ctx, cmd, true)
	if err != nil {
		return nil, err
	}
	cs := cmd.CredentialSet()
	if d, ok := u.Interval(cmd.WorkPoligon, cs); ok && d.Open() {
		return nil, user.ErrAlreadyOnDuty.WithMeta("workPoligon", cmd.WorkPoligon.Key())
	}

	holders, err := s.users.OpenDutyHolders(ctx, cmd.WorkPoligon, cs)
	if err != nil {
		return nil, err
	}
	var occupants []*user.User
	for _, id := range holders {
		if id == u.ID {
			continue
		}
		other, err := s.users.GetByID(ctx, id)
		if errors.Is(err, user.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		occupants = append(occupants, other)
	}

	now := takeInstant(s.now(), cmd.WorkPoligon, cs, u, occupants)
	d, err := u.TakeDuty(cmd.WorkPoligon, cs, now)
	if err != nil {
		return nil, err
	}
	changed := []*user.User{u}
	var preempted []string
	for _, other := range occupants {
		if other.Preempt(cmd.WorkPoligon, cs, now) {
			changed = append(changed, other)
			preempted = append(preempted, other.ID)
		}
	}
	if err := s.users.SaveMany(ctx, changed...); err != nil {
		return nil, err
	}

	res := &duty.Result{
		State:       d.State(),
		WorkPoligon: cmd.WorkPoligon,
		Credentials: cs,
		TakenAt:     d.TakenAt,
		PassedAt:    d.PassedAt,
		Preempted:   preempted,
	}
	if err := s.refresh(ctx, u, cmd.Application, res); err != nil {
		return nil, err
	}

	metricsSingleton().transitions.WithLabelValues("take").Inc()
	metricsSingleton().preemptions.Add(float64(len(preempted)))
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"user-id":      u.ID,
		"work-poligon": cmd.WorkPoligon.Key(),
		"credentials":  cs.Key(),
	})
	logger.WithField("preempted", len(preempted)).Info("duty taken")
	s.publisher.Publish(ctx, &duty.TakenEvent{
		UserID:      u.ID,
		WorkPoligon: cmd.WorkPoligon,
		Credentials: cs,
		TakenAt:     now,
		Preempted:   preempted,
	})
	for _, id := range preempted {
		s.publisher.Publish(ctx, &duty.PreemptedEvent{
			UserID:      id,
			By:          u.ID,
			WorkPoligon: cmd.WorkPoligon,
			Credentials: cs,
			PassedAt:    now,
		})
	}
	return res, nil
}

// takeInstant returns now, moved past every occupant's TakenAt and the
// taker's own last PassedAt for the key. Passing at an instant equal to
// TakenAt would leave the occupant's interval open.
func takeInstant(now time.Time, wp workpoligon.WorkPoligon, cs user.CredentialSet, taker *user.User, occupants []*user.User) time.Time {
	if d, ok := taker.Interval(wp, cs); ok && d.PassedAt != nil && d.PassedAt.After(now) {
		now = *d.PassedAt
	}
	for _, o := range occupants {
		d, ok := o.Interval(wp, cs)
		if !ok || !d.Open() {
			continue
		}
		if !now.After(*d.TakenAt) {
			now = d.TakenAt.Add(time.Nanosecond)
		}
	}
	return now
}

// Logout ends the application session. Open intervals stay open.
func (s *DutyService) Logout(ctx context.Context, cmd *duty.LogoutCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	remaining := s.auth.EndSession(cmd.UserID, cmd.Application)
	metricsSingleton().transitions.WithLabelValues("logout").Inc()
	s.publisher.Publish(ctx, &duty.LoggedOutEvent{
		UserID:      cmd.UserID,
		Application: cmd.Application,
		Remaining:   remaining,
		At:          s.now(),
	})
	return remaining, nil
}

// LogoutWithDutyPass closes the open interval for the key, then ends the
// session.
func (s *DutyService) LogoutWithDutyPass(ctx context.Context, cmd *duty.Command) (*duty.Result, error) {
	u, err := s.prepare(ctx, cmd, false)
	if err != nil {
		return nil, err
	}
	cs := cmd.CredentialSet()
	now := s.now()
	d, err := u.PassDuty(cmd.WorkPoligon, cs, now)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	s.auth.EndSession(u.ID, cmd.Application)

	metricsSingleton().transitions.WithLabelValues("pass").Inc()
	s.publisher.Publish(ctx, &duty.PassedEvent{
		UserID:      u.ID,
		WorkPoligon: cmd.WorkPoligon,
		Credentials: cs,
		PassedAt:    now,
	})
	return &duty.Result{
		State:       d.State(),
		WorkPoligon: cmd.WorkPoligon,
		Credentials: cs,
		TakenAt:     d.TakenAt,
		PassedAt:    d.PassedAt,
	}, nil
}

// prepare validates cmd, requires a live session and loads the user. With
// authorize set it also checks the work poligon assignment and credentials.
func (s *DutyService) prepare(ctx context.Context, cmd *duty.Command, authorize bool) (*user.User, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if !s.auth.Active(cmd.UserID, cmd.Application) {
		return nil, coreservices.ErrSessionEnded
	}
	u, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if !authorize {
		return u, nil
	}

	holds, err := s.poligons.HoldsWorkPoligon(ctx, u.ID, cmd.WorkPoligon)
	if err != nil {
		return nil, err
	}
	if !holds {
		return nil, ErrWorkPoligonNotHeld.WithMeta("workPoligon", cmd.WorkPoligon.Key())
	}
	_, held, err := s.auth.Credentials(ctx, u, cmd.Application)
	if err != nil {
		return nil, err
	}
	if missing := cmd.CredentialSet().Missing(held); len(missing) > 0 {
		return nil, ErrCredentialNotHeld.WithMeta("missing", user.CredentialSet(missing).Key())
	}
	return u, nil
}

func (s *DutyService) refresh(ctx context.Context, u *user.User, app string, res *duty.Result) error {
	token, _, err := s.auth.Issue(ctx, u, app, &coreservices.DutyContext{
		WorkPoligon: res.WorkPoligon,
		Credentials: res.Credentials,
		TakenAt:     res.TakenAt,
		PassedAt:    res.PassedAt,
	})
	if err != nil {
		return err
	}
	res.Token = token
	return nil
}
