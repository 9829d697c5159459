package user

import (
	"slices"
	"time"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrAlreadyOnDuty = serrors.NewError(serrors.KindAlreadyOnDuty, "ALREADY_ON_DUTY", "user is already on duty")
	ErrNoDutyToPass  = serrors.NewError(serrors.KindNoDutyToPass, "NO_DUTY_TO_PASS", "no open duty to pass")
)

// User is the identity document. DutyIntervals holds one entry per distinct
// (work poligon, credential set) the user has ever taken duty on.
type User struct {
	ID            string
	Login         string
	PasswordHash  string
	Post          string
	Name          string
	FatherName    string
	Surname       string
	Service       string
	Roles         []string
	Confirmed     bool
	DutyIntervals []DutyInterval
	CreatedAt     time.Time
}

func (u *User) Interval(wp workpoligon.WorkPoligon, cs CredentialSet) (*DutyInterval, bool) {
	for i := range u.DutyIntervals {
		if u.DutyIntervals[i].Matches(wp, cs) {
			return &u.DutyIntervals[i], true
		}
	}
	return nil, false
}

func (u *User) DutyState(wp workpoligon.WorkPoligon, cs CredentialSet) DutyState {
	d, ok := u.Interval(wp, cs)
	if !ok {
		return NeverDutied
	}
	return d.State()
}

// TakeDuty opens the matching interval at now, appending one when the key
// was never used.
func (u *User) TakeDuty(wp workpoligon.WorkPoligon, cs CredentialSet, now time.Time) (*DutyInterval, error) {
	if d, ok := u.Interval(wp, cs); ok {
		if d.Open() {
			return nil, ErrAlreadyOnDuty.WithMeta("workPoligon", wp.Key())
		}
		d.TakenAt = &now
		return d, nil
	}
	u.DutyIntervals = append(u.DutyIntervals, DutyInterval{
		WorkPoligon: wp,
		Credentials: NewCredentialSet(cs...),
		TakenAt:     &now,
	})
	return &u.DutyIntervals[len(u.DutyIntervals)-1], nil
}

func (u *User) PassDuty(wp workpoligon.WorkPoligon, cs CredentialSet, now time.Time) (*DutyInterval, error) {
	d, ok := u.Interval(wp, cs)
	if !ok || !d.Open() {
		return nil, ErrNoDutyToPass.WithMeta("workPoligon", wp.Key())
	}
	d.PassedAt = &now
	return d, nil
}

// Preempt closes the user's open interval for the key, reporting whether
// anything changed.
func (u *User) Preempt(wp workpoligon.WorkPoligon, cs CredentialSet, now time.Time) bool {
	d, ok := u.Interval(wp, cs)
	if !ok || !d.Open() {
		return false
	}
	d.PassedAt = &now
	return true
}

// OpenKeys lists the duty keys of every open interval.
func (u *User) OpenKeys() []string {
	var keys []string
	for i := range u.DutyIntervals {
		if u.DutyIntervals[i].Open() {
			keys = append(keys, u.DutyIntervals[i].Key())
		}
	}
	return keys
}

func (u *User) HasRole(id string) bool {
	return slices.Contains(u.Roles, id)
}

func (u *User) Clone() *User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	c.DutyIntervals = make([]DutyInterval, len(u.DutyIntervals))
	for i, d := range u.DutyIntervals {
		c.DutyIntervals[i] = DutyInterval{
			WorkPoligon: d.WorkPoligon,
			Credentials: append(CredentialSet(nil), d.Credentials...),
			TakenAt:     copyTime(d.TakenAt),
			PassedAt:    copyTime(d.PassedAt),
		}
		if d.WorkPoligon.SubID != nil {
			sub := *d.WorkPoligon.SubID
			c.DutyIntervals[i].WorkPoligon.SubID = &sub
		}
	}
	return &c
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
