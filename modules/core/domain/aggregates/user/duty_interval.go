package user

import (
	"time"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

type DutyState string

const (
	NeverDutied DutyState = "never_dutied"
	OnDuty      DutyState = "on_duty"
	OffDuty     DutyState = "off_duty"
)

// DutyInterval records a user's occupancy of a work poligon under one
// credential set. An interval is open while PassedAt is absent or not after
// TakenAt, so reopening only moves TakenAt forward.
type DutyInterval struct {
	WorkPoligon workpoligon.WorkPoligon
	Credentials CredentialSet
	TakenAt     *time.Time
	PassedAt    *time.Time
}

func (d *DutyInterval) Matches(wp workpoligon.WorkPoligon, cs CredentialSet) bool {
	return d.WorkPoligon.Equal(wp) && d.Credentials.Equal(cs)
}

func (d *DutyInterval) Open() bool {
	if d.TakenAt == nil {
		return false
	}
	return d.PassedAt == nil || !d.PassedAt.After(*d.TakenAt)
}

func (d *DutyInterval) State() DutyState {
	switch {
	case d.TakenAt == nil:
		return NeverDutied
	case d.Open():
		return OnDuty
	default:
		return OffDuty
	}
}

// Key identifies the (work poligon, credential set) pair the interval is
// exclusive on.
func (d *DutyInterval) Key() string {
	return DutyKey(d.WorkPoligon, d.Credentials)
}

func DutyKey(wp workpoligon.WorkPoligon, cs CredentialSet) string {
	return wp.Key() + "|" + cs.Key()
}
