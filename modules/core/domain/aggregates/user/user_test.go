package user_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	t0      = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	station = workpoligon.New(workpoligon.Station, 5)
	dsp     = user.NewCredentialSet("DSP")
)

func TestCredentialSet(t *testing.T) {
	assert.Equal(t, user.CredentialSet{"A", "B"}, user.NewCredentialSet(" B", "A", "B", ""))
	assert.True(t, user.NewCredentialSet("A", "B").Equal(user.CredentialSet{"B", "A"}))
	assert.False(t, user.NewCredentialSet("A", "B").Equal(user.NewCredentialSet("A")))
	assert.False(t, user.NewCredentialSet("A").Equal(user.NewCredentialSet("A", "B")))
	assert.Equal(t, []string{"C"}, user.NewCredentialSet("A", "C").Missing(user.NewCredentialSet("A", "B")))
	assert.Equal(t, "A,B", user.CredentialSet{"B", "A"}.Key())
}

func TestDutyInterval_Open(t *testing.T) {
	t1 := t0.Add(time.Hour)
	cases := []struct {
		name  string
		d     user.DutyInterval
		state user.DutyState
	}{
		{"no timestamps", user.DutyInterval{}, user.NeverDutied},
		{"taken only", user.DutyInterval{TakenAt: &t0}, user.OnDuty},
		{"passed after taken", user.DutyInterval{TakenAt: &t0, PassedAt: &t1}, user.OffDuty},
		{"retaken after pass", user.DutyInterval{TakenAt: &t1, PassedAt: &t0}, user.OnDuty},
		{"passed at taken", user.DutyInterval{TakenAt: &t0, PassedAt: &t0}, user.OnDuty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.state, tc.d.State())
			assert.Equal(t, tc.state == user.OnDuty, tc.d.Open())
		})
	}
}

func TestUser_DutyLifecycle(t *testing.T) {
	u := &user.User{ID: "a"}
	assert.Equal(t, user.NeverDutied, u.DutyState(station, dsp))

	d, err := u.TakeDuty(station, dsp, t0)
	require.NoError(t, err)
	assert.Equal(t, t0, *d.TakenAt)
	assert.Equal(t, user.OnDuty, u.DutyState(station, dsp))

	_, err = u.TakeDuty(station, user.CredentialSet{"DSP"}, t0.Add(time.Minute))
	require.ErrorIs(t, err, user.ErrAlreadyOnDuty)
	assert.Equal(t, serrors.KindAlreadyOnDuty, serrors.KindOf(err))

	t1 := t0.Add(time.Hour)
	_, err = u.PassDuty(station, dsp, t1)
	require.NoError(t, err)
	assert.Equal(t, user.OffDuty, u.DutyState(station, dsp))

	_, err = u.PassDuty(station, dsp, t1.Add(time.Minute))
	require.ErrorIs(t, err, user.ErrNoDutyToPass)

	t2 := t1.Add(time.Hour)
	d, err = u.TakeDuty(station, dsp, t2)
	require.NoError(t, err)
	assert.Equal(t, t2, *d.TakenAt)
	assert.Equal(t, t1, *d.PassedAt)
	assert.Len(t, u.DutyIntervals, 1)
	assert.Equal(t, []string{"station:5|DSP"}, u.OpenKeys())
}

func TestUser_DistinctKeysGetOwnIntervals(t *testing.T) {
	u := &user.User{ID: "a"}
	_, err := u.TakeDuty(station, dsp, t0)
	require.NoError(t, err)
	_, err = u.TakeDuty(station, user.NewCredentialSet("DSP", "DSP_Operator"), t0)
	require.NoError(t, err)
	_, err = u.TakeDuty(workpoligon.NewWorkPlace(5, 1), dsp, t0)
	require.NoError(t, err)
	assert.Len(t, u.DutyIntervals, 3)
}

func TestUser_Preempt(t *testing.T) {
	u := &user.User{ID: "a"}
	assert.False(t, u.Preempt(station, dsp, t0))

	_, err := u.TakeDuty(station, dsp, t0)
	require.NoError(t, err)
	t1 := t0.Add(time.Minute)
	assert.True(t, u.Preempt(station, dsp, t1))
	d, _ := u.Interval(station, dsp)
	assert.Equal(t, t1, *d.PassedAt)
	assert.False(t, u.Preempt(station, dsp, t1))
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &user.User{ID: "a", Roles: []string{"r"}}
	_, err := u.TakeDuty(workpoligon.NewWorkPlace(5, 1), dsp, t0)
	require.NoError(t, err)

	c := u.Clone()
	c.Roles[0] = "x"
	*c.DutyIntervals[0].TakenAt = t0.Add(time.Hour)
	*c.DutyIntervals[0].WorkPoligon.SubID = 9

	assert.Equal(t, "r", u.Roles[0])
	assert.Equal(t, t0, *u.DutyIntervals[0].TakenAt)
	assert.Equal(t, int64(1), *u.DutyIntervals[0].WorkPoligon.SubID)
}

func TestRegisterCommand_Validate(t *testing.T) {
	cmd := &user.RegisterCommand{Login: " dsp1 ", Password: "secret1", Name: "Ivan", Surname: "Petrov"}
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "dsp1", cmd.Login)

	cmd.WorkPoligons = []workpoligon.WorkPoligon{{Type: "depot", ID: 1}}
	assert.Equal(t, serrors.KindValidation, serrors.KindOf(cmd.Validate()))

	bad := &user.RegisterCommand{Login: "x"}
	assert.Equal(t, serrors.KindValidation, serrors.KindOf(bad.Validate()))
}
