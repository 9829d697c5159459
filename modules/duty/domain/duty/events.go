package duty

import (
	"time"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

type TakenEvent struct {
	UserID      string
	WorkPoligon workpoligon.WorkPoligon
	Credentials user.CredentialSet
	TakenAt     time.Time
	Preempted   []string
}

// PreemptedEvent is raised once per occupant whose open interval was closed
// by another user taking the same duty key.
type PreemptedEvent struct {
	UserID      string
	By          string
	WorkPoligon workpoligon.WorkPoligon
	Credentials user.CredentialSet
	PassedAt    time.Time
}

type PassedEvent struct {
	UserID      string
	WorkPoligon workpoligon.WorkPoligon
	Credentials user.CredentialSet
	PassedAt    time.Time
}

type LoggedOutEvent struct {
	UserID      string
	Application string
	Remaining   int
	At          time.Time
}
