package duty

import (
	"time"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

// Result is what a duty transition hands back: the refreshed token and the
// interval state it reflects.
type Result struct {
	Token       string                  `json:"token,omitempty"`
	State       user.DutyState          `json:"state"`
	WorkPoligon workpoligon.WorkPoligon `json:"workPoligon"`
	Credentials user.CredentialSet      `json:"credentials"`
	TakenAt     *time.Time              `json:"lastTakeDutyTime,omitempty"`
	PassedAt    *time.Time              `json:"lastPassDutyTime,omitempty"`
	Preempted   []string                `json:"preempted,omitempty"`
}
