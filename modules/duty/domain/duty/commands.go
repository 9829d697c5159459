package duty

import (
	"strings"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/constants"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

// Command addresses one (user, work poligon, credential set) duty key within
// an application session. It backs StartWithoutDuty, TakeDuty and
// LogoutWithPass.
type Command struct {
	UserID      string                  `json:"userId" validate:"required"`
	Application string                  `json:"applicationName" validate:"required"`
	WorkPoligon workpoligon.WorkPoligon `json:"workPoligon"`
	Credentials []string                `json:"credentials" validate:"min=1,dive,required"`
}

func (c *Command) Validate() error {
	c.Application = strings.TrimSpace(c.Application)
	if err := serrors.FromValidator(constants.Validate.Struct(c)); err != nil {
		return err
	}
	return c.WorkPoligon.Validate()
}

func (c *Command) CredentialSet() user.CredentialSet {
	return user.NewCredentialSet(c.Credentials...)
}

type LogoutCommand struct {
	UserID      string `json:"userId" validate:"required"`
	Application string `json:"applicationName" validate:"required"`
}

func (c *LogoutCommand) Validate() error {
	return serrors.FromValidator(constants.Validate.Struct(c))
}
