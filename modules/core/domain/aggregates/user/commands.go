package user

import (
	"strings"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/constants"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

type RegisterCommand struct {
	Login        string                    `json:"login" validate:"required,min=3,max=64"`
	Password     string                    `json:"password" validate:"required,min=6,max=72"`
	Post         string                    `json:"post" validate:"max=255"`
	Name         string                    `json:"name" validate:"required,max=255"`
	FatherName   string                    `json:"fatherName" validate:"max=255"`
	Surname      string                    `json:"surname" validate:"required,max=255"`
	Service      string                    `json:"service" validate:"max=64"`
	Roles        []string                  `json:"roles" validate:"dive,required"`
	WorkPoligons []workpoligon.WorkPoligon `json:"workPoligons" validate:"dive"`
}

func (c *RegisterCommand) Validate() error {
	c.Login = strings.TrimSpace(c.Login)
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	if err := serrors.FromValidator(constants.Validate.Struct(c)); err != nil {
		return err
	}
	for _, wp := range c.WorkPoligons {
		if err := wp.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type DeleteCommand struct {
	UserID string `json:"userId" validate:"required"`
}

func (c *DeleteCommand) Validate() error {
	return serrors.FromValidator(constants.Validate.Struct(c))
}

type LoginCommand struct {
	Login       string `json:"login" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Application string `json:"applicationName" validate:"required,max=64"`
}

func (c *LoginCommand) Validate() error {
	c.Login = strings.TrimSpace(c.Login)
	c.Application = strings.TrimSpace(c.Application)
	return serrors.FromValidator(constants.Validate.Struct(c))
}
