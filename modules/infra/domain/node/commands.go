package node

import (
	"github.com/iota-uz/railway-dispatch/pkg/constants"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

// DeleteCommand removes one infrastructure entity with its dependents.
type DeleteCommand struct {
	Type Type  `json:"type" validate:"required,oneof=station station_work_place block dnc_sector dnc_train_sector ecd_sector ecd_train_sector"`
	ID   int64 `json:"id" validate:"required,gt=0"`
}

func (c *DeleteCommand) Validate() error {
	return serrors.FromValidator(constants.Validate.Struct(c))
}
