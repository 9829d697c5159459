package entities

import (
	"strings"

	"github.com/iota-uz/railway-dispatch/pkg/constants"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

type CreateStationDTO struct {
	UNMC  string `json:"unmc" validate:"required,max=16"`
	Title string `json:"title" validate:"required,max=255"`
}

func (d *CreateStationDTO) Validate() error {
	d.UNMC = strings.TrimSpace(d.UNMC)
	d.Title = strings.TrimSpace(d.Title)
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type CreateTrackDTO struct {
	StationID int64  `json:"stationId" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=64"`
}

func (d *CreateTrackDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type CreateWorkPlaceDTO struct {
	StationID int64  `json:"stationId" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=64"`
	Type      string `json:"type" validate:"required,max=32"`
}

func (d *CreateWorkPlaceDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type CreateBlockDTO struct {
	Title      string `json:"title" validate:"required,max=255"`
	StationID1 int64  `json:"stationId1" validate:"required,gt=0"`
	StationID2 int64  `json:"stationId2" validate:"required,gt=0,nefield=StationID1"`
}

func (d *CreateBlockDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type CreateSectorDTO struct {
	Kind  SectorKind `json:"kind" validate:"required,oneof=dnc ecd"`
	Title string     `json:"title" validate:"required,max=255"`
}

func (d *CreateSectorDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type CreateTrainSectorDTO struct {
	Kind     SectorKind `json:"kind" validate:"required,oneof=dnc ecd"`
	SectorID int64      `json:"sectorId" validate:"required,gt=0"`
	Title    string     `json:"title" validate:"required,max=255"`
}

func (d *CreateTrainSectorDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	return serrors.FromValidator(constants.Validate.Struct(d))
}

// AddMemberDTO places a station or block into a train sector.
type AddMemberDTO struct {
	Kind          SectorKind `json:"kind" validate:"required,oneof=dnc ecd"`
	TrainSectorID int64      `json:"trainSectorId" validate:"required,gt=0"`
	ID            int64      `json:"id" validate:"required,gt=0"`
	Position      int64      `json:"position" validate:"gte=0"`
}

func (d *AddMemberDTO) Validate() error {
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type LinkSectorsDTO struct {
	Kind SectorKind `json:"kind" validate:"required,oneof=dnc ecd"`
	ID1  int64      `json:"id1" validate:"required,gt=0"`
	ID2  int64      `json:"id2" validate:"required,gt=0"`
}

func (d *LinkSectorsDTO) Validate() error {
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type LinkNearestDTO struct {
	DncSectorID int64 `json:"dncSectorId" validate:"required,gt=0"`
	EcdSectorID int64 `json:"ecdSectorId" validate:"required,gt=0"`
}

func (d *LinkNearestDTO) Validate() error {
	return serrors.FromValidator(constants.Validate.Struct(d))
}

type CreateStructuralDivisionDTO struct {
	SectorID int64  `json:"sectorId" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=255"`
}

func (d *CreateStructuralDivisionDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	return serrors.FromValidator(constants.Validate.Struct(d))
}
