package entities

import (
	"context"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var (
	ErrStationNotFound     = serrors.NotFound("STATION_NOT_FOUND", "station not found")
	ErrBlockNotFound       = serrors.NotFound("BLOCK_NOT_FOUND", "block not found")
	ErrSectorNotFound      = serrors.NotFound("SECTOR_NOT_FOUND", "sector not found")
	ErrTrainSectorNotFound = serrors.NotFound("TRAIN_SECTOR_NOT_FOUND", "train sector not found")

	ErrStationCodeTaken   = serrors.Conflict("STATION_CODE_TAKEN", "station code already exists")
	ErrBlockExists        = serrors.Conflict("BLOCK_EXISTS", "a block between these stations already exists")
	ErrSectorTitleTaken   = serrors.Conflict("SECTOR_TITLE_TAKEN", "sector title already exists")
	ErrDuplicateMember    = serrors.Conflict("DUPLICATE_MEMBER", "already a member of the train sector")
	ErrDuplicateLink      = serrors.Conflict("DUPLICATE_LINK", "sectors are already linked")
	ErrNameTaken          = serrors.Conflict("NAME_TAKEN", "name already exists within its parent")
	ErrInvalidSectorKind  = serrors.Validation("INVALID_SECTOR_KIND", "sector kind must be dnc or ecd")
	ErrSelfAdjacentSector = serrors.Validation("SELF_ADJACENT_SECTOR", "a sector cannot be adjacent to itself")
)

type Repository interface {
	CreateStation(ctx context.Context, s *Station) error
	GetStation(ctx context.Context, id int64) (*Station, error)
	ListStations(ctx context.Context) ([]Station, error)
	CreateTrack(ctx context.Context, t *Track) error
	ListTracks(ctx context.Context, stationID int64) ([]Track, error)
	CreateWorkPlace(ctx context.Context, wp *WorkPlace) error
	ListWorkPlaces(ctx context.Context, stationID int64) ([]WorkPlace, error)

	CreateBlock(ctx context.Context, b *Block) error
	GetBlock(ctx context.Context, id int64) (*Block, error)
	ListBlocks(ctx context.Context) ([]Block, error)

	CreateSector(ctx context.Context, s *Sector) error
	GetSector(ctx context.Context, kind SectorKind, id int64) (*Sector, error)
	ListSectors(ctx context.Context, kind SectorKind) ([]Sector, error)
	LinkAdjacentSectors(ctx context.Context, kind SectorKind, id1, id2 int64) error
	LinkNearestSectors(ctx context.Context, dncSectorID, ecdSectorID int64) error
	CreateStructuralDivision(ctx context.Context, d *StructuralDivision) error

	CreateTrainSector(ctx context.Context, ts *TrainSector) error
	ListTrainSectors(ctx context.Context, kind SectorKind, sectorID int64) ([]TrainSector, error)
	AddTrainSectorStation(ctx context.Context, kind SectorKind, m Member) error
	AddTrainSectorBlock(ctx context.Context, kind SectorKind, m Member) error
	ListTrainSectorStations(ctx context.Context, kind SectorKind, trainSectorID int64) ([]Member, error)
	ListTrainSectorBlocks(ctx context.Context, kind SectorKind, trainSectorID int64) ([]Member, error)
}
