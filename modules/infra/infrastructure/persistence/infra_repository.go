package persistence

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/pkg/repo"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

// sectorFamily names the parallel DNC/ECD tables for one sector kind.
type sectorFamily struct {
	sectors, sectorID, sectorTitle                        string
	trainSectors, trainSectorID, trainTitle, trainSector string
	stations, stTrainSector, stStation, stPosition       string
	blocks, blTrainSector, blBlock, blPosition           string
	adjacent, adjacent1, adjacent2                       string
}

var families = map[entities.SectorKind]sectorFamily{
	entities.Dnc: {
		sectors: DncSectorsTable, sectorID: DncSectorID, sectorTitle: DncSectorTitle,
		trainSectors: DncTrainSectorsTable, trainSectorID: DncTrainSectorID, trainTitle: DncTrainSectorTitle, trainSector: DncTrainSectorSectorID,
		stations: DncTrainSectorStationsTable, stTrainSector: DncTSStationTrainSectorID, stStation: DncTSStationStationID, stPosition: DncTSStationPosition,
		blocks: DncTrainSectorBlocksTable, blTrainSector: DncTSBlockTrainSectorID, blBlock: DncTSBlockBlockID, blPosition: DncTSBlockPosition,
		adjacent: AdjacentDncSectorsTable, adjacent1: AdjacentDncSectorID1, adjacent2: AdjacentDncSectorID2,
	},
	entities.Ecd: {
		sectors: EcdSectorsTable, sectorID: EcdSectorID, sectorTitle: EcdSectorTitle,
		trainSectors: EcdTrainSectorsTable, trainSectorID: EcdTrainSectorID, trainTitle: EcdTrainSectorTitle, trainSector: EcdTrainSectorSectorID,
		stations: EcdTrainSectorStationsTable, stTrainSector: EcdTSStationTrainSectorID, stStation: EcdTSStationStationID, stPosition: EcdTSStationPosition,
		blocks: EcdTrainSectorBlocksTable, blTrainSector: EcdTSBlockTrainSectorID, blBlock: EcdTSBlockBlockID, blPosition: EcdTSBlockPosition,
		adjacent: AdjacentEcdSectorsTable, adjacent1: AdjacentEcdSectorID1, adjacent2: AdjacentEcdSectorID2,
	},
}

func family(kind entities.SectorKind) (sectorFamily, error) {
	f, ok := families[kind]
	if !ok {
		return sectorFamily{}, entities.ErrInvalidSectorKind.WithMeta("kind", string(kind))
	}
	return f, nil
}

// conflictAs replaces constraint violations with domain errors.
func conflictAs(err error, unique, foreign *serrors.Error) error {
	switch {
	case err == nil:
		return nil
	case unique != nil && errors.Is(err, repo.ErrUniqueViolation):
		return unique.Wrap(err)
	case foreign != nil && errors.Is(err, repo.ErrForeignKeyViolation):
		return foreign.Wrap(err)
	default:
		return err
	}
}

type InfraRepository struct {
	store repo.TableStore
}

func NewInfraRepository(store repo.TableStore) *InfraRepository {
	return &InfraRepository{store: store}
}

var _ entities.Repository = (*InfraRepository)(nil)

func (r *InfraRepository) CreateStation(ctx context.Context, s *entities.Station) error {
	id, err := r.store.InsertReturning(ctx, StationsTable, repo.Row{
		StationUNMC:  s.UNMC,
		StationTitle: s.Title,
	}, StationID)
	if err != nil {
		return conflictAs(err, entities.ErrStationCodeTaken, nil)
	}
	s.ID = id
	return nil
}

func (r *InfraRepository) GetStation(ctx context.Context, id int64) (*entities.Station, error) {
	rows, err := r.store.Select(ctx, StationsTable, []string{StationID, StationUNMC, StationTitle}, repo.Row{StationID: id})
	if err != nil {
		return nil, errors.Wrap(err, "get station")
	}
	if len(rows) == 0 {
		return nil, entities.ErrStationNotFound.WithMeta("id", strconv.FormatInt(id, 10))
	}
	s := toStation(rows[0])
	return &s, nil
}

func (r *InfraRepository) ListStations(ctx context.Context) ([]entities.Station, error) {
	rows, err := r.store.Select(ctx, StationsTable, []string{StationID, StationUNMC, StationTitle}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list stations")
	}
	out := make([]entities.Station, 0, len(rows))
	for _, row := range rows {
		out = append(out, toStation(row))
	}
	return out, nil
}

func (r *InfraRepository) CreateTrack(ctx context.Context, t *entities.Track) error {
	id, err := r.store.InsertReturning(ctx, TracksTable, repo.Row{
		TrackStationID: t.StationID,
		TrackName:      t.Name,
	}, TrackID)
	if err != nil {
		return conflictAs(err, entities.ErrNameTaken, entities.ErrStationNotFound)
	}
	t.ID = id
	return nil
}

func (r *InfraRepository) ListTracks(ctx context.Context, stationID int64) ([]entities.Track, error) {
	rows, err := r.store.Select(ctx, TracksTable, []string{TrackID, TrackStationID, TrackName}, repo.Row{TrackStationID: stationID})
	if err != nil {
		return nil, errors.Wrap(err, "list tracks")
	}
	out := make([]entities.Track, 0, len(rows))
	for _, row := range rows {
		id, _ := row.Int64(TrackID)
		out = append(out, entities.Track{ID: id, StationID: stationID, Name: row.String(TrackName)})
	}
	return out, nil
}

func (r *InfraRepository) CreateWorkPlace(ctx context.Context, wp *entities.WorkPlace) error {
	id, err := r.store.InsertReturning(ctx, WorkPlacesTable, repo.Row{
		WorkPlaceStationID: wp.StationID,
		WorkPlaceName:      wp.Name,
		WorkPlaceType:      wp.Type,
	}, WorkPlaceID)
	if err != nil {
		return conflictAs(err, entities.ErrNameTaken, entities.ErrStationNotFound)
	}
	wp.ID = id
	return nil
}

func (r *InfraRepository) ListWorkPlaces(ctx context.Context, stationID int64) ([]entities.WorkPlace, error) {
	rows, err := r.store.Select(ctx, WorkPlacesTable,
		[]string{WorkPlaceID, WorkPlaceStationID, WorkPlaceName, WorkPlaceType},
		repo.Row{WorkPlaceStationID: stationID})
	if err != nil {
		return nil, errors.Wrap(err, "list work places")
	}
	out := make([]entities.WorkPlace, 0, len(rows))
	for _, row := range rows {
		id, _ := row.Int64(WorkPlaceID)
		out = append(out, entities.WorkPlace{
			ID:        id,
			StationID: stationID,
			Name:      row.String(WorkPlaceName),
			Type:      row.String(WorkPlaceType),
		})
	}
	return out, nil
}

func (r *InfraRepository) CreateBlock(ctx context.Context, b *entities.Block) error {
	id, err := r.store.InsertReturning(ctx, BlocksTable, repo.Row{
		BlockTitle:      b.Title,
		BlockStationID1: b.StationID1,
		BlockStationID2: b.StationID2,
	}, BlockID)
	if err != nil {
		return conflictAs(err, entities.ErrBlockExists, entities.ErrStationNotFound)
	}
	b.ID = id
	return nil
}

var blockColumns = []string{BlockID, BlockTitle, BlockStationID1, BlockStationID2}

func (r *InfraRepository) GetBlock(ctx context.Context, id int64) (*entities.Block, error) {
	rows, err := r.store.Select(ctx, BlocksTable, blockColumns, repo.Row{BlockID: id})
	if err != nil {
		return nil, errors.Wrap(err, "get block")
	}
	if len(rows) == 0 {
		return nil, entities.ErrBlockNotFound.WithMeta("id", strconv.FormatInt(id, 10))
	}
	b := toBlock(rows[0])
	return &b, nil
}

func (r *InfraRepository) ListBlocks(ctx context.Context) ([]entities.Block, error) {
	rows, err := r.store.Select(ctx, BlocksTable, blockColumns, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list blocks")
	}
	out := make([]entities.Block, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBlock(row))
	}
	return out, nil
}

func (r *InfraRepository) CreateSector(ctx context.Context, s *entities.Sector) error {
	f, err := family(s.Kind)
	if err != nil {
		return err
	}
	id, err := r.store.InsertReturning(ctx, f.sectors, repo.Row{f.sectorTitle: s.Title}, f.sectorID)
	if err != nil {
		return conflictAs(err, entities.ErrSectorTitleTaken, nil)
	}
	s.ID = id
	return nil
}

func (r *InfraRepository) GetSector(ctx context.Context, kind entities.SectorKind, id int64) (*entities.Sector, error) {
	f, err := family(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Select(ctx, f.sectors, []string{f.sectorID, f.sectorTitle}, repo.Row{f.sectorID: id})
	if err != nil {
		return nil, errors.Wrap(err, "get sector")
	}
	if len(rows) == 0 {
		return nil, entities.ErrSectorNotFound.WithMeta("id", strconv.FormatInt(id, 10)).WithMeta("kind", string(kind))
	}
	return &entities.Sector{ID: id, Kind: kind, Title: rows[0].String(f.sectorTitle)}, nil
}

func (r *InfraRepository) ListSectors(ctx context.Context, kind entities.SectorKind) ([]entities.Sector, error) {
	f, err := family(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Select(ctx, f.sectors, []string{f.sectorID, f.sectorTitle}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list sectors")
	}
	out := make([]entities.Sector, 0, len(rows))
	for _, row := range rows {
		id, _ := row.Int64(f.sectorID)
		out = append(out, entities.Sector{ID: id, Kind: kind, Title: row.String(f.sectorTitle)})
	}
	return out, nil
}

func (r *InfraRepository) LinkAdjacentSectors(ctx context.Context, kind entities.SectorKind, id1, id2 int64) error {
	f, err := family(kind)
	if err != nil {
		return err
	}
	if id1 == id2 {
		return entities.ErrSelfAdjacentSector
	}
	err = r.store.Insert(ctx, f.adjacent, repo.Row{f.adjacent1: id1, f.adjacent2: id2})
	return conflictAs(err, entities.ErrDuplicateLink, entities.ErrSectorNotFound)
}

func (r *InfraRepository) LinkNearestSectors(ctx context.Context, dncSectorID, ecdSectorID int64) error {
	err := r.store.Insert(ctx, NearestSectorsTable, repo.Row{
		NearestDncSectorID: dncSectorID,
		NearestEcdSectorID: ecdSectorID,
	})
	return conflictAs(err, entities.ErrDuplicateLink, entities.ErrSectorNotFound)
}

func (r *InfraRepository) CreateStructuralDivision(ctx context.Context, d *entities.StructuralDivision) error {
	id, err := r.store.InsertReturning(ctx, StructuralDivisionsTable, repo.Row{
		StructuralDivisionTitle:  d.Title,
		StructuralDivisionSector: d.SectorID,
	}, StructuralDivisionID)
	if err != nil {
		return conflictAs(err, entities.ErrNameTaken, entities.ErrSectorNotFound)
	}
	d.ID = id
	return nil
}

func (r *InfraRepository) CreateTrainSector(ctx context.Context, ts *entities.TrainSector) error {
	f, err := family(ts.Kind)
	if err != nil {
		return err
	}
	id, err := r.store.InsertReturning(ctx, f.trainSectors, repo.Row{
		f.trainTitle:  ts.Title,
		f.trainSector: ts.SectorID,
	}, f.trainSectorID)
	if err != nil {
		return conflictAs(err, entities.ErrNameTaken, entities.ErrSectorNotFound)
	}
	ts.ID = id
	return nil
}

func (r *InfraRepository) ListTrainSectors(ctx context.Context, kind entities.SectorKind, sectorID int64) ([]entities.TrainSector, error) {
	f, err := family(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.store.Select(ctx, f.trainSectors, []string{f.trainSectorID, f.trainTitle}, repo.Row{f.trainSector: sectorID})
	if err != nil {
		return nil, errors.Wrap(err, "list train sectors")
	}
	out := make([]entities.TrainSector, 0, len(rows))
	for _, row := range rows {
		id, _ := row.Int64(f.trainSectorID)
		out = append(out, entities.TrainSector{ID: id, Kind: kind, SectorID: sectorID, Title: row.String(f.trainTitle)})
	}
	return out, nil
}

func (r *InfraRepository) AddTrainSectorStation(ctx context.Context, kind entities.SectorKind, m entities.Member) error {
	f, err := family(kind)
	if err != nil {
		return err
	}
	err = r.store.Insert(ctx, f.stations, repo.Row{
		f.stTrainSector: m.TrainSectorID,
		f.stStation:     m.ID,
		f.stPosition:    m.Position,
	})
	return conflictAs(err, entities.ErrDuplicateMember, entities.ErrTrainSectorNotFound)
}

func (r *InfraRepository) AddTrainSectorBlock(ctx context.Context, kind entities.SectorKind, m entities.Member) error {
	f, err := family(kind)
	if err != nil {
		return err
	}
	err = r.store.Insert(ctx, f.blocks, repo.Row{
		f.blTrainSector: m.TrainSectorID,
		f.blBlock:       m.ID,
		f.blPosition:    m.Position,
	})
	return conflictAs(err, entities.ErrDuplicateMember, entities.ErrTrainSectorNotFound)
}

func (r *InfraRepository) ListTrainSectorStations(ctx context.Context, kind entities.SectorKind, trainSectorID int64) ([]entities.Member, error) {
	f, err := family(kind)
	if err != nil {
		return nil, err
	}
	return r.members(ctx, f.stations, f.stTrainSector, f.stStation, f.stPosition, trainSectorID)
}

func (r *InfraRepository) ListTrainSectorBlocks(ctx context.Context, kind entities.SectorKind, trainSectorID int64) ([]entities.Member, error) {
	f, err := family(kind)
	if err != nil {
		return nil, err
	}
	return r.members(ctx, f.blocks, f.blTrainSector, f.blBlock, f.blPosition, trainSectorID)
}

func (r *InfraRepository) members(ctx context.Context, table, tsCol, idCol, posCol string, trainSectorID int64) ([]entities.Member, error) {
	rows, err := r.store.Select(ctx, table, []string{posCol, idCol}, repo.Row{tsCol: trainSectorID})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", table)
	}
	out := make([]entities.Member, 0, len(rows))
	for _, row := range rows {
		id, _ := row.Int64(idCol)
		pos, _ := row.Int64(posCol)
		out = append(out, entities.Member{TrainSectorID: trainSectorID, ID: id, Position: pos})
	}
	return out, nil
}

func toStation(row repo.Row) entities.Station {
	id, _ := row.Int64(StationID)
	return entities.Station{ID: id, UNMC: row.String(StationUNMC), Title: row.String(StationTitle)}
}

func toBlock(row repo.Row) entities.Block {
	id, _ := row.Int64(BlockID)
	s1, _ := row.Int64(BlockStationID1)
	s2, _ := row.Int64(BlockStationID2)
	return entities.Block{ID: id, Title: row.String(BlockTitle), StationID1: s1, StationID2: s2}
}
