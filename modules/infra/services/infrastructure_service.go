package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/eventbus"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var ErrNodeNotFound = serrors.NotFound("NODE_NOT_FOUND", "infrastructure node not found")

type InfrastructureService struct {
	repo      entities.Repository
	poligons  workpoligon.Repository
	engine    *CascadeEngine
	tx        composables.TxRunner
	publisher eventbus.EventBus
	now       func() time.Time
}

func NewInfrastructureService(
	repo entities.Repository,
	poligons workpoligon.Repository,
	engine *CascadeEngine,
	tx composables.TxRunner,
	publisher eventbus.EventBus,
) *InfrastructureService {
	return &InfrastructureService{
		repo:      repo,
		poligons:  poligons,
		engine:    engine,
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
	}
}

// DeleteNode removes the node and its dependency subtree in one transaction.
func (s *InfrastructureService) DeleteNode(ctx context.Context, cmd *node.DeleteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	var deleted int64
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		var err error
		deleted, err = s.engine.DeleteSubtree(txCtx, cmd.Type, cmd.ID)
		return err
	})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNodeNotFound.
			WithMeta("type", string(cmd.Type)).
			WithMeta("id", strconv.FormatInt(cmd.ID, 10))
	}
	s.publisher.Publish(ctx, &node.DeletedEvent{Type: cmd.Type, ID: cmd.ID, DeletedAt: s.now()})
	return nil
}

// AssignWorkPoligons inserts every assignment or none.
func (s *InfrastructureService) AssignWorkPoligons(ctx context.Context, userID string, wps ...workpoligon.WorkPoligon) error {
	for _, wp := range wps {
		if err := wp.Validate(); err != nil {
			return err
		}
	}
	return s.tx.InTx(ctx, func(txCtx context.Context) error {
		return s.poligons.Assign(txCtx, userID, wps...)
	})
}

// RemoveUserWorkPoligons deletes all of the user's assignments in a fresh
// transaction and returns how many were removed.
func (s *InfrastructureService) RemoveUserWorkPoligons(ctx context.Context, userID string) (int64, error) {
	var removed int64
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.engine.DeleteSubtree(txCtx, node.UserWorkPoligons, userID)
		return err
	})
	return removed, err
}

func (s *InfrastructureService) UserWorkPoligons(ctx context.Context, userID string) ([]workpoligon.WorkPoligon, error) {
	return s.poligons.ListForUser(ctx, userID)
}

func (s *InfrastructureService) HoldsWorkPoligon(ctx context.Context, userID string, wp workpoligon.WorkPoligon) (bool, error) {
	return s.poligons.Holds(ctx, userID, wp)
}

func (s *InfrastructureService) CreateStation(ctx context.Context, dto *entities.CreateStationDTO) (*entities.Station, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	st := &entities.Station{UNMC: dto.UNMC, Title: dto.Title}
	if err := s.repo.CreateStation(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *InfrastructureService) GetStation(ctx context.Context, id int64) (*entities.Station, error) {
	return s.repo.GetStation(ctx, id)
}

func (s *InfrastructureService) ListStations(ctx context.Context) ([]entities.Station, error) {
	return s.repo.ListStations(ctx)
}

// SearchStations ranks stations whose title or UNMC fuzzily matches q, best
// match first. An empty query lists every station.
func (s *InfrastructureService) SearchStations(ctx context.Context, q string) ([]entities.Station, error) {
	list, err := s.repo.ListStations(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return list, nil
	}
	words := make([]string, len(list))
	for i, st := range list {
		words[i] = st.Title + " " + st.UNMC
	}
	ranks := fuzzy.RankFindNormalizedFold(q, words)
	sort.Stable(ranks)

	result := make([]entities.Station, 0, len(ranks))
	for _, rank := range ranks {
		result = append(result, list[rank.OriginalIndex])
	}
	return result, nil
}

func (s *InfrastructureService) CreateTrack(ctx context.Context, dto *entities.CreateTrackDTO) (*entities.Track, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	t := &entities.Track{StationID: dto.StationID, Name: dto.Name}
	if err := s.repo.CreateTrack(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *InfrastructureService) ListTracks(ctx context.Context, stationID int64) ([]entities.Track, error) {
	return s.repo.ListTracks(ctx, stationID)
}

func (s *InfrastructureService) CreateWorkPlace(ctx context.Context, dto *entities.CreateWorkPlaceDTO) (*entities.WorkPlace, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	wp := &entities.WorkPlace{StationID: dto.StationID, Name: dto.Name, Type: dto.Type}
	if err := s.repo.CreateWorkPlace(ctx, wp); err != nil {
		return nil, err
	}
	return wp, nil
}

func (s *InfrastructureService) ListWorkPlaces(ctx context.Context, stationID int64) ([]entities.WorkPlace, error) {
	return s.repo.ListWorkPlaces(ctx, stationID)
}

func (s *InfrastructureService) CreateBlock(ctx context.Context, dto *entities.CreateBlockDTO) (*entities.Block, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	b := &entities.Block{Title: dto.Title, StationID1: dto.StationID1, StationID2: dto.StationID2}
	if err := s.repo.CreateBlock(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *InfrastructureService) GetBlock(ctx context.Context, id int64) (*entities.Block, error) {
	return s.repo.GetBlock(ctx, id)
}

func (s *InfrastructureService) ListBlocks(ctx context.Context) ([]entities.Block, error) {
	return s.repo.ListBlocks(ctx)
}

func (s *InfrastructureService) CreateSector(ctx context.Context, dto *entities.CreateSectorDTO) (*entities.Sector, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	sec := &entities.Sector{Kind: dto.Kind, Title: dto.Title}
	if err := s.repo.CreateSector(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *InfrastructureService) GetSector(ctx context.Context, kind entities.SectorKind, id int64) (*entities.Sector, error) {
	return s.repo.GetSector(ctx, kind, id)
}

func (s *InfrastructureService) ListSectors(ctx context.Context, kind entities.SectorKind) ([]entities.Sector, error) {
	return s.repo.ListSectors(ctx, kind)
}

func (s *InfrastructureService) LinkAdjacentSectors(ctx context.Context, dto *entities.LinkSectorsDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return s.repo.LinkAdjacentSectors(ctx, dto.Kind, dto.ID1, dto.ID2)
}

func (s *InfrastructureService) LinkNearestSectors(ctx context.Context, dto *entities.LinkNearestDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return s.repo.LinkNearestSectors(ctx, dto.DncSectorID, dto.EcdSectorID)
}

func (s *InfrastructureService) CreateStructuralDivision(ctx context.Context, dto *entities.CreateStructuralDivisionDTO) (*entities.StructuralDivision, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	d := &entities.StructuralDivision{SectorID: dto.SectorID, Title: dto.Title}
	if err := s.repo.CreateStructuralDivision(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *InfrastructureService) CreateTrainSector(ctx context.Context, dto *entities.CreateTrainSectorDTO) (*entities.TrainSector, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	ts := &entities.TrainSector{Kind: dto.Kind, SectorID: dto.SectorID, Title: dto.Title}
	if err := s.repo.CreateTrainSector(ctx, ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *InfrastructureService) ListTrainSectors(ctx context.Context, kind entities.SectorKind, sectorID int64) ([]entities.TrainSector, error) {
	return s.repo.ListTrainSectors(ctx, kind, sectorID)
}

func (s *InfrastructureService) AddTrainSectorStation(ctx context.Context, dto *entities.AddMemberDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return s.repo.AddTrainSectorStation(ctx, dto.Kind, entities.Member{TrainSectorID: dto.TrainSectorID, ID: dto.ID, Position: dto.Position})
}

func (s *InfrastructureService) AddTrainSectorBlock(ctx context.Context, dto *entities.AddMemberDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	return s.repo.AddTrainSectorBlock(ctx, dto.Kind, entities.Member{TrainSectorID: dto.TrainSectorID, ID: dto.ID, Position: dto.Position})
}

func (s *InfrastructureService) ListTrainSectorStations(ctx context.Context, kind entities.SectorKind, trainSectorID int64) ([]entities.Member, error) {
	return s.repo.ListTrainSectorStations(ctx, kind, trainSectorID)
}

func (s *InfrastructureService) ListTrainSectorBlocks(ctx context.Context, kind entities.SectorKind, trainSectorID int64) ([]entities.Member, error) {
	return s.repo.ListTrainSectorBlocks(ctx, kind, trainSectorID)
}
