package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/repo"
)

type WorkPoligonRepository struct {
	store repo.TableStore
}

func NewWorkPoligonRepository(store repo.TableStore) *WorkPoligonRepository {
	return &WorkPoligonRepository{store: store}
}

var _ workpoligon.Repository = (*WorkPoligonRepository)(nil)

func junction(userID string, wp workpoligon.WorkPoligon) (string, repo.Row, error) {
	if err := wp.Validate(); err != nil {
		return "", nil, err
	}
	switch wp.Type {
	case workpoligon.Station:
		var sub any
		if wp.SubID != nil {
			sub = *wp.SubID
		}
		return StationWorkPoligonsTable, repo.Row{
			StationWorkPoligonUserID:    userID,
			StationWorkPoligonStationID: wp.ID,
			StationWorkPoligonWorkPlace: sub,
		}, nil
	case workpoligon.DncSector:
		return DncWorkPoligonsTable, repo.Row{DncWorkPoligonUserID: userID, DncWorkPoligonSectorID: wp.ID}, nil
	default:
		return EcdWorkPoligonsTable, repo.Row{EcdWorkPoligonUserID: userID, EcdWorkPoligonSectorID: wp.ID}, nil
	}
}

// Assign inserts one junction row per work poligon. Callers wanting
// all-or-nothing run it inside a transaction.
func (r *WorkPoligonRepository) Assign(ctx context.Context, userID string, wps ...workpoligon.WorkPoligon) error {
	for _, wp := range wps {
		table, row, err := junction(userID, wp)
		if err != nil {
			return err
		}
		if err := r.store.Insert(ctx, table, row); err != nil {
			return conflictAs(err,
				workpoligon.ErrAlreadyAssigned.WithMeta("workPoligon", wp.Key()),
				workpoligon.ErrTargetNotFound.WithMeta("workPoligon", wp.Key()),
			)
		}
	}
	return nil
}

func (r *WorkPoligonRepository) ListForUser(ctx context.Context, userID string) ([]workpoligon.WorkPoligon, error) {
	var out []workpoligon.WorkPoligon

	rows, err := r.store.Select(ctx, StationWorkPoligonsTable,
		[]string{StationWorkPoligonStationID, StationWorkPoligonWorkPlace},
		repo.Row{StationWorkPoligonUserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "list station work poligons")
	}
	for _, row := range rows {
		stationID, _ := row.Int64(StationWorkPoligonStationID)
		if placeID, ok := row.Int64(StationWorkPoligonWorkPlace); ok {
			out = append(out, workpoligon.NewWorkPlace(stationID, placeID))
		} else {
			out = append(out, workpoligon.New(workpoligon.Station, stationID))
		}
	}

	for _, src := range []struct {
		t               workpoligon.Type
		table, user, id string
	}{
		{workpoligon.DncSector, DncWorkPoligonsTable, DncWorkPoligonUserID, DncWorkPoligonSectorID},
		{workpoligon.EcdSector, EcdWorkPoligonsTable, EcdWorkPoligonUserID, EcdWorkPoligonSectorID},
	} {
		rows, err := r.store.Select(ctx, src.table, []string{src.id}, repo.Row{src.user: userID})
		if err != nil {
			return nil, errors.Wrapf(err, "list %s", src.table)
		}
		for _, row := range rows {
			id, _ := row.Int64(src.id)
			out = append(out, workpoligon.New(src.t, id))
		}
	}
	return out, nil
}

func (r *WorkPoligonRepository) Holds(ctx context.Context, userID string, wp workpoligon.WorkPoligon) (bool, error) {
	table, where, err := junction(userID, wp)
	if err != nil {
		return false, err
	}
	rows, err := r.store.Select(ctx, table, where.Keys()[:1], where)
	if err != nil {
		return false, errors.Wrap(err, "check work poligon")
	}
	return len(rows) > 0, nil
}
