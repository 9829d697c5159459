package workpoligon

import (
	"fmt"
	"strconv"

	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

type Type string

const (
	Station   Type = "station"
	DncSector Type = "dnc_sector"
	EcdSector Type = "ecd_sector"
)

var ErrInvalid = serrors.Validation("INVALID_WORK_POLIGON", "invalid work poligon")

func ParseType(s string) (Type, error) {
	switch t := Type(s); t {
	case Station, DncSector, EcdSector:
		return t, nil
	default:
		return "", ErrInvalid.WithMeta("type", s)
	}
}

// WorkPoligon identifies a unit of dispatch responsibility. SubID names a
// work place inside a station.
type WorkPoligon struct {
	Type  Type   `json:"type" validate:"required,oneof=station dnc_sector ecd_sector"`
	ID    int64  `json:"id" validate:"required,gt=0"`
	SubID *int64 `json:"subId,omitempty" validate:"omitempty,gt=0"`
}

func New(t Type, id int64) WorkPoligon {
	return WorkPoligon{Type: t, ID: id}
}

func NewWorkPlace(stationID, workPlaceID int64) WorkPoligon {
	return WorkPoligon{Type: Station, ID: stationID, SubID: &workPlaceID}
}

// Equal matches type, id and sub id; an absent sub id only matches an
// absent sub id.
func (w WorkPoligon) Equal(o WorkPoligon) bool {
	if w.Type != o.Type || w.ID != o.ID {
		return false
	}
	if w.SubID == nil || o.SubID == nil {
		return w.SubID == nil && o.SubID == nil
	}
	return *w.SubID == *o.SubID
}

// Key is a stable string form usable as a map or index key.
func (w WorkPoligon) Key() string {
	k := string(w.Type) + ":" + strconv.FormatInt(w.ID, 10)
	if w.SubID != nil {
		k += ":" + strconv.FormatInt(*w.SubID, 10)
	}
	return k
}

func (w WorkPoligon) String() string {
	return w.Key()
}

func (w WorkPoligon) Validate() error {
	if _, err := ParseType(string(w.Type)); err != nil {
		return err
	}
	if w.ID <= 0 {
		return ErrInvalid.WithMeta("id", strconv.FormatInt(w.ID, 10))
	}
	if w.SubID != nil {
		if w.Type != Station {
			return ErrInvalid.WithMeta("subId", fmt.Sprintf("only stations have work places, got %s", w.Type))
		}
		if *w.SubID <= 0 {
			return ErrInvalid.WithMeta("subId", strconv.FormatInt(*w.SubID, 10))
		}
	}
	return nil
}
