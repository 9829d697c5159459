package entities

// SectorKind separates train dispatcher (DNC) and power supply dispatcher
// (ECD) sectors, which live in parallel table families.
type SectorKind string

const (
	Dnc SectorKind = "dnc"
	Ecd SectorKind = "ecd"
)

func (k SectorKind) Valid() bool {
	return k == Dnc || k == Ecd
}

type Station struct {
	ID    int64  `json:"id"`
	UNMC  string `json:"unmc"`
	Title string `json:"title"`
}

type Track struct {
	ID        int64  `json:"id"`
	StationID int64  `json:"stationId"`
	Name      string `json:"name"`
}

type WorkPlace struct {
	ID        int64  `json:"id"`
	StationID int64  `json:"stationId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
}

// Block is the track section between two adjacent stations.
type Block struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	StationID1 int64  `json:"stationId1"`
	StationID2 int64  `json:"stationId2"`
}

type Sector struct {
	ID    int64      `json:"id"`
	Kind  SectorKind `json:"kind"`
	Title string     `json:"title"`
}

type TrainSector struct {
	ID       int64      `json:"id"`
	Kind     SectorKind `json:"kind"`
	SectorID int64      `json:"sectorId"`
	Title    string     `json:"title"`
}

// Member is a station or block placed at a position inside a train sector.
type Member struct {
	TrainSectorID int64 `json:"trainSectorId"`
	ID            int64 `json:"id"`
	Position      int64 `json:"position"`
}

type StructuralDivision struct {
	ID       int64  `json:"id"`
	SectorID int64  `json:"sectorId"`
	Title    string `json:"title"`
}
