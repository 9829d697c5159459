package persistence

import "github.com/iota-uz/railway-dispatch/pkg/repo"

// Table and column names are kept exactly as the dispatch database names them.
const (
	StationsTable = "TStations"
	StationID     = "St_ID"
	StationUNMC   = "St_UNMC"
	StationTitle  = "St_Title"

	TracksTable    = "TStationTracks"
	TrackID        = "ST_ID"
	TrackStationID = "ST_StationID"
	TrackName      = "ST_Name"

	WorkPlacesTable    = "TStationWorkPlaces"
	WorkPlaceID        = "SWP_ID"
	WorkPlaceStationID = "SWP_StationID"
	WorkPlaceName      = "SWP_Name"
	WorkPlaceType      = "SWP_Type"

	BlocksTable     = "TBlocks"
	BlockID         = "Bl_ID"
	BlockTitle      = "Bl_Title"
	BlockStationID1 = "Bl_StationID1"
	BlockStationID2 = "Bl_StationID2"

	DncSectorsTable = "TDNCSectors"
	DncSectorID     = "DNCS_ID"
	DncSectorTitle  = "DNCS_Title"

	EcdSectorsTable = "TECDSectors"
	EcdSectorID     = "ECDS_ID"
	EcdSectorTitle  = "ECDS_Title"

	DncTrainSectorsTable   = "TDNCTrainSectors"
	DncTrainSectorID       = "DNCTS_ID"
	DncTrainSectorTitle    = "DNCTS_Title"
	DncTrainSectorSectorID = "DNCTS_DNCSectorID"

	EcdTrainSectorsTable   = "TECDTrainSectors"
	EcdTrainSectorID       = "ECDTS_ID"
	EcdTrainSectorTitle    = "ECDTS_Title"
	EcdTrainSectorSectorID = "ECDTS_ECDSectorID"

	DncTrainSectorStationsTable = "TDNCTrainSectorStations"
	DncTSStationTrainSectorID   = "DNCTSS_TrainSectorID"
	DncTSStationStationID       = "DNCTSS_StationID"
	DncTSStationPosition        = "DNCTSS_StationPositionInTrainSector"

	DncTrainSectorBlocksTable = "TDNCTrainSectorBlocks"
	DncTSBlockTrainSectorID   = "DNCTSB_TrainSectorID"
	DncTSBlockBlockID         = "DNCTSB_BlockID"
	DncTSBlockPosition        = "DNCTSB_BlockPositionInTrainSector"

	EcdTrainSectorStationsTable = "TECDTrainSectorStations"
	EcdTSStationTrainSectorID   = "ECDTSS_TrainSectorID"
	EcdTSStationStationID       = "ECDTSS_StationID"
	EcdTSStationPosition        = "ECDTSS_StationPositionInTrainSector"

	EcdTrainSectorBlocksTable = "TECDTrainSectorBlocks"
	EcdTSBlockTrainSectorID   = "ECDTSB_TrainSectorID"
	EcdTSBlockBlockID         = "ECDTSB_BlockID"
	EcdTSBlockPosition        = "ECDTSB_BlockPositionInTrainSector"

	AdjacentDncSectorsTable = "TAdjacentDNCSectors"
	AdjacentDncSectorID1    = "ADNCS_DNCSectorID1"
	AdjacentDncSectorID2    = "ADNCS_DNCSectorID2"

	AdjacentEcdSectorsTable = "TAdjacentECDSectors"
	AdjacentEcdSectorID1    = "AECDS_ECDSectorID1"
	AdjacentEcdSectorID2    = "AECDS_ECDSectorID2"

	NearestSectorsTable = "TNearestDNCandECDSectors"
	NearestEcdSectorID  = "NDE_ECDSectorID"
	NearestDncSectorID  = "NDE_DNCSectorID"

	StructuralDivisionsTable = "TECDStructuralDivisions"
	StructuralDivisionID     = "ECDSD_ID"
	StructuralDivisionTitle  = "ECDSD_Title"
	StructuralDivisionSector = "ECDSD_ECDSectorID"

	StationWorkPoligonsTable    = "TStationWorkPoligons"
	StationWorkPoligonUserID    = "SWPG_UserID"
	StationWorkPoligonStationID = "SWPG_StationID"
	StationWorkPoligonWorkPlace = "SWPG_StationWorkPlaceID"

	DncWorkPoligonsTable   = "TDNCSectorWorkPoligons"
	DncWorkPoligonUserID   = "DNCSWP_UserID"
	DncWorkPoligonSectorID = "DNCSWP_DNCSID"

	EcdWorkPoligonsTable   = "TECDSectorWorkPoligons"
	EcdWorkPoligonUserID   = "ECDSWP_UserID"
	EcdWorkPoligonSectorID = "ECDSWP_ECDSID"
)

func fk(column, table, refColumn string) repo.ForeignKey {
	return repo.ForeignKey{Column: column, RefTable: table, RefColumn: refColumn}
}

// Schema mirrors migrations/00001_infra_schema.sql. Every foreign key is
// NO ACTION; deletion order is the cascade graph's job.
func Schema() []repo.TableDef {
	return []repo.TableDef{
		{
			Name:       StationsTable,
			Columns:    []string{StationID, StationUNMC, StationTitle},
			Serial:     StationID,
			PrimaryKey: []string{StationID},
			Unique:     [][]string{{StationUNMC}},
		},
		{
			Name:        TracksTable,
			Columns:     []string{TrackID, TrackStationID, TrackName},
			Serial:      TrackID,
			PrimaryKey:  []string{TrackID},
			Unique:      [][]string{{TrackStationID, TrackName}},
			ForeignKeys: []repo.ForeignKey{fk(TrackStationID, StationsTable, StationID)},
		},
		{
			Name:        WorkPlacesTable,
			Columns:     []string{WorkPlaceID, WorkPlaceStationID, WorkPlaceName, WorkPlaceType},
			Serial:      WorkPlaceID,
			PrimaryKey:  []string{WorkPlaceID},
			Unique:      [][]string{{WorkPlaceStationID, WorkPlaceName}},
			ForeignKeys: []repo.ForeignKey{fk(WorkPlaceStationID, StationsTable, StationID)},
		},
		{
			Name:       BlocksTable,
			Columns:    []string{BlockID, BlockTitle, BlockStationID1, BlockStationID2},
			Serial:     BlockID,
			PrimaryKey: []string{BlockID},
			Unique:     [][]string{{BlockStationID1, BlockStationID2}},
			ForeignKeys: []repo.ForeignKey{
				fk(BlockStationID1, StationsTable, StationID),
				fk(BlockStationID2, StationsTable, StationID),
			},
		},
		{
			Name:       DncSectorsTable,
			Columns:    []string{DncSectorID, DncSectorTitle},
			Serial:     DncSectorID,
			PrimaryKey: []string{DncSectorID},
			Unique:     [][]string{{DncSectorTitle}},
		},
		{
			Name:       EcdSectorsTable,
			Columns:    []string{EcdSectorID, EcdSectorTitle},
			Serial:     EcdSectorID,
			PrimaryKey: []string{EcdSectorID},
			Unique:     [][]string{{EcdSectorTitle}},
		},
		{
			Name:        DncTrainSectorsTable,
			Columns:     []string{DncTrainSectorID, DncTrainSectorTitle, DncTrainSectorSectorID},
			Serial:      DncTrainSectorID,
			PrimaryKey:  []string{DncTrainSectorID},
			Unique:      [][]string{{DncTrainSectorSectorID, DncTrainSectorTitle}},
			ForeignKeys: []repo.ForeignKey{fk(DncTrainSectorSectorID, DncSectorsTable, DncSectorID)},
		},
		{
			Name:        EcdTrainSectorsTable,
			Columns:     []string{EcdTrainSectorID, EcdTrainSectorTitle, EcdTrainSectorSectorID},
			Serial:      EcdTrainSectorID,
			PrimaryKey:  []string{EcdTrainSectorID},
			Unique:      [][]string{{EcdTrainSectorSectorID, EcdTrainSectorTitle}},
			ForeignKeys: []repo.ForeignKey{fk(EcdTrainSectorSectorID, EcdSectorsTable, EcdSectorID)},
		},
		{
			Name:       DncTrainSectorStationsTable,
			Columns:    []string{DncTSStationTrainSectorID, DncTSStationStationID, DncTSStationPosition},
			PrimaryKey: []string{DncTSStationTrainSectorID, DncTSStationStationID},
			ForeignKeys: []repo.ForeignKey{
				fk(DncTSStationTrainSectorID, DncTrainSectorsTable, DncTrainSectorID),
				fk(DncTSStationStationID, StationsTable, StationID),
			},
		},
		{
			Name:       DncTrainSectorBlocksTable,
			Columns:    []string{DncTSBlockTrainSectorID, DncTSBlockBlockID, DncTSBlockPosition},
			PrimaryKey: []string{DncTSBlockTrainSectorID, DncTSBlockBlockID},
			ForeignKeys: []repo.ForeignKey{
				fk(DncTSBlockTrainSectorID, DncTrainSectorsTable, DncTrainSectorID),
				fk(DncTSBlockBlockID, BlocksTable, BlockID),
			},
		},
		{
			Name:       EcdTrainSectorStationsTable,
			Columns:    []string{EcdTSStationTrainSectorID, EcdTSStationStationID, EcdTSStationPosition},
			PrimaryKey: []string{EcdTSStationTrainSectorID, EcdTSStationStationID},
			ForeignKeys: []repo.ForeignKey{
				fk(EcdTSStationTrainSectorID, EcdTrainSectorsTable, EcdTrainSectorID),
				fk(EcdTSStationStationID, StationsTable, StationID),
			},
		},
		{
			Name:       EcdTrainSectorBlocksTable,
			Columns:    []string{EcdTSBlockTrainSectorID, EcdTSBlockBlockID, EcdTSBlockPosition},
			PrimaryKey: []string{EcdTSBlockTrainSectorID, EcdTSBlockBlockID},
			ForeignKeys: []repo.ForeignKey{
				fk(EcdTSBlockTrainSectorID, EcdTrainSectorsTable, EcdTrainSectorID),
				fk(EcdTSBlockBlockID, BlocksTable, BlockID),
			},
		},
		{
			Name:       AdjacentDncSectorsTable,
			Columns:    []string{AdjacentDncSectorID1, AdjacentDncSectorID2},
			PrimaryKey: []string{AdjacentDncSectorID1, AdjacentDncSectorID2},
			ForeignKeys: []repo.ForeignKey{
				fk(AdjacentDncSectorID1, DncSectorsTable, DncSectorID),
				fk(AdjacentDncSectorID2, DncSectorsTable, DncSectorID),
			},
		},
		{
			Name:       AdjacentEcdSectorsTable,
			Columns:    []string{AdjacentEcdSectorID1, AdjacentEcdSectorID2},
			PrimaryKey: []string{AdjacentEcdSectorID1, AdjacentEcdSectorID2},
			ForeignKeys: []repo.ForeignKey{
				fk(AdjacentEcdSectorID1, EcdSectorsTable, EcdSectorID),
				fk(AdjacentEcdSectorID2, EcdSectorsTable, EcdSectorID),
			},
		},
		{
			Name:       NearestSectorsTable,
			Columns:    []string{NearestEcdSectorID, NearestDncSectorID},
			PrimaryKey: []string{NearestEcdSectorID, NearestDncSectorID},
			ForeignKeys: []repo.ForeignKey{
				fk(NearestEcdSectorID, EcdSectorsTable, EcdSectorID),
				fk(NearestDncSectorID, DncSectorsTable, DncSectorID),
			},
		},
		{
			Name:        StructuralDivisionsTable,
			Columns:     []string{StructuralDivisionID, StructuralDivisionTitle, StructuralDivisionSector},
			Serial:      StructuralDivisionID,
			PrimaryKey:  []string{StructuralDivisionID},
			Unique:      [][]string{{StructuralDivisionSector, StructuralDivisionTitle}},
			ForeignKeys: []repo.ForeignKey{fk(StructuralDivisionSector, EcdSectorsTable, EcdSectorID)},
		},
		{
			Name:    StationWorkPoligonsTable,
			Columns: []string{StationWorkPoligonUserID, StationWorkPoligonStationID, StationWorkPoligonWorkPlace},
			// NULLS NOT DISTINCT in SQL
			Unique: [][]string{{StationWorkPoligonUserID, StationWorkPoligonStationID, StationWorkPoligonWorkPlace}},
			ForeignKeys: []repo.ForeignKey{
				fk(StationWorkPoligonStationID, StationsTable, StationID),
				fk(StationWorkPoligonWorkPlace, WorkPlacesTable, WorkPlaceID),
			},
		},
		{
			Name:        DncWorkPoligonsTable,
			Columns:     []string{DncWorkPoligonUserID, DncWorkPoligonSectorID},
			PrimaryKey:  []string{DncWorkPoligonUserID, DncWorkPoligonSectorID},
			ForeignKeys: []repo.ForeignKey{fk(DncWorkPoligonSectorID, DncSectorsTable, DncSectorID)},
		},
		{
			Name:        EcdWorkPoligonsTable,
			Columns:     []string{EcdWorkPoligonUserID, EcdWorkPoligonSectorID},
			PrimaryKey:  []string{EcdWorkPoligonUserID, EcdWorkPoligonSectorID},
			ForeignKeys: []repo.ForeignKey{fk(EcdWorkPoligonSectorID, EcdSectorsTable, EcdSectorID)},
		},
	}
}
