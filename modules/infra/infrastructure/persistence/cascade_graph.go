package persistence

import "github.com/iota-uz/railway-dispatch/modules/infra/domain/node"

// CascadeGraph lists, per node type, the rows that must go before the node's
// own row. Order inside a node matters: junctions first, then child cascades,
// then plain children.
func CascadeGraph() *node.Graph {
	return node.MustGraph(
		node.Node{
			Type:  node.Station,
			Table: StationsTable,
			Key:   StationID,
			Dependents: []node.Dependent{
				{Table: StationWorkPoligonsTable, Column: StationWorkPoligonStationID},
				{Table: WorkPlacesTable, Column: WorkPlaceStationID, Child: node.StationWorkPlace},
				{Table: TracksTable, Column: TrackStationID},
				{Table: DncTrainSectorStationsTable, Column: DncTSStationStationID},
				{Table: EcdTrainSectorStationsTable, Column: EcdTSStationStationID},
				{Table: BlocksTable, Column: BlockStationID1, Child: node.Block},
				{Table: BlocksTable, Column: BlockStationID2, Child: node.Block},
			},
		},
		node.Node{
			Type:  node.StationWorkPlace,
			Table: WorkPlacesTable,
			Key:   WorkPlaceID,
			Dependents: []node.Dependent{
				{Table: StationWorkPoligonsTable, Column: StationWorkPoligonWorkPlace},
			},
		},
		node.Node{
			Type:  node.Block,
			Table: BlocksTable,
			Key:   BlockID,
			Dependents: []node.Dependent{
				{Table: DncTrainSectorBlocksTable, Column: DncTSBlockBlockID},
				{Table: EcdTrainSectorBlocksTable, Column: EcdTSBlockBlockID},
			},
		},
		node.Node{
			Type:  node.DncTrainSector,
			Table: DncTrainSectorsTable,
			Key:   DncTrainSectorID,
			Dependents: []node.Dependent{
				{Table: DncTrainSectorStationsTable, Column: DncTSStationTrainSectorID},
				{Table: DncTrainSectorBlocksTable, Column: DncTSBlockTrainSectorID},
			},
		},
		node.Node{
			Type:  node.DncSector,
			Table: DncSectorsTable,
			Key:   DncSectorID,
			Dependents: []node.Dependent{
				{Table: DncTrainSectorsTable, Column: DncTrainSectorSectorID, Child: node.DncTrainSector},
				{Table: AdjacentDncSectorsTable, Column: AdjacentDncSectorID1},
				{Table: AdjacentDncSectorsTable, Column: AdjacentDncSectorID2},
				{Table: NearestSectorsTable, Column: NearestDncSectorID},
				{Table: DncWorkPoligonsTable, Column: DncWorkPoligonSectorID},
			},
		},
		node.Node{
			Type:  node.EcdTrainSector,
			Table: EcdTrainSectorsTable,
			Key:   EcdTrainSectorID,
			Dependents: []node.Dependent{
				{Table: EcdTrainSectorStationsTable, Column: EcdTSStationTrainSectorID},
				{Table: EcdTrainSectorBlocksTable, Column: EcdTSBlockTrainSectorID},
			},
		},
		node.Node{
			Type:  node.EcdSector,
			Table: EcdSectorsTable,
			Key:   EcdSectorID,
			Dependents: []node.Dependent{
				{Table: EcdTrainSectorsTable, Column: EcdTrainSectorSectorID, Child: node.EcdTrainSector},
				{Table: AdjacentEcdSectorsTable, Column: AdjacentEcdSectorID1},
				{Table: AdjacentEcdSectorsTable, Column: AdjacentEcdSectorID2},
				{Table: NearestSectorsTable, Column: NearestEcdSectorID},
				{Table: StructuralDivisionsTable, Column: StructuralDivisionSector},
				{Table: EcdWorkPoligonsTable, Column: EcdWorkPoligonSectorID},
			},
		},
		node.Node{
			Type: node.UserWorkPoligons,
			Dependents: []node.Dependent{
				{Table: StationWorkPoligonsTable, Column: StationWorkPoligonUserID},
				{Table: DncWorkPoligonsTable, Column: DncWorkPoligonUserID},
				{Table: EcdWorkPoligonsTable, Column: EcdWorkPoligonUserID},
			},
		},
	)
}
