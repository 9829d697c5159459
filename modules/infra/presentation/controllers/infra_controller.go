package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/entities"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/node"
	"github.com/iota-uz/railway-dispatch/modules/infra/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

var ErrUnknownSectorKind = serrors.Validation("UNKNOWN_SECTOR_KIND", "sector kind must be dnc or ecd")

// InfraController exposes the infrastructure catalogue and node deletion.
type InfraController struct {
	app      application.Application
	basePath string
}

func NewInfraController(app application.Application) application.Controller {
	return &InfraController{
		app:      app,
		basePath: "/api/infra",
	}
}

func (c *InfraController) Key() string {
	return c.basePath
}

func (c *InfraController) Register(r *mux.Router) {
	auth := c.app.Service(coreservices.AuthService{}).(*coreservices.AuthService)
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.BearerAuth(auth.Authenticate))

	router.HandleFunc("/nodes/{type}/{id:[0-9]+}", c.deleteNode).Methods(http.MethodDelete)

	router.HandleFunc("/stations", c.listStations).Methods(http.MethodGet)
	router.HandleFunc("/stations", c.createStation).Methods(http.MethodPost)
	router.HandleFunc("/stations/{id:[0-9]+}", c.getStation).Methods(http.MethodGet)
	router.HandleFunc("/stations/{id:[0-9]+}/tracks", c.listTracks).Methods(http.MethodGet)
	router.HandleFunc("/stations/{id:[0-9]+}/work-places", c.listWorkPlaces).Methods(http.MethodGet)
	router.HandleFunc("/tracks", c.createTrack).Methods(http.MethodPost)
	router.HandleFunc("/work-places", c.createWorkPlace).Methods(http.MethodPost)

	router.HandleFunc("/blocks", c.listBlocks).Methods(http.MethodGet)
	router.HandleFunc("/blocks", c.createBlock).Methods(http.MethodPost)
	router.HandleFunc("/blocks/{id:[0-9]+}", c.getBlock).Methods(http.MethodGet)

	router.HandleFunc("/sectors", c.createSector).Methods(http.MethodPost)
	router.HandleFunc("/sectors/adjacent", c.linkAdjacent).Methods(http.MethodPost)
	router.HandleFunc("/sectors/nearest", c.linkNearest).Methods(http.MethodPost)
	router.HandleFunc("/sectors/{kind}", c.listSectors).Methods(http.MethodGet)
	router.HandleFunc("/sectors/{kind}/{id:[0-9]+}", c.getSector).Methods(http.MethodGet)
	router.HandleFunc("/sectors/{kind}/{id:[0-9]+}/train-sectors", c.listTrainSectors).Methods(http.MethodGet)
	router.HandleFunc("/structural-divisions", c.createStructuralDivision).Methods(http.MethodPost)

	router.HandleFunc("/train-sectors", c.createTrainSector).Methods(http.MethodPost)
	router.HandleFunc("/train-sectors/stations", c.addTrainSectorStation).Methods(http.MethodPost)
	router.HandleFunc("/train-sectors/blocks", c.addTrainSectorBlock).Methods(http.MethodPost)
	router.HandleFunc("/train-sectors/{kind}/{id:[0-9]+}/stations", c.listTrainSectorStations).Methods(http.MethodGet)
	router.HandleFunc("/train-sectors/{kind}/{id:[0-9]+}/blocks", c.listTrainSectorBlocks).Methods(http.MethodGet)

	router.HandleFunc("/users/{userId}/work-poligons", c.listUserWorkPoligons).Methods(http.MethodGet)
}

func (c *InfraController) service() *services.InfrastructureService {
	return c.app.Service(services.InfrastructureService{}).(*services.InfrastructureService)
}

func sectorKind(r *http.Request) (entities.SectorKind, error) {
	kind := entities.SectorKind(mux.Vars(r)["kind"])
	if !kind.Valid() {
		return "", ErrUnknownSectorKind.WithMeta("kind", string(kind))
	}
	return kind, nil
}

func kindAndID(r *http.Request) (entities.SectorKind, int64, error) {
	kind, err := sectorKind(r)
	if err != nil {
		return "", 0, err
	}
	id, err := httpapi.PathInt64(r, "id")
	return kind, id, err
}

func (c *InfraController) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	cmd := &node.DeleteCommand{Type: node.Type(mux.Vars(r)["type"]), ID: id}
	if err := c.service().DeleteNode(r.Context(), cmd); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InfraController) createStation(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateStationDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	st, err := c.service().CreateStation(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, st, err)
}

func (c *InfraController) listStations(w http.ResponseWriter, r *http.Request) {
	list, err := c.service().SearchStations(r.Context(), r.URL.Query().Get("q"))
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) getStation(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	st, err := c.service().GetStation(r.Context(), id)
	httpapi.Respond(w, r, http.StatusOK, st, err)
}

func (c *InfraController) listTracks(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	list, err := c.service().ListTracks(r.Context(), id)
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) listWorkPlaces(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	list, err := c.service().ListWorkPlaces(r.Context(), id)
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) createTrack(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateTrackDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	tr, err := c.service().CreateTrack(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, tr, err)
}

func (c *InfraController) createWorkPlace(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateWorkPlaceDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	wp, err := c.service().CreateWorkPlace(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, wp, err)
}

func (c *InfraController) createBlock(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateBlockDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	b, err := c.service().CreateBlock(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, b, err)
}

func (c *InfraController) listBlocks(w http.ResponseWriter, r *http.Request) {
	list, err := c.service().ListBlocks(r.Context())
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) getBlock(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	b, err := c.service().GetBlock(r.Context(), id)
	httpapi.Respond(w, r, http.StatusOK, b, err)
}

func (c *InfraController) createSector(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateSectorDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	s, err := c.service().CreateSector(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, s, err)
}

func (c *InfraController) listSectors(w http.ResponseWriter, r *http.Request) {
	kind, err := sectorKind(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	list, err := c.service().ListSectors(r.Context(), kind)
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) getSector(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	s, err := c.service().GetSector(r.Context(), kind, id)
	httpapi.Respond(w, r, http.StatusOK, s, err)
}

func (c *InfraController) linkAdjacent(w http.ResponseWriter, r *http.Request) {
	dto := &entities.LinkSectorsDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	if err := c.service().LinkAdjacentSectors(r.Context(), dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InfraController) linkNearest(w http.ResponseWriter, r *http.Request) {
	dto := &entities.LinkNearestDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	if err := c.service().LinkNearestSectors(r.Context(), dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InfraController) createStructuralDivision(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateStructuralDivisionDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	d, err := c.service().CreateStructuralDivision(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, d, err)
}

func (c *InfraController) createTrainSector(w http.ResponseWriter, r *http.Request) {
	dto := &entities.CreateTrainSectorDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	ts, err := c.service().CreateTrainSector(r.Context(), dto)
	httpapi.Respond(w, r, http.StatusCreated, ts, err)
}

func (c *InfraController) listTrainSectors(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	list, err := c.service().ListTrainSectors(r.Context(), kind, id)
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) addTrainSectorStation(w http.ResponseWriter, r *http.Request) {
	dto := &entities.AddMemberDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	if err := c.service().AddTrainSectorStation(r.Context(), dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InfraController) addTrainSectorBlock(w http.ResponseWriter, r *http.Request) {
	dto := &entities.AddMemberDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	if err := c.service().AddTrainSectorBlock(r.Context(), dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *InfraController) listTrainSectorStations(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	list, err := c.service().ListTrainSectorStations(r.Context(), kind, id)
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) listTrainSectorBlocks(w http.ResponseWriter, r *http.Request) {
	kind, id, err := kindAndID(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	list, err := c.service().ListTrainSectorBlocks(r.Context(), kind, id)
	httpapi.Respond(w, r, http.StatusOK, list, err)
}

func (c *InfraController) listUserWorkPoligons(w http.ResponseWriter, r *http.Request) {
	list, err := c.service().UserWorkPoligons(r.Context(), mux.Vars(r)["userId"])
	httpapi.Respond(w, r, http.StatusOK, list, err)
}
