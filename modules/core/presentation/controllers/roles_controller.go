package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/railway-dispatch/modules/core/presentation/controllers/dtos"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
)

type RolesController struct {
	app      application.Application
	basePath string
}

func NewRolesController(app application.Application) application.Controller {
	return &RolesController{
		app:      app,
		basePath: "/api/roles",
	}
}

func (c *RolesController) Key() string {
	return c.basePath
}

func (c *RolesController) Register(r *mux.Router) {
	auth := c.app.Service(services.AuthService{}).(*services.AuthService)
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.BearerAuth(auth.Authenticate))
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("", c.save).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
}

func (c *RolesController) service() *services.UserService {
	return c.app.Service(services.UserService{}).(*services.UserService)
}

func (c *RolesController) list(w http.ResponseWriter, r *http.Request) {
	roles, err := c.service().ListRoles(r.Context())
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusOK, dtos.ToRoleResponses(roles), nil)
}

func (c *RolesController) save(w http.ResponseWriter, r *http.Request) {
	dto := &dtos.SaveRoleDTO{}
	if err := httpapi.DecodeJSON(r, dto); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	entity := dto.ToEntity()
	if err := c.service().SaveRole(r.Context(), entity); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusOK, dtos.ToRoleResponse(entity), nil)
}

func (c *RolesController) delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service().DeleteRole(r.Context(), mux.Vars(r)["id"]); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
