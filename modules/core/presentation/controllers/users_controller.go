package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/presentation/controllers/dtos"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
)

// UsersController serves identity administration. Registration is public;
// everything else needs a live session token.
type UsersController struct {
	app      application.Application
	basePath string
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		app:      app,
		basePath: "/api/users",
	}
}

func (c *UsersController) Key() string {
	return c.basePath
}

func (c *UsersController) Register(r *mux.Router) {
	auth := c.app.Service(services.AuthService{}).(*services.AuthService)
	r.HandleFunc(c.basePath, c.register).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.BearerAuth(auth.Authenticate))
	router.HandleFunc("", c.list).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.delete).Methods(http.MethodDelete)
	router.HandleFunc("/{id}/confirm", c.confirm).Methods(http.MethodPost)
}

func (c *UsersController) service() *services.UserService {
	return c.app.Service(services.UserService{}).(*services.UserService)
}

func (c *UsersController) register(w http.ResponseWriter, r *http.Request) {
	cmd := &user.RegisterCommand{}
	if err := httpapi.DecodeJSON(r, cmd); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	u, err := c.service().Register(r.Context(), cmd)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusCreated, dtos.ToUserResponse(u), nil)
}

func (c *UsersController) list(w http.ResponseWriter, r *http.Request) {
	users, err := c.service().List(r.Context())
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusOK, dtos.ToUserResponses(users), nil)
}

func (c *UsersController) get(w http.ResponseWriter, r *http.Request) {
	u, err := c.service().GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusOK, dtos.ToUserResponse(u), nil)
}

func (c *UsersController) confirm(w http.ResponseWriter, r *http.Request) {
	u, err := c.service().Confirm(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusOK, dtos.ToUserResponse(u), nil)
}

func (c *UsersController) delete(w http.ResponseWriter, r *http.Request) {
	err := c.service().Delete(r.Context(), &user.DeleteCommand{UserID: mux.Vars(r)["id"]})
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
