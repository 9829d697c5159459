package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/presentation/controllers/dtos"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
)

type AuthController struct {
	app      application.Application
	basePath string
}

func NewAuthController(app application.Application) application.Controller {
	return &AuthController{
		app:      app,
		basePath: "/api/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	auth := c.app.Service(services.AuthService{}).(*services.AuthService)
	r.HandleFunc(c.basePath+"/login", c.login).Methods(http.MethodPost)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.BearerAuth(auth.Authenticate))
	router.HandleFunc("/me", c.me).Methods(http.MethodGet)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	cmd := &user.LoginCommand{}
	if err := httpapi.DecodeJSON(r, cmd); err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	auth := c.app.Service(services.AuthService{}).(*services.AuthService)
	res, err := auth.Login(r.Context(), cmd)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	httpapi.Respond(w, r, http.StatusOK, &dtos.LoginResponse{Token: res.Token, Claims: res.Claims}, nil)
}

func (c *AuthController) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := composables.UseClaims[*services.Claims](r.Context())
	httpapi.Respond(w, r, http.StatusOK, claims, nil)
}
