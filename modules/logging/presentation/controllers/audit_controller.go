package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/logging/services"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
)

type AuditController struct {
	app      application.Application
	basePath string
}

func NewAuditController(app application.Application) application.Controller {
	return &AuditController{
		app:      app,
		basePath: "/api/audit",
	}
}

func (c *AuditController) Key() string {
	return c.basePath
}

func (c *AuditController) Register(r *mux.Router) {
	auth := c.app.Service(coreservices.AuthService{}).(*coreservices.AuthService)
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.BearerAuth(auth.Authenticate))
	router.HandleFunc("", c.list).Methods(http.MethodGet)
}

func (c *AuditController) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	svc := c.app.Service(services.AuditService{}).(*services.AuditService)
	entries, err := svc.List(r.Context(), limit)
	httpapi.Respond(w, r, http.StatusOK, entries, err)
}
