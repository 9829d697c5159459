package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	coreservices "github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/duty/domain/duty"
	"github.com/iota-uz/railway-dispatch/modules/duty/services"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/application"
	"github.com/iota-uz/railway-dispatch/pkg/composables"
	"github.com/iota-uz/railway-dispatch/pkg/httpapi"
	"github.com/iota-uz/railway-dispatch/pkg/middleware"
)

// DutyRequest names the duty key. User and application come from the
// bearer token.
type DutyRequest struct {
	WorkPoligon workpoligon.WorkPoligon `json:"workPoligon"`
	Credentials []string                `json:"credentials"`
}

type LogoutResponse struct {
	RemainingSessions int `json:"remainingSessions"`
}

type DutyController struct {
	app      application.Application
	basePath string
}

func NewDutyController(app application.Application) application.Controller {
	return &DutyController{
		app:      app,
		basePath: "/api/duty",
	}
}

func (c *DutyController) Key() string {
	return c.basePath
}

func (c *DutyController) Register(r *mux.Router) {
	auth := c.app.Service(coreservices.AuthService{}).(*coreservices.AuthService)
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.BearerAuth(auth.Authenticate))

	router.HandleFunc("/start", c.start).Methods(http.MethodPost)
	router.HandleFunc("/take", c.take).Methods(http.MethodPost)
	router.HandleFunc("/logout", c.logout).Methods(http.MethodPost)
	router.HandleFunc("/logout-with-pass", c.logoutWithPass).Methods(http.MethodPost)
}

func (c *DutyController) service() *services.DutyService {
	return c.app.Service(services.DutyService{}).(*services.DutyService)
}

func command(r *http.Request) (*duty.Command, error) {
	req := &DutyRequest{}
	if err := httpapi.DecodeJSON(r, req); err != nil {
		return nil, err
	}
	claims, _ := composables.UseClaims[*coreservices.Claims](r.Context())
	return &duty.Command{
		UserID:      claims.UserID,
		Application: claims.Application,
		WorkPoligon: req.WorkPoligon,
		Credentials: req.Credentials,
	}, nil
}

func (c *DutyController) start(w http.ResponseWriter, r *http.Request) {
	cmd, err := command(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	res, err := c.service().StartWithoutTakingDuty(r.Context(), cmd)
	httpapi.Respond(w, r, http.StatusOK, res, err)
}

func (c *DutyController) take(w http.ResponseWriter, r *http.Request) {
	cmd, err := command(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	res, err := c.service().TakeDuty(r.Context(), cmd)
	httpapi.Respond(w, r, http.StatusOK, res, err)
}

func (c *DutyController) logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := composables.UseClaims[*coreservices.Claims](r.Context())
	remaining, err := c.service().Logout(r.Context(), &duty.LogoutCommand{
		UserID:      claims.UserID,
		Application: claims.Application,
	})
	httpapi.Respond(w, r, http.StatusOK, &LogoutResponse{RemainingSessions: remaining}, err)
}

func (c *DutyController) logoutWithPass(w http.ResponseWriter, r *http.Request) {
	cmd, err := command(r)
	if err != nil {
		httpapi.Respond(w, r, 0, nil, err)
		return
	}
	res, err := c.service().LogoutWithDutyPass(r.Context(), cmd)
	httpapi.Respond(w, r, http.StatusOK, res, err)
}
