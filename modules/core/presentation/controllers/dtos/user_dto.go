package dtos

import (
	"time"

	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/services"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

type DutyIntervalResponse struct {
	WorkPoligon      workpoligon.WorkPoligon `json:"workPoligon"`
	Credentials      []string                `json:"credentials"`
	State            string                  `json:"state"`
	LastTakeDutyTime *time.Time              `json:"lastTakeDutyTime,omitempty"`
	LastPassDutyTime *time.Time              `json:"lastPassDutyTime,omitempty"`
}

// UserResponse is the public view of an identity; the password hash never
// leaves the service layer.
type UserResponse struct {
	ID         string                 `json:"id"`
	Login      string                 `json:"login"`
	Post       string                 `json:"post"`
	Name       string                 `json:"name"`
	FatherName string                 `json:"fatherName"`
	Surname    string                 `json:"surname"`
	Service    string                 `json:"service"`
	Roles      []string               `json:"roles"`
	Confirmed  bool                   `json:"confirmed"`
	DutyInfo   []DutyIntervalResponse `json:"dutyInfo"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Application string   `json:"applicationName"`
	Credentials []string `json:"credentials"`
}

type SaveRoleDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Application string   `json:"applicationName"`
	Credentials []string `json:"credentials"`
}

func (d *SaveRoleDTO) ToEntity() *role.Role {
	return &role.Role{
		ID:          d.ID,
		Title:       d.Title,
		Application: d.Application,
		Credentials: d.Credentials,
	}
}

type LoginResponse struct {
	Token  string           `json:"token"`
	Claims *services.Claims `json:"claims"`
}

func ToUserResponse(u *user.User) *UserResponse {
	out := &UserResponse{
		ID:         u.ID,
		Login:      u.Login,
		Post:       u.Post,
		Name:       u.Name,
		FatherName: u.FatherName,
		Surname:    u.Surname,
		Service:    u.Service,
		Roles:      u.Roles,
		Confirmed:  u.Confirmed,
		DutyInfo:   make([]DutyIntervalResponse, 0, len(u.DutyIntervals)),
		CreatedAt:  u.CreatedAt,
	}
	if out.Roles == nil {
		out.Roles = []string{}
	}
	for _, d := range u.DutyIntervals {
		out.DutyInfo = append(out.DutyInfo, DutyIntervalResponse{
			WorkPoligon:      d.WorkPoligon,
			Credentials:      d.Credentials,
			State:            string(d.State()),
			LastTakeDutyTime: d.TakenAt,
			LastPassDutyTime: d.PassedAt,
		})
	}
	return out
}

func ToUserResponses(users []*user.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

func ToRoleResponses(roles []*role.Role) []*RoleResponse {
	out := make([]*RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, ToRoleResponse(r))
	}
	return out
}

func ToRoleResponse(r *role.Role) *RoleResponse {
	return &RoleResponse{
		ID:          r.ID,
		Title:       r.Title,
		Application: r.Application,
		Credentials: r.Credentials,
	}
}
