package persistence

import (
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/role"
	"github.com/iota-uz/railway-dispatch/modules/core/domain/aggregates/user"
	"github.com/iota-uz/railway-dispatch/modules/core/infrastructure/persistence/models"
	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
)

func ToDBUser(u *user.User) models.User {
	intervals := make([]models.DutyInterval, 0, len(u.DutyIntervals))
	for _, d := range u.DutyIntervals {
		intervals = append(intervals, models.DutyInterval{
			WorkPoligon: models.WorkPoligon{
				Type:  string(d.WorkPoligon.Type),
				ID:    d.WorkPoligon.ID,
				SubID: d.WorkPoligon.SubID,
			},
			Credentials: []string(d.Credentials),
			TakenAt:     d.TakenAt,
			PassedAt:    d.PassedAt,
		})
	}
	return models.User{
		ID:            u.ID,
		Login:         u.Login,
		Password:      u.PasswordHash,
		Post:          u.Post,
		Name:          u.Name,
		FatherName:    u.FatherName,
		Surname:       u.Surname,
		Service:       u.Service,
		Roles:         u.Roles,
		Confirmed:     u.Confirmed,
		DutyIntervals: intervals,
		CreatedAt:     u.CreatedAt,
	}
}

func ToDomainUser(m models.User) (*user.User, error) {
	intervals := make([]user.DutyInterval, 0, len(m.DutyIntervals))
	for _, d := range m.DutyIntervals {
		t, err := workpoligon.ParseType(d.WorkPoligon.Type)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, user.DutyInterval{
			WorkPoligon: workpoligon.WorkPoligon{Type: t, ID: d.WorkPoligon.ID, SubID: d.WorkPoligon.SubID},
			Credentials: user.NewCredentialSet(d.Credentials...),
			TakenAt:     d.TakenAt,
			PassedAt:    d.PassedAt,
		})
	}
	return &user.User{
		ID:            m.ID,
		Login:         m.Login,
		PasswordHash:  m.Password,
		Post:          m.Post,
		Name:          m.Name,
		FatherName:    m.FatherName,
		Surname:       m.Surname,
		Service:       m.Service,
		Roles:         m.Roles,
		Confirmed:     m.Confirmed,
		DutyIntervals: intervals,
		CreatedAt:     m.CreatedAt,
	}, nil
}

func ToDBRole(r *role.Role) models.Role {
	return models.Role{
		ID:          r.ID,
		Title:       r.Title,
		Application: r.Application,
		Credentials: r.Credentials,
	}
}

func ToDomainRole(m models.Role) *role.Role {
	return &role.Role{
		ID:          m.ID,
		Title:       m.Title,
		Application: m.Application,
		Credentials: m.Credentials,
	}
}
