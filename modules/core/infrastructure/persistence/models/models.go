package models

import "time"

type WorkPoligon struct {
	Type  string `json:"type"`
	ID    int64  `json:"id"`
	SubID *int64 `json:"subId,omitempty"`
}

type DutyInterval struct {
	WorkPoligon WorkPoligon `json:"workPoligon"`
	Credentials []string    `json:"credentials"`
	TakenAt     *time.Time  `json:"lastTakeDutyTime,omitempty"`
	PassedAt    *time.Time  `json:"lastPassDutyTime,omitempty"`
}

// User is the identity document as stored in the users hash.
type User struct {
	ID            string         `json:"_id"`
	Login         string         `json:"login"`
	Password      string         `json:"password"`
	Post          string         `json:"post"`
	Name          string         `json:"name"`
	FatherName    string         `json:"fatherName"`
	Surname       string         `json:"surname"`
	Service       string         `json:"service"`
	Roles         []string       `json:"roles"`
	Confirmed     bool           `json:"confirmed"`
	DutyIntervals []DutyInterval `json:"dutyInfo"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type Role struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Application string   `json:"appCode"`
	Credentials []string `json:"credentials"`
}
