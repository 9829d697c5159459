package user

import "time"

type RegisteredEvent struct {
	UserID       string
	Login        string
	WorkPoligons int
	At           time.Time
}

type DeletedEvent struct {
	UserID       string
	Login        string
	WorkPoligons int64
	At           time.Time
}

type ConfirmedEvent struct {
	UserID string
	At     time.Time
}

type LoggedInEvent struct {
	UserID      string
	Application string
	At          time.Time
}
