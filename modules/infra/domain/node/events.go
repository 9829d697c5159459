package node

import "time"

type DeletedEvent struct {
	Type      Type
	ID        int64
	DeletedAt time.Time
}
