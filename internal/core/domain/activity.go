package domain

import "time"

// ActivityKind names a change recorded in the activity log.
type ActivityKind string

const (
	ActivityRoomUpdated    ActivityKind = "room.updated"
	ActivityInvoiceCreated ActivityKind = "invoice.created"
	ActivityUserRegistered ActivityKind = "user.registered"
)

// Valid reports whether k is a known activity kind.
func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityRoomUpdated, ActivityInvoiceCreated, ActivityUserRegistered:
		return true
	}
	return false
}

// Activity is one entry of the back-office activity log ("bitácora").
type Activity struct {
	ID       string       `json:"id" bson:"_id"`
	Kind     ActivityKind `json:"kind" bson:"kind"`
	EntityID string       `json:"entityId" bson:"entity_id"`
	Actor    string       `json:"actor,omitempty" bson:"actor,omitempty"`
	Summary  string       `json:"summary" bson:"summary"`
	At       time.Time    `json:"at" bson:"at"`
}
