package campaigns

import "time"

// Status es el estado de avance de la campaña.
// @Enum Pending, InProgress, Done
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusDone
}

// Campaign es una campaña (p.ej. de vacunación) sobre un conjunto de
// animales. Scope excluyente: exactamente uno de OwnerID/GroupID está
// seteado — individual o de grupo, nunca ambos, nunca ninguno.
// Los animales referidos pueden ser de cualquier dueño.
type Campaign struct {
	ID   string
	Name string
	Date time.Time

	Products string
	Notes    string
	Status   Status

	OwnerID string
	GroupID string

	AnimalIDs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
