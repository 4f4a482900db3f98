package births

import "time"

// Status es el desenlace del parto.
// @Enum ALIVE, DEAD, STILLBORN
type Status string

const (
	StatusAlive     Status = "ALIVE"
	StatusDead      Status = "DEAD"
	StatusStillborn Status = "STILLBORN"
)

func (s Status) Valid() bool {
	return s == StatusAlive || s == StatusDead || s == StatusStillborn
}

// Birth registra un parto de una madre. La propiedad del registro se
// deriva del dueño de la madre; la cría puede darse por id o crearse
// automáticamente a nombre de quien asienta el parto.
type Birth struct {
	ID       string
	MotherID string
	CalfID   string // opcional

	Date     time.Time
	Status   Status
	CalfSex  string
	Weight   string
	Notes    string

	RecordedBy string

	// MotherOwnerID lo completa el repositorio en las lecturas.
	MotherOwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
