package states

import "time"

// StateType define los estados sanitarios/productivos soportados.
// @Enum HEALTHY, SICK, IN_TREATMENT, PREGNANT, LACTATING, DRY, SOLD, DEAD, OTHER
type StateType string

const (
	StateHealthy     StateType = "HEALTHY"
	StateSick        StateType = "SICK"
	StateInTreatment StateType = "IN_TREATMENT"
	StatePregnant    StateType = "PREGNANT"
	StateLactating   StateType = "LACTATING"
	StateDry         StateType = "DRY"
	StateSold        StateType = "SOLD"
	StateDead        StateType = "DEAD"
	StateOther       StateType = "OTHER"
)

func (t StateType) Valid() bool {
	switch t {
	case StateHealthy, StateSick, StateInTreatment, StatePregnant,
		StateLactating, StateDry, StateSold, StateDead, StateOther:
		return true
	}
	return false
}

// State es un estado del animal con vigencia. A lo sumo un estado activo
// por (animal, tipo): dar de alta uno activo desactiva al anterior del
// mismo tipo y le estampa la fecha de fin.
type State struct {
	ID       string
	AnimalID string

	Type      StateType
	Name      string
	StartDate time.Time
	EndDate   *time.Time
	Notes     string
	Active    bool

	RecordedBy string

	// AnimalOwnerID lo completa el repositorio en las lecturas.
	AnimalOwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
