package history

import "time"

// EntryType clasifica las anotaciones del historial.
// @Enum BIRTH, VACCINATION, STATE, TREATMENT, OBSERVATION, OTHER
type EntryType string

const (
	EntryBirth       EntryType = "BIRTH"
	EntryVaccination EntryType = "VACCINATION"
	EntryState       EntryType = "STATE"
	EntryTreatment   EntryType = "TREATMENT"
	EntryObservation EntryType = "OBSERVATION"
	EntryOther       EntryType = "OTHER"
)

func (t EntryType) Valid() bool {
	switch t {
	case EntryBirth, EntryVaccination, EntryState, EntryTreatment,
		EntryObservation, EntryOther:
		return true
	}
	return false
}

// Entry es una anotación libre del historial de un animal.
type Entry struct {
	ID       string
	AnimalID string

	Type        EntryType
	Title       string
	Description string
	Date        time.Time

	RecordedBy string

	// AnimalOwnerID lo completa el repositorio en las lecturas.
	AnimalOwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
