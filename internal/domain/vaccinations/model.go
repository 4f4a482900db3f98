package vaccinations

import "time"

// Vaccination es el registro de una vacuna aplicada a un animal.
// No guarda dueño propio: la propiedad se deriva del animal referido.
type Vaccination struct {
	ID       string
	AnimalID string

	VaccineName  string
	Date         time.Time
	Batch        string
	Veterinarian string
	Notes        string

	// RecordedBy es el usuario que asentó el registro.
	RecordedBy string

	// AnimalOwnerID es el dueño del animal referido; lo completa el
	// repositorio en las lecturas (mismo fetch, sin segunda vuelta).
	AnimalOwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
