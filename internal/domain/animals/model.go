package animals

import "time"

// Animal es el recurso raíz de autorización: la propiedad de todos los
// registros de eventos (vacunaciones, estados, historial, partos) se
// deriva del OwnerID del animal referido, nunca se guarda aparte.
type Animal struct {
	ID      string
	OwnerID string

	EarTag string // caravana, opcional
	Kind   Kind
	Coat   string
	Sex    Sex
	Breed  string

	BirthDate *time.Time

	// MotherID/FatherID son back-references opcionales, no propiedad:
	// un padre puede pertenecer a otro dueño que la cría.
	MotherID string
	FatherID string

	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Family es el resultado de la consulta de parentesco de un animal.
// Los padres ausentes se toleran en silencio; Children incluye crías
// de cualquier dueño.
type Family struct {
	Animal   Animal
	Mother   *Animal
	Father   *Animal
	Children []Animal
}

// Page es la paginación de los listados de animales.
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

// Offset devuelve el desplazamiento en filas de la página.
func (p Page) Offset() int {
	p = p.normalize()
	return (p.Page - 1) * p.Limit
}
