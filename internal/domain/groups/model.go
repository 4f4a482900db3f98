package groups

import "time"

// Group es un grupo de usuarios con un propietario fijo.
// Destruirlo cascadea a sus membresías y a las campañas con scope de grupo.
type Group struct {
	ID      string
	Name    string
	OwnerID string

	// Members viene cargado en las lecturas (FindOne / FindAllForUser).
	Members []Membership

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership es la relación (grupo, usuario) con su rol.
// Identidad compuesta: la unicidad de (GroupID, UserID) la garantiza
// el store como constraint dura; ver repository.go.
type Membership struct {
	GroupID string
	UserID  string
	Role    Role

	// Datos del usuario para listados; los completa el repositorio.
	UserName  string
	UserEmail string
}
