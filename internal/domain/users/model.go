package users

import "time"

// User representa una cuenta registrada en el sistema.
// El email es único (case-insensitive); el service lo normaliza a minúsculas
// antes de cualquier búsqueda o alta.
type User struct {
	ID    string
	Name  string
	Email string

	// PasswordHash es el hash bcrypt; nunca sale por la API.
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
