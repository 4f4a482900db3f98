package groups

// Role es el rol de un miembro dentro de un grupo.
// Jerarquía total: Owner > Admin > Member.
// @Enum Owner, Admin, Member
type Role string

const (
	// RoleOwner: exactamente uno por grupo, creado junto con el grupo,
	// inmutable mientras el grupo exista.
	RoleOwner Role = "Owner"
	// RoleAdmin puede gestionar membresías pero no el grupo en sí.
	RoleAdmin Role = "Admin"
	// RoleMember tiene visibilidad, sin permisos de gestión.
	RoleMember Role = "Member"
)

// Valid reporta si el rol es uno de los tres conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// CanManageMembers concentra la regla de gestión de membresías:
// solo Owner y Admin invitan, cambian roles o eliminan miembros.
// La visibilidad del grupo es otra cosa: la da cualquier membresía.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}
