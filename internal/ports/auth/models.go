package auth

// Role es el rol resuelto upstream; el core solo lo usa para guardas de
// dominio, no verifica credenciales.
type Role string

const (
	RoleDogOwner    Role = "DOG_OWNER"
	RoleClinicStaff Role = "CLINIC_STAFF"
	RoleAdmin       Role = "ADMIN"
)

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	Role     Role
	ClinicID string
}
