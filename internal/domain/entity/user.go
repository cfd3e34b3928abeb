package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin  = "super_admin"  // alcance global
	RoleBranchAdmin = "branch_admin" // limitado a su sucursal
	RoleSales       = "sales"
)

// User representa un usuario del back office.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      string
	BranchID  *string // nil para usuarios sin sucursal asignada
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
