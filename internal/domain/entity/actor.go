package entity

// Capacidades sobre stock. Se evalúan además del alcance por sucursal, nunca en su lugar.
const (
	CapabilityViewStock   = "stock.view"
	CapabilityCreateStock = "stock.create"
	CapabilityEditStock   = "stock.edit"
)

// Actor es el principal que ejecuta una operación. Se pasa explícitamente a cada operación del núcleo.
type Actor struct {
	UserID       string
	Name         string
	Role         string
	BranchID     string // vacío si no tiene sucursal asignada
	Capabilities map[string]struct{}
}

// NewActor construye un Actor con el conjunto de capacidades indicado.
func NewActor(userID, name, role, branchID string, capabilities ...string) *Actor {
	caps := make(map[string]struct{}, len(capabilities))
	for _, c := range capabilities {
		caps[c] = struct{}{}
	}
	return &Actor{
		UserID:       userID,
		Name:         name,
		Role:         role,
		BranchID:     branchID,
		Capabilities: caps,
	}
}

// IsGlobal indica si el actor puede operar sobre cualquier sucursal.
func (a *Actor) IsGlobal() bool {
	return a != nil && a.Role == RoleSuperAdmin
}

// Has indica si el actor tiene la capacidad.
func (a *Actor) Has(capability string) bool {
	if a == nil {
		return false
	}
	_, ok := a.Capabilities[capability]
	return ok
}
