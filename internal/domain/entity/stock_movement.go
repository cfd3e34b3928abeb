package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// StockMovement registro inmutable de un cambio de stock (solo inserción).
// Quantity es la magnitud solicitada, nunca con signo.
// Para ajustes e inicialización solo uno de FromBranchID/ToBranchID tiene valor.
type StockMovement struct {
	ID              string
	ReferenceNumber string
	ProductID       string
	Type            string // in, out
	Quantity        int
	Notes           string
	CreatedBy       string // UserID
	FromBranchID    *string
	ToBranchID      *string
	CreatedAt       time.Time
}

// BranchID devuelve la sucursal afectada por el movimiento (origen o destino).
func (m *StockMovement) BranchID() string {
	if m.ToBranchID != nil {
		return *m.ToBranchID
	}
	if m.FromBranchID != nil {
		return *m.FromBranchID
	}
	return ""
}

// MovementRecord vista de lectura de un movimiento con nombres resueltos.
type MovementRecord struct {
	ID              string    `db:"id"`
	ReferenceNumber string    `db:"reference_number"`
	Type            string    `db:"type"`
	Quantity        int       `db:"quantity"`
	Notes           string    `db:"notes"`
	CreatedByName   string    `db:"created_by_name"`
	FromBranchName  *string   `db:"from_branch_name"`
	ToBranchName    *string   `db:"to_branch_name"`
	CreatedAt       time.Time `db:"created_at"`
}
