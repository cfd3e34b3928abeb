package repository

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// StockMovementRepository puerto de persistencia para movimientos de stock (solo inserción).
// No hay operaciones de actualización ni borrado: los movimientos son la auditoría de registro.
type StockMovementRepository interface {
	// Create falla con domain.ErrReferenceCollision si el número de referencia ya existe.
	Create(ctx context.Context, movement *entity.StockMovement) error
}
