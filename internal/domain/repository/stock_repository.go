package repository

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// StockRepository define el puerto de escritura/lectura puntual de stock por sucursal+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Stock, error)
	// GetByProductAndBranch devuelve nil, nil si no existe.
	GetByProductAndBranch(ctx context.Context, productID, branchID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE). nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Stock, error)
	// Create falla con domain.ErrDuplicateStock si ya existe el par (producto, sucursal).
	Create(ctx context.Context, stock *entity.Stock) error
	UpdateQuantity(ctx context.Context, stock *entity.Stock) error
}
