package postgres

import (
	"context"
	"fmt"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo persiste movimientos de stock (solo INSERT).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. Un número de referencia repetido devuelve domain.ErrReferenceCollision.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, reference_number, product_id, type, quantity, notes, created_by, from_branch_id, to_branch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ReferenceNumber, m.ProductID, m.Type, m.Quantity, m.Notes,
		m.CreatedBy, m.FromBranchID, m.ToBranchID, m.CreatedAt,
	)
	if err != nil {
		if uniqueConstraint(err) == constraintMovementReference {
			return domain.ErrReferenceCollision
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}
