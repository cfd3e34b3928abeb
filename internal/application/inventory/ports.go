package inventory

import (
	"context"
	"time"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}

// ReferenceSource entrega números de referencia candidatos para movimientos.
type ReferenceSource interface {
	Next() (string, error)
}

// Resultados de operación para métricas.
const (
	ResultOK        = "ok"
	ResultForbidden = "forbidden"
	ResultNotFound  = "not_found"
	ResultInvalid   = "invalid"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
)

// StockMetrics observa las operaciones del ledger. La implementación vive en infrastructure/metrics.
type StockMetrics interface {
	ObserveOperation(op, result string, elapsed time.Duration)
	ObserveClamp(branchID string)
	ObserveReferenceRetry()
}

type nopMetrics struct{}

func (nopMetrics) ObserveOperation(string, string, time.Duration) {}
func (nopMetrics) ObserveClamp(string)                            {}
func (nopMetrics) ObserveReferenceRetry()                         {}
