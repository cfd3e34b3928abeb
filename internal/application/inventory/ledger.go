package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	domaininv "github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/inventory"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

const (
	// DefaultMaxReferenceAttempts intentos de transacción ante colisión de número de referencia.
	DefaultMaxReferenceAttempts = 3

	defaultAdjustNotes = "Ajuste de stock"
	initialStockNotes  = "Stock inicial"
	referenceNumberOp  = "reference number"
	adjustStockOp      = "adjust stock"
	initializeStockOp  = "initialize stock"
)

// LedgerResult estado tras una operación del ledger.
// Movement es nil cuando la operación no registró movimiento (inicialización con cantidad 0).
type LedgerResult struct {
	Stock            *entity.Stock
	Movement         *entity.StockMovement
	PreviousQuantity int
}

// Clamped indica si el cambio solicitado se recortó en cero.
func (r *LedgerResult) Clamped() bool {
	if r == nil || r.Movement == nil || r.Movement.Type != entity.MovementTypeOut {
		return false
	}
	return r.Movement.Quantity > r.PreviousQuantity
}

// StockLedger aplica cambios de stock con bloqueo de fila (SELECT FOR UPDATE) y registra
// el movimiento en la misma transacción. No autoriza: el llamador debe pasar por el Guard.
type StockLedger struct {
	txRunner    TxRunner
	products    repository.ProductRepository
	branches    repository.BranchRepository
	refs        ReferenceSource
	metrics     StockMetrics
	maxAttempts int
	now         func() time.Time
	newID       func() string
}

// LedgerOption configura el ledger.
type LedgerOption func(*StockLedger)

// WithMaxAttempts fija los intentos ante colisión de referencia (mínimo 1).
func WithMaxAttempts(n int) LedgerOption {
	return func(l *StockLedger) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

// WithLedgerClock reemplaza el reloj (tests).
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(l *StockLedger) { l.now = now }
}

// WithIDGenerator reemplaza el generador de IDs (tests).
func WithIDGenerator(newID func() string) LedgerOption {
	return func(l *StockLedger) { l.newID = newID }
}

// WithLedgerMetrics registra los reintentos por colisión.
func WithLedgerMetrics(m StockMetrics) LedgerOption {
	return func(l *StockLedger) {
		if m != nil {
			l.metrics = m
		}
	}
}

// NewStockLedger construye el ledger.
func NewStockLedger(
	txRunner TxRunner,
	products repository.ProductRepository,
	branches repository.BranchRepository,
	refs ReferenceSource,
	opts ...LedgerOption,
) *StockLedger {
	l := &StockLedger{
		txRunner:    txRunner,
		products:    products,
		branches:    branches,
		refs:        refs,
		metrics:     nopMetrics{},
		maxAttempts: DefaultMaxReferenceAttempts,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Adjust bloquea la fila de stock, aplica el cambio con signo (recortando en cero) y registra
// un movimiento con la magnitud solicitada. Cambio > 0 registra "in" hacia la sucursal;
// cualquier otro valor registra "out" desde la sucursal.
func (l *StockLedger) Adjust(ctx context.Context, stockID string, change int, notes string, actor *entity.Actor) (*LedgerResult, error) {
	if stockID == "" || actor == nil || actor.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := domaininv.CheckChange(0, change); err != nil {
		return nil, err
	}
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = defaultAdjustNotes
	}

	var result *LedgerResult
	err := l.withReference(ctx, adjustStockOp, func(ref string) error {
		result = nil
		return l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movementRepo repository.StockMovementRepository) error {
			stock, err := stockRepo.GetForUpdate(ctx, stockID)
			if err != nil {
				return err
			}
			if stock == nil {
				return domain.ErrNotFound
			}

			if err := domaininv.CheckChange(stock.Quantity, change); err != nil {
				return err
			}

			now := l.now()
			previous := stock.Quantity
			newQty, movType, magnitude := domaininv.ApplyChange(previous, change)

			stock.Quantity = newQty
			stock.UpdatedAt = now
			if err := stockRepo.UpdateQuantity(ctx, stock); err != nil {
				return err
			}

			mov := l.newMovement(ref, stock, movType, magnitude, notes, actor, now)
			if err := movementRepo.Create(ctx, mov); err != nil {
				return err
			}
			result = &LedgerResult{Stock: stock, Movement: mov, PreviousQuantity: previous}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Initialize crea la fila de stock para (producto, sucursal). Con cantidad > 0 registra un
// movimiento "in" hacia la sucursal; con cantidad 0 no registra movimiento.
func (l *StockLedger) Initialize(ctx context.Context, productID, branchID string, quantity, minimumStock int, actor *entity.Actor) (*LedgerResult, error) {
	if productID == "" || branchID == "" || actor == nil || actor.UserID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := domaininv.CheckQuantity(quantity); err != nil {
		return nil, err
	}
	if err := domaininv.CheckQuantity(minimumStock); err != nil {
		return nil, err
	}

	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return nil, wrapStorage(initializeStockOp, err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := l.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, wrapStorage(initializeStockOp, err)
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}

	var result *LedgerResult
	run := func(ref string) error {
		result = nil
		return l.txRunner.Run(ctx, func(stockRepo repository.StockRepository, movementRepo repository.StockMovementRepository) error {
			existing, err := stockRepo.GetByProductAndBranch(ctx, productID, branchID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrDuplicateStock
			}

			now := l.now()
			stock := &entity.Stock{
				ID:           l.newID(),
				ProductID:    productID,
				BranchID:     branchID,
				Quantity:     quantity,
				MinimumStock: minimumStock,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := stockRepo.Create(ctx, stock); err != nil {
				return err
			}
			result = &LedgerResult{Stock: stock}
			if quantity == 0 {
				return nil
			}

			mov := l.newMovement(ref, stock, entity.MovementTypeIn, quantity, initialStockNotes, actor, now)
			if err := movementRepo.Create(ctx, mov); err != nil {
				return err
			}
			result.Movement = mov
			return nil
		})
	}

	if quantity == 0 {
		err = wrapStorage(initializeStockOp, run(""))
	} else {
		err = l.withReference(ctx, initializeStockOp, run)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *StockLedger) newMovement(ref string, stock *entity.Stock, movType string, magnitude int, notes string, actor *entity.Actor, now time.Time) *entity.StockMovement {
	branchID := stock.BranchID
	mov := &entity.StockMovement{
		ID:              l.newID(),
		ReferenceNumber: ref,
		ProductID:       stock.ProductID,
		Type:            movType,
		Quantity:        magnitude,
		Notes:           notes,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
	}
	if movType == entity.MovementTypeIn {
		mov.ToBranchID = &branchID
	} else {
		mov.FromBranchID = &branchID
	}
	return mov
}

// withReference ejecuta fn con un número de referencia nuevo por intento. Ante colisión la
// transacción completa se repite con otro número hasta maxAttempts.
func (l *StockLedger) withReference(ctx context.Context, op string, fn func(ref string) error) error {
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		ref, err := l.refs.Next()
		if err != nil {
			return domain.NewStorageError(referenceNumberOp, err)
		}
		err = fn(ref)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrReferenceCollision) {
			return wrapStorage(op, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.NewStorageError(op, ctxErr)
		}
		if attempt < l.maxAttempts {
			l.metrics.ObserveReferenceRetry()
		}
	}
	return domain.NewStorageError(referenceNumberOp, domain.ErrReferenceCollision)
}

// wrapStorage deja pasar los errores de dominio y envuelve el resto como StorageError.
func wrapStorage(op string, err error) error {
	if err == nil || domain.IsDomainError(err) {
		return err
	}
	return domain.NewStorageError(op, err)
}
