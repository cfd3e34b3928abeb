package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/application/dto"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	domaininv "github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/inventory"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
	"github.com/prassaaa/dashboard-rokokgs-sub000/pkg/logger"
)

// StockUseCase operaciones de stock expuestas a la capa HTTP: autoriza con el Guard,
// delega en el ledger o en las consultas y traduce a DTOs.
type StockUseCase struct {
	ledger  *StockLedger
	queries *StockQueryService
	stocks  repository.StockRepository
	guard   *domaininv.Guard
	metrics StockMetrics
	log     *logger.Logger
}

// NewStockUseCase construye el caso de uso. metrics y log pueden ser nil.
func NewStockUseCase(
	ledger *StockLedger,
	queries *StockQueryService,
	stocks repository.StockRepository,
	guard *domaininv.Guard,
	metrics StockMetrics,
	log *logger.Logger,
) *StockUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		ledger:  ledger,
		queries: queries,
		stocks:  stocks,
		guard:   guard,
		metrics: metrics,
		log:     log.Component("stock"),
	}
}

// AdjustStock suma o resta cantidad a un stock existente. Requiere stock.edit sobre su sucursal.
func (uc *StockUseCase) AdjustStock(ctx context.Context, actor *entity.Actor, stockID string, in dto.AdjustStockRequest) (res *dto.StockMutationResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("adjust", resultOf(err), time.Since(start)) }()

	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if stockID == "" {
		return nil, domain.ErrInvalidInput
	}
	stock, err := uc.stocks.GetByID(ctx, stockID)
	if err != nil {
		return nil, wrapStorage(adjustStockOp, err)
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	if err = uc.guard.AuthorizeWrite(actor, stock.BranchID, entity.CapabilityEditStock); err != nil {
		uc.log.WithActor(actor.UserID, actor.BranchID).Warn().
			Str("stock_id", stockID).Str("branch_id", stock.BranchID).
			Msg("ajuste de stock denegado")
		return nil, err
	}

	result, err := uc.ledger.Adjust(ctx, stockID, in.QuantityChange, in.Notes, actor)
	if err != nil {
		uc.logFailure(actor, "ajuste de stock fallido", stockID, err)
		return nil, err
	}

	log := uc.log.WithActor(actor.UserID, actor.BranchID)
	if result.Clamped() {
		uc.metrics.ObserveClamp(result.Stock.BranchID)
		log.Warn().
			Str("stock_id", stockID).
			Int("previous", result.PreviousQuantity).
			Int("requested", in.QuantityChange).
			Int("applied", domaininv.AppliedDelta(result.PreviousQuantity, in.QuantityChange)).
			Msg("salida recortada a cero")
	}
	log.Info().
		Str("stock_id", stockID).
		Str("reference", result.Movement.ReferenceNumber).
		Str("type", result.Movement.Type).
		Int("quantity", result.Stock.Quantity).
		Msg("stock ajustado")

	return uc.mutationResponse(ctx, result)
}

// InitializeStock crea el stock de un producto en una sucursal. Requiere stock.create sobre esa sucursal.
func (uc *StockUseCase) InitializeStock(ctx context.Context, actor *entity.Actor, in dto.InitializeStockRequest) (res *dto.StockMutationResponse, err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("initialize", resultOf(err), time.Since(start)) }()

	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	if in.ProductID == "" || in.BranchID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err = uc.guard.AuthorizeWrite(actor, in.BranchID, entity.CapabilityCreateStock); err != nil {
		uc.log.WithActor(actor.UserID, actor.BranchID).Warn().
			Str("branch_id", in.BranchID).
			Msg("inicialización de stock denegada")
		return nil, err
	}

	result, err := uc.ledger.Initialize(ctx, in.ProductID, in.BranchID, in.Quantity, in.MinimumStock, actor)
	if err != nil {
		uc.logFailure(actor, "inicialización de stock fallida", in.ProductID, err)
		return nil, err
	}

	ev := uc.log.WithActor(actor.UserID, actor.BranchID).Info().
		Str("stock_id", result.Stock.ID).
		Str("product_id", in.ProductID).
		Str("branch_id", in.BranchID).
		Int("quantity", in.Quantity)
	if result.Movement != nil {
		ev = ev.Str("reference", result.Movement.ReferenceNumber)
	}
	ev.Msg("stock inicializado")

	return uc.mutationResponse(ctx, result)
}

// GetStock devuelve un stock si el actor puede leer su sucursal.
func (uc *StockUseCase) GetStock(ctx context.Context, actor *entity.Actor, stockID string) (*dto.StockResponse, error) {
	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	snap, err := uc.queries.Get(ctx, actor, stockID)
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(snap)
	return &resp, nil
}

// ListStock lista stocks paginados con alcance por sucursal.
func (uc *StockUseCase) ListStock(ctx context.Context, actor *entity.Actor, q dto.ListStockQuery) (res *dto.Page[dto.StockResponse], err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("list", resultOf(err), time.Since(start)) }()

	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	page, err := uc.queries.List(ctx, actor, StockFilter{
		BranchID:     q.BranchID,
		LowStockOnly: q.LowStockOnly,
		Search:       q.Search,
		Sort:         q.Sort,
	}, q.Page)
	if err != nil {
		return nil, err
	}
	out := &dto.Page[dto.StockResponse]{Items: make([]dto.StockResponse, 0, len(page.Items)), Page: page.Page}
	for i := range page.Items {
		out.Items = append(out.Items, ToStockResponse(&page.Items[i]))
	}
	return out, nil
}

// ListLowStock atajo de ListStock con low_stock=true para las alertas del tablero.
func (uc *StockUseCase) ListLowStock(ctx context.Context, actor *entity.Actor, branchID string, page int) (*dto.Page[dto.StockResponse], error) {
	return uc.ListStock(ctx, actor, dto.ListStockQuery{
		BranchID:     branchID,
		LowStockOnly: true,
		Page:         page,
	})
}

// GetMovementHistory historial paginado de movimientos del stock, más recientes primero.
func (uc *StockUseCase) GetMovementHistory(ctx context.Context, actor *entity.Actor, stockID string, page int) (res *dto.Page[dto.MovementResponse], err error) {
	start := time.Now()
	defer func() { uc.metrics.ObserveOperation("history", resultOf(err), time.Since(start)) }()

	if actor == nil {
		return nil, domain.ErrUnauthorized
	}
	records, err := uc.queries.History(ctx, actor, stockID, page)
	if err != nil {
		return nil, err
	}
	out := &dto.Page[dto.MovementResponse]{Items: make([]dto.MovementResponse, 0, len(records.Items)), Page: records.Page}
	for i := range records.Items {
		out.Items = append(out.Items, ToMovementResponse(&records.Items[i]))
	}
	return out, nil
}

func (uc *StockUseCase) mutationResponse(ctx context.Context, result *LedgerResult) (*dto.StockMutationResponse, error) {
	resp := &dto.StockMutationResponse{
		PreviousQuantity: result.PreviousQuantity,
		Clamped:          result.Clamped(),
	}
	snap, err := uc.queries.query.GetSnapshot(ctx, result.Stock.ID)
	if err != nil {
		// La escritura ya se confirmó; se responde con lo que devolvió el ledger.
		uc.log.Error().Err(err).Str("stock_id", result.Stock.ID).Msg("no se pudo releer el stock")
	}
	if snap != nil {
		resp.Stock = ToStockResponse(snap)
	} else {
		resp.Stock = stockToResponse(result.Stock)
	}
	if m := result.Movement; m != nil {
		resp.Movement = &dto.MovementResponse{
			ReferenceNumber: m.ReferenceNumber,
			Type:            m.Type,
			Quantity:        m.Quantity,
			Notes:           m.Notes,
			CreatedBy:       m.CreatedBy,
			CreatedAt:       m.CreatedAt,
		}
		if m.FromBranchID != nil {
			name := resp.Stock.BranchName
			resp.Movement.FromBranch = &name
		}
		if m.ToBranchID != nil {
			name := resp.Stock.BranchName
			resp.Movement.ToBranch = &name
		}
	}
	return resp, nil
}

func (uc *StockUseCase) logFailure(actor *entity.Actor, msg, subject string, err error) {
	ev := uc.log.WithActor(actor.UserID, actor.BranchID).Warn()
	if errors.Is(err, domain.ErrStorage) {
		ev = uc.log.WithActor(actor.UserID, actor.BranchID).Error()
	}
	ev.Err(err).Str("subject", subject).Msg(msg)
}

// ToStockResponse convierte un snapshot a DTO.
func ToStockResponse(s *entity.StockSnapshot) dto.StockResponse {
	return dto.StockResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		ProductName:  s.ProductName,
		ProductCode:  s.ProductCode,
		BranchID:     s.BranchID,
		BranchName:   s.BranchName,
		Quantity:     s.Quantity,
		MinimumStock: s.MinimumStock,
		IsLow:        s.IsLow(),
		Price:        s.Price,
		StockValue:   s.StockValue(),
		UpdatedAt:    s.UpdatedAt,
	}
}

// ToMovementResponse convierte un registro de movimiento a DTO.
func ToMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ReferenceNumber: m.ReferenceNumber,
		Type:            m.Type,
		Quantity:        m.Quantity,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedByName,
		FromBranch:      m.FromBranchName,
		ToBranch:        m.ToBranchName,
		CreatedAt:       m.CreatedAt,
	}
}

func stockToResponse(s *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		ID:           s.ID,
		ProductID:    s.ProductID,
		BranchID:     s.BranchID,
		Quantity:     s.Quantity,
		MinimumStock: s.MinimumStock,
		IsLow:        s.IsLow(),
		UpdatedAt:    s.UpdatedAt,
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return ResultForbidden
	case errors.Is(err, domain.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return ResultInvalid
	case errors.Is(err, domain.ErrDuplicateStock):
		return ResultDuplicate
	default:
		return ResultError
	}
}
