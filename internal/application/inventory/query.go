package inventory

import (
	"context"
	"strings"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/application/dto"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	domaininv "github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/inventory"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

// DefaultPageSize tamaño de página de listados e historial.
const DefaultPageSize = 15

const (
	listStockOp    = "list stock"
	historyOp      = "movement history"
	getStockOp     = "get stock"
	maxSearchRunes = 100
)

// StockFilter filtros del listado tal como los pide el llamador.
type StockFilter struct {
	BranchID     string
	LowStockOnly bool
	Search       string
	Sort         string
}

// StockQueryService consultas de solo lectura sobre stock y movimientos, con alcance por sucursal.
type StockQueryService struct {
	query    repository.StockQueryRepository
	guard    *domaininv.Guard
	pageSize int
}

// NewStockQueryService construye el servicio. pageSize no positivo usa DefaultPageSize.
func NewStockQueryService(query repository.StockQueryRepository, guard *domaininv.Guard, pageSize int) *StockQueryService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &StockQueryService{query: query, guard: guard, pageSize: pageSize}
}

// List devuelve una página de stocks. Un actor limitado a sucursal solo ve la suya,
// sin importar la sucursal solicitada.
func (s *StockQueryService) List(ctx context.Context, actor *entity.Actor, filter StockFilter, page int) (*dto.Page[entity.StockSnapshot], error) {
	branchID, err := s.guard.ScopeBranch(actor, strings.TrimSpace(filter.BranchID))
	if err != nil {
		return nil, err
	}
	page = dto.NormalizePage(page)

	items, total, err := s.query.ListSnapshots(ctx, repository.StockListFilter{
		BranchID:     branchID,
		LowStockOnly: filter.LowStockOnly,
		Search:       normalizeSearch(filter.Search),
		Sort:         NormalizeSort(filter.Sort),
		Limit:        s.pageSize,
		Offset:       dto.Offset(page, s.pageSize),
	})
	if err != nil {
		return nil, wrapStorage(listStockOp, err)
	}
	if items == nil {
		items = []entity.StockSnapshot{}
	}
	return &dto.Page[entity.StockSnapshot]{
		Items: items,
		Page:  dto.NewPageResponse(total, page, s.pageSize, len(items)),
	}, nil
}

// Get devuelve un stock si el actor puede leer su sucursal.
func (s *StockQueryService) Get(ctx context.Context, actor *entity.Actor, stockID string) (*entity.StockSnapshot, error) {
	if stockID == "" {
		return nil, domain.ErrInvalidInput
	}
	snap, err := s.query.GetSnapshot(ctx, stockID)
	if err != nil {
		return nil, wrapStorage(getStockOp, err)
	}
	if snap == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.guard.AuthorizeRead(actor, snap.BranchID); err != nil {
		return nil, err
	}
	return snap, nil
}

// History devuelve los movimientos del producto del stock cuya sucursal es origen o destino,
// del más reciente al más antiguo.
func (s *StockQueryService) History(ctx context.Context, actor *entity.Actor, stockID string, page int) (*dto.Page[entity.MovementRecord], error) {
	snap, err := s.Get(ctx, actor, stockID)
	if err != nil {
		return nil, err
	}
	page = dto.NormalizePage(page)

	items, total, err := s.query.ListMovements(ctx, repository.MovementHistoryFilter{
		ProductID: snap.ProductID,
		BranchID:  snap.BranchID,
		Limit:     s.pageSize,
		Offset:    dto.Offset(page, s.pageSize),
	})
	if err != nil {
		return nil, wrapStorage(historyOp, err)
	}
	if items == nil {
		items = []entity.MovementRecord{}
	}
	return &dto.Page[entity.MovementRecord]{
		Items: items,
		Page:  dto.NewPageResponse(total, page, s.pageSize, len(items)),
	}, nil
}

// NormalizeSort devuelve un orden admitido; vacío o desconocido = quantity_asc.
func NormalizeSort(sort string) string {
	switch sort = strings.ToLower(strings.TrimSpace(sort)); sort {
	case repository.StockSortQuantityAsc,
		repository.StockSortQuantityDesc,
		repository.StockSortProductName,
		repository.StockSortUpdatedDesc:
		return sort
	default:
		return repository.StockSortQuantityAsc
	}
}

func normalizeSearch(q string) string {
	q = strings.TrimSpace(q)
	if r := []rune(q); len(r) > maxSearchRunes {
		q = string(r[:maxSearchRunes])
	}
	return q
}
