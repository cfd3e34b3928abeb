package repository

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// Órdenes admitidos para el listado de stock.
const (
	StockSortQuantityAsc  = "quantity_asc"
	StockSortQuantityDesc = "quantity_desc"
	StockSortProductName  = "product_name"
	StockSortUpdatedDesc  = "updated_desc"
)

// StockListFilter filtros del listado de stock. BranchID vacío = todas las sucursales.
type StockListFilter struct {
	BranchID     string
	LowStockOnly bool
	Search       string
	Sort         string
	Limit        int
	Offset       int
}

// MovementHistoryFilter selecciona los movimientos de un producto en una sucursal (origen o destino).
type MovementHistoryFilter struct {
	ProductID string
	BranchID  string
	Limit     int
	Offset    int
}

// StockQueryRepository puerto de lectura para listados y consultas (sin invariantes de escritura).
type StockQueryRepository interface {
	GetSnapshot(ctx context.Context, stockID string) (*entity.StockSnapshot, error)
	ListSnapshots(ctx context.Context, f StockListFilter) ([]entity.StockSnapshot, int, error)
	ListMovements(ctx context.Context, f MovementHistoryFilter) ([]entity.MovementRecord, int, error)
}
