package dto

import (
	"time"

	"github.com/shopspring/decimal"

	domaininv "github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/inventory"
)

// AdjustStockRequest body para POST /api/stocks/:id/adjust.
type AdjustStockRequest struct {
	QuantityChange int    `json:"quantity_change"` // positivo suma, negativo resta
	Notes          string `json:"notes"`
}

// Validate rechaza cambios fuera del rango persistible.
func (r AdjustStockRequest) Validate() error {
	return domaininv.CheckChange(0, r.QuantityChange)
}

// InitializeStockRequest body para POST /api/stocks.
type InitializeStockRequest struct {
	ProductID    string `json:"product_id"`
	BranchID     string `json:"branch_id"`
	Quantity     int    `json:"quantity"`
	MinimumStock int    `json:"minimum_stock"`
}

// Validate rechaza cantidades negativas o fuera del rango persistible.
func (r InitializeStockRequest) Validate() error {
	if err := domaininv.CheckQuantity(r.Quantity); err != nil {
		return err
	}
	return domaininv.CheckQuantity(r.MinimumStock)
}

// ListStockQuery filtros de GET /api/stocks.
type ListStockQuery struct {
	BranchID     string `query:"branch_id"`
	LowStockOnly bool   `query:"low_stock"`
	Search       string `query:"search"`
	Sort         string `query:"sort"` // quantity_asc (defecto), quantity_desc, product_name, updated_desc
	Page         int    `query:"page"`
}

// StockResponse salida de un stock (StockSnapshot).
type StockResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductCode  string          `json:"product_code"`
	BranchID     string          `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	Quantity     int             `json:"quantity"`
	MinimumStock int             `json:"minimum_stock"`
	IsLow        bool            `json:"is_low"`
	Price        decimal.Decimal `json:"price"`
	StockValue   decimal.Decimal `json:"stock_value"` // quantity * price
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementResponse salida de un movimiento (MovementRecord).
type MovementResponse struct {
	ReferenceNumber string    `json:"reference_number"`
	Type            string    `json:"type"`
	Quantity        int       `json:"quantity"`
	Notes           string    `json:"notes"`
	CreatedBy       string    `json:"created_by"`
	FromBranch      *string   `json:"from_branch"`
	ToBranch        *string   `json:"to_branch"`
	CreatedAt       time.Time `json:"created_at"`
}

// StockMutationResponse salida de ajuste e inicialización: stock resultante y movimiento registrado.
type StockMutationResponse struct {
	Stock            StockResponse     `json:"stock"`
	PreviousQuantity int               `json:"previous_quantity"`
	Clamped          bool              `json:"clamped"` // la salida solicitada superaba la existencia
	Movement         *MovementResponse `json:"movement,omitempty"`
}
