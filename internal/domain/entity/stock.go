package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la cantidad actual de un producto en una sucursal.
// Existe a lo sumo una fila por (ProductID, BranchID).
type Stock struct {
	ID           string
	ProductID    string
	BranchID     string
	Quantity     int // nunca negativo
	MinimumStock int // umbral de alerta, no se aplica como piso
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLow indica si el stock está en o por debajo del mínimo.
func (s *Stock) IsLow() bool {
	return s.Quantity <= s.MinimumStock
}

// StockSnapshot vista de lectura de un Stock con los nombres de producto y sucursal.
type StockSnapshot struct {
	ID           string          `db:"id"`
	ProductID    string          `db:"product_id"`
	ProductName  string          `db:"product_name"`
	ProductCode  string          `db:"product_code"`
	Price        decimal.Decimal `db:"price"`
	BranchID     string          `db:"branch_id"`
	BranchName   string          `db:"branch_name"`
	Quantity     int             `db:"quantity"`
	MinimumStock int             `db:"minimum_stock"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// IsLow indica si el snapshot está en o por debajo del mínimo.
func (s *StockSnapshot) IsLow() bool {
	return s.Quantity <= s.MinimumStock
}

// StockValue valor de inventario a precio de venta (Quantity * Price).
func (s *StockSnapshot) StockValue() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}
