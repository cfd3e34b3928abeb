package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo vendible. El ledger solo lo referencia por ID.
type Product struct {
	ID        string
	Code      string // código único
	Name      string
	Price     decimal.Decimal // precio de venta
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
