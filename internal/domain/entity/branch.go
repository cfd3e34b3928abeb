package entity

import "time"

// Branch representa una sucursal física donde se mantiene stock.
type Branch struct {
	ID        string
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
