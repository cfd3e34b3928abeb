package repository

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos (el CRUD vive fuera de este servicio).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
