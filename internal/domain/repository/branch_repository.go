package repository

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// BranchRepository puerto de lectura de sucursales (el CRUD vive fuera de este servicio).
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
}
