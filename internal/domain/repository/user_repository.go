package repository

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// UserRepository puerto de lectura de usuarios y sus capacidades.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	ListCapabilities(ctx context.Context, userID string) ([]string, error)
}
