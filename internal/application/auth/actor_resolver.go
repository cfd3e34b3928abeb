package auth

import (
	"context"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/repository"
)

// ActorResolver construye el Actor de una petición a partir del usuario autenticado.
type ActorResolver struct {
	userRepo repository.UserRepository
}

// NewActorResolver construye el resolvedor.
func NewActorResolver(userRepo repository.UserRepository) *ActorResolver {
	return &ActorResolver{userRepo: userRepo}
}

// Resolve carga el usuario y su conjunto de capacidades. Usuario inexistente o inactivo = ErrUnauthorized.
func (r *ActorResolver) Resolve(ctx context.Context, userID string) (*entity.Actor, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("resolve actor", err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	caps, err := r.userRepo.ListCapabilities(ctx, userID)
	if err != nil {
		return nil, domain.NewStorageError("resolve actor", err)
	}
	branchID := ""
	if user.BranchID != nil {
		branchID = *user.BranchID
	}
	return entity.NewActor(user.ID, user.Name, user.Role, branchID, caps...), nil
}
