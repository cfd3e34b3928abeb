package inventory

import (
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// Guard aplica la política de alcance por sucursal y el conjunto de capacidades del actor.
// El ledger no autoriza: el llamador debe pasar por el Guard antes de invocarlo.
type Guard struct{}

// NewGuard construye el guard.
func NewGuard() *Guard {
	return &Guard{}
}

// CanAccessBranch: un actor global accede a cualquier sucursal; uno limitado solo a la suya.
func (g *Guard) CanAccessBranch(actor *entity.Actor, branchID string) bool {
	if actor == nil || branchID == "" {
		return false
	}
	if actor.IsGlobal() {
		return true
	}
	return actor.BranchID != "" && actor.BranchID == branchID
}

// CanPerformStockWrite verifica la capacidad explícita, independiente del nombre del rol.
func (g *Guard) CanPerformStockWrite(actor *entity.Actor, capability string) bool {
	return actor.Has(capability)
}

// AuthorizeWrite exige capacidad Y alcance de sucursal. Devuelve domain.ErrForbidden si falta alguno.
func (g *Guard) AuthorizeWrite(actor *entity.Actor, branchID, capability string) error {
	if !g.CanPerformStockWrite(actor, capability) {
		return domain.ErrForbidden
	}
	if !g.CanAccessBranch(actor, branchID) {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeRead exige la capacidad de lectura y alcance sobre la sucursal.
func (g *Guard) AuthorizeRead(actor *entity.Actor, branchID string) error {
	if !actor.Has(entity.CapabilityViewStock) {
		return domain.ErrForbidden
	}
	if !g.CanAccessBranch(actor, branchID) {
		return domain.ErrForbidden
	}
	return nil
}

// ScopeBranch resuelve la sucursal efectiva de un listado.
// Actor global: la solicitada (vacío = todas). Actor limitado: siempre la suya, ignorando la solicitada.
func (g *Guard) ScopeBranch(actor *entity.Actor, requested string) (string, error) {
	if !actor.Has(entity.CapabilityViewStock) {
		return "", domain.ErrForbidden
	}
	if actor.IsGlobal() {
		return requested, nil
	}
	if actor.BranchID == "" {
		return "", domain.ErrForbidden
	}
	return actor.BranchID, nil
}
