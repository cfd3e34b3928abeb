package inventory

import (
	"math"

	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain"
	"github.com/prassaaa/dashboard-rokokgs-sub000/internal/domain/entity"
)

// MaxQuantity tope de las columnas INTEGER de cantidad.
const MaxQuantity = math.MaxInt32

// CheckQuantity rechaza cantidades negativas o por encima de MaxQuantity.
func CheckQuantity(q int) error {
	if q < 0 || q > MaxQuantity {
		return domain.ErrInvalidInput
	}
	return nil
}

// CheckChange rechaza cambios con magnitud mayor a MaxQuantity o cuya suma con la
// cantidad actual exceda MaxQuantity. Con current = 0 valida solo la magnitud.
func CheckChange(current, change int) error {
	if change > MaxQuantity || change < -MaxQuantity {
		return domain.ErrInvalidInput
	}
	if change > 0 && current > MaxQuantity-change {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyChange aplica un cambio con signo sobre la cantidad actual (servicio de dominio).
// Supone valores ya validados con CheckChange.
//
//	NuevaCantidad = max(0, Actual + Cambio)
//	Tipo          = "in" si Cambio > 0, si no "out" (cero cuenta como salida)
//	Magnitud      = |Cambio|, la solicitada, aunque se haya recortado a cero
func ApplyChange(current, change int) (newQty int, movementType string, magnitude int) {
	newQty = current + change
	if newQty < 0 {
		newQty = 0
	}
	movementType = entity.MovementTypeOut
	if change > 0 {
		movementType = entity.MovementTypeIn
	}
	magnitude = change
	if magnitude < 0 {
		magnitude = -magnitude
	}
	return newQty, movementType, magnitude
}

// AppliedDelta devuelve el cambio realmente aplicado tras recortar a cero.
// Difiere de la magnitud registrada en el movimiento cuando hubo recorte.
func AppliedDelta(current, change int) int {
	newQty, _, _ := ApplyChange(current, change)
	return newQty - current
}
