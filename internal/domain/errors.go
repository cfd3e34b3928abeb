package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrDuplicateStock     = errors.New("ya existe stock para el producto en la sucursal")
	ErrReferenceCollision = errors.New("número de referencia duplicado")
	ErrStorage            = errors.New("error de almacenamiento")
)

// StorageError envuelve un fallo de persistencia no cubierto por los demás errores de dominio.
// errors.Is(err, ErrStorage) es verdadero y Unwrap devuelve la causa original.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError construye un StorageError para la operación indicada.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrStorage.Error(), e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStorage.Error(), e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsDomainError indica si err ya es un error de dominio conocido (no debe envolverse como StorageError).
func IsDomainError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrDuplicateStock) ||
		errors.Is(err, ErrReferenceCollision) ||
		errors.Is(err, ErrStorage)
}
