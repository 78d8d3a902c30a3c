package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrAlreadyCompleted  = errors.New("la orden ya fue completada")
	ErrOrderNotEditable  = errors.New("la orden ya no es editable")
	ErrBusy              = errors.New("fila de stock ocupada, reintentar el lote")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError identifica la primera fila ofensora de un lote rechazado.
// Condición de negocio esperada, no una falla: el caller la presenta al usuario y no reintenta.
type InsufficientStockError struct {
	ProductID string
	SizeID    string
	Requested int64 // delta neto solicitado sobre la fila (negativo en ventas)
	Available int64 // stock disponible antes del lote
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s talla %s: solicitado %d, disponible %d",
		e.ProductID, e.SizeID, e.Requested, e.Available)
}

// Is permite errors.Is(err, ErrInsufficientStock) sobre el error tipado.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PersistenceError envuelve una falla de almacenamiento dentro de un lote.
// Es fatal para el lote: la transacción se revierte y el stock queda intacto.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("fallo de persistencia en %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
