package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores centinela de dominio (sin dependencias externas). Los tipos
// estructurados de abajo los envuelven vía Unwrap, de modo que errors.Is
// funciona igual con el centinela que con el tipo concreto.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrValidation          = errors.New("entrada inválida")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConflict            = errors.New("conflicto por modificación concurrente")
	ErrCancellationBlocked = errors.New("cancelación bloqueada: unidades ya consumidas")
	ErrSequenceExhausted   = errors.New("reintentos de numeración agotados")
)

// ValidationError entrada malformada o inconsistente; se rechaza antes de mutar nada.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("entrada inválida: %s", e.Detail)
	}
	return fmt.Sprintf("entrada inválida en %s: %s", e.Field, e.Detail)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError construye un ValidationError con campo y detalle.
func NewValidationError(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}

// InsufficientStockError débito o consumo que excede lo disponible.
// Location es la representación textual del bucket ("reserve", "outlet:<id>",
// "vendor:<id>", o "total" cuando la operación agrega varios buckets).
type InsufficientStockError struct {
	ItemID    string
	Location  string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s en %s: solicitado %d, disponible %d",
		e.ItemID, e.Location, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall cantidad faltante para completar la operación.
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}

// ConflictError un chequeo optimista falló por interferencia concurrente.
// El caller puede reintentar la operación completa sin riesgo.
type ConflictError struct {
	Resource string
	ID       string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicto concurrente sobre %s %s", e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// LineShortfall línea ofensora en una cancelación bloqueada: la cantidad
// registrada contra lo que queda en mano (reserva + sucursales + asignaciones
// de vendedor sin vender).
type LineShortfall struct {
	LineID   string
	ItemID   string
	Expected int64
	OnHand   int64
}

// CancellationBlockedError la cancelación total se rechazó porque al menos una
// línea tiene unidades consumidas aguas abajo. Lista todas las líneas ofensoras.
type CancellationBlockedError struct {
	PurchaseID string
	Lines      []LineShortfall
}

func (e *CancellationBlockedError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("línea %s (ítem %s): esperado %d, en mano %d",
			l.LineID, l.ItemID, l.Expected, l.OnHand))
	}
	return fmt.Sprintf("cancelación de compra %s bloqueada: %s", e.PurchaseID, strings.Join(parts, "; "))
}

func (e *CancellationBlockedError) Unwrap() error { return ErrCancellationBlocked }
