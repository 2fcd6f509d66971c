package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas). Los casos de uso los
// envuelven con %w para añadir detalle sin romper errors.Is.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// StockInsuficienteError detalla un decremento que dejaría el stock en
// negativo: SKU afectado, stock actual y cantidad solicitada. errors.Is lo
// empareja con ErrInsufficientStock.
type StockInsuficienteError struct {
	SKU         string
	StockActual decimal.Decimal
	Solicitado  decimal.Decimal
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.SKU, e.StockActual.String(), e.Solicitado.String())
}

func (e *StockInsuficienteError) Is(target error) bool {
	return target == ErrInsufficientStock
}
