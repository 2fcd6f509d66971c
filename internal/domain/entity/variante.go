package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variante representa una unidad vendible (producto × color × talla).
// Stock es un campo denormalizado para lecturas rápidas: la fuente de verdad
// es la suma de los movimientos del ledger. Solo el registrador de movimientos
// puede modificarlo.
type Variante struct {
	ID          string
	SKU         string
	Nombre      string
	PrecioCosto decimal.Decimal
	PrecioVenta decimal.Decimal
	Stock       decimal.Decimal
	StockMinimo *decimal.Decimal
	StockMaximo *decimal.Decimal
	Activa      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BajoMinimo indica si el stock está por debajo del mínimo configurado.
func (v *Variante) BajoMinimo() bool {
	if v.StockMinimo == nil {
		return false
	}
	return v.Stock.LessThan(*v.StockMinimo)
}

// Agotada indica si la variante no tiene existencias.
func (v *Variante) Agotada() bool {
	return v.Stock.LessThanOrEqual(decimal.Zero)
}

// Valorizacion devuelve el valor del stock a costo (stock × precio de costo).
func (v *Variante) Valorizacion() decimal.Decimal {
	return v.Stock.Mul(v.PrecioCosto)
}
