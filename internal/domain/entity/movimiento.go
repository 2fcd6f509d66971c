package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrigenMovimiento referencia opcional del documento que causó un movimiento.
// A lo sumo uno de los tres campos puede estar presente.
type OrigenMovimiento struct {
	CompraID *string
	VentaID  *string
	AjusteID *string
}

// Valido verifica que haya como máximo una referencia de origen.
func (o OrigenMovimiento) Valido() bool {
	n := 0
	if o.CompraID != nil {
		n++
	}
	if o.VentaID != nil {
		n++
	}
	if o.AjusteID != nil {
		n++
	}
	return n <= 1
}

// Movimiento es una entrada del ledger: un cambio de stock atómico e inmutable.
// StockAnterior y StockNuevo son instantáneas al momento de creación; nunca se
// recalculan. Invariante: StockNuevo - StockAnterior == Cantidad.
type Movimiento struct {
	ID               string
	VarianteID       string
	TipoMovimientoID string
	Cantidad         decimal.Decimal // con signo: positivo entrada, negativo salida
	StockAnterior    decimal.Decimal
	StockNuevo       decimal.Decimal
	Motivo           string
	UsuarioID        string
	Origen           OrigenMovimiento
	Fecha            time.Time
	CreatedAt        time.Time
}
