package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un crédito asociado a una venta.
const (
	CreditoActivo = "activo"
	CreditoPagado = "pagado"
)

// Credito es la cuenta por cobrar de una venta a crédito. Las devoluciones
// reducen Saldo y Monto por el mismo importe, con piso en cero.
type Credito struct {
	ID        string
	VentaID   string
	Monto     decimal.Decimal // principal
	Saldo     decimal.Decimal // pendiente por cobrar
	Estado    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reducir descuenta el importe de saldo y principal, con piso en cero.
// Marca el crédito como pagado cuando el saldo llega a cero.
func (c *Credito) Reducir(monto decimal.Decimal) {
	c.Saldo = c.Saldo.Sub(monto)
	if c.Saldo.IsNegative() {
		c.Saldo = decimal.Zero
	}
	c.Monto = c.Monto.Sub(monto)
	if c.Monto.IsNegative() {
		c.Monto = decimal.Zero
	}
	if c.Saldo.IsZero() {
		c.Estado = CreditoPagado
	}
}
