package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	CompraPendiente             = "pendiente"
	CompraParcialmenteRecibida  = "parcialmente_recibido"
	CompraRecibida              = "recibido"
)

// Compra es una orden de compra a un proveedor. El proveedor es una referencia
// opaca: su CRUD vive fuera de este núcleo.
type Compra struct {
	ID          string
	ProveedorID string
	Fecha       time.Time
	Estado      string
	Lineas      []CompraLinea
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CompraLinea acumula CantidadRecibida a través de una o más recepciones;
// nunca puede superar CantidadPedida.
type CompraLinea struct {
	ID               string
	CompraID         string
	VarianteID       string
	CantidadPedida   decimal.Decimal
	CostoUnitario    decimal.Decimal
	CantidadRecibida decimal.Decimal
}

// Pendiente devuelve la cantidad que falta por recibir.
func (l *CompraLinea) Pendiente() decimal.Decimal {
	return l.CantidadPedida.Sub(l.CantidadRecibida)
}

// RecalcularEstado devuelve el estado del encabezado según las líneas:
// recibido si todas están completas, parcialmente_recibido si alguna recibió algo.
func (c *Compra) RecalcularEstado() string {
	completas := 0
	conAlgo := 0
	for i := range c.Lineas {
		l := &c.Lineas[i]
		if l.CantidadRecibida.GreaterThanOrEqual(l.CantidadPedida) {
			completas++
		}
		if l.CantidadRecibida.GreaterThan(decimal.Zero) {
			conAlgo++
		}
	}
	switch {
	case completas == len(c.Lineas) && len(c.Lineas) > 0:
		return CompraRecibida
	case conAlgo > 0:
		return CompraParcialmenteRecibida
	default:
		return CompraPendiente
	}
}
