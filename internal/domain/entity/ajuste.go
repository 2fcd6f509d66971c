package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un ajuste manual de inventario.
// borrador es el estado inicial; aplicado y cancelado son terminales.
const (
	AjusteBorrador  = "borrador"
	AjusteAplicado  = "aplicado"
	AjusteCancelado = "cancelado"
)

// Ajuste es una corrección de inventario por lotes. Solo la transición a
// aplicado escribe en el ledger; cancelar solo es legal antes de aplicar.
type Ajuste struct {
	ID               string
	TipoMovimientoID string
	Motivo           string
	Estado           string
	UsuarioID        string
	Lineas           []AjusteLinea
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AjusteLinea lleva el delta solicitado y la instantánea del stock al crear el
// borrador. Para tipos de naturaleza ajuste, CantidadAjuste es el stock contado
// absoluto, no un delta. StockNuevo se llena solo al aplicar.
type AjusteLinea struct {
	ID             string
	AjusteID       string
	VarianteID     string
	CantidadAjuste decimal.Decimal
	StockAnterior  decimal.Decimal
	StockNuevo     *decimal.Decimal
}

// CantidadConSigno devuelve la cantidad a registrar en el ledger según la
// naturaleza del tipo de movimiento del ajuste:
//
//	entrada → +CantidadAjuste
//	salida  → -CantidadAjuste
//	ajuste  → CantidadAjuste - StockAnterior (conteo físico contra instantánea)
func (l *AjusteLinea) CantidadConSigno(naturaleza string) decimal.Decimal {
	switch naturaleza {
	case NaturalezaSalida:
		return l.CantidadAjuste.Neg()
	case NaturalezaAjuste:
		return l.CantidadAjuste.Sub(l.StockAnterior)
	default:
		return l.CantidadAjuste
	}
}
