package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una devolución. El camino primario crea la devolución directamente
// en procesada; el ciclo largo (pendiente → aprobada/rechazada → procesada)
// existe para instalaciones que quieren un paso de revisión antes de tocar
// stock. Solo la transición a procesada escribe en el ledger.
const (
	DevolucionPendiente = "pendiente"
	DevolucionAprobada  = "aprobada"
	DevolucionRechazada = "rechazada"
	DevolucionProcesada = "procesada"
)

// Tipo de devolución según el monto devuelto frente al total de la venta.
const (
	DevolucionTotal   = "total"
	DevolucionParcial = "parcial"
)

// Devolucion referencia líneas de una venta y restaura su stock. Los
// movimientos que genera apuntan a la venta de origen para mantener la
// trazabilidad.
type Devolucion struct {
	ID             string
	VentaID        string
	Motivo         string
	Estado         string
	TipoDevolucion string // total | parcial
	Total          decimal.Decimal
	UsuarioID      string
	Fecha          time.Time
	Lineas         []DevolucionLinea
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DevolucionLinea referencia una línea de venta. PrecioUnitario es el precio
// original de esa línea; CantidadDevuelta más las devoluciones procesadas
// previas nunca puede exceder la cantidad vendida.
type DevolucionLinea struct {
	ID               string
	DevolucionID     string
	VentaLineaID     string
	VarianteID       string
	CantidadDevuelta decimal.Decimal
	PrecioUnitario   decimal.Decimal
	Subtotal         decimal.Decimal
}

// transicionesDevolucion define el grafo de estados permitido.
var transicionesDevolucion = map[string][]string{
	DevolucionPendiente: {DevolucionAprobada, DevolucionRechazada},
	DevolucionAprobada:  {DevolucionProcesada},
	DevolucionRechazada: {DevolucionPendiente},
}

// PuedeTransicionar indica si el cambio de estado es válido.
func (d *Devolucion) PuedeTransicionar(nuevo string) bool {
	for _, e := range transicionesDevolucion[d.Estado] {
		if e == nuevo {
			return true
		}
	}
	return false
}
