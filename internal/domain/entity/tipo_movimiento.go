package entity

import "time"

// Naturaleza de un tipo de movimiento: define el signo de la cantidad.
const (
	NaturalezaEntrada = "entrada" // incrementa stock
	NaturalezaSalida  = "salida"  // decrementa stock
	NaturalezaAjuste  = "ajuste"  // signo determinado por el contexto (conteo físico)
)

// Nombres de los tipos sembrados que usan los flujos del sistema.
const (
	TipoCompraProveedor   = "Compra a Proveedor"
	TipoVentaCliente      = "Venta a Cliente"
	TipoDevolucionCliente = "Devolución de Cliente"
	TipoAjusteInventario  = "Ajuste de Inventario"
	TipoMerma             = "Merma"
)

// TipoMovimiento es dato de referencia inmutable: los flujos lo consultan por
// nombre o id, nunca lo escriben. Activo es baja lógica; nunca se borran filas
// referenciadas por movimientos históricos.
type TipoMovimiento struct {
	ID          string
	Nombre      string
	Naturaleza  string // entrada | salida | ajuste
	AfectaCosto bool   // si debe influir en el costo promedio (preservado, no calculado aquí)
	Activo      bool
	CreatedAt   time.Time
}
