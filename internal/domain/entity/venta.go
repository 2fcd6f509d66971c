package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venta decrementa stock por línea al momento de su creación. Saldo es el
// monto pendiente por cobrar; las devoluciones lo reducen con piso en cero.
type Venta struct {
	ID        string
	ClienteID *string
	Fecha     time.Time
	Total     decimal.Decimal
	Saldo     decimal.Decimal
	ACredito  bool
	UsuarioID string
	Lineas    []VentaLinea
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VentaLinea conserva el precio unitario al momento de la venta: las
// devoluciones se valoran con este precio, no con el precio vigente.
type VentaLinea struct {
	ID             string
	VentaID        string
	VarianteID     string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// BuscarLinea devuelve la línea con el id dado, o nil si no pertenece a la venta.
func (v *Venta) BuscarLinea(lineaID string) *VentaLinea {
	for i := range v.Lineas {
		if v.Lineas[i].ID == lineaID {
			return &v.Lineas[i]
		}
	}
	return nil
}
