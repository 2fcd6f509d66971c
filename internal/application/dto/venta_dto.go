package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// CrearVentaRequest body para POST /api/ventas.
type CrearVentaRequest struct {
	ClienteID *string                  `json:"cliente_id,omitempty"`
	ACredito  bool                     `json:"a_credito"`
	Lineas    []CrearVentaLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// CrearVentaLineaRequest línea solicitada.
type CrearVentaLineaRequest struct {
	VarianteID string          `json:"variante_id" validate:"required"`
	Cantidad   decimal.Decimal `json:"cantidad" validate:"required"`
}

// VentaLineaResponse línea con el precio congelado al momento de la venta.
type VentaLineaResponse struct {
	ID             string          `json:"id"`
	VarianteID     string          `json:"variante_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// VentaResponse encabezado con líneas.
type VentaResponse struct {
	ID        string               `json:"id"`
	ClienteID *string              `json:"cliente_id,omitempty"`
	Fecha     time.Time            `json:"fecha"`
	Total     decimal.Decimal      `json:"total"`
	Saldo     decimal.Decimal      `json:"saldo"`
	ACredito  bool                 `json:"a_credito"`
	Lineas    []VentaLineaResponse `json:"lineas"`
}

// FromVenta convierte la entidad a respuesta.
func FromVenta(v *entity.Venta) VentaResponse {
	resp := VentaResponse{
		ID:        v.ID,
		ClienteID: v.ClienteID,
		Fecha:     v.Fecha,
		Total:     v.Total,
		Saldo:     v.Saldo,
		ACredito:  v.ACredito,
	}
	for i := range v.Lineas {
		l := &v.Lineas[i]
		resp.Lineas = append(resp.Lineas, VentaLineaResponse{
			ID:             l.ID,
			VarianteID:     l.VarianteID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Subtotal:       l.Subtotal,
		})
	}
	return resp
}
