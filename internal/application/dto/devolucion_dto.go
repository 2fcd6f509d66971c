package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// CrearDevolucionRequest body para POST /api/devoluciones.
type CrearDevolucionRequest struct {
	VentaID          string                        `json:"venta_id" validate:"required"`
	Motivo           string                        `json:"motivo" validate:"required"`
	RequiereRevision bool                          `json:"requiere_revision"`
	Lineas           []CrearDevolucionLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// CrearDevolucionLineaRequest cantidad devuelta contra una línea de venta.
type CrearDevolucionLineaRequest struct {
	VentaLineaID     string          `json:"venta_linea_id" validate:"required"`
	CantidadDevuelta decimal.Decimal `json:"cantidad_devuelta" validate:"required"`
}

// CambiarEstadoDevolucionRequest body para PATCH /api/devoluciones/:id/estado.
type CambiarEstadoDevolucionRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente aprobada rechazada procesada"`
}

// DevolucionLineaResponse línea valorada al precio original de venta.
type DevolucionLineaResponse struct {
	ID               string          `json:"id"`
	VentaLineaID     string          `json:"venta_linea_id"`
	VarianteID       string          `json:"variante_id"`
	CantidadDevuelta decimal.Decimal `json:"cantidad_devuelta"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// DevolucionResponse encabezado con líneas.
type DevolucionResponse struct {
	ID             string                    `json:"id"`
	VentaID        string                    `json:"venta_id"`
	Motivo         string                    `json:"motivo"`
	Estado         string                    `json:"estado"`
	TipoDevolucion string                    `json:"tipo_devolucion"`
	Total          decimal.Decimal           `json:"total"`
	Fecha          time.Time                 `json:"fecha"`
	Lineas         []DevolucionLineaResponse `json:"lineas"`
}

// FromDevolucion convierte la entidad a respuesta.
func FromDevolucion(d *entity.Devolucion) DevolucionResponse {
	resp := DevolucionResponse{
		ID:             d.ID,
		VentaID:        d.VentaID,
		Motivo:         d.Motivo,
		Estado:         d.Estado,
		TipoDevolucion: d.TipoDevolucion,
		Total:          d.Total,
		Fecha:          d.Fecha,
	}
	for i := range d.Lineas {
		l := &d.Lineas[i]
		resp.Lineas = append(resp.Lineas, DevolucionLineaResponse{
			ID:               l.ID,
			VentaLineaID:     l.VentaLineaID,
			VarianteID:       l.VarianteID,
			CantidadDevuelta: l.CantidadDevuelta,
			PrecioUnitario:   l.PrecioUnitario,
			Subtotal:         l.Subtotal,
		})
	}
	return resp
}
