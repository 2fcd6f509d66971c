package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// CrearCompraRequest body para POST /api/compras.
type CrearCompraRequest struct {
	ProveedorID string                    `json:"proveedor_id" validate:"required"`
	Fecha       *time.Time                `json:"fecha,omitempty"`
	Lineas      []CrearCompraLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// CrearCompraLineaRequest línea de la orden.
type CrearCompraLineaRequest struct {
	VarianteID     string          `json:"variante_id" validate:"required"`
	CantidadPedida decimal.Decimal `json:"cantidad_pedida" validate:"required"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
}

// RecibirCompraRequest body para POST /api/compras/:id/recibir.
type RecibirCompraRequest struct {
	Lineas []RecibirCompraLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// RecibirCompraLineaRequest cantidad recibida contra una línea.
type RecibirCompraLineaRequest struct {
	CompraLineaID string          `json:"compra_linea_id" validate:"required"`
	Cantidad      decimal.Decimal `json:"cantidad" validate:"required"`
}

// CompraLineaResponse línea con su acumulado recibido.
type CompraLineaResponse struct {
	ID               string          `json:"id"`
	VarianteID       string          `json:"variante_id"`
	CantidadPedida   decimal.Decimal `json:"cantidad_pedida"`
	CostoUnitario    decimal.Decimal `json:"costo_unitario"`
	CantidadRecibida decimal.Decimal `json:"cantidad_recibida"`
}

// CompraResponse encabezado con líneas.
type CompraResponse struct {
	ID          string                `json:"id"`
	ProveedorID string                `json:"proveedor_id"`
	Fecha       time.Time             `json:"fecha"`
	Estado      string                `json:"estado"`
	Lineas      []CompraLineaResponse `json:"lineas"`
}

// FromCompra convierte la entidad a respuesta.
func FromCompra(c *entity.Compra) CompraResponse {
	resp := CompraResponse{
		ID:          c.ID,
		ProveedorID: c.ProveedorID,
		Fecha:       c.Fecha,
		Estado:      c.Estado,
	}
	for i := range c.Lineas {
		l := &c.Lineas[i]
		resp.Lineas = append(resp.Lineas, CompraLineaResponse{
			ID:               l.ID,
			VarianteID:       l.VarianteID,
			CantidadPedida:   l.CantidadPedida,
			CostoUnitario:    l.CostoUnitario,
			CantidadRecibida: l.CantidadRecibida,
		})
	}
	return resp
}
