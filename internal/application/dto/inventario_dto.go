package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// VarianteResponse stock cacheado y precios de una variante.
type VarianteResponse struct {
	ID          string           `json:"id"`
	SKU         string           `json:"sku"`
	Nombre      string           `json:"nombre"`
	PrecioCosto decimal.Decimal  `json:"precio_costo"`
	PrecioVenta decimal.Decimal  `json:"precio_venta"`
	Stock       decimal.Decimal  `json:"stock"`
	StockMinimo *decimal.Decimal `json:"stock_minimo,omitempty"`
	StockMaximo *decimal.Decimal `json:"stock_maximo,omitempty"`
	Activa      bool             `json:"activa"`
}

// FromVariante convierte la entidad a respuesta.
func FromVariante(v *entity.Variante) VarianteResponse {
	return VarianteResponse{
		ID:          v.ID,
		SKU:         v.SKU,
		Nombre:      v.Nombre,
		PrecioCosto: v.PrecioCosto,
		PrecioVenta: v.PrecioVenta,
		Stock:       v.Stock,
		StockMinimo: v.StockMinimo,
		StockMaximo: v.StockMaximo,
		Activa:      v.Activa,
	}
}

// MovimientoResponse una entrada del ledger.
type MovimientoResponse struct {
	ID               string          `json:"id"`
	VarianteID       string          `json:"variante_id"`
	TipoMovimientoID string          `json:"tipo_movimiento_id"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	StockAnterior    decimal.Decimal `json:"stock_anterior"`
	StockNuevo       decimal.Decimal `json:"stock_nuevo"`
	Motivo           string          `json:"motivo,omitempty"`
	UsuarioID        string          `json:"usuario_id"`
	CompraID         *string         `json:"compra_id,omitempty"`
	VentaID          *string         `json:"venta_id,omitempty"`
	AjusteID         *string         `json:"ajuste_id,omitempty"`
	Fecha            time.Time       `json:"fecha"`
}

// FromMovimiento convierte la entidad a respuesta.
func FromMovimiento(m *entity.Movimiento) MovimientoResponse {
	return MovimientoResponse{
		ID:               m.ID,
		VarianteID:       m.VarianteID,
		TipoMovimientoID: m.TipoMovimientoID,
		Cantidad:         m.Cantidad,
		StockAnterior:    m.StockAnterior,
		StockNuevo:       m.StockNuevo,
		Motivo:           m.Motivo,
		UsuarioID:        m.UsuarioID,
		CompraID:         m.Origen.CompraID,
		VentaID:          m.Origen.VentaID,
		AjusteID:         m.Origen.AjusteID,
		Fecha:            m.Fecha,
	}
}

// MovimientosQuery filtros del historial de movimientos.
type MovimientosQuery struct {
	VarianteID       string `query:"variante_id"`
	TipoMovimientoID string `query:"tipo_movimiento_id"`
	Desde            string `query:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta            string `query:"hasta" validate:"omitempty,datetime=2006-01-02"`
	PageRequest
}

// TipoMovimientoResponse un tipo del catálogo.
type TipoMovimientoResponse struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Naturaleza  string `json:"naturaleza"`
	AfectaCosto bool   `json:"afecta_costo"`
	Activo      bool   `json:"activo"`
}

// FromTipoMovimiento convierte la entidad a respuesta.
func FromTipoMovimiento(t *entity.TipoMovimiento) TipoMovimientoResponse {
	return TipoMovimientoResponse{
		ID:          t.ID,
		Nombre:      t.Nombre,
		Naturaleza:  t.Naturaleza,
		AfectaCosto: t.AfectaCosto,
		Activo:      t.Activo,
	}
}

// ValorizacionItemResponse valor a costo de una variante.
type ValorizacionItemResponse struct {
	Variante VarianteResponse `json:"variante"`
	Valor    decimal.Decimal  `json:"valor"`
}

// ValorizacionResponse reporte de valorización de inventario.
type ValorizacionResponse struct {
	Items []ValorizacionItemResponse `json:"items"`
	Total decimal.Decimal            `json:"total"`
}
