package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// CrearAjusteRequest body para POST /api/ajustes (crea un borrador).
type CrearAjusteRequest struct {
	TipoMovimientoID string                    `json:"tipo_movimiento_id" validate:"required"`
	Motivo           string                    `json:"motivo" validate:"required"`
	Lineas           []CrearAjusteLineaRequest `json:"lineas" validate:"required,min=1,dive"`
}

// CrearAjusteLineaRequest delta solicitado (o conteo absoluto para tipos de
// naturaleza ajuste).
type CrearAjusteLineaRequest struct {
	VarianteID     string          `json:"variante_id" validate:"required"`
	CantidadAjuste decimal.Decimal `json:"cantidad_ajuste"`
}

// AjusteLineaResponse línea con instantáneas.
type AjusteLineaResponse struct {
	ID             string           `json:"id"`
	VarianteID     string           `json:"variante_id"`
	CantidadAjuste decimal.Decimal  `json:"cantidad_ajuste"`
	StockAnterior  decimal.Decimal  `json:"stock_anterior"`
	StockNuevo     *decimal.Decimal `json:"stock_nuevo,omitempty"`
}

// AjusteResponse encabezado con líneas.
type AjusteResponse struct {
	ID               string                `json:"id"`
	TipoMovimientoID string                `json:"tipo_movimiento_id"`
	Motivo           string                `json:"motivo"`
	Estado           string                `json:"estado"`
	UsuarioID        string                `json:"usuario_id"`
	Lineas           []AjusteLineaResponse `json:"lineas"`
}

// FromAjuste convierte la entidad a respuesta.
func FromAjuste(a *entity.Ajuste) AjusteResponse {
	resp := AjusteResponse{
		ID:               a.ID,
		TipoMovimientoID: a.TipoMovimientoID,
		Motivo:           a.Motivo,
		Estado:           a.Estado,
		UsuarioID:        a.UsuarioID,
	}
	for i := range a.Lineas {
		l := &a.Lineas[i]
		resp.Lineas = append(resp.Lineas, AjusteLineaResponse{
			ID:             l.ID,
			VarianteID:     l.VarianteID,
			CantidadAjuste: l.CantidadAjuste,
			StockAnterior:  l.StockAnterior,
			StockNuevo:     l.StockNuevo,
		})
	}
	return resp
}
