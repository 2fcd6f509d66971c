package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

// ConsultasUseCase proyecciones de solo lectura sobre el ledger y el stock
// cacheado: stock por variante, historial, alertas y valorización.
type ConsultasUseCase struct {
	vars  repository.VarianteRepository
	movs  repository.MovimientoRepository
	tipos repository.TipoMovimientoRepository
}

// NewConsultasUseCase construye el caso de uso de lecturas.
func NewConsultasUseCase(
	vars repository.VarianteRepository,
	movs repository.MovimientoRepository,
	tipos repository.TipoMovimientoRepository,
) *ConsultasUseCase {
	return &ConsultasUseCase{vars: vars, movs: movs, tipos: tipos}
}

// StockPorVariante devuelve la variante con su stock cacheado.
func (uc *ConsultasUseCase) StockPorVariante(ctx context.Context, varianteID string) (*entity.Variante, error) {
	v, err := uc.vars.GetByID(varianteID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, varianteID)
	}
	return v, nil
}

// ListarVariantes lista variantes con paginación.
func (uc *ConsultasUseCase) ListarVariantes(ctx context.Context, soloActivas bool, limit, offset int) ([]*entity.Variante, error) {
	return uc.vars.List(soloActivas, limit, offset)
}

// Movimientos devuelve el historial del ledger según filtro (variante, tipo,
// rango de fechas) con paginación.
func (uc *ConsultasUseCase) Movimientos(ctx context.Context, f repository.MovimientoFilter) ([]*entity.Movimiento, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.movs.List(f)
}

// StockBajo devuelve variantes activas por debajo de su stock mínimo.
func (uc *ConsultasUseCase) StockBajo(ctx context.Context) ([]*entity.Variante, error) {
	return uc.vars.ListStockBajo()
}

// Agotadas devuelve variantes activas sin existencias.
func (uc *ConsultasUseCase) Agotadas(ctx context.Context) ([]*entity.Variante, error) {
	return uc.vars.ListAgotadas()
}

// TiposMovimiento lista el catálogo de tipos.
func (uc *ConsultasUseCase) TiposMovimiento(ctx context.Context, soloActivos bool) ([]*entity.TipoMovimiento, error) {
	return uc.tipos.List(soloActivos)
}

// ValorizacionItem valor a costo del stock de una variante.
type ValorizacionItem struct {
	Variante *entity.Variante
	Valor    decimal.Decimal
}

// Valorizacion resultado del reporte de valorización de inventario.
type Valorizacion struct {
	Items []ValorizacionItem
	Total decimal.Decimal
}

// Valorizar calcula stock × precio de costo por variante activa y el total.
func (uc *ConsultasUseCase) Valorizar(ctx context.Context) (*Valorizacion, error) {
	variantes, err := uc.vars.List(true, 0, 0)
	if err != nil {
		return nil, err
	}
	res := &Valorizacion{Total: decimal.Zero}
	for _, v := range variantes {
		valor := v.Valorizacion()
		res.Items = append(res.Items, ValorizacionItem{Variante: v, Valor: valor})
		res.Total = res.Total.Add(valor)
	}
	return res, nil
}

// KardexPDFGenerator puerto hacia el generador del kardex en PDF.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, variante *entity.Variante, movimientos []*entity.Movimiento, tipos map[string]*entity.TipoMovimiento) ([]byte, error)
}

// Kardex arma el historial de una variante y lo entrega al generador PDF.
func (uc *ConsultasUseCase) Kardex(ctx context.Context, varianteID string, gen KardexPDFGenerator) ([]byte, error) {
	variante, err := uc.StockPorVariante(ctx, varianteID)
	if err != nil {
		return nil, err
	}
	movimientos, err := uc.movs.List(repository.MovimientoFilter{VarianteID: varianteID, Limit: 500})
	if err != nil {
		return nil, err
	}
	tipos, err := uc.tipos.List(false)
	if err != nil {
		return nil, err
	}
	porID := make(map[string]*entity.TipoMovimiento, len(tipos))
	for _, t := range tipos {
		porID[t.ID] = t
	}
	return gen.GenerateKardexPDF(ctx, variante, movimientos, porID)
}
