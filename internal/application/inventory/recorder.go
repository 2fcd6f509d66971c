package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// MovimientoInput entrada del registrador de movimientos.
type MovimientoInput struct {
	VarianteID       string
	TipoMovimientoID string
	Cantidad         decimal.Decimal // con signo, distinta de cero
	UsuarioID        string
	Motivo           string
	Origen           entity.OrigenMovimiento
}

// RegistrarMovimiento es el único camino por el que pasa toda mutación de
// stock. Participa siempre en la transacción del caller: recibe repositorios
// atados a esa tx y nunca abre una propia.
//
// Bloquea la fila de la variante (SELECT FOR UPDATE), calcula el stock nuevo,
// persiste el movimiento con ambas instantáneas y actualiza el stock cacheado.
// Si el resultado fuera negativo devuelve StockInsuficienteError sin escribir
// nada; cualquier fallo aborta la operación completa del caller.
func RegistrarMovimiento(r TxRepos, in MovimientoInput) (*entity.Movimiento, error) {
	if in.VarianteID == "" || in.TipoMovimientoID == "" || in.UsuarioID == "" {
		return nil, fmt.Errorf("%w: variante, tipo de movimiento y usuario son obligatorios", domain.ErrInvalidInput)
	}
	if in.Cantidad.IsZero() {
		return nil, fmt.Errorf("%w: la cantidad no puede ser cero", domain.ErrInvalidInput)
	}
	if !in.Origen.Valido() {
		return nil, fmt.Errorf("%w: a lo sumo un origen (compra, venta o ajuste)", domain.ErrInvalidInput)
	}

	tipo, err := r.TiposMovimiento.GetByID(in.TipoMovimientoID)
	if err != nil {
		return nil, err
	}
	if tipo == nil {
		return nil, fmt.Errorf("%w: tipo de movimiento %s", domain.ErrNotFound, in.TipoMovimientoID)
	}
	if !tipo.Activo {
		return nil, fmt.Errorf("%w: el tipo de movimiento %q está inactivo", domain.ErrInvalidInput, tipo.Nombre)
	}

	variante, err := r.Variantes.GetForUpdate(in.VarianteID)
	if err != nil {
		return nil, err
	}
	if variante == nil {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, in.VarianteID)
	}

	stockAnterior := variante.Stock
	stockNuevo := stockAnterior.Add(in.Cantidad)
	if stockNuevo.IsNegative() {
		return nil, &domain.StockInsuficienteError{
			SKU:         variante.SKU,
			StockActual: stockAnterior,
			Solicitado:  in.Cantidad.Neg(),
		}
	}

	now := time.Now()
	mov := &entity.Movimiento{
		ID:               uuid.New().String(),
		VarianteID:       variante.ID,
		TipoMovimientoID: tipo.ID,
		Cantidad:         in.Cantidad,
		StockAnterior:    stockAnterior,
		StockNuevo:       stockNuevo,
		Motivo:           in.Motivo,
		UsuarioID:        in.UsuarioID,
		Origen:           in.Origen,
		Fecha:            now,
		CreatedAt:        now,
	}
	if err := r.Movimientos.Create(mov); err != nil {
		return nil, err
	}
	if err := r.Variantes.UpdateStock(variante.ID, stockNuevo); err != nil {
		return nil, err
	}
	return mov, nil
}
