package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

const movimientoColumns = `id, variante_id, tipo_movimiento_id, cantidad, stock_anterior, stock_nuevo, motivo, usuario_id, compra_id, venta_id, ajuste_id, fecha, created_at`

// MovimientoRepo adaptador del ledger sobre PostgreSQL. Solo inserta y lee:
// los movimientos nunca se actualizan ni se borran.
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create persiste una entrada del ledger.
func (r *MovimientoRepo) Create(m *entity.Movimiento) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimientos (` + movimientoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.VarianteID, m.TipoMovimientoID, m.Cantidad, m.StockAnterior, m.StockNuevo,
		m.Motivo, m.UsuarioID, m.Origen.CompraID, m.Origen.VentaID, m.Origen.AjusteID,
		m.Fecha, m.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: el movimiento viola un invariante del ledger", domain.ErrConflict)
		}
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por id.
func (r *MovimientoRepo) GetByID(id string) (*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos WHERE id = $1`
	var m entity.Movimiento
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.VarianteID, &m.TipoMovimientoID, &m.Cantidad, &m.StockAnterior, &m.StockNuevo,
		&m.Motivo, &m.UsuarioID, &m.Origen.CompraID, &m.Origen.VentaID, &m.Origen.AjusteID,
		&m.Fecha, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movimiento: %w", err)
	}
	return &m, nil
}

// List lista movimientos según filtro, ordenados del más reciente al más antiguo.
func (r *MovimientoRepo) List(f repository.MovimientoFilter) ([]*entity.Movimiento, error) {
	query := `SELECT ` + movimientoColumns + ` FROM movimientos WHERE 1=1`
	args := []any{}
	if f.VarianteID != "" {
		args = append(args, f.VarianteID)
		query += fmt.Sprintf(" AND variante_id = $%d", len(args))
	}
	if f.TipoMovimientoID != "" {
		args = append(args, f.TipoMovimientoID)
		query += fmt.Sprintf(" AND tipo_movimiento_id = $%d", len(args))
	}
	if f.Desde != nil {
		args = append(args, *f.Desde)
		query += fmt.Sprintf(" AND fecha >= $%d", len(args))
	}
	if f.Hasta != nil {
		args = append(args, *f.Hasta)
		query += fmt.Sprintf(" AND fecha <= $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY fecha DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movimiento
	for rows.Next() {
		var m entity.Movimiento
		if err := rows.Scan(&m.ID, &m.VarianteID, &m.TipoMovimientoID, &m.Cantidad,
			&m.StockAnterior, &m.StockNuevo, &m.Motivo, &m.UsuarioID,
			&m.Origen.CompraID, &m.Origen.VentaID, &m.Origen.AjusteID,
			&m.Fecha, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByVariante suma las cantidades con signo de todos los movimientos de una
// variante: debe igualar el stock cacheado.
func (r *MovimientoRepo) SumByVariante(varianteID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(cantidad), 0) FROM movimientos WHERE variante_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, varianteID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movimientos: %w", err)
	}
	return sum, nil
}
