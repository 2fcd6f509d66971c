package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

var _ repository.AjusteRepository = (*AjusteRepo)(nil)

// AjusteRepo adaptador de ajustes de inventario sobre PostgreSQL.
type AjusteRepo struct {
	q Querier
}

// NewAjusteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAjusteRepository(q Querier) *AjusteRepo {
	return &AjusteRepo{q: q}
}

// Create persiste encabezado y líneas en estado borrador.
func (r *AjusteRepo) Create(a *entity.Ajuste) error {
	ctx := context.Background()
	query := `
		INSERT INTO ajustes (id, tipo_movimiento_id, motivo, estado, usuario_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query,
		a.ID, a.TipoMovimientoID, a.Motivo, a.Estado, a.UsuarioID, a.CreatedAt, a.UpdatedAt); err != nil {
		return fmt.Errorf("insert ajuste: %w", err)
	}
	for i := range a.Lineas {
		l := &a.Lineas[i]
		lineQuery := `
			INSERT INTO ajuste_lineas (id, ajuste_id, variante_id, cantidad_ajuste, stock_anterior, stock_nuevo)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.AjusteID, l.VarianteID, l.CantidadAjuste, l.StockAnterior, l.StockNuevo); err != nil {
			return fmt.Errorf("insert ajuste linea: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un ajuste con sus líneas.
func (r *AjusteRepo) GetByID(id string) (*entity.Ajuste, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene el ajuste bloqueando el encabezado (SELECT FOR UPDATE):
// dos Aplicar concurrentes no pueden pasar ambos el chequeo de borrador.
func (r *AjusteRepo) GetForUpdate(id string) (*entity.Ajuste, error) {
	return r.get(id, true)
}

func (r *AjusteRepo) get(id string, forUpdate bool) (*entity.Ajuste, error) {
	ctx := context.Background()
	query := `SELECT id, tipo_movimiento_id, motivo, estado, usuario_id, created_at, updated_at FROM ajustes WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var a entity.Ajuste
	err := r.q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.TipoMovimientoID, &a.Motivo, &a.Estado, &a.UsuarioID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ajuste: %w", err)
	}

	lineQuery := `
		SELECT id, ajuste_id, variante_id, cantidad_ajuste, stock_anterior, stock_nuevo
		FROM ajuste_lineas WHERE ajuste_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list ajuste lineas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.AjusteLinea
		if err := rows.Scan(&l.ID, &l.AjusteID, &l.VarianteID, &l.CantidadAjuste, &l.StockAnterior, &l.StockNuevo); err != nil {
			return nil, fmt.Errorf("scan ajuste linea: %w", err)
		}
		a.Lineas = append(a.Lineas, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateEstado escribe el estado del encabezado.
func (r *AjusteRepo) UpdateEstado(id, estado string) error {
	query := `UPDATE ajustes SET estado = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, estado)
	if err != nil {
		return fmt.Errorf("update ajuste estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLineaStockNuevo guarda el stock resultante de aplicar una línea.
func (r *AjusteRepo) UpdateLineaStockNuevo(lineaID string, stockNuevo decimal.Decimal) error {
	query := `UPDATE ajuste_lineas SET stock_nuevo = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lineaID, stockNuevo)
	if err != nil {
		return fmt.Errorf("update ajuste linea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ajustes, opcionalmente filtrados por estado. Los encabezados
// listados no cargan líneas.
func (r *AjusteRepo) List(estado string, limit, offset int) ([]*entity.Ajuste, error) {
	query := `SELECT id, tipo_movimiento_id, motivo, estado, usuario_id, created_at, updated_at FROM ajustes`
	args := []any{}
	if estado != "" {
		args = append(args, estado)
		query += fmt.Sprintf(" WHERE estado = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ajustes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Ajuste
	for rows.Next() {
		var a entity.Ajuste
		if err := rows.Scan(&a.ID, &a.TipoMovimientoID, &a.Motivo, &a.Estado, &a.UsuarioID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ajuste: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
