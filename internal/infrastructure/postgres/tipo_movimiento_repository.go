package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

var _ repository.TipoMovimientoRepository = (*TipoMovimientoRepo)(nil)

// TipoMovimientoRepo adaptador de solo lectura para el catálogo de tipos.
type TipoMovimientoRepo struct {
	q Querier
}

// NewTipoMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTipoMovimientoRepository(q Querier) *TipoMovimientoRepo {
	return &TipoMovimientoRepo{q: q}
}

const tipoColumns = `id, nombre, naturaleza, afecta_costo, activo, created_at`

func scanTipo(row pgx.Row) (*entity.TipoMovimiento, error) {
	var t entity.TipoMovimiento
	err := row.Scan(&t.ID, &t.Nombre, &t.Naturaleza, &t.AfectaCosto, &t.Activo, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tipo movimiento: %w", err)
	}
	return &t, nil
}

// GetByID obtiene un tipo por id.
func (r *TipoMovimientoRepo) GetByID(id string) (*entity.TipoMovimiento, error) {
	query := `SELECT ` + tipoColumns + ` FROM tipos_movimiento WHERE id = $1`
	return scanTipo(r.q.QueryRow(context.Background(), query, id))
}

// GetByNombre obtiene un tipo por nombre.
func (r *TipoMovimientoRepo) GetByNombre(nombre string) (*entity.TipoMovimiento, error) {
	query := `SELECT ` + tipoColumns + ` FROM tipos_movimiento WHERE nombre = $1`
	return scanTipo(r.q.QueryRow(context.Background(), query, nombre))
}

// List lista el catálogo, opcionalmente solo los activos.
func (r *TipoMovimientoRepo) List(soloActivos bool) ([]*entity.TipoMovimiento, error) {
	query := `SELECT ` + tipoColumns + ` FROM tipos_movimiento`
	if soloActivos {
		query += ` WHERE activo`
	}
	query += ` ORDER BY nombre`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list tipos movimiento: %w", err)
	}
	defer rows.Close()
	var list []*entity.TipoMovimiento
	for rows.Next() {
		var t entity.TipoMovimiento
		if err := rows.Scan(&t.ID, &t.Nombre, &t.Naturaleza, &t.AfectaCosto, &t.Activo, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tipo movimiento: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
