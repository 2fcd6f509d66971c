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

var _ repository.VarianteRepository = (*VarianteRepo)(nil)

const varianteColumns = `id, sku, nombre, precio_costo, precio_venta, stock, stock_minimo, stock_maximo, activa, created_at, updated_at`

// VarianteRepo implementación de VarianteRepository sobre PostgreSQL (usable con pool o tx).
type VarianteRepo struct {
	q Querier
}

// NewVarianteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVarianteRepository(q Querier) *VarianteRepo {
	return &VarianteRepo{q: q}
}

func scanVariante(row pgx.Row) (*entity.Variante, error) {
	var v entity.Variante
	err := row.Scan(&v.ID, &v.SKU, &v.Nombre, &v.PrecioCosto, &v.PrecioVenta,
		&v.Stock, &v.StockMinimo, &v.StockMaximo, &v.Activa, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan variante: %w", err)
	}
	return &v, nil
}

// Create persiste una variante nueva.
func (r *VarianteRepo) Create(v *entity.Variante) error {
	query := `
		INSERT INTO variantes (` + varianteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		v.ID, v.SKU, v.Nombre, v.PrecioCosto, v.PrecioVenta,
		v.Stock, v.StockMinimo, v.StockMaximo, v.Activa, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert variante: %w", err)
	}
	return nil
}

// GetByID obtiene una variante por id.
func (r *VarianteRepo) GetByID(id string) (*entity.Variante, error) {
	query := `SELECT ` + varianteColumns + ` FROM variantes WHERE id = $1`
	return scanVariante(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene una variante por SKU.
func (r *VarianteRepo) GetBySKU(sku string) (*entity.Variante, error) {
	query := `SELECT ` + varianteColumns + ` FROM variantes WHERE sku = $1`
	return scanVariante(r.q.QueryRow(context.Background(), query, sku))
}

// GetForUpdate obtiene la variante y bloquea la fila (SELECT FOR UPDATE).
// Evita el lost update cuando dos operaciones concurrentes apuntan al mismo SKU.
func (r *VarianteRepo) GetForUpdate(id string) (*entity.Variante, error) {
	query := `SELECT ` + varianteColumns + ` FROM variantes WHERE id = $1 FOR UPDATE`
	return scanVariante(r.q.QueryRow(context.Background(), query, id))
}

// UpdateStock escribe el stock cacheado. Solo el registrador de movimientos
// debe llamarlo.
func (r *VarianteRepo) UpdateStock(id string, stock decimal.Decimal) error {
	query := `UPDATE variantes SET stock = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista variantes con paginación; limit <= 0 devuelve todas.
func (r *VarianteRepo) List(soloActivas bool, limit, offset int) ([]*entity.Variante, error) {
	query := `SELECT ` + varianteColumns + ` FROM variantes`
	if soloActivas {
		query += ` WHERE activa`
	}
	query += ` ORDER BY sku`
	args := []any{}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}
	return r.queryVariantes(query, args...)
}

// ListStockBajo devuelve variantes activas con stock bajo el mínimo configurado.
func (r *VarianteRepo) ListStockBajo() ([]*entity.Variante, error) {
	query := `SELECT ` + varianteColumns + `
		FROM variantes
		WHERE activa AND stock_minimo IS NOT NULL AND stock < stock_minimo
		ORDER BY sku`
	return r.queryVariantes(query)
}

// ListAgotadas devuelve variantes activas sin existencias.
func (r *VarianteRepo) ListAgotadas() ([]*entity.Variante, error) {
	query := `SELECT ` + varianteColumns + `
		FROM variantes
		WHERE activa AND stock <= 0
		ORDER BY sku`
	return r.queryVariantes(query)
}

func (r *VarianteRepo) queryVariantes(query string, args ...any) ([]*entity.Variante, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list variantes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variante
	for rows.Next() {
		var v entity.Variante
		if err := rows.Scan(&v.ID, &v.SKU, &v.Nombre, &v.PrecioCosto, &v.PrecioVenta,
			&v.Stock, &v.StockMinimo, &v.StockMaximo, &v.Activa, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variante: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
