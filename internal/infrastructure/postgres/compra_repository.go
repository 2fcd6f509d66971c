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

var _ repository.CompraRepository = (*CompraRepo)(nil)

// CompraRepo adaptador de órdenes de compra sobre PostgreSQL.
type CompraRepo struct {
	q Querier
}

// NewCompraRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompraRepository(q Querier) *CompraRepo {
	return &CompraRepo{q: q}
}

// Create persiste encabezado y líneas.
func (r *CompraRepo) Create(c *entity.Compra) error {
	ctx := context.Background()
	query := `
		INSERT INTO compras (id, proveedor_id, fecha, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.ProveedorID, c.Fecha, c.Estado, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("insert compra: %w", err)
	}
	for i := range c.Lineas {
		l := &c.Lineas[i]
		lineQuery := `
			INSERT INTO compra_lineas (id, compra_id, variante_id, cantidad_pedida, costo_unitario, cantidad_recibida)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.CompraID, l.VarianteID, l.CantidadPedida, l.CostoUnitario, l.CantidadRecibida); err != nil {
			return fmt.Errorf("insert compra linea: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una compra con sus líneas.
func (r *CompraRepo) GetByID(id string) (*entity.Compra, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la compra bloqueando el encabezado (SELECT FOR UPDATE).
func (r *CompraRepo) GetForUpdate(id string) (*entity.Compra, error) {
	return r.get(id, true)
}

func (r *CompraRepo) get(id string, forUpdate bool) (*entity.Compra, error) {
	ctx := context.Background()
	query := `SELECT id, proveedor_id, fecha, estado, created_at, updated_at FROM compras WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var c entity.Compra
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.ProveedorID, &c.Fecha, &c.Estado, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get compra: %w", err)
	}
	lineas, err := r.lineas(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Lineas = lineas
	return &c, nil
}

func (r *CompraRepo) lineas(ctx context.Context, compraID string) ([]entity.CompraLinea, error) {
	query := `
		SELECT id, compra_id, variante_id, cantidad_pedida, costo_unitario, cantidad_recibida
		FROM compra_lineas WHERE compra_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, compraID)
	if err != nil {
		return nil, fmt.Errorf("list compra lineas: %w", err)
	}
	defer rows.Close()
	var lineas []entity.CompraLinea
	for rows.Next() {
		var l entity.CompraLinea
		if err := rows.Scan(&l.ID, &l.CompraID, &l.VarianteID, &l.CantidadPedida, &l.CostoUnitario, &l.CantidadRecibida); err != nil {
			return nil, fmt.Errorf("scan compra linea: %w", err)
		}
		lineas = append(lineas, l)
	}
	return lineas, rows.Err()
}

// UpdateLineaRecibida escribe el acumulado recibido de una línea.
func (r *CompraRepo) UpdateLineaRecibida(lineaID string, cantidadRecibida decimal.Decimal) error {
	query := `UPDATE compra_lineas SET cantidad_recibida = $2 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lineaID, cantidadRecibida)
	if err != nil {
		return fmt.Errorf("update compra linea: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateEstado escribe el estado del encabezado.
func (r *CompraRepo) UpdateEstado(id, estado string) error {
	query := `UPDATE compras SET estado = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, estado)
	if err != nil {
		return fmt.Errorf("update compra estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista compras, opcionalmente filtradas por estado, de la más reciente a
// la más antigua. Los encabezados listados no cargan líneas.
func (r *CompraRepo) List(estado string, limit, offset int) ([]*entity.Compra, error) {
	query := `SELECT id, proveedor_id, fecha, estado, created_at, updated_at FROM compras`
	args := []any{}
	if estado != "" {
		args = append(args, estado)
		query += fmt.Sprintf(" WHERE estado = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY fecha DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list compras: %w", err)
	}
	defer rows.Close()
	var list []*entity.Compra
	for rows.Next() {
		var c entity.Compra
		if err := rows.Scan(&c.ID, &c.ProveedorID, &c.Fecha, &c.Estado, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan compra: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
