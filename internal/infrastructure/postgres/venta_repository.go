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

var _ repository.VentaRepository = (*VentaRepo)(nil)

// VentaRepo adaptador de ventas sobre PostgreSQL.
type VentaRepo struct {
	q Querier
}

// NewVentaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVentaRepository(q Querier) *VentaRepo {
	return &VentaRepo{q: q}
}

// Create persiste encabezado y líneas.
func (r *VentaRepo) Create(v *entity.Venta) error {
	ctx := context.Background()
	query := `
		INSERT INTO ventas (id, cliente_id, fecha, total, saldo, a_credito, usuario_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.q.Exec(ctx, query,
		v.ID, v.ClienteID, v.Fecha, v.Total, v.Saldo, v.ACredito, v.UsuarioID, v.CreatedAt, v.UpdatedAt); err != nil {
		return fmt.Errorf("insert venta: %w", err)
	}
	for i := range v.Lineas {
		l := &v.Lineas[i]
		lineQuery := `
			INSERT INTO venta_lineas (id, venta_id, variante_id, cantidad, precio_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.VentaID, l.VarianteID, l.Cantidad, l.PrecioUnitario, l.Subtotal); err != nil {
			return fmt.Errorf("insert venta linea: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *VentaRepo) GetByID(id string) (*entity.Venta, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la venta bloqueando el encabezado (SELECT FOR UPDATE):
// dos devoluciones concurrentes sobre la misma venta quedan serializadas.
func (r *VentaRepo) GetForUpdate(id string) (*entity.Venta, error) {
	return r.get(id, true)
}

func (r *VentaRepo) get(id string, forUpdate bool) (*entity.Venta, error) {
	ctx := context.Background()
	query := `SELECT id, cliente_id, fecha, total, saldo, a_credito, usuario_id, created_at, updated_at FROM ventas WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var v entity.Venta
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ClienteID, &v.Fecha, &v.Total, &v.Saldo, &v.ACredito, &v.UsuarioID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}

	lineQuery := `
		SELECT id, venta_id, variante_id, cantidad, precio_unitario, subtotal
		FROM venta_lineas WHERE venta_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, v.ID)
	if err != nil {
		return nil, fmt.Errorf("list venta lineas: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.VentaLinea
		if err := rows.Scan(&l.ID, &l.VentaID, &l.VarianteID, &l.Cantidad, &l.PrecioUnitario, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan venta linea: %w", err)
		}
		v.Lineas = append(v.Lineas, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateSaldo escribe el saldo pendiente de la venta.
func (r *VentaRepo) UpdateSaldo(id string, saldo decimal.Decimal) error {
	query := `UPDATE ventas SET saldo = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, saldo)
	if err != nil {
		return fmt.Errorf("update venta saldo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ventas de la más reciente a la más antigua, sin líneas.
func (r *VentaRepo) List(limit, offset int) ([]*entity.Venta, error) {
	query := `
		SELECT id, cliente_id, fecha, total, saldo, a_credito, usuario_id, created_at, updated_at
		FROM ventas ORDER BY fecha DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Venta
	for rows.Next() {
		var v entity.Venta
		if err := rows.Scan(&v.ID, &v.ClienteID, &v.Fecha, &v.Total, &v.Saldo, &v.ACredito, &v.UsuarioID, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
