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

var _ repository.DevolucionRepository = (*DevolucionRepo)(nil)

// DevolucionRepo adaptador de devoluciones sobre PostgreSQL.
type DevolucionRepo struct {
	q Querier
}

// NewDevolucionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDevolucionRepository(q Querier) *DevolucionRepo {
	return &DevolucionRepo{q: q}
}

// Create persiste encabezado y líneas.
func (r *DevolucionRepo) Create(d *entity.Devolucion) error {
	ctx := context.Background()
	query := `
		INSERT INTO devoluciones (id, venta_id, motivo, estado, tipo_devolucion, total, usuario_id, fecha, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.q.Exec(ctx, query,
		d.ID, d.VentaID, d.Motivo, d.Estado, d.TipoDevolucion, d.Total, d.UsuarioID, d.Fecha, d.CreatedAt, d.UpdatedAt); err != nil {
		return fmt.Errorf("insert devolucion: %w", err)
	}
	for i := range d.Lineas {
		l := &d.Lineas[i]
		lineQuery := `
			INSERT INTO devolucion_lineas (id, devolucion_id, venta_linea_id, variante_id, cantidad_devuelta, precio_unitario, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.DevolucionID, l.VentaLineaID, l.VarianteID, l.CantidadDevuelta, l.PrecioUnitario, l.Subtotal); err != nil {
			return fmt.Errorf("insert devolucion linea: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una devolución con sus líneas.
func (r *DevolucionRepo) GetByID(id string) (*entity.Devolucion, error) {
	return r.get(id, false)
}

// GetForUpdate obtiene la devolución bloqueando el encabezado (SELECT FOR UPDATE).
func (r *DevolucionRepo) GetForUpdate(id string) (*entity.Devolucion, error) {
	return r.get(id, true)
}

func (r *DevolucionRepo) get(id string, forUpdate bool) (*entity.Devolucion, error) {
	ctx := context.Background()
	query := `
		SELECT id, venta_id, motivo, estado, tipo_devolucion, total, usuario_id, fecha, created_at, updated_at
		FROM devoluciones WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var d entity.Devolucion
	err := r.q.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.VentaID, &d.Motivo, &d.Estado, &d.TipoDevolucion, &d.Total, &d.UsuarioID, &d.Fecha, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get devolucion: %w", err)
	}
	lineas, err := r.lineas(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.Lineas = lineas
	return &d, nil
}

func (r *DevolucionRepo) lineas(ctx context.Context, devolucionID string) ([]entity.DevolucionLinea, error) {
	query := `
		SELECT id, devolucion_id, venta_linea_id, variante_id, cantidad_devuelta, precio_unitario, subtotal
		FROM devolucion_lineas WHERE devolucion_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, devolucionID)
	if err != nil {
		return nil, fmt.Errorf("list devolucion lineas: %w", err)
	}
	defer rows.Close()
	var lineas []entity.DevolucionLinea
	for rows.Next() {
		var l entity.DevolucionLinea
		if err := rows.Scan(&l.ID, &l.DevolucionID, &l.VentaLineaID, &l.VarianteID, &l.CantidadDevuelta, &l.PrecioUnitario, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan devolucion linea: %w", err)
		}
		lineas = append(lineas, l)
	}
	return lineas, rows.Err()
}

// UpdateEstado escribe el estado del encabezado.
func (r *DevolucionRepo) UpdateEstado(id, estado string) error {
	query := `UPDATE devoluciones SET estado = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, estado)
	if err != nil {
		return fmt.Errorf("update devolucion estado: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumDevueltaPorVentaLinea suma lo ya devuelto (devoluciones procesadas)
// contra una línea de venta.
func (r *DevolucionRepo) SumDevueltaPorVentaLinea(ventaLineaID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(dl.cantidad_devuelta), 0)
		FROM devolucion_lineas dl
		JOIN devoluciones d ON d.id = dl.devolucion_id
		WHERE dl.venta_linea_id = $1 AND d.estado = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, ventaLineaID, entity.DevolucionProcesada).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum devoluciones: %w", err)
	}
	return sum, nil
}

// ListByVenta devuelve las devoluciones de una venta con sus líneas.
func (r *DevolucionRepo) ListByVenta(ventaID string) ([]*entity.Devolucion, error) {
	ctx := context.Background()
	query := `
		SELECT id, venta_id, motivo, estado, tipo_devolucion, total, usuario_id, fecha, created_at, updated_at
		FROM devoluciones WHERE venta_id = $1 ORDER BY fecha`
	rows, err := r.q.Query(ctx, query, ventaID)
	if err != nil {
		return nil, fmt.Errorf("list devoluciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Devolucion
	for rows.Next() {
		var d entity.Devolucion
		if err := rows.Scan(&d.ID, &d.VentaID, &d.Motivo, &d.Estado, &d.TipoDevolucion, &d.Total, &d.UsuarioID, &d.Fecha, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan devolucion: %w", err)
		}
		list = append(list, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range list {
		lineas, err := r.lineas(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		d.Lineas = lineas
	}
	return list, nil
}
