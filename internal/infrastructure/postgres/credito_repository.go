package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

var _ repository.CreditoRepository = (*CreditoRepo)(nil)

// CreditoRepo adaptador de créditos (cuentas por cobrar) sobre PostgreSQL.
type CreditoRepo struct {
	q Querier
}

// NewCreditoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCreditoRepository(q Querier) *CreditoRepo {
	return &CreditoRepo{q: q}
}

// Create persiste un crédito nuevo.
func (r *CreditoRepo) Create(c *entity.Credito) error {
	query := `
		INSERT INTO creditos (id, venta_id, monto, saldo, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.VentaID, c.Monto, c.Saldo, c.Estado, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert credito: %w", err)
	}
	return nil
}

// GetByVentaID obtiene el crédito de una venta bloqueando la fila: la
// reducción por devolución es leer-calcular-escribir.
func (r *CreditoRepo) GetByVentaID(ventaID string) (*entity.Credito, error) {
	query := `
		SELECT id, venta_id, monto, saldo, estado, created_at, updated_at
		FROM creditos WHERE venta_id = $1 FOR UPDATE`
	var c entity.Credito
	err := r.q.QueryRow(context.Background(), query, ventaID).Scan(
		&c.ID, &c.VentaID, &c.Monto, &c.Saldo, &c.Estado, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credito: %w", err)
	}
	return &c, nil
}

// Update escribe saldo, principal y estado del crédito.
func (r *CreditoRepo) Update(c *entity.Credito) error {
	query := `UPDATE creditos SET monto = $2, saldo = $3, estado = $4, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, c.ID, c.Monto, c.Saldo, c.Estado)
	if err != nil {
		return fmt.Errorf("update credito: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
