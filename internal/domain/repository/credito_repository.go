package repository

import "github.com/jmcastano/trastienda-api/internal/domain/entity"

// CreditoRepository define el puerto hacia el módulo de cuentas por cobrar.
// Participa en la transacción de la devolución: si falla, toda la devolución
// se revierte.
type CreditoRepository interface {
	Create(c *entity.Credito) error
	// GetByVentaID devuelve el crédito asociado a una venta, o nil si la venta
	// no fue a crédito.
	GetByVentaID(ventaID string) (*entity.Credito, error)
	Update(c *entity.Credito) error
}
