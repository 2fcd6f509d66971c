package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// CompraRepository define el puerto de persistencia para órdenes de compra.
// GetByID y GetForUpdate devuelven el encabezado con sus líneas.
type CompraRepository interface {
	Create(c *entity.Compra) error
	GetByID(id string) (*entity.Compra, error)
	// GetForUpdate bloquea el encabezado durante una recepción.
	GetForUpdate(id string) (*entity.Compra, error)
	UpdateLineaRecibida(lineaID string, cantidadRecibida decimal.Decimal) error
	UpdateEstado(id, estado string) error
	List(estado string, limit, offset int) ([]*entity.Compra, error)
}
