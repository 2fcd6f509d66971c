package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// VentaRepository define el puerto de persistencia para ventas.
// Create persiste encabezado y líneas; GetByID los devuelve juntos.
type VentaRepository interface {
	Create(v *entity.Venta) error
	GetByID(id string) (*entity.Venta, error)
	// GetForUpdate bloquea el encabezado mientras una devolución ajusta el saldo.
	GetForUpdate(id string) (*entity.Venta, error)
	UpdateSaldo(id string, saldo decimal.Decimal) error
	List(limit, offset int) ([]*entity.Venta, error)
}
