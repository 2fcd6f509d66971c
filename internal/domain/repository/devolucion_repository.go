package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// DevolucionRepository define el puerto de persistencia para devoluciones.
type DevolucionRepository interface {
	Create(d *entity.Devolucion) error
	GetByID(id string) (*entity.Devolucion, error)
	// GetForUpdate bloquea el encabezado para una transición de estado.
	GetForUpdate(id string) (*entity.Devolucion, error)
	UpdateEstado(id, estado string) error
	// SumDevueltaPorVentaLinea suma CantidadDevuelta de las devoluciones ya
	// procesadas contra una línea de venta. Las pendientes, aprobadas y
	// rechazadas no cuentan: todavía no restauraron stock.
	SumDevueltaPorVentaLinea(ventaLineaID string) (decimal.Decimal, error)
	ListByVenta(ventaID string) ([]*entity.Devolucion, error)
}
