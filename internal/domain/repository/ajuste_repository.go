package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// AjusteRepository define el puerto de persistencia para ajustes de inventario.
// Create persiste encabezado y líneas; GetByID/GetForUpdate los devuelven juntos.
type AjusteRepository interface {
	Create(a *entity.Ajuste) error
	GetByID(id string) (*entity.Ajuste, error)
	// GetForUpdate bloquea el encabezado para una transición de estado.
	GetForUpdate(id string) (*entity.Ajuste, error)
	UpdateEstado(id, estado string) error
	UpdateLineaStockNuevo(lineaID string, stockNuevo decimal.Decimal) error
	List(estado string, limit, offset int) ([]*entity.Ajuste, error)
}
