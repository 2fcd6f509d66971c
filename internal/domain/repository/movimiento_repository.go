package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// MovimientoFilter filtros para el historial de movimientos.
type MovimientoFilter struct {
	VarianteID       string
	TipoMovimientoID string
	Desde            *time.Time
	Hasta            *time.Time
	Limit            int
	Offset           int
}

// MovimientoRepository define el puerto de persistencia del ledger.
// Append-only: no hay Update ni Delete; los movimientos se retienen
// indefinidamente.
type MovimientoRepository interface {
	Create(m *entity.Movimiento) error
	GetByID(id string) (*entity.Movimiento, error)
	List(f MovimientoFilter) ([]*entity.Movimiento, error)
	// SumByVariante devuelve la suma de cantidades con signo de todos los
	// movimientos de una variante (debe igualar el stock cacheado).
	SumByVariante(varianteID string) (decimal.Decimal, error)
}
