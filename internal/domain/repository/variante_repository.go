package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain/entity"
)

// VarianteRepository define el puerto de persistencia para variantes.
// UpdateStock existe solo para el registrador de movimientos: ningún otro
// código debe escribir el campo stock.
type VarianteRepository interface {
	Create(v *entity.Variante) error
	GetByID(id string) (*entity.Variante, error)
	GetBySKU(sku string) (*entity.Variante, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para el ciclo
	// leer-calcular-escribir del stock.
	GetForUpdate(id string) (*entity.Variante, error)
	UpdateStock(id string, stock decimal.Decimal) error
	List(soloActivas bool, limit, offset int) ([]*entity.Variante, error)
	// ListStockBajo devuelve variantes activas con stock bajo el mínimo configurado.
	ListStockBajo() ([]*entity.Variante, error)
	// ListAgotadas devuelve variantes activas sin existencias.
	ListAgotadas() ([]*entity.Variante, error)
}
