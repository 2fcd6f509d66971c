package repository

import "github.com/jmcastano/trastienda-api/internal/domain/entity"

// TipoMovimientoRepository define el puerto de consulta para tipos de
// movimiento. Solo lectura: los tipos son dato de referencia sembrado.
type TipoMovimientoRepository interface {
	GetByID(id string) (*entity.TipoMovimiento, error)
	GetByNombre(nombre string) (*entity.TipoMovimiento, error)
	List(soloActivos bool) ([]*entity.TipoMovimiento, error)
}
