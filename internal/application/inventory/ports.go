package inventory

import (
	"context"

	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
// Todo flujo de negocio recibe este paquete dentro de TxRunner.Run y lo pasa
// al registrador de movimientos: así la regla "el registrador nunca abre su
// propia transacción" queda forzada por la estructura.
type TxRepos struct {
	Variantes       repository.VarianteRepository
	TiposMovimiento repository.TipoMovimientoRepository
	Movimientos     repository.MovimientoRepository
	Compras         repository.CompraRepository
	Ajustes         repository.AjusteRepository
	Ventas          repository.VentaRepository
	Devoluciones    repository.DevolucionRepository
	Creditos        repository.CreditoRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Commit si fn devuelve nil; Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
