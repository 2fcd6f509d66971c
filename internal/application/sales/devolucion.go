package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

// DevolucionUseCase valida devoluciones contra lo ya devuelto por línea de
// venta, restaura stock a través del registrador y reduce el saldo de la venta
// y de su crédito asociado, todo en una transacción.
type DevolucionUseCase struct {
	txRunner     inventory.TxRunner
	devoluciones repository.DevolucionRepository
	ventas       repository.VentaRepository
}

// NewDevolucionUseCase construye el caso de uso.
func NewDevolucionUseCase(
	txRunner inventory.TxRunner,
	devoluciones repository.DevolucionRepository,
	ventas repository.VentaRepository,
) *DevolucionUseCase {
	return &DevolucionUseCase{txRunner: txRunner, devoluciones: devoluciones, ventas: ventas}
}

// LineaDevolucionInput línea solicitada contra una línea de venta.
type LineaDevolucionInput struct {
	VentaLineaID     string
	CantidadDevuelta decimal.Decimal
}

// CrearDevolucionInput entrada de Crear. Con RequiereRevision la devolución
// nace en pendiente y no toca stock hasta ser procesada.
type CrearDevolucionInput struct {
	VentaID          string
	Motivo           string
	UsuarioID        string
	RequiereRevision bool
	Lineas           []LineaDevolucionInput
}

// Crear valida cada línea contra la cantidad vendida menos lo ya devuelto,
// arma la devolución valorada al precio original de cada línea y, en el camino
// primario (sin revisión), la procesa de inmediato: entrada al ledger por
// línea y reducción de saldos.
func (uc *DevolucionUseCase) Crear(ctx context.Context, in CrearDevolucionInput) (*entity.Devolucion, error) {
	if len(in.Lineas) == 0 {
		return nil, fmt.Errorf("%w: la devolución necesita al menos una línea", domain.ErrInvalidInput)
	}
	if in.UsuarioID == "" {
		return nil, fmt.Errorf("%w: usuario obligatorio", domain.ErrInvalidInput)
	}
	var creada *entity.Devolucion
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		venta, err := r.Ventas.GetForUpdate(in.VentaID)
		if err != nil {
			return err
		}
		if venta == nil {
			return fmt.Errorf("%w: venta %s", domain.ErrNotFound, in.VentaID)
		}

		now := time.Now()
		devolucion := &entity.Devolucion{
			ID:        uuid.New().String(),
			VentaID:   venta.ID,
			Motivo:    in.Motivo,
			UsuarioID: in.UsuarioID,
			Total:     decimal.Zero,
			Fecha:     now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		// El tope por línea de venta cuenta también lo pedido en esta misma
		// solicitud: dos líneas contra la misma línea de venta se acumulan.
		solicitada := make(map[string]decimal.Decimal, len(in.Lineas))
		for _, l := range in.Lineas {
			if !l.CantidadDevuelta.GreaterThan(decimal.Zero) {
				return fmt.Errorf("%w: la cantidad devuelta debe ser positiva", domain.ErrInvalidInput)
			}
			ventaLinea := venta.BuscarLinea(l.VentaLineaID)
			if ventaLinea == nil {
				return fmt.Errorf("%w: la línea %s no pertenece a la venta", domain.ErrNotFound, l.VentaLineaID)
			}
			yaDevuelta, err := r.Devoluciones.SumDevueltaPorVentaLinea(ventaLinea.ID)
			if err != nil {
				return err
			}
			restante := ventaLinea.Cantidad.Sub(yaDevuelta).Sub(solicitada[ventaLinea.ID])
			if l.CantidadDevuelta.GreaterThan(restante) {
				return fmt.Errorf("%w: la línea %s solo admite devolver %s más",
					domain.ErrConflict, ventaLinea.ID, restante.String())
			}
			solicitada[ventaLinea.ID] = solicitada[ventaLinea.ID].Add(l.CantidadDevuelta)
			// Subtotal al precio original de la línea, no al precio vigente.
			subtotal := ventaLinea.PrecioUnitario.Mul(l.CantidadDevuelta)
			devolucion.Lineas = append(devolucion.Lineas, entity.DevolucionLinea{
				ID:               uuid.New().String(),
				DevolucionID:     devolucion.ID,
				VentaLineaID:     ventaLinea.ID,
				VarianteID:       ventaLinea.VarianteID,
				CantidadDevuelta: l.CantidadDevuelta,
				PrecioUnitario:   ventaLinea.PrecioUnitario,
				Subtotal:         subtotal,
			})
			devolucion.Total = devolucion.Total.Add(subtotal)
		}

		if devolucion.Total.Equal(venta.Total) {
			devolucion.TipoDevolucion = entity.DevolucionTotal
		} else {
			devolucion.TipoDevolucion = entity.DevolucionParcial
		}

		if in.RequiereRevision {
			devolucion.Estado = entity.DevolucionPendiente
			if err := r.Devoluciones.Create(devolucion); err != nil {
				return err
			}
			creada = devolucion
			return nil
		}

		devolucion.Estado = entity.DevolucionProcesada
		if err := r.Devoluciones.Create(devolucion); err != nil {
			return err
		}
		if err := procesar(r, devolucion, venta); err != nil {
			return err
		}
		creada = devolucion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creada, nil
}

// CambiarEstado mueve una devolución por el ciclo de revisión:
// pendiente → aprobada/rechazada, aprobada → procesada, rechazada → pendiente.
// Solo la transición a procesada toca el ledger; las demás son cambios de
// estado puros.
func (uc *DevolucionUseCase) CambiarEstado(ctx context.Context, devolucionID, nuevoEstado, usuarioID string) (*entity.Devolucion, error) {
	var actualizada *entity.Devolucion
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		devolucion, err := r.Devoluciones.GetForUpdate(devolucionID)
		if err != nil {
			return err
		}
		if devolucion == nil {
			return fmt.Errorf("%w: devolución %s", domain.ErrNotFound, devolucionID)
		}
		if !devolucion.PuedeTransicionar(nuevoEstado) {
			return fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, devolucion.Estado, nuevoEstado)
		}

		if nuevoEstado == entity.DevolucionProcesada {
			venta, err := r.Ventas.GetForUpdate(devolucion.VentaID)
			if err != nil {
				return err
			}
			if venta == nil {
				return fmt.Errorf("%w: venta %s", domain.ErrNotFound, devolucion.VentaID)
			}
			// Revalidar el tope por línea: otras devoluciones pudieron
			// procesarse desde que esta fue creada. Las líneas de esta misma
			// devolución sobre la misma línea de venta también se acumulan.
			solicitada := make(map[string]decimal.Decimal, len(devolucion.Lineas))
			for i := range devolucion.Lineas {
				linea := &devolucion.Lineas[i]
				ventaLinea := venta.BuscarLinea(linea.VentaLineaID)
				if ventaLinea == nil {
					return fmt.Errorf("%w: la línea %s no pertenece a la venta", domain.ErrNotFound, linea.VentaLineaID)
				}
				yaDevuelta, err := r.Devoluciones.SumDevueltaPorVentaLinea(ventaLinea.ID)
				if err != nil {
					return err
				}
				restante := ventaLinea.Cantidad.Sub(yaDevuelta).Sub(solicitada[ventaLinea.ID])
				if linea.CantidadDevuelta.GreaterThan(restante) {
					return fmt.Errorf("%w: la línea %s solo admite devolver %s más",
						domain.ErrConflict, ventaLinea.ID, restante.String())
				}
				solicitada[ventaLinea.ID] = solicitada[ventaLinea.ID].Add(linea.CantidadDevuelta)
			}
			devolucion.UsuarioID = usuarioID
			if err := procesar(r, devolucion, venta); err != nil {
				return err
			}
		}

		if err := r.Devoluciones.UpdateEstado(devolucion.ID, nuevoEstado); err != nil {
			return err
		}
		devolucion.Estado = nuevoEstado
		devolucion.UpdatedAt = time.Now()
		actualizada = devolucion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return actualizada, nil
}

// Obtener devuelve una devolución con sus líneas.
func (uc *DevolucionUseCase) Obtener(ctx context.Context, id string) (*entity.Devolucion, error) {
	devolucion, err := uc.devoluciones.GetByID(id)
	if err != nil {
		return nil, err
	}
	if devolucion == nil {
		return nil, fmt.Errorf("%w: devolución %s", domain.ErrNotFound, id)
	}
	return devolucion, nil
}

// ListarPorVenta devuelve las devoluciones de una venta.
func (uc *DevolucionUseCase) ListarPorVenta(ctx context.Context, ventaID string) ([]*entity.Devolucion, error) {
	return uc.devoluciones.ListByVenta(ventaID)
}

// procesar registra la entrada al ledger por cada línea (la devolución
// restaura stock contra la venta de origen) y reduce el saldo de la venta y
// del crédito asociado, con piso en cero.
func procesar(r inventory.TxRepos, devolucion *entity.Devolucion, venta *entity.Venta) error {
	tipo, err := r.TiposMovimiento.GetByNombre(entity.TipoDevolucionCliente)
	if err != nil {
		return err
	}
	if tipo == nil {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrNotFound, entity.TipoDevolucionCliente)
	}
	ventaRef := venta.ID
	for i := range devolucion.Lineas {
		linea := &devolucion.Lineas[i]
		if _, err := inventory.RegistrarMovimiento(r, inventory.MovimientoInput{
			VarianteID:       linea.VarianteID,
			TipoMovimientoID: tipo.ID,
			Cantidad:         linea.CantidadDevuelta,
			UsuarioID:        devolucion.UsuarioID,
			Motivo:           fmt.Sprintf("Devolución de venta %s", venta.ID),
			Origen:           entity.OrigenMovimiento{VentaID: &ventaRef},
		}); err != nil {
			return err
		}
	}

	nuevoSaldo := venta.Saldo.Sub(devolucion.Total)
	if nuevoSaldo.IsNegative() {
		nuevoSaldo = decimal.Zero
	}
	if err := r.Ventas.UpdateSaldo(venta.ID, nuevoSaldo); err != nil {
		return err
	}
	venta.Saldo = nuevoSaldo

	credito, err := r.Creditos.GetByVentaID(venta.ID)
	if err != nil {
		return err
	}
	if credito != nil {
		credito.Reducir(devolucion.Total)
		credito.UpdatedAt = time.Now()
		if err := r.Creditos.Update(credito); err != nil {
			return err
		}
	}
	return nil
}
