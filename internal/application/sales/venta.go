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

// VentaUseCase registra ventas decrementando stock por línea a través del
// registrador de movimientos, dentro de una sola transacción: stock
// insuficiente en cualquier línea aborta la venta completa.
type VentaUseCase struct {
	txRunner inventory.TxRunner
	ventas   repository.VentaRepository
	vars     repository.VarianteRepository
}

// NewVentaUseCase construye el caso de uso.
func NewVentaUseCase(
	txRunner inventory.TxRunner,
	ventas repository.VentaRepository,
	vars repository.VarianteRepository,
) *VentaUseCase {
	return &VentaUseCase{txRunner: txRunner, ventas: ventas, vars: vars}
}

// LineaVentaInput línea solicitada al crear una venta.
type LineaVentaInput struct {
	VarianteID string
	Cantidad   decimal.Decimal
}

// CrearVentaInput entrada de Crear.
type CrearVentaInput struct {
	ClienteID *string
	ACredito  bool
	UsuarioID string
	Lineas    []LineaVentaInput
}

// Crear resuelve las variantes al precio de venta vigente, persiste la venta
// con sus líneas y registra una salida por línea (tipo "Venta a Cliente",
// origen la venta). Si la venta es a crédito abre el crédito por el total.
func (uc *VentaUseCase) Crear(ctx context.Context, in CrearVentaInput) (*entity.Venta, error) {
	if len(in.Lineas) == 0 {
		return nil, fmt.Errorf("%w: la venta necesita al menos una línea", domain.ErrInvalidInput)
	}
	if in.UsuarioID == "" {
		return nil, fmt.Errorf("%w: usuario obligatorio", domain.ErrInvalidInput)
	}

	// Resolución de variantes fuera de la transacción; el chequeo definitivo
	// de stock ocurre dentro, con la fila bloqueada.
	now := time.Now()
	venta := &entity.Venta{
		ID:        uuid.New().String(),
		ClienteID: in.ClienteID,
		Fecha:     now,
		ACredito:  in.ACredito,
		UsuarioID: in.UsuarioID,
		Total:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, l := range in.Lineas {
		if !l.Cantidad.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea %d: la cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
		}
		variante, err := uc.vars.GetByID(l.VarianteID)
		if err != nil {
			return nil, err
		}
		if variante == nil {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VarianteID)
		}
		if !variante.Activa {
			return nil, fmt.Errorf("%w: la variante %s está inactiva", domain.ErrInvalidInput, variante.SKU)
		}
		subtotal := variante.PrecioVenta.Mul(l.Cantidad)
		venta.Lineas = append(venta.Lineas, entity.VentaLinea{
			ID:             uuid.New().String(),
			VentaID:        venta.ID,
			VarianteID:     variante.ID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: variante.PrecioVenta,
			Subtotal:       subtotal,
		})
		venta.Total = venta.Total.Add(subtotal)
	}
	if in.ACredito {
		venta.Saldo = venta.Total
	} else {
		venta.Saldo = decimal.Zero
	}

	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		tipo, err := r.TiposMovimiento.GetByNombre(entity.TipoVentaCliente)
		if err != nil {
			return err
		}
		if tipo == nil {
			return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrNotFound, entity.TipoVentaCliente)
		}
		if err := r.Ventas.Create(venta); err != nil {
			return err
		}
		ventaRef := venta.ID
		for i := range venta.Lineas {
			linea := &venta.Lineas[i]
			if _, err := inventory.RegistrarMovimiento(r, inventory.MovimientoInput{
				VarianteID:       linea.VarianteID,
				TipoMovimientoID: tipo.ID,
				Cantidad:         linea.Cantidad.Neg(),
				UsuarioID:        in.UsuarioID,
				Motivo:           fmt.Sprintf("Venta %s", venta.ID),
				Origen:           entity.OrigenMovimiento{VentaID: &ventaRef},
			}); err != nil {
				return err
			}
		}
		if in.ACredito {
			return r.Creditos.Create(&entity.Credito{
				ID:        uuid.New().String(),
				VentaID:   venta.ID,
				Monto:     venta.Total,
				Saldo:     venta.Total,
				Estado:    entity.CreditoActivo,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return venta, nil
}

// Obtener devuelve una venta con sus líneas.
func (uc *VentaUseCase) Obtener(ctx context.Context, id string) (*entity.Venta, error) {
	venta, err := uc.ventas.GetByID(id)
	if err != nil {
		return nil, err
	}
	if venta == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return venta, nil
}

// Listar devuelve ventas con paginación.
func (uc *VentaUseCase) Listar(ctx context.Context, limit, offset int) ([]*entity.Venta, error) {
	return uc.ventas.List(limit, offset)
}
