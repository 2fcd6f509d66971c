package purchasing

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

// CompraUseCase crea órdenes de compra y procesa sus recepciones. La recepción
// es el flujo que escribe en el ledger: una entrada por línea recibida, todo en
// una transacción.
type CompraUseCase struct {
	txRunner inventory.TxRunner
	compras  repository.CompraRepository
	vars     repository.VarianteRepository
}

// NewCompraUseCase construye el caso de uso.
func NewCompraUseCase(
	txRunner inventory.TxRunner,
	compras repository.CompraRepository,
	vars repository.VarianteRepository,
) *CompraUseCase {
	return &CompraUseCase{txRunner: txRunner, compras: compras, vars: vars}
}

// LineaCompraInput línea solicitada al crear una orden.
type LineaCompraInput struct {
	VarianteID     string
	CantidadPedida decimal.Decimal
	CostoUnitario  decimal.Decimal
}

// CrearCompraInput entrada de Crear.
type CrearCompraInput struct {
	ProveedorID string
	Fecha       time.Time
	Lineas      []LineaCompraInput
}

// Crear persiste una orden de compra en estado pendiente. No toca el ledger:
// el stock entra solo al recibir mercancía.
func (uc *CompraUseCase) Crear(ctx context.Context, in CrearCompraInput) (*entity.Compra, error) {
	if in.ProveedorID == "" {
		return nil, fmt.Errorf("%w: proveedor obligatorio", domain.ErrInvalidInput)
	}
	if len(in.Lineas) == 0 {
		return nil, fmt.Errorf("%w: la compra necesita al menos una línea", domain.ErrInvalidInput)
	}
	fecha := in.Fecha
	if fecha.IsZero() {
		fecha = time.Now()
	}
	now := time.Now()
	compra := &entity.Compra{
		ID:          uuid.New().String(),
		ProveedorID: in.ProveedorID,
		Fecha:       fecha,
		Estado:      entity.CompraPendiente,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, l := range in.Lineas {
		if !l.CantidadPedida.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea %d: la cantidad pedida debe ser positiva", domain.ErrInvalidInput, i+1)
		}
		if l.CostoUnitario.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d: el costo unitario no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		variante, err := uc.vars.GetByID(l.VarianteID)
		if err != nil {
			return nil, err
		}
		if variante == nil {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VarianteID)
		}
		compra.Lineas = append(compra.Lineas, entity.CompraLinea{
			ID:               uuid.New().String(),
			CompraID:         compra.ID,
			VarianteID:       variante.ID,
			CantidadPedida:   l.CantidadPedida,
			CostoUnitario:    l.CostoUnitario,
			CantidadRecibida: decimal.Zero,
		})
	}
	if err := uc.compras.Create(compra); err != nil {
		return nil, err
	}
	return compra, nil
}

// RecepcionLinea cantidad recibida contra una línea de la orden.
type RecepcionLinea struct {
	CompraLineaID string
	Cantidad      decimal.Decimal
}

// Recibir procesa una recepción de mercancía: valida cada línea contra lo ya
// recibido, registra una entrada en el ledger por línea (tipo "Compra a
// Proveedor", origen la compra) y recalcula el estado del encabezado. Una sola
// transacción: un fallo en cualquier línea revierte los movimientos de toda la
// llamada.
func (uc *CompraUseCase) Recibir(ctx context.Context, compraID string, recepciones []RecepcionLinea, usuarioID string) (*entity.Compra, error) {
	if len(recepciones) == 0 {
		return nil, fmt.Errorf("%w: la recepción necesita al menos una línea", domain.ErrInvalidInput)
	}
	var resultado *entity.Compra
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		compra, err := r.Compras.GetForUpdate(compraID)
		if err != nil {
			return err
		}
		if compra == nil {
			return fmt.Errorf("%w: compra %s", domain.ErrNotFound, compraID)
		}
		if compra.Estado == entity.CompraRecibida {
			return fmt.Errorf("%w: la compra ya fue recibida por completo", domain.ErrConflict)
		}
		tipo, err := r.TiposMovimiento.GetByNombre(entity.TipoCompraProveedor)
		if err != nil {
			return err
		}
		if tipo == nil {
			return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrNotFound, entity.TipoCompraProveedor)
		}

		compraRef := compra.ID
		for _, rec := range recepciones {
			linea := buscarLinea(compra, rec.CompraLineaID)
			if linea == nil {
				return fmt.Errorf("%w: la línea %s no pertenece a la compra", domain.ErrNotFound, rec.CompraLineaID)
			}
			if !rec.Cantidad.GreaterThan(decimal.Zero) {
				return fmt.Errorf("%w: línea %s: la cantidad recibida debe ser positiva", domain.ErrInvalidInput, linea.ID)
			}
			if rec.Cantidad.Add(linea.CantidadRecibida).GreaterThan(linea.CantidadPedida) {
				return fmt.Errorf("%w: línea %s: recibir %s supera lo pedido (pendiente %s)",
					domain.ErrConflict, linea.ID, rec.Cantidad.String(), linea.Pendiente().String())
			}
			if _, err := inventory.RegistrarMovimiento(r, inventory.MovimientoInput{
				VarianteID:       linea.VarianteID,
				TipoMovimientoID: tipo.ID,
				Cantidad:         rec.Cantidad,
				UsuarioID:        usuarioID,
				Motivo:           fmt.Sprintf("Recepción de compra %s", compra.ID),
				Origen:           entity.OrigenMovimiento{CompraID: &compraRef},
			}); err != nil {
				return err
			}
			linea.CantidadRecibida = linea.CantidadRecibida.Add(rec.Cantidad)
			if err := r.Compras.UpdateLineaRecibida(linea.ID, linea.CantidadRecibida); err != nil {
				return err
			}
		}

		compra.Estado = compra.RecalcularEstado()
		compra.UpdatedAt = time.Now()
		if err := r.Compras.UpdateEstado(compra.ID, compra.Estado); err != nil {
			return err
		}
		resultado = compra
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

// Obtener devuelve una compra con sus líneas.
func (uc *CompraUseCase) Obtener(ctx context.Context, id string) (*entity.Compra, error) {
	compra, err := uc.compras.GetByID(id)
	if err != nil {
		return nil, err
	}
	if compra == nil {
		return nil, fmt.Errorf("%w: compra %s", domain.ErrNotFound, id)
	}
	return compra, nil
}

// Listar devuelve compras, opcionalmente filtradas por estado.
func (uc *CompraUseCase) Listar(ctx context.Context, estado string, limit, offset int) ([]*entity.Compra, error) {
	return uc.compras.List(estado, limit, offset)
}

func buscarLinea(c *entity.Compra, lineaID string) *entity.CompraLinea {
	for i := range c.Lineas {
		if c.Lineas[i].ID == lineaID {
			return &c.Lineas[i]
		}
	}
	return nil
}
