package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

// AjusteUseCase gestiona el ciclo borrador → aplicado | cancelado de los
// ajustes manuales de inventario. Solo Aplicar escribe en el ledger.
type AjusteUseCase struct {
	txRunner TxRunner
	ajustes  repository.AjusteRepository
	tipos    repository.TipoMovimientoRepository
	vars     repository.VarianteRepository
}

// NewAjusteUseCase construye el caso de uso. Los repositorios sueltos (atados
// al pool) sirven para lecturas fuera de transacción.
func NewAjusteUseCase(
	txRunner TxRunner,
	ajustes repository.AjusteRepository,
	tipos repository.TipoMovimientoRepository,
	vars repository.VarianteRepository,
) *AjusteUseCase {
	return &AjusteUseCase{txRunner: txRunner, ajustes: ajustes, tipos: tipos, vars: vars}
}

// LineaAjusteInput línea solicitada al crear un borrador.
type LineaAjusteInput struct {
	VarianteID     string
	CantidadAjuste decimal.Decimal
}

// CrearBorradorInput entrada de CrearBorrador.
type CrearBorradorInput struct {
	TipoMovimientoID string
	Motivo           string
	UsuarioID        string
	Lineas           []LineaAjusteInput
}

// CrearBorrador valida el tipo y las líneas, toma la instantánea StockAnterior
// de cada variante y persiste el ajuste en estado borrador. No escribe en el
// ledger.
func (uc *AjusteUseCase) CrearBorrador(ctx context.Context, in CrearBorradorInput) (*entity.Ajuste, error) {
	if len(in.Lineas) == 0 {
		return nil, fmt.Errorf("%w: el ajuste necesita al menos una línea", domain.ErrInvalidInput)
	}
	if in.UsuarioID == "" {
		return nil, fmt.Errorf("%w: usuario obligatorio", domain.ErrInvalidInput)
	}
	tipo, err := uc.tipos.GetByID(in.TipoMovimientoID)
	if err != nil {
		return nil, err
	}
	if tipo == nil {
		return nil, fmt.Errorf("%w: tipo de movimiento %s", domain.ErrNotFound, in.TipoMovimientoID)
	}
	if !tipo.Activo {
		return nil, fmt.Errorf("%w: el tipo de movimiento %q está inactivo", domain.ErrInvalidInput, tipo.Nombre)
	}

	now := time.Now()
	ajuste := &entity.Ajuste{
		ID:               uuid.New().String(),
		TipoMovimientoID: tipo.ID,
		Motivo:           in.Motivo,
		Estado:           entity.AjusteBorrador,
		UsuarioID:        in.UsuarioID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for i, l := range in.Lineas {
		// Para entrada/salida la cantidad es un delta positivo; para ajuste
		// (conteo físico) es el stock contado absoluto, que admite cero.
		switch tipo.Naturaleza {
		case entity.NaturalezaAjuste:
			if l.CantidadAjuste.IsNegative() {
				return nil, fmt.Errorf("%w: línea %d: el conteo no puede ser negativo", domain.ErrInvalidInput, i+1)
			}
		default:
			if !l.CantidadAjuste.GreaterThan(decimal.Zero) {
				return nil, fmt.Errorf("%w: línea %d: la cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
			}
		}
		variante, err := uc.vars.GetByID(l.VarianteID)
		if err != nil {
			return nil, err
		}
		if variante == nil {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, l.VarianteID)
		}
		ajuste.Lineas = append(ajuste.Lineas, entity.AjusteLinea{
			ID:             uuid.New().String(),
			AjusteID:       ajuste.ID,
			VarianteID:     variante.ID,
			CantidadAjuste: l.CantidadAjuste,
			StockAnterior:  variante.Stock,
		})
	}

	if err := uc.ajustes.Create(ajuste); err != nil {
		return nil, err
	}
	return ajuste, nil
}

// Aplicar registra en el ledger el delta de cada línea y pasa el ajuste a
// aplicado, todo en una transacción: cualquier línea que falle revierte los
// movimientos ya registrados. Falla con Conflict si el ajuste no está en
// borrador.
//
// La instantánea StockAnterior se tomó al crear el borrador; si hubo otros
// movimientos entre el borrador y la aplicación, el delta de un conteo físico
// se calcula contra esa instantánea (comportamiento conocido, no corregido).
func (uc *AjusteUseCase) Aplicar(ctx context.Context, ajusteID, usuarioID string) (*entity.Ajuste, error) {
	var aplicado *entity.Ajuste
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ajuste, err := r.Ajustes.GetForUpdate(ajusteID)
		if err != nil {
			return err
		}
		if ajuste == nil {
			return fmt.Errorf("%w: ajuste %s", domain.ErrNotFound, ajusteID)
		}
		if ajuste.Estado != entity.AjusteBorrador {
			return fmt.Errorf("%w: el ajuste está en %q, solo un borrador puede aplicarse", domain.ErrConflict, ajuste.Estado)
		}
		tipo, err := r.TiposMovimiento.GetByID(ajuste.TipoMovimientoID)
		if err != nil {
			return err
		}
		if tipo == nil {
			return fmt.Errorf("%w: tipo de movimiento %s", domain.ErrNotFound, ajuste.TipoMovimientoID)
		}

		ajusteRef := ajuste.ID
		for i := range ajuste.Lineas {
			linea := &ajuste.Lineas[i]
			cantidad := linea.CantidadConSigno(tipo.Naturaleza)
			if cantidad.IsZero() {
				// Conteo igual a la instantánea: no hay nada que registrar.
				stockNuevo := linea.StockAnterior
				linea.StockNuevo = &stockNuevo
				if err := r.Ajustes.UpdateLineaStockNuevo(linea.ID, stockNuevo); err != nil {
					return err
				}
				continue
			}
			mov, err := RegistrarMovimiento(r, MovimientoInput{
				VarianteID:       linea.VarianteID,
				TipoMovimientoID: tipo.ID,
				Cantidad:         cantidad,
				UsuarioID:        usuarioID,
				Motivo:           ajuste.Motivo,
				Origen:           entity.OrigenMovimiento{AjusteID: &ajusteRef},
			})
			if err != nil {
				return err
			}
			linea.StockNuevo = &mov.StockNuevo
			if err := r.Ajustes.UpdateLineaStockNuevo(linea.ID, mov.StockNuevo); err != nil {
				return err
			}
		}

		ajuste.Estado = entity.AjusteAplicado
		ajuste.UpdatedAt = time.Now()
		if err := r.Ajustes.UpdateEstado(ajuste.ID, entity.AjusteAplicado); err != nil {
			return err
		}
		aplicado = ajuste
		return nil
	})
	if err != nil {
		return nil, err
	}
	return aplicado, nil
}

// Cancelar pasa un borrador a cancelado. Sin interacción con el ledger: por
// eso la cancelación solo es legal antes de aplicar.
func (uc *AjusteUseCase) Cancelar(ctx context.Context, ajusteID string) (*entity.Ajuste, error) {
	var cancelado *entity.Ajuste
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		ajuste, err := r.Ajustes.GetForUpdate(ajusteID)
		if err != nil {
			return err
		}
		if ajuste == nil {
			return fmt.Errorf("%w: ajuste %s", domain.ErrNotFound, ajusteID)
		}
		if ajuste.Estado != entity.AjusteBorrador {
			return fmt.Errorf("%w: el ajuste está en %q, solo un borrador puede cancelarse", domain.ErrConflict, ajuste.Estado)
		}
		if err := r.Ajustes.UpdateEstado(ajuste.ID, entity.AjusteCancelado); err != nil {
			return err
		}
		ajuste.Estado = entity.AjusteCancelado
		ajuste.UpdatedAt = time.Now()
		cancelado = ajuste
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelado, nil
}

// Obtener devuelve un ajuste con sus líneas.
func (uc *AjusteUseCase) Obtener(ctx context.Context, id string) (*entity.Ajuste, error) {
	ajuste, err := uc.ajustes.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ajuste == nil {
		return nil, fmt.Errorf("%w: ajuste %s", domain.ErrNotFound, id)
	}
	return ajuste, nil
}

// Listar devuelve ajustes, opcionalmente filtrados por estado.
func (uc *AjusteUseCase) Listar(ctx context.Context, estado string, limit, offset int) ([]*entity.Ajuste, error) {
	return uc.ajustes.List(estado, limit, offset)
}
