package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
	"github.com/jmcastano/trastienda-api/internal/testutil"
)

func newAjusteUC(store *testutil.Store) *inventory.AjusteUseCase {
	repos := store.Repos()
	return inventory.NewAjusteUseCase(store.Runner(), repos.Ajustes, repos.TiposMovimiento, repos.Variantes)
}

func TestCrearBorrador_TomaInstantaneaSinTocarLedger(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoAjusteInventario, entity.NaturalezaAjuste)
	variante := store.SeedVariante("CAM-AZL-M", dec("8"))
	uc := newAjusteUC(store)

	ajuste, err := uc.CrearBorrador(context.Background(), inventory.CrearBorradorInput{
		TipoMovimientoID: tipo.ID,
		Motivo:           "conteo físico bodega",
		UsuarioID:        testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{
			{VarianteID: variante.ID, CantidadAjuste: dec("15")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.AjusteBorrador, ajuste.Estado)
	require.Len(t, ajuste.Lineas, 1)
	assert.True(t, ajuste.Lineas[0].StockAnterior.Equal(dec("8")),
		"el borrador captura la instantánea del stock al crearse")
	assert.Nil(t, ajuste.Lineas[0].StockNuevo)

	// Ni el stock ni el ledger cambian hasta aplicar.
	repos := store.Repos()
	actual, _ := repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("8")))
	suma, _ := repos.Movimientos.SumByVariante(variante.ID)
	assert.True(t, suma.IsZero())
}

func TestCrearBorrador_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	conteo := store.SeedTipo(entity.TipoAjusteInventario, entity.NaturalezaAjuste)
	merma := store.SeedTipo(entity.TipoMerma, entity.NaturalezaSalida)
	variante := store.SeedVariante("PAN-NEG-32", dec("5"))
	uc := newAjusteUC(store)
	ctx := context.Background()

	_, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: conteo.ID, Motivo: "x", UsuarioID: testUsuarioID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: conteo.ID, Motivo: "x", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: dec("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "conteo negativo")

	_, err = uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: merma.ID, Motivo: "x", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta cero para naturaleza salida")

	// Conteo en cero es legal: significa "no quedan existencias".
	ajuste, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: conteo.ID, Motivo: "agotado", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: decimal.Zero}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AjusteBorrador, ajuste.Estado)
}

// Conteo físico: con instantánea 8 y conteo 15, el ledger recibe +7.
func TestAplicar_ConteoGeneraDelta(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoAjusteInventario, entity.NaturalezaAjuste)
	variante := store.SeedVariante("CAM-AZL-M", dec("8"))
	uc := newAjusteUC(store)
	ctx := context.Background()

	borrador, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: tipo.ID,
		Motivo:           "conteo físico",
		UsuarioID:        testUsuarioID,
		Lineas:           []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: dec("15")}},
	})
	require.NoError(t, err)

	aplicado, err := uc.Aplicar(ctx, borrador.ID, testUsuarioID)
	require.NoError(t, err)

	assert.Equal(t, entity.AjusteAplicado, aplicado.Estado)
	require.NotNil(t, aplicado.Lineas[0].StockNuevo)
	assert.True(t, aplicado.Lineas[0].StockNuevo.Equal(dec("15")))

	repos := store.Repos()
	actual, _ := repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("15")))

	movs, _ := repos.Movimientos.List(repository.MovimientoFilter{VarianteID: variante.ID})
	require.Len(t, movs, 1)
	assert.True(t, movs[0].Cantidad.Equal(dec("7")), "el delta contra la instantánea es +7")
	require.NotNil(t, movs[0].Origen.AjusteID)
	assert.Equal(t, borrador.ID, *movs[0].Origen.AjusteID)
}

func TestAplicar_ConteoIgualALaInstantanea(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoAjusteInventario, entity.NaturalezaAjuste)
	variante := store.SeedVariante("GOR-VER-U", dec("8"))
	uc := newAjusteUC(store)
	ctx := context.Background()

	borrador, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: tipo.ID, Motivo: "conteo sin novedad", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: dec("8")}},
	})
	require.NoError(t, err)

	aplicado, err := uc.Aplicar(ctx, borrador.ID, testUsuarioID)
	require.NoError(t, err)

	assert.Equal(t, entity.AjusteAplicado, aplicado.Estado)
	require.NotNil(t, aplicado.Lineas[0].StockNuevo)
	assert.True(t, aplicado.Lineas[0].StockNuevo.Equal(dec("8")))

	// Delta cero: el ledger queda intacto.
	suma, _ := store.Repos().Movimientos.SumByVariante(variante.ID)
	assert.True(t, suma.IsZero())
}

func TestAplicar_DosVecesDevuelveConflicto(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoMerma, entity.NaturalezaSalida)
	variante := store.SeedVariante("ZAP-BLA-40", dec("10"))
	uc := newAjusteUC(store)
	ctx := context.Background()

	borrador, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: tipo.ID, Motivo: "rotura", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: dec("2")}},
	})
	require.NoError(t, err)

	_, err = uc.Aplicar(ctx, borrador.ID, testUsuarioID)
	require.NoError(t, err)

	_, err = uc.Aplicar(ctx, borrador.ID, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// El segundo intento no duplicó el descuento.
	actual, _ := store.Repos().Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("8")))
}

// Un fallo en la segunda línea revierte también la primera: el ajuste sigue
// en borrador y el stock queda como estaba.
func TestAplicar_FalloAtomicoEntreLineas(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoMerma, entity.NaturalezaSalida)
	varianteA := store.SeedVariante("AAA-1", dec("10"))
	varianteB := store.SeedVariante("BBB-2", dec("1"))
	uc := newAjusteUC(store)
	ctx := context.Background()

	borrador, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: tipo.ID, Motivo: "merma doble", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{
			{VarianteID: varianteA.ID, CantidadAjuste: dec("3")},
			{VarianteID: varianteB.ID, CantidadAjuste: dec("5")},
		},
	})
	require.NoError(t, err)

	_, err = uc.Aplicar(ctx, borrador.ID, testUsuarioID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	repos := store.Repos()
	a, _ := repos.Variantes.GetByID(varianteA.ID)
	b, _ := repos.Variantes.GetByID(varianteB.ID)
	assert.True(t, a.Stock.Equal(dec("10")), "la primera línea también se revierte")
	assert.True(t, b.Stock.Equal(dec("1")))

	recargado, err := uc.Obtener(ctx, borrador.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AjusteBorrador, recargado.Estado, "el ajuste sigue aplicable")

	sumaA, _ := repos.Movimientos.SumByVariante(varianteA.ID)
	assert.True(t, sumaA.IsZero(), "el ledger no conserva movimientos de la tx fallida")
}

func TestCancelar_SoloBorradores(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoMerma, entity.NaturalezaSalida)
	variante := store.SeedVariante("MED-GRS-U", dec("10"))
	uc := newAjusteUC(store)
	ctx := context.Background()

	borrador, err := uc.CrearBorrador(ctx, inventory.CrearBorradorInput{
		TipoMovimientoID: tipo.ID, Motivo: "error de digitación", UsuarioID: testUsuarioID,
		Lineas: []inventory.LineaAjusteInput{{VarianteID: variante.ID, CantidadAjuste: dec("4")}},
	})
	require.NoError(t, err)

	cancelado, err := uc.Cancelar(ctx, borrador.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AjusteCancelado, cancelado.Estado)

	// Cancelado es terminal: ni aplicar ni volver a cancelar.
	_, err = uc.Aplicar(ctx, borrador.ID, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Cancelar(ctx, borrador.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	actual, _ := store.Repos().Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("10")), "cancelar nunca toca stock")
}
