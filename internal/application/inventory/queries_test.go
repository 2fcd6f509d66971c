package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
	"github.com/jmcastano/trastienda-api/internal/testutil"
)

func newConsultasUC(store *testutil.Store) *inventory.ConsultasUseCase {
	repos := store.Repos()
	return inventory.NewConsultasUseCase(repos.Variantes, repos.Movimientos, repos.TiposMovimiento)
}

// crearVariante inserta una variante con mínimo y costo propios, para los
// reportes que SeedVariante no puede cubrir.
func crearVariante(t *testing.T, store *testutil.Store, sku string, stock, minimo, costo decimal.Decimal, activa bool) *entity.Variante {
	t.Helper()
	v := &entity.Variante{
		ID:          uuid.New().String(),
		SKU:         sku,
		Nombre:      "Variante " + sku,
		PrecioCosto: costo,
		PrecioVenta: costo.Mul(decimal.NewFromInt(2)),
		Stock:       stock,
		StockMinimo: &minimo,
		Activa:      activa,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, store.Repos().Variantes.Create(v))
	return v
}

func TestStockBajoYAgotadas(t *testing.T) {
	store := testutil.NewStore()
	crearVariante(t, store, "BAJO-1", dec("2"), dec("5"), dec("10"), true)
	crearVariante(t, store, "CERO-2", dec("0"), dec("5"), dec("10"), true)
	crearVariante(t, store, "SANO-3", dec("9"), dec("5"), dec("10"), true)
	crearVariante(t, store, "INAC-4", dec("1"), dec("5"), dec("10"), false)
	uc := newConsultasUC(store)
	ctx := context.Background()

	bajas, err := uc.StockBajo(ctx)
	require.NoError(t, err)
	require.Len(t, bajas, 2, "solo las activas por debajo del mínimo")
	assert.Equal(t, "BAJO-1", bajas[0].SKU)
	assert.Equal(t, "CERO-2", bajas[1].SKU)

	agotadas, err := uc.Agotadas(ctx)
	require.NoError(t, err)
	require.Len(t, agotadas, 1)
	assert.Equal(t, "CERO-2", agotadas[0].SKU)
}

func TestValorizar_SumaStockPorCosto(t *testing.T) {
	store := testutil.NewStore()
	crearVariante(t, store, "AAA-1", dec("10"), dec("0"), dec("12.50"), true)
	crearVariante(t, store, "BBB-2", dec("4"), dec("0"), dec("30"), true)
	crearVariante(t, store, "INAC-3", dec("100"), dec("0"), dec("99"), false)
	uc := newConsultasUC(store)

	res, err := uc.Valorizar(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Items, 2, "las inactivas quedan fuera del reporte")
	assert.True(t, res.Items[0].Valor.Equal(dec("125")), "10 × 12.50")
	assert.True(t, res.Items[1].Valor.Equal(dec("120")), "4 × 30")
	assert.True(t, res.Total.Equal(dec("245")))
}

func TestMovimientos_FiltraPorTipo(t *testing.T) {
	store := testutil.NewStore()
	entrada := store.SeedTipo("Compra a Proveedor", entity.NaturalezaEntrada)
	salida := store.SeedTipo("Merma", entity.NaturalezaSalida)
	variante := store.SeedVariante("CAM-AZL-M", dec("10"))
	repos := store.Repos()

	registrar := func(tipoID string, cantidad decimal.Decimal) {
		_, err := inventory.RegistrarMovimiento(repos, inventory.MovimientoInput{
			VarianteID:       variante.ID,
			TipoMovimientoID: tipoID,
			Cantidad:         cantidad,
			UsuarioID:        testUsuarioID,
		})
		require.NoError(t, err)
	}
	registrar(entrada.ID, dec("5"))
	registrar(salida.ID, dec("-2"))
	registrar(entrada.ID, dec("3"))

	uc := newConsultasUC(store)
	ctx := context.Background()

	todos, err := uc.Movimientos(ctx, repository.MovimientoFilter{VarianteID: variante.ID})
	require.NoError(t, err)
	assert.Len(t, todos, 3)

	entradas, err := uc.Movimientos(ctx, repository.MovimientoFilter{
		VarianteID:       variante.ID,
		TipoMovimientoID: entrada.ID,
	})
	require.NoError(t, err)
	require.Len(t, entradas, 2)
	for _, m := range entradas {
		assert.Equal(t, entrada.ID, m.TipoMovimientoID)
	}

	pagina, err := uc.Movimientos(ctx, repository.MovimientoFilter{VarianteID: variante.ID, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, pagina, 2)
}

// generador de kardex que captura lo recibido en lugar de armar el PDF.
type kardexStub struct {
	variante    *entity.Variante
	movimientos []*entity.Movimiento
	tipos       map[string]*entity.TipoMovimiento
}

func (g *kardexStub) GenerateKardexPDF(_ context.Context, v *entity.Variante, movs []*entity.Movimiento, tipos map[string]*entity.TipoMovimiento) ([]byte, error) {
	g.variante = v
	g.movimientos = movs
	g.tipos = tipos
	return []byte("%PDF-kardex"), nil
}

func TestKardex_EntregaHistorialAlGenerador(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo("Compra a Proveedor", entity.NaturalezaEntrada)
	variante := store.SeedVariante("CAM-AZL-M", dec("0"))
	repos := store.Repos()
	_, err := inventory.RegistrarMovimiento(repos, inventory.MovimientoInput{
		VarianteID:       variante.ID,
		TipoMovimientoID: tipo.ID,
		Cantidad:         dec("5"),
		UsuarioID:        testUsuarioID,
	})
	require.NoError(t, err)

	uc := newConsultasUC(store)
	stub := &kardexStub{}
	pdf, err := uc.Kardex(context.Background(), variante.ID, stub)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	require.NotNil(t, stub.variante)
	assert.Equal(t, variante.ID, stub.variante.ID)
	require.Len(t, stub.movimientos, 1)
	assert.Contains(t, stub.tipos, tipo.ID)
}
