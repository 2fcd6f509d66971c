package purchasing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcastano/trastienda-api/internal/application/purchasing"
	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
	"github.com/jmcastano/trastienda-api/internal/testutil"
)

const testUsuarioID = "00000000-0000-0000-0000-000000000001"

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newCompraUC(store *testutil.Store) *purchasing.CompraUseCase {
	repos := store.Repos()
	return purchasing.NewCompraUseCase(store.Runner(), repos.Compras, repos.Variantes)
}

func TestCrearCompra_NacePendienteSinTocarStock(t *testing.T) {
	store := testutil.NewStore()
	store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	variante := store.SeedVariante("CAM-AZL-M", dec("2"))
	uc := newCompraUC(store)

	compra, err := uc.Crear(context.Background(), purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas: []purchasing.LineaCompraInput{
			{VarianteID: variante.ID, CantidadPedida: dec("10"), CostoUnitario: dec("8.50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.CompraPendiente, compra.Estado)
	require.Len(t, compra.Lineas, 1)
	assert.True(t, compra.Lineas[0].CantidadRecibida.IsZero())

	actual, _ := store.Repos().Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("2")), "crear la orden no mueve inventario")
}

func TestCrearCompra_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	variante := store.SeedVariante("PAN-NEG-32", dec("0"))
	uc := newCompraUC(store)
	ctx := context.Background()

	_, err := uc.Crear(ctx, purchasing.CrearCompraInput{ProveedorID: "prov-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas:      []purchasing.LineaCompraInput{{VarianteID: variante.ID, CantidadPedida: decimal.Zero}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad pedida no positiva")

	_, err = uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas: []purchasing.LineaCompraInput{
			{VarianteID: variante.ID, CantidadPedida: dec("5"), CostoUnitario: dec("-1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo")

	_, err = uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas:      []purchasing.LineaCompraInput{{VarianteID: "no-existe", CantidadPedida: dec("5")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "variante desconocida")
}

func TestRecibir_ParcialYCompleto(t *testing.T) {
	store := testutil.NewStore()
	store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	variante := store.SeedVariante("CAM-AZL-M", dec("0"))
	uc := newCompraUC(store)
	ctx := context.Background()

	compra, err := uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas: []purchasing.LineaCompraInput{
			{VarianteID: variante.ID, CantidadPedida: dec("10"), CostoUnitario: dec("8")},
		},
	})
	require.NoError(t, err)
	lineaID := compra.Lineas[0].ID

	// Primera recepción: 4 de 10.
	compra, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: lineaID, Cantidad: dec("4")},
	}, testUsuarioID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompraParcialmenteRecibida, compra.Estado)
	assert.True(t, compra.Lineas[0].CantidadRecibida.Equal(dec("4")))

	repos := store.Repos()
	actual, _ := repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("4")))

	movs, _ := repos.Movimientos.List(repository.MovimientoFilter{VarianteID: variante.ID})
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].Origen.CompraID)
	assert.Equal(t, compra.ID, *movs[0].Origen.CompraID)
	assert.True(t, movs[0].Cantidad.Equal(dec("4")))

	// Segunda recepción completa la orden.
	compra, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: lineaID, Cantidad: dec("6")},
	}, testUsuarioID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompraRecibida, compra.Estado)

	actual, _ = repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("10")))

	// Una orden completa no admite más recepciones.
	_, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: lineaID, Cantidad: dec("1")},
	}, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRecibir_SobreLoPedidoDevuelveConflicto(t *testing.T) {
	store := testutil.NewStore()
	store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	variante := store.SeedVariante("ZAP-BLA-40", dec("0"))
	uc := newCompraUC(store)
	ctx := context.Background()

	compra, err := uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas: []purchasing.LineaCompraInput{
			{VarianteID: variante.ID, CantidadPedida: dec("10"), CostoUnitario: dec("8")},
		},
	})
	require.NoError(t, err)

	_, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: compra.Lineas[0].ID, Cantidad: dec("12")},
	}, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	actual, _ := store.Repos().Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.IsZero(), "nada entra al inventario si la recepción falla")

	recargada, err := uc.Obtener(ctx, compra.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompraPendiente, recargada.Estado)
	assert.True(t, recargada.Lineas[0].CantidadRecibida.IsZero())
}

// Si la segunda línea de la recepción supera lo pedido, la primera también se
// revierte: la llamada entera es una transacción.
func TestRecibir_FalloAtomicoEntreLineas(t *testing.T) {
	store := testutil.NewStore()
	store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	varianteA := store.SeedVariante("AAA-1", dec("0"))
	varianteB := store.SeedVariante("BBB-2", dec("0"))
	uc := newCompraUC(store)
	ctx := context.Background()

	compra, err := uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas: []purchasing.LineaCompraInput{
			{VarianteID: varianteA.ID, CantidadPedida: dec("5"), CostoUnitario: dec("3")},
			{VarianteID: varianteB.ID, CantidadPedida: dec("5"), CostoUnitario: dec("3")},
		},
	})
	require.NoError(t, err)

	_, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: compra.Lineas[0].ID, Cantidad: dec("5")},
		{CompraLineaID: compra.Lineas[1].ID, Cantidad: dec("9")},
	}, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	repos := store.Repos()
	a, _ := repos.Variantes.GetByID(varianteA.ID)
	assert.True(t, a.Stock.IsZero(), "la línea válida también se revierte")
	sumaA, _ := repos.Movimientos.SumByVariante(varianteA.ID)
	assert.True(t, sumaA.IsZero())
}

func TestRecibir_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	variante := store.SeedVariante("MED-GRS-U", dec("0"))
	uc := newCompraUC(store)
	ctx := context.Background()

	compra, err := uc.Crear(ctx, purchasing.CrearCompraInput{
		ProveedorID: "prov-1",
		Lineas: []purchasing.LineaCompraInput{
			{VarianteID: variante.ID, CantidadPedida: dec("10"), CostoUnitario: dec("1")},
		},
	})
	require.NoError(t, err)

	_, err = uc.Recibir(ctx, compra.ID, nil, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: compra.Lineas[0].ID, Cantidad: decimal.Zero},
	}, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")

	_, err = uc.Recibir(ctx, compra.ID, []purchasing.RecepcionLinea{
		{CompraLineaID: "linea-ajena", Cantidad: dec("1")},
	}, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "línea que no pertenece a la orden")

	_, err = uc.Recibir(ctx, "no-existe", []purchasing.RecepcionLinea{
		{CompraLineaID: compra.Lineas[0].ID, Cantidad: dec("1")},
	}, testUsuarioID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "compra inexistente")
}
