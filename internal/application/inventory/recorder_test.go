package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/domain"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/testutil"
)

const testUsuarioID = "00000000-0000-0000-0000-000000000001"

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// El registrador debe dejar el stock cacheado igual a la suma del ledger y
// las instantáneas coherentes con la cantidad.
func TestRegistrarMovimiento_ActualizaStockYLedger(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	variante := store.SeedVariante("CAM-AZL-M", dec("10"))
	repos := store.Repos()

	mov, err := inventory.RegistrarMovimiento(repos, inventory.MovimientoInput{
		VarianteID:       variante.ID,
		TipoMovimientoID: tipo.ID,
		Cantidad:         dec("5"),
		UsuarioID:        testUsuarioID,
		Motivo:           "recepción",
	})
	require.NoError(t, err)

	assert.True(t, mov.StockAnterior.Equal(dec("10")))
	assert.True(t, mov.StockNuevo.Equal(dec("15")))
	assert.True(t, mov.StockNuevo.Sub(mov.StockAnterior).Equal(mov.Cantidad),
		"stock_nuevo - stock_anterior debe igualar la cantidad")

	actual, err := repos.Variantes.GetByID(variante.ID)
	require.NoError(t, err)
	assert.True(t, actual.Stock.Equal(dec("15")))

	suma, err := repos.Movimientos.SumByVariante(variante.ID)
	require.NoError(t, err)
	assert.True(t, suma.Add(dec("10")).Equal(actual.Stock),
		"el stock cacheado debe igualar el stock inicial más la suma del ledger")
}

func TestRegistrarMovimiento_EncadenaInstantaneas(t *testing.T) {
	store := testutil.NewStore()
	entrada := store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	salida := store.SeedTipo(entity.TipoVentaCliente, entity.NaturalezaSalida)
	variante := store.SeedVariante("PAN-NEG-32", dec("0"))
	repos := store.Repos()

	cantidades := []struct {
		tipoID string
		c      decimal.Decimal
	}{
		{entrada.ID, dec("20")},
		{salida.ID, dec("-7")},
		{entrada.ID, dec("3")},
	}
	esperado := dec("0")
	for _, paso := range cantidades {
		mov, err := inventory.RegistrarMovimiento(repos, inventory.MovimientoInput{
			VarianteID:       variante.ID,
			TipoMovimientoID: paso.tipoID,
			Cantidad:         paso.c,
			UsuarioID:        testUsuarioID,
		})
		require.NoError(t, err)
		assert.True(t, mov.StockAnterior.Equal(esperado),
			"la instantánea anterior debe encadenar con el movimiento previo")
		esperado = esperado.Add(paso.c)
		assert.True(t, mov.StockNuevo.Equal(esperado))
	}

	actual, _ := repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("16")))
}

func TestRegistrarMovimiento_StockInsuficiente(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoVentaCliente, entity.NaturalezaSalida)
	variante := store.SeedVariante("ZAP-BLA-40", dec("3"))
	repos := store.Repos()

	_, err := inventory.RegistrarMovimiento(repos, inventory.MovimientoInput{
		VarianteID:       variante.ID,
		TipoMovimientoID: tipo.ID,
		Cantidad:         dec("-5"),
		UsuarioID:        testUsuarioID,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.StockInsuficienteError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "ZAP-BLA-40", stockErr.SKU)
	assert.True(t, stockErr.StockActual.Equal(dec("3")))
	assert.True(t, stockErr.Solicitado.Equal(dec("5")))

	// Nada persistido.
	actual, _ := repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("3")))
	suma, _ := repos.Movimientos.SumByVariante(variante.ID)
	assert.True(t, suma.IsZero())
}

func TestRegistrarMovimiento_PermiteLlegarACero(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoVentaCliente, entity.NaturalezaSalida)
	variante := store.SeedVariante("GOR-VER-U", dec("5"))
	repos := store.Repos()

	mov, err := inventory.RegistrarMovimiento(repos, inventory.MovimientoInput{
		VarianteID:       variante.ID,
		TipoMovimientoID: tipo.ID,
		Cantidad:         dec("-5"),
		UsuarioID:        testUsuarioID,
	})
	require.NoError(t, err)
	assert.True(t, mov.StockNuevo.IsZero())
}

func TestRegistrarMovimiento_Validaciones(t *testing.T) {
	store := testutil.NewStore()
	tipo := store.SeedTipo(entity.TipoCompraProveedor, entity.NaturalezaEntrada)
	variante := store.SeedVariante("MED-GRS-U", dec("10"))
	repos := store.Repos()

	compraID := "compra-1"
	ventaID := "venta-1"

	casos := []struct {
		nombre  string
		in      inventory.MovimientoInput
		destino error
	}{
		{
			nombre: "cantidad cero",
			in: inventory.MovimientoInput{
				VarianteID: variante.ID, TipoMovimientoID: tipo.ID,
				Cantidad: decimal.Zero, UsuarioID: testUsuarioID,
			},
			destino: domain.ErrInvalidInput,
		},
		{
			nombre: "sin usuario",
			in: inventory.MovimientoInput{
				VarianteID: variante.ID, TipoMovimientoID: tipo.ID, Cantidad: dec("1"),
			},
			destino: domain.ErrInvalidInput,
		},
		{
			nombre: "más de un origen",
			in: inventory.MovimientoInput{
				VarianteID: variante.ID, TipoMovimientoID: tipo.ID,
				Cantidad: dec("1"), UsuarioID: testUsuarioID,
				Origen: entity.OrigenMovimiento{CompraID: &compraID, VentaID: &ventaID},
			},
			destino: domain.ErrInvalidInput,
		},
		{
			nombre: "tipo inexistente",
			in: inventory.MovimientoInput{
				VarianteID: variante.ID, TipoMovimientoID: "no-existe",
				Cantidad: dec("1"), UsuarioID: testUsuarioID,
			},
			destino: domain.ErrNotFound,
		},
		{
			nombre: "variante inexistente",
			in: inventory.MovimientoInput{
				VarianteID: "no-existe", TipoMovimientoID: tipo.ID,
				Cantidad: dec("1"), UsuarioID: testUsuarioID,
			},
			destino: domain.ErrNotFound,
		},
	}

	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := inventory.RegistrarMovimiento(repos, tc.in)
			assert.True(t, errors.Is(err, tc.destino), "esperaba %v, obtuve %v", tc.destino, err)
		})
	}

	// El stock no cambió con ningún intento inválido.
	actual, _ := repos.Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(dec("10")))
}
