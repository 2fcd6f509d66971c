package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/application/purchasing"
	"github.com/jmcastano/trastienda-api/internal/application/sales"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	apphttp "github.com/jmcastano/trastienda-api/internal/interfaces/http"
	"github.com/jmcastano/trastienda-api/internal/testutil"
)

// buildAPI monta el router completo contra repos en memoria.
func buildAPI(t *testing.T) (*fiber.App, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	repos := store.Repos()
	runner := store.Runner()

	deps := apphttp.RouterDeps{
		CompraUC:     purchasing.NewCompraUseCase(runner, repos.Compras, repos.Variantes),
		AjusteUC:     inventory.NewAjusteUseCase(runner, repos.Ajustes, repos.TiposMovimiento, repos.Variantes),
		ConsultasUC:  inventory.NewConsultasUseCase(repos.Variantes, repos.Movimientos, repos.TiposMovimiento),
		VentaUC:      sales.NewVentaUseCase(runner, repos.Ventas, repos.Variantes),
		DevolucionUC: sales.NewDevolucionUseCase(runner, repos.Devoluciones, repos.Ventas),
		JWTSecret:    testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app, store
}

func TestRouter_HealthEsPublico(t *testing.T) {
	app, _ := buildAPI(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	app, _ := buildAPI(t)

	for _, ruta := range []string{"/api/ventas", "/api/compras", "/api/inventario/stock"} {
		req := httptest.NewRequest("GET", ruta, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, ruta)
	}
}

func TestRouter_VentaSinStockDevuelve409(t *testing.T) {
	app, store := buildAPI(t)
	store.SeedTipo(entity.TipoVentaCliente, entity.NaturalezaSalida)
	variante := store.SeedVariante("CAM-AZL-M", decimal.NewFromInt(3))

	body, _ := json.Marshal(fiber.Map{
		"lineas": []fiber.Map{{"variante_id": variante.ID, "cantidad": "5"}},
	})
	req := httptest.NewRequest("POST", "/api/ventas", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")
	assert.Contains(t, string(raw), "CAM-AZL-M")

	// El stock no se tocó.
	actual, _ := store.Repos().Variantes.GetByID(variante.ID)
	assert.True(t, actual.Stock.Equal(decimal.NewFromInt(3)))
}

func TestRouter_FlujoVentaCompleto(t *testing.T) {
	app, store := buildAPI(t)
	store.SeedTipo(entity.TipoVentaCliente, entity.NaturalezaSalida)
	variante := store.SeedVariante("CAM-AZL-M", decimal.NewFromInt(10))
	token := tokenForRole(t, "vendedor")

	body, _ := json.Marshal(fiber.Map{
		"lineas": []fiber.Map{{"variante_id": variante.ID, "cantidad": "4"}},
	})
	req := httptest.NewRequest("POST", "/api/ventas", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var creada struct {
		ID    string          `json:"id"`
		Total decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&creada))
	assert.True(t, creada.Total.Equal(decimal.NewFromInt(100)))

	// La venta queda consultable por su ID.
	req = httptest.NewRequest("GET", fmt.Sprintf("/api/ventas/%s", creada.ID), nil)
	req.Header.Set("Authorization", token)
	resp2, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp2.StatusCode)

	// Y el stock cacheado refleja la salida.
	req = httptest.NewRequest("GET", fmt.Sprintf("/api/inventario/stock/%s", variante.ID), nil)
	req.Header.Set("Authorization", token)
	resp3, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp3.Body.Close()
	require.Equal(t, fiber.StatusOK, resp3.StatusCode)

	var v struct {
		Stock decimal.Decimal `json:"stock"`
	}
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&v))
	assert.True(t, v.Stock.Equal(decimal.NewFromInt(6)))
}

func TestRouter_RecibirCompraExigeRolDeBodega(t *testing.T) {
	app, _ := buildAPI(t)

	req := httptest.NewRequest("POST", "/api/compras/cualquiera/recibir", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
