package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/application/purchasing"
	"github.com/jmcastano/trastienda-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompraUC     *purchasing.CompraUseCase
	AjusteUC     *inventory.AjusteUseCase
	ConsultasUC  *inventory.ConsultasUseCase
	VentaUC      *sales.VentaUseCase
	DevolucionUC *sales.DevolucionUseCase
	KardexPDF    inventory.KardexPDFGenerator
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Health (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Compras (protegido; recibir restringido a bodega)
	compras := protected.Group("/compras")
	compraHandler := NewCompraHandler(deps.CompraUC)
	compras.Post("/", compraHandler.Crear)
	compras.Get("/", compraHandler.List)
	compras.Get("/:id", compraHandler.GetByID)
	compras.Post("/:id/recibir", RequireRole("admin", "bodeguero"), compraHandler.Recibir)

	// Ajustes (protegido; aplicar/cancelar restringido)
	ajustes := protected.Group("/ajustes")
	ajusteHandler := NewAjusteHandler(deps.AjusteUC)
	ajustes.Post("/", ajusteHandler.Crear)
	ajustes.Get("/", ajusteHandler.List)
	ajustes.Get("/:id", ajusteHandler.GetByID)
	ajustes.Post("/:id/aplicar", RequireRole("admin", "bodeguero"), ajusteHandler.Aplicar)
	ajustes.Post("/:id/cancelar", RequireRole("admin", "bodeguero"), ajusteHandler.Cancelar)

	// Ventas (protegido)
	ventas := protected.Group("/ventas")
	ventaHandler := NewVentaHandler(deps.VentaUC)
	ventas.Post("/", ventaHandler.Crear)
	ventas.Get("/", ventaHandler.List)
	ventas.Get("/:id", ventaHandler.GetByID)

	// Devoluciones (protegido; cambio de estado restringido)
	devoluciones := protected.Group("/devoluciones")
	devolucionHandler := NewDevolucionHandler(deps.DevolucionUC)
	devoluciones.Post("/", devolucionHandler.Crear)
	devoluciones.Get("/", devolucionHandler.ListByVenta)
	devoluciones.Get("/:id", devolucionHandler.GetByID)
	devoluciones.Patch("/:id/estado", RequireRole("admin", "bodeguero"), devolucionHandler.CambiarEstado)

	// Lado de lectura del inventario (protegido)
	inventario := protected.Group("/inventario")
	inventarioHandler := NewInventarioHandler(deps.ConsultasUC, deps.KardexPDF)
	inventario.Get("/stock", inventarioHandler.Stock)
	inventario.Get("/stock/:id", inventarioHandler.StockPorVariante)
	inventario.Get("/movimientos", inventarioHandler.Movimientos)
	inventario.Get("/stock-bajo", inventarioHandler.StockBajo)
	inventario.Get("/agotadas", inventarioHandler.Agotadas)
	inventario.Get("/valorizacion", inventarioHandler.Valorizacion)
	inventario.Get("/kardex/:varianteId/pdf", inventarioHandler.KardexPDF)

	protected.Get("/tipos-movimiento", inventarioHandler.TiposMovimiento)
}
