package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jmcastano/trastienda-api/internal/application/dto"
	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

// InventarioHandler expone el lado de lectura: stock, historial del ledger,
// alertas de reposición, valorización y kardex en PDF.
type InventarioHandler struct {
	uc  *inventory.ConsultasUseCase
	pdf inventory.KardexPDFGenerator
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(uc *inventory.ConsultasUseCase, pdf inventory.KardexPDFGenerator) *InventarioHandler {
	return &InventarioHandler{uc: uc, pdf: pdf}
}

// Stock godoc
// @Summary      Listar variantes con su stock cacheado
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        activas  query  bool  false  "solo variantes activas"
// @Param        limit    query  int   false  "máx 100, por defecto 20"
// @Param        offset   query  int   false  "por defecto 0"
// @Success      200  {array}  dto.VarianteResponse
// @Router       /api/inventario/stock [get]
func (h *InventarioHandler) Stock(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()

	variantes, err := h.uc.ListarVariantes(c.Context(), c.QueryBool("activas", false), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.VarianteResponse, 0, len(variantes))
	for _, v := range variantes {
		out = append(out, dto.FromVariante(v))
	}
	return c.JSON(out)
}

// StockPorVariante godoc
// @Summary      Consultar el stock de una variante
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la variante"
// @Success      200  {object}  dto.VarianteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/stock/{id} [get]
func (h *InventarioHandler) StockPorVariante(c *fiber.Ctx) error {
	variante, err := h.uc.StockPorVariante(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromVariante(variante))
}

// Movimientos godoc
// @Summary      Historial del ledger de movimientos
// @Description  Orden descendente por fecha. Filtros por variante, tipo y
//
//	rango de fechas (YYYY-MM-DD).
//
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        variante_id         query  string  false  "filtrar por variante"
// @Param        tipo_movimiento_id  query  string  false  "filtrar por tipo"
// @Param        desde               query  string  false  "fecha inicial YYYY-MM-DD"
// @Param        hasta               query  string  false  "fecha final YYYY-MM-DD"
// @Success      200  {array}  dto.MovimientoResponse
// @Router       /api/inventario/movimientos [get]
func (h *InventarioHandler) Movimientos(c *fiber.Ctx) error {
	var q dto.MovimientosQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	if err := validate.Struct(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	q.DefaultPage()

	filter := repository.MovimientoFilter{
		VarianteID:       q.VarianteID,
		TipoMovimientoID: q.TipoMovimientoID,
		Limit:            q.Limit,
		Offset:           q.Offset,
	}
	if q.Desde != "" {
		t, _ := time.Parse("2006-01-02", q.Desde)
		filter.Desde = &t
	}
	if q.Hasta != "" {
		// Inclusivo: el filtro cubre hasta el final del día.
		t, _ := time.Parse("2006-01-02", q.Hasta)
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.Hasta = &t
	}

	movimientos, err := h.uc.Movimientos(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		out = append(out, dto.FromMovimiento(m))
	}
	return c.JSON(out)
}

// StockBajo godoc
// @Summary      Variantes en o por debajo de su stock mínimo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VarianteResponse
// @Router       /api/inventario/stock-bajo [get]
func (h *InventarioHandler) StockBajo(c *fiber.Ctx) error {
	variantes, err := h.uc.StockBajo(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.VarianteResponse, 0, len(variantes))
	for _, v := range variantes {
		out = append(out, dto.FromVariante(v))
	}
	return c.JSON(out)
}

// Agotadas godoc
// @Summary      Variantes con stock en cero
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VarianteResponse
// @Router       /api/inventario/agotadas [get]
func (h *InventarioHandler) Agotadas(c *fiber.Ctx) error {
	variantes, err := h.uc.Agotadas(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.VarianteResponse, 0, len(variantes))
	for _, v := range variantes {
		out = append(out, dto.FromVariante(v))
	}
	return c.JSON(out)
}

// Valorizacion godoc
// @Summary      Valorización del inventario a precio de costo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValorizacionResponse
// @Router       /api/inventario/valorizacion [get]
func (h *InventarioHandler) Valorizacion(c *fiber.Ctx) error {
	val, err := h.uc.Valorizar(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ValorizacionResponse{Total: val.Total}
	for _, item := range val.Items {
		resp.Items = append(resp.Items, dto.ValorizacionItemResponse{
			Variante: dto.FromVariante(item.Variante),
			Valor:    item.Valor,
		})
	}
	return c.JSON(resp)
}

// KardexPDF godoc
// @Summary      Kardex de una variante en PDF
// @Tags         inventario
// @Security     Bearer
// @Produce      application/pdf
// @Param        varianteId  path  string  true  "ID de la variante"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/kardex/{varianteId}/pdf [get]
func (h *InventarioHandler) KardexPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.Kardex(c.Context(), c.Params("varianteId"), h.pdf)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}

// TiposMovimiento godoc
// @Summary      Catálogo de tipos de movimiento
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        activos  query  bool  false  "solo tipos activos"
// @Success      200  {array}  dto.TipoMovimientoResponse
// @Router       /api/tipos-movimiento [get]
func (h *InventarioHandler) TiposMovimiento(c *fiber.Ctx) error {
	tipos, err := h.uc.TiposMovimiento(c.Context(), c.QueryBool("activos", false))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TipoMovimientoResponse, 0, len(tipos))
	for _, t := range tipos {
		out = append(out, dto.FromTipoMovimiento(t))
	}
	return c.JSON(out)
}
