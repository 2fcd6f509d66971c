package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jmcastano/trastienda-api/internal/application/dto"
	"github.com/jmcastano/trastienda-api/internal/application/purchasing"
)

// CompraHandler maneja las peticiones HTTP de órdenes de compra (protegido).
type CompraHandler struct {
	uc *purchasing.CompraUseCase
}

// NewCompraHandler construye el handler.
func NewCompraHandler(uc *purchasing.CompraUseCase) *CompraHandler {
	return &CompraHandler{uc: uc}
}

// Crear godoc
// @Summary      Crear orden de compra
// @Tags         compras
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearCompraRequest  true  "proveedor_id y líneas (variante_id, cantidad_pedida, costo_unitario)"
// @Success      201   {object}  dto.CompraResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/compras [post]
func (h *CompraHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearCompraRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}

	fecha := time.Now()
	if in.Fecha != nil {
		fecha = *in.Fecha
	}
	lineas := make([]purchasing.LineaCompraInput, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		lineas = append(lineas, purchasing.LineaCompraInput{
			VarianteID:     l.VarianteID,
			CantidadPedida: l.CantidadPedida,
			CostoUnitario:  l.CostoUnitario,
		})
	}

	compra, err := h.uc.Crear(c.Context(), purchasing.CrearCompraInput{
		ProveedorID: in.ProveedorID,
		Fecha:       fecha,
		Lineas:      lineas,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCompra(compra))
}

// Recibir godoc
// @Summary      Recibir mercancía contra una orden de compra
// @Description  Registra una entrada en el ledger por cada línea recibida y
//
//	recalcula el estado de la orden (parcialmente_recibido o recibido).
//
// @Tags         compras
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.RecibirCompraRequest  true  "líneas recibidas"
// @Success      200   {object}  dto.CompraResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/compras/{id}/recibir [post]
func (h *CompraHandler) Recibir(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecibirCompraRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}

	recepciones := make([]purchasing.RecepcionLinea, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		recepciones = append(recepciones, purchasing.RecepcionLinea{
			CompraLineaID: l.CompraLineaID,
			Cantidad:      l.Cantidad,
		})
	}

	compra, err := h.uc.Recibir(c.Context(), c.Params("id"), recepciones, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromCompra(compra))
}

// GetByID godoc
// @Summary      Consultar una orden de compra
// @Tags         compras
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.CompraResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/compras/{id} [get]
func (h *CompraHandler) GetByID(c *fiber.Ctx) error {
	compra, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromCompra(compra))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         compras
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "pendiente | parcialmente_recibido | recibido"
// @Param        limit   query  int     false  "máx 100, por defecto 20"
// @Param        offset  query  int     false  "por defecto 0"
// @Success      200  {array}  dto.CompraResponse
// @Router       /api/compras [get]
func (h *CompraHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()

	compras, err := h.uc.Listar(c.Context(), c.Query("estado"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CompraResponse, 0, len(compras))
	for _, compra := range compras {
		out = append(out, dto.FromCompra(compra))
	}
	return c.JSON(out)
}
