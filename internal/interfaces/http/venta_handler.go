package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcastano/trastienda-api/internal/application/dto"
	"github.com/jmcastano/trastienda-api/internal/application/sales"
)

// VentaHandler maneja las peticiones HTTP de ventas (protegido).
type VentaHandler struct {
	uc *sales.VentaUseCase
}

// NewVentaHandler construye el handler.
func NewVentaHandler(uc *sales.VentaUseCase) *VentaHandler {
	return &VentaHandler{uc: uc}
}

// Crear godoc
// @Summary      Registrar una venta
// @Description  Congela el precio de venta vigente por línea, descuenta stock
//
//	vía el ledger y abre un crédito si la venta es a crédito. Si
//	alguna línea deja el stock en negativo, nada se persiste.
//
// @Tags         ventas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearVentaRequest  true  "líneas (variante_id, cantidad) y condición de pago"
// @Success      201   {object}  dto.VentaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *VentaHandler) Crear(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CrearVentaRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}

	lineas := make([]sales.LineaVentaInput, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		lineas = append(lineas, sales.LineaVentaInput{
			VarianteID: l.VarianteID,
			Cantidad:   l.Cantidad,
		})
	}

	venta, err := h.uc.Crear(c.Context(), sales.CrearVentaInput{
		ClienteID: in.ClienteID,
		ACredito:  in.ACredito,
		UsuarioID: userID,
		Lineas:    lineas,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromVenta(venta))
}

// GetByID godoc
// @Summary      Consultar una venta
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.VentaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *VentaHandler) GetByID(c *fiber.Ctx) error {
	venta, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromVenta(venta))
}

// List godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, por defecto 20"
// @Param        offset  query  int  false  "por defecto 0"
// @Success      200  {array}  dto.VentaResponse
// @Router       /api/ventas [get]
func (h *VentaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()

	ventas, err := h.uc.Listar(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.VentaResponse, 0, len(ventas))
	for _, v := range ventas {
		out = append(out, dto.FromVenta(v))
	}
	return c.JSON(out)
}
