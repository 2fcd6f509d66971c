package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcastano/trastienda-api/internal/application/dto"
	"github.com/jmcastano/trastienda-api/internal/application/sales"
)

// DevolucionHandler maneja las peticiones HTTP de devoluciones (protegido).
type DevolucionHandler struct {
	uc *sales.DevolucionUseCase
}

// NewDevolucionHandler construye el handler.
func NewDevolucionHandler(uc *sales.DevolucionUseCase) *DevolucionHandler {
	return &DevolucionHandler{uc: uc}
}

// Crear godoc
// @Summary      Registrar una devolución de cliente
// @Description  Valida cada línea contra lo vendido menos lo ya devuelto. Sin
//
//	revisión la devolución se procesa de inmediato (reingreso al
//	ledger y reducción de saldos); con revisión queda pendiente.
//
// @Tags         devoluciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearDevolucionRequest  true  "venta_id, motivo y líneas devueltas"
// @Success      201   {object}  dto.DevolucionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/devoluciones [post]
func (h *DevolucionHandler) Crear(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CrearDevolucionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}

	lineas := make([]sales.LineaDevolucionInput, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		lineas = append(lineas, sales.LineaDevolucionInput{
			VentaLineaID:     l.VentaLineaID,
			CantidadDevuelta: l.CantidadDevuelta,
		})
	}

	devolucion, err := h.uc.Crear(c.Context(), sales.CrearDevolucionInput{
		VentaID:          in.VentaID,
		Motivo:           in.Motivo,
		UsuarioID:        userID,
		RequiereRevision: in.RequiereRevision,
		Lineas:           lineas,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromDevolucion(devolucion))
}

// CambiarEstado godoc
// @Summary      Transicionar el estado de una devolución
// @Description  pendiente→aprobada|rechazada, aprobada→procesada,
//
//	rechazada→pendiente. Al entrar a procesada se revalidan los
//	topes por línea y se reingresa el stock.
//
// @Tags         devoluciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la devolución"
// @Param        body  body  dto.CambiarEstadoDevolucionRequest  true  "estado destino"
// @Success      200   {object}  dto.DevolucionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/devoluciones/{id}/estado [patch]
func (h *DevolucionHandler) CambiarEstado(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CambiarEstadoDevolucionRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}

	devolucion, err := h.uc.CambiarEstado(c.Context(), c.Params("id"), in.Estado, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDevolucion(devolucion))
}

// GetByID godoc
// @Summary      Consultar una devolución
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.DevolucionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/devoluciones/{id} [get]
func (h *DevolucionHandler) GetByID(c *fiber.Ctx) error {
	devolucion, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromDevolucion(devolucion))
}

// ListByVenta godoc
// @Summary      Listar devoluciones de una venta
// @Tags         devoluciones
// @Security     Bearer
// @Produce      json
// @Param        venta_id  query  string  true  "ID de la venta"
// @Success      200  {array}   dto.DevolucionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/devoluciones [get]
func (h *DevolucionHandler) ListByVenta(c *fiber.Ctx) error {
	ventaID := c.Query("venta_id")
	if ventaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "venta_id requerido"})
	}
	devoluciones, err := h.uc.ListarPorVenta(c.Context(), ventaID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DevolucionResponse, 0, len(devoluciones))
	for _, d := range devoluciones {
		out = append(out, dto.FromDevolucion(d))
	}
	return c.JSON(out)
}
