package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jmcastano/trastienda-api/internal/application/dto"
	"github.com/jmcastano/trastienda-api/internal/application/inventory"
)

// AjusteHandler maneja las peticiones HTTP de ajustes de inventario (protegido).
type AjusteHandler struct {
	uc *inventory.AjusteUseCase
}

// NewAjusteHandler construye el handler.
func NewAjusteHandler(uc *inventory.AjusteUseCase) *AjusteHandler {
	return &AjusteHandler{uc: uc}
}

// Crear godoc
// @Summary      Crear borrador de ajuste
// @Description  El borrador captura la instantánea de stock de cada variante
//
//	pero no toca el ledger hasta ser aplicado.
//
// @Tags         ajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearAjusteRequest  true  "tipo_movimiento_id, motivo y líneas"
// @Success      201   {object}  dto.AjusteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ajustes [post]
func (h *AjusteHandler) Crear(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CrearAjusteRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}

	lineas := make([]inventory.LineaAjusteInput, 0, len(in.Lineas))
	for _, l := range in.Lineas {
		lineas = append(lineas, inventory.LineaAjusteInput{
			VarianteID:     l.VarianteID,
			CantidadAjuste: l.CantidadAjuste,
		})
	}

	ajuste, err := h.uc.CrearBorrador(c.Context(), inventory.CrearBorradorInput{
		TipoMovimientoID: in.TipoMovimientoID,
		Motivo:           in.Motivo,
		UsuarioID:        userID,
		Lineas:           lineas,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromAjuste(ajuste))
}

// Aplicar godoc
// @Summary      Aplicar un borrador de ajuste
// @Description  Registra un movimiento por línea y deja el ajuste en estado
//
//	aplicado. Solo los borradores pueden aplicarse; reintentar
//	devuelve 409.
//
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AjusteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id}/aplicar [post]
func (h *AjusteHandler) Aplicar(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	ajuste, err := h.uc.Aplicar(c.Context(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAjuste(ajuste))
}

// Cancelar godoc
// @Summary      Cancelar un borrador de ajuste
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AjusteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id}/cancelar [post]
func (h *AjusteHandler) Cancelar(c *fiber.Ctx) error {
	ajuste, err := h.uc.Cancelar(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAjuste(ajuste))
}

// GetByID godoc
// @Summary      Consultar un ajuste
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AjusteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id} [get]
func (h *AjusteHandler) GetByID(c *fiber.Ctx) error {
	ajuste, err := h.uc.Obtener(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromAjuste(ajuste))
}

// List godoc
// @Summary      Listar ajustes
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "borrador | aplicado | cancelado"
// @Param        limit   query  int     false  "máx 100, por defecto 20"
// @Param        offset  query  int     false  "por defecto 0"
// @Success      200  {array}  dto.AjusteResponse
// @Router       /api/ajustes [get]
func (h *AjusteHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()

	ajustes, err := h.uc.Listar(c.Context(), c.Query("estado"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AjusteResponse, 0, len(ajustes))
	for _, a := range ajustes {
		out = append(out, dto.FromAjuste(a))
	}
	return c.JSON(out)
}
