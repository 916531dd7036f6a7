package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milhojas/pedidos-api/internal/application/dto"
	"github.com/milhojas/pedidos-api/internal/application/usecase"
)

// SettingHandler maneja la apariencia de la aplicación (logo y fondo de
// login). La lectura es pública: la página de login la necesita antes de
// autenticar. La escritura es solo admin.
type SettingHandler struct {
	uc *usecase.SettingUseCase
}

// NewSettingHandler construye el handler.
func NewSettingHandler(uc *usecase.SettingUseCase) *SettingHandler {
	return &SettingHandler{uc: uc}
}

// List godoc
// @Summary      Listar claves de apariencia
// @Tags         settings
// @Produce      json
// @Success      200  {array}  dto.SettingResponse
// @Router       /api/settings [get]
func (h *SettingHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Guardar una clave de apariencia (logo o bg)
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Clave (logo | bg)"
// @Param        body  body  dto.UpdateSettingRequest  true  "Valor"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingHandler) Upsert(c *fiber.Ctx) error {
	key := c.Params("key")
	var in dto.UpdateSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Upsert(key, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
