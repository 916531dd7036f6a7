package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/milhojas/pedidos-api/internal/application/dto"
	apporder "github.com/milhojas/pedidos-api/internal/application/order"
	appsync "github.com/milhojas/pedidos-api/internal/application/sync"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
)

// VoucherGenerator genera el PDF del comprobante de un pedido.
type VoucherGenerator interface {
	GenerateOrderVoucher(order *entity.Order, productNames map[string]string) ([]byte, error)
}

// OrderHandler maneja las peticiones HTTP del ciclo de vida de pedidos.
// Las lecturas salen del snapshot en memoria del coordinador (fuente única
// para la UI); las mutaciones pasan por el use case y terminan en un
// refetch que el llamador observa antes de su siguiente lectura.
type OrderHandler struct {
	uc      *apporder.UseCase
	coord   *appsync.Coordinator
	voucher VoucherGenerator
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *apporder.UseCase, coord *appsync.Coordinator, voucher VoucherGenerator) *OrderHandler {
	return &OrderHandler{uc: uc, coord: coord, voucher: voucher}
}

// Submit godoc
// @Summary      Crear pedido (tienda)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitOrderRequest  true  "Líneas del pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Submit(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pedidos visibles para el rol
// @Description  view=pending: Pendientes (FIFO, más antiguos primero). view=history: Despachados/Recibidos/Con Novedad (más recientes primero). Sin view: todos los visibles.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        view  query  string  false  "pending | history"
// @Success      200   {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	snap := h.coord.Snapshot()
	visible := apporder.VisibleTo(snap.Orders, GetRole(c), GetUserID(c))

	switch c.Query("view") {
	case "pending":
		visible = apporder.Pending(visible)
	case "history":
		visible = apporder.History(visible)
	}

	items := make([]dto.OrderResponse, 0, len(visible))
	for _, o := range visible {
		items = append(items, *apporder.ToResponse(o))
	}
	return c.JSON(dto.OrderListResponse{Items: items})
}

// Dispatch godoc
// @Summary      Despachar pedido (planta)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/dispatch [post]
func (h *OrderHandler) Dispatch(c *fiber.Ctx) error {
	out, err := h.uc.Dispatch(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConfirmArrival godoc
// @Summary      Confirmar llegada del pedido (tienda dueña)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.ConfirmArrivalRequest  true  "Recepción con o sin novedad"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) ConfirmArrival(c *fiber.Ctx) error {
	var in dto.ConfirmArrivalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ConfirmArrival(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar pedido pendiente (tienda dueña)
// @Tags         orders
// @Security     Bearer
// @Param        id  path  string  true  "ID del pedido"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Voucher godoc
// @Summary      Comprobante de pedido en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/voucher.pdf [get]
func (h *OrderHandler) Voucher(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	// La tienda solo imprime sus propios comprobantes; planta y admin todos.
	if GetRole(c) == entity.RoleStore && out.StoreID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}

	snap := h.coord.Snapshot()
	names := make(map[string]string, len(snap.Products))
	for _, p := range snap.Products {
		names[p.ID] = p.Name
	}

	o := &entity.Order{
		ID:           out.ID,
		StoreID:      out.StoreID,
		StoreName:    out.StoreName,
		Status:       out.Status,
		CreatedAt:    out.CreatedAt,
		DispatchedAt: out.DispatchedAt,
		ReceivedAt:   out.ReceivedAt,
		Novedades:    out.Novedades,
	}
	for _, it := range out.Items {
		o.Items = append(o.Items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	pdfBytes, err := h.voucher.GenerateOrderVoucher(o, names)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="comprobante-pedido.pdf"`)
	return c.Send(pdfBytes)
}
