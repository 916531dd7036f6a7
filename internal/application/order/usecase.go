package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/milhojas/pedidos-api/internal/application/dto"
	"github.com/milhojas/pedidos-api/internal/domain"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/lifecycle"
	"github.com/milhojas/pedidos-api/internal/domain/repository"
	"github.com/milhojas/pedidos-api/pkg/logger"
)

// UseCase implementa el ciclo de vida del pedido: creación, despacho,
// confirmación de llegada y eliminación. Toda transición pasa por el paquete
// lifecycle; ningún handler muta estados por su cuenta.
type UseCase struct {
	tx        TxRunner
	orders    repository.OrderRepository
	refresher Refresher
	log       *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx TxRunner, orders repository.OrderRepository, refresher Refresher, log *logger.Logger) *UseCase {
	return &UseCase{tx: tx, orders: orders, refresher: refresher, log: log}
}

// Submit crea un pedido en estado Pendiente para la tienda indicada.
// Las líneas con cantidad <= 0 se descartan; si no queda ninguna se rechaza
// con ErrValidation. Cabecera y líneas se insertan en una sola transacción.
func (uc *UseCase) Submit(ctx context.Context, storeID string, in dto.SubmitOrderRequest) (*dto.OrderResponse, error) {
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			continue
		}
		items = append(items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if len(items) == 0 {
		return nil, domain.ErrValidation
	}

	o := &entity.Order{
		ID:        uuid.New().String(),
		StoreID:   storeID,
		Status:    entity.StatusPending,
		CreatedAt: time.Now(),
		Items:     items,
	}
	err := uc.tx.Run(ctx, func(orders repository.OrderRepository) error {
		if err := orders.CreateHeader(o); err != nil {
			return err
		}
		return orders.AddItems(o.ID, items)
	})
	if err != nil {
		return nil, err
	}
	uc.refresh(ctx)

	created, err := uc.orders.GetByID(o.ID)
	if err != nil || created == nil {
		// El pedido ya quedó confirmado; devolvemos lo que tenemos en memoria.
		return ToResponse(o), nil
	}
	return ToResponse(created), nil
}

// Dispatch marca un pedido Pendiente como Despachado y estampa dispatched_at.
// Solo la planta llega aquí (RequireRole en la ruta); la arista se valida
// igualmente en la máquina de estados.
func (uc *UseCase) Dispatch(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if err := lifecycle.Advance(o, entity.StatusDispatched, "", time.Now()); err != nil {
		return nil, err
	}
	if err := uc.orders.UpdateStatus(o); err != nil {
		return nil, err
	}
	uc.refresh(ctx)
	return ToResponse(o), nil
}

// ConfirmArrival registra la llegada de un pedido despachado: Recibido si no
// hay novedad, Con Novedad si la tienda reporta una discrepancia. Solo la
// tienda dueña del pedido puede confirmarlo.
func (uc *UseCase) ConfirmArrival(ctx context.Context, orderID, storeID string, in dto.ConfirmArrivalRequest) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.StoreID != storeID {
		return nil, domain.ErrForbidden
	}
	target := entity.StatusReceived
	novedades := ""
	if in.WithIssue {
		target = entity.StatusIssue
		novedades = in.Novedades
		if strings.TrimSpace(novedades) == "" {
			// Validación blanda: se acepta la novedad sin texto, pero queda rastro.
			uc.log.Warn().Str("order_id", orderID).Msg("recepción con novedad sin texto de novedad")
		}
	}
	if err := lifecycle.Advance(o, target, novedades, time.Now()); err != nil {
		return nil, err
	}
	if err := uc.orders.UpdateStatus(o); err != nil {
		return nil, err
	}
	uc.refresh(ctx)
	return ToResponse(o), nil
}

// Delete elimina un pedido. Solo la tienda dueña y solo mientras está
// Pendiente; cualquier otro estado se rechaza con ErrInvalidTransition.
func (uc *UseCase) Delete(ctx context.Context, orderID, storeID string) error {
	o, err := uc.orders.GetByID(orderID)
	if err != nil {
		return err
	}
	if o == nil {
		return domain.ErrNotFound
	}
	if o.StoreID != storeID {
		return domain.ErrForbidden
	}
	if !lifecycle.CanDelete(o.Status) {
		return domain.ErrInvalidTransition
	}
	if err := uc.orders.Delete(orderID); err != nil {
		return err
	}
	uc.refresh(ctx)
	return nil
}

// GetByID devuelve un pedido completo (líneas + nombre de la tienda).
func (uc *UseCase) GetByID(orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return ToResponse(o), nil
}

// refresh resincroniza el snapshot tras una mutación confirmada. Un fallo
// aquí no deshace la mutación: el snapshot queda viejo hasta el próximo
// evento de cambio.
func (uc *UseCase) refresh(ctx context.Context) {
	if uc.refresher == nil {
		return
	}
	if err := uc.refresher.Refresh(ctx); err != nil {
		uc.log.Error().Err(err).Msg("resincronización tras mutación fallida; se conserva el snapshot anterior")
	}
}

// ToResponse convierte la entidad al DTO de salida.
func ToResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &dto.OrderResponse{
		ID:           o.ID,
		StoreID:      o.StoreID,
		StoreName:    o.StoreName,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		DispatchedAt: o.DispatchedAt,
		ReceivedAt:   o.ReceivedAt,
		Novedades:    o.Novedades,
		Items:        items,
	}
}
