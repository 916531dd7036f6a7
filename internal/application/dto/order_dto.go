package dto

import "time"

// OrderItemRequest línea de pedido en la solicitud de creación.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=0"`
}

// SubmitOrderRequest entrada para crear un pedido. Las líneas con cantidad
// cero o negativa se descartan; si no queda ninguna, el pedido se rechaza.
type SubmitOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required"`
}

// ConfirmArrivalRequest entrada para confirmar la llegada de un pedido
// despachado. WithIssue marca la recepción con novedad; Novedades lleva el
// texto de la discrepancia (puede venir vacío, validación blanda).
type ConfirmArrivalRequest struct {
	WithIssue bool   `json:"with_issue"`
	Novedades string `json:"novedades"`
}

// OrderItemResponse línea de pedido en respuestas.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse salida de un pedido completo.
type OrderResponse struct {
	ID           string              `json:"id"`
	StoreID      string              `json:"store_id"`
	StoreName    string              `json:"store_name"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	DispatchedAt *time.Time          `json:"dispatched_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	Novedades    string              `json:"novedades,omitempty"`
	Items        []OrderItemResponse `json:"items"`
}

// OrderListResponse lista de pedidos de una vista (pendientes o histórico).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
}
