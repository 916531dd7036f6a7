package entity

import "time"

// Estados del ciclo de vida de un pedido. Los valores son los literales que
// se persisten en la columna orders.status.
const (
	StatusPending    = "Pendiente"
	StatusDispatched = "Despachado"
	StatusReceived   = "Recibido"
	StatusIssue      = "Con Novedad"
)

// OrderItem es una línea de pedido: referencia a un producto y cantidad.
// Pertenece exclusivamente a un Order.
type OrderItem struct {
	ProductID string
	Quantity  int
}

// Order es la raíz del agregado de pedido. StoreName es un campo de lectura
// poblado en el query por join con profiles; no es dato autoritativo.
type Order struct {
	ID           string
	StoreID      string
	StoreName    string
	Status       string
	CreatedAt    time.Time
	DispatchedAt *time.Time
	ReceivedAt   *time.Time
	Novedades    string
	Items        []OrderItem
}

// TotalUnits suma las cantidades de todas las líneas.
func (o *Order) TotalUnits() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}
