package repository

import "github.com/milhojas/pedidos-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para el agregado Order.
// Las lecturas devuelven el pedido completo: líneas incluidas y StoreName
// resuelto por join con profiles (modelo de lectura, no dato autoritativo).
type OrderRepository interface {
	// CreateHeader inserta la cabecera del pedido (sin líneas).
	CreateHeader(order *entity.Order) error
	// AddItems inserta las líneas de un pedido ya creado.
	AddItems(orderID string, items []entity.OrderItem) error
	GetByID(id string) (*entity.Order, error)
	// ListAll devuelve todos los pedidos ordenados por created_at descendente.
	ListAll() ([]*entity.Order, error)
	ListByStore(storeID string) ([]*entity.Order, error)
	// UpdateStatus persiste status, dispatched_at, received_at y novedades.
	UpdateStatus(order *entity.Order) error
	Delete(id string) error
}
