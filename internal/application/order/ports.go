package order

import (
	"context"

	"github.com/milhojas/pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta fn con un OrderRepository atado a una transacción.
// La creación de un pedido son dos escrituras (cabecera + líneas) que deben
// confirmarse o deshacerse como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}

// Refresher dispara una resincronización completa del snapshot en memoria.
// Se invoca al final de cada mutación para que el cliente que la originó
// observe su propia escritura en la siguiente lectura.
type Refresher interface {
	Refresh(ctx context.Context) error
}
