// Package lifecycle implementa la máquina de estados del pedido.
//
// Transiciones permitidas:
//
//	Pendiente ──(planta)──▶ Despachado ──(tienda)──▶ Recibido
//	                                   └─(tienda)──▶ Con Novedad
//
// Recibido y Con Novedad son estados terminales. Un pedido solo puede
// eliminarse mientras está Pendiente. La validación es centralizada: ningún
// llamador debe mutar Order.Status directamente.
package lifecycle

import (
	"time"

	"github.com/milhojas/pedidos-api/internal/domain"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
)

// edges define el conjunto cerrado de transiciones válidas.
var edges = map[string]map[string]bool{
	entity.StatusPending: {
		entity.StatusDispatched: true,
	},
	entity.StatusDispatched: {
		entity.StatusReceived: true,
		entity.StatusIssue:    true,
	},
}

// CanTransition indica si from → to es una arista válida de la máquina.
func CanTransition(from, to string) bool {
	return edges[from][to]
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(status string) bool {
	return status == entity.StatusReceived || status == entity.StatusIssue
}

// InHistory indica si el pedido pertenece a la vista de histórico
// (todo lo que ya salió de Pendiente).
func InHistory(status string) bool {
	return status == entity.StatusDispatched || IsTerminal(status)
}

// CanDelete indica si el pedido puede eliminarse (solo Pendiente).
func CanDelete(status string) bool {
	return status == entity.StatusPending
}

// Advance aplica la transición al pedido estampando los timestamps que
// correspondan. Devuelve ErrInvalidTransition si la arista no existe.
//
// Invariantes que mantiene:
//   - DispatchedAt queda asignado sii el estado pasó de Pendiente.
//   - ReceivedAt queda asignado sii el estado es Recibido o Con Novedad.
//   - Novedades solo queda presente cuando el estado es Con Novedad.
func Advance(o *entity.Order, target, novedades string, now time.Time) error {
	if !CanTransition(o.Status, target) {
		return domain.ErrInvalidTransition
	}
	switch target {
	case entity.StatusDispatched:
		at := now
		o.DispatchedAt = &at
	case entity.StatusReceived:
		at := now
		o.ReceivedAt = &at
		o.Novedades = ""
	case entity.StatusIssue:
		at := now
		o.ReceivedAt = &at
		o.Novedades = novedades
	}
	o.Status = target
	return nil
}
