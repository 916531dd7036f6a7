package order

import (
	"sort"
	"time"

	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/lifecycle"
)

// Vistas derivadas sobre la colección de pedidos del snapshot. Son funciones
// puras: se recalculan en cada petición y nunca mutan la entrada.

// VisibleTo filtra los pedidos según el alcance del rol: la planta ve todos,
// una tienda solo los suyos y el admin ninguno (no participa del ciclo).
func VisibleTo(orders []*entity.Order, role, userID string) []*entity.Order {
	switch role {
	case entity.RolePlant:
		out := make([]*entity.Order, len(orders))
		copy(out, orders)
		return out
	case entity.RoleStore:
		out := make([]*entity.Order, 0, len(orders))
		for _, o := range orders {
			if o.StoreID == userID {
				out = append(out, o)
			}
		}
		return out
	default:
		return nil
	}
}

// Pending devuelve los pedidos Pendientes en orden ascendente de creación:
// el despacho es FIFO, el pedido más antiguo sale primero.
func Pending(orders []*entity.Order) []*entity.Order {
	out := make([]*entity.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == entity.StatusPending {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// History devuelve los pedidos ya despachados (Despachado, Recibido o
// Con Novedad) en orden descendente por fecha de despacho, usando la fecha
// de creación cuando el despacho no tiene timestamp.
func History(orders []*entity.Order) []*entity.Order {
	out := make([]*entity.Order, 0, len(orders))
	for _, o := range orders {
		if lifecycle.InHistory(o.Status) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return historyStamp(out[i]).After(historyStamp(out[j]))
	})
	return out
}

func historyStamp(o *entity.Order) time.Time {
	if o.DispatchedAt != nil {
		return *o.DispatchedAt
	}
	return o.CreatedAt
}
