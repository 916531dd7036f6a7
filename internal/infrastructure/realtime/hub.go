// Package realtime implementa el fan-out en proceso de eventos de
// sincronización hacia los clientes SSE conectados. El payload es mínimo
// (tipo + timestamp): el contrato con el cliente es "algo cambió, vuelve a
// leer", nunca un parche incremental.
package realtime

import (
	"sync"
	"time"
)

// DefaultSubscriberBuffer capacidad del canal de cada suscriptor. Un
// suscriptor lento pierde eventos en vez de bloquear al publicador; perder
// un evento de invalidación es inocuo porque el siguiente lo subsume.
const DefaultSubscriberBuffer = 16

// Event notificación enviada a los suscriptores.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

// Hub fan-out de eventos a suscriptores concurrentes.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
	buffer int
}

// Subscription suscripción viva de un cliente.
type Subscription struct {
	hub  *Hub
	id   uint64
	ch   chan Event
	once sync.Once
}

// NewHub construye el hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[uint64]chan Event),
		buffer: DefaultSubscriberBuffer,
	}
}

// Publish envía el evento a todos los suscriptores sin bloquear.
func (h *Hub) Publish(eventType string) {
	if h == nil {
		return
	}
	event := Event{Type: eventType, At: time.Now()}

	h.mu.RLock()
	subs := make([]chan Event, 0, len(h.subs))
	for _, ch := range h.subs {
		subs = append(subs, ch)
	}
	h.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe registra un nuevo suscriptor.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.buffer)
	h.subs[id] = ch
	h.mu.Unlock()

	return &Subscription{hub: h, id: id, ch: ch}
}

// Events devuelve el canal de eventos del suscriptor.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close da de baja la suscripción. Idempotente.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}
