package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/milhojas/pedidos-api/internal/infrastructure/realtime"
)

// heartbeatInterval mantiene vivos los proxies intermedios entre eventos.
const heartbeatInterval = 15 * time.Second

// EventsHandler expone el feed de sincronización como Server-Sent Events.
// El servidor solo envía señales de invalidación ("algo cambió"): el cliente
// reacciona volviendo a leer /api/orders, nunca aplicando parches.
type EventsHandler struct {
	hub *realtime.Hub
}

// NewEventsHandler construye el handler.
func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream godoc
// @Summary      Feed de eventos de sincronización (SSE)
// @Tags         events
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/events [get]
func (h *EventsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()

		if _, err := fmt.Fprint(w, "retry: 2000\n\n"); err != nil {
			return
		}
		if err := w.Flush(); err != nil {
			return
		}

		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case event := <-sub.Events():
				if err := writeEvent(w, event); err != nil {
					return
				}
			case <-heartbeat.C:
				// Un fallo de escritura significa cliente desconectado.
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event realtime.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload); err != nil {
		return err
	}
	return w.Flush()
}
