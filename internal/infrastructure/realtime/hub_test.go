package realtime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milhojas/pedidos-api/internal/infrastructure/realtime"
)

func TestHub_PublishLlegaATodosLosSuscriptores(t *testing.T) {
	hub := realtime.NewHub()
	s1 := hub.Subscribe()
	defer s1.Close()
	s2 := hub.Subscribe()
	defer s2.Close()

	hub.Publish("sync")

	for _, sub := range []*realtime.Subscription{s1, s2} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, "sync", ev.Type)
			assert.WithinDuration(t, time.Now(), ev.At, time.Second)
		case <-time.After(time.Second):
			t.Fatal("el suscriptor no recibió el evento")
		}
	}
}

func TestHub_SuscriptorLentoNoBloqueaAlPublicador(t *testing.T) {
	hub := realtime.NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	// Más eventos que la capacidad del buffer: los extra se descartan,
	// Publish nunca debe bloquear.
	done := make(chan struct{})
	go func() {
		for i := 0; i < realtime.DefaultSubscriberBuffer*3; i++ {
			hub.Publish("sync")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish se bloqueó con un suscriptor lento")
	}

	recibidos := 0
	for {
		select {
		case <-sub.Events():
			recibidos++
		default:
			require.LessOrEqual(t, recibidos, realtime.DefaultSubscriberBuffer)
			require.Greater(t, recibidos, 0)
			return
		}
	}
}

func TestHub_CloseEsIdempotenteYDaDeBaja(t *testing.T) {
	hub := realtime.NewHub()
	sub := hub.Subscribe()
	sub.Close()
	sub.Close() // segunda llamada no debe entrar en pánico

	hub.Publish("sync")
	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatal("un suscriptor dado de baja no debe recibir eventos")
		}
	default:
	}
}
