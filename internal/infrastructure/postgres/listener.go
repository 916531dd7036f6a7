package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/milhojas/pedidos-api/pkg/logger"
)

// ChangeEvent notificación de cambio en una tabla observada. El payload de
// la notificación es el nombre de la tabla; ningún consumidor inspecciona
// más que eso (la invalidación siempre es un refetch completo).
type ChangeEvent struct {
	Table string
}

// Listener mantiene una conexión dedicada en LISTEN sobre el canal de
// cambios de pedidos (los triggers del esquema hacen pg_notify en cada
// INSERT/UPDATE/DELETE de orders y order_items). Ante cualquier error de
// conexión reintenta con backoff; los eventos perdidos durante la
// reconexión se cubren con un refetch inmediato al reestablecer.
type Listener struct {
	pool    *pgxpool.Pool
	channel string
	log     *logger.Logger
}

// NewListener construye el listener sobre el pool.
func NewListener(pool *pgxpool.Pool, channel string, log *logger.Logger) *Listener {
	return &Listener{pool: pool, channel: channel, log: log}
}

// Run bloquea consumiendo notificaciones hasta que el contexto se cancele.
// onEvent se invoca por cada notificación recibida y también una vez tras
// cada (re)conexión exitosa, para no perder cambios ocurridos sin listener.
func (l *Listener) Run(ctx context.Context, onEvent func(ChangeEvent)) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		err := l.listen(ctx, onEvent)
		if ctx.Err() != nil {
			return
		}
		l.log.Error().Err(err).Dur("retry_in", backoff).Msg("listener de cambios desconectado, reintentando")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *Listener) listen(ctx context.Context, onEvent func(ChangeEvent)) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener conn: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+l.channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", l.channel, err)
	}
	l.log.Info().Str("channel", l.channel).Msg("suscripción al feed de cambios establecida")

	// Cubre la ventana sin listener (arranque o reconexión).
	onEvent(ChangeEvent{Table: ""})

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("wait for notification: %w", err)
		}
		onEvent(ChangeEvent{Table: n.Payload})
	}
}
