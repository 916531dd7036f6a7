// Package sync mantiene el snapshot en memoria (pedidos, usuarios, catálogo
// y settings) eventualmente consistente con PostgreSQL.
//
// Estrategia deliberadamente gruesa: ante CUALQUIER evento de cambio en las
// tablas de pedidos se descarta el payload y se rehace el fetch completo.
// Se prioriza corrección (snapshot siempre íntegro) sobre eficiencia. Las
// ráfagas de eventos se colapsan con debounce de flanco trasero: el último
// fetch siempre refleja el último estado confirmado.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/repository"
	"github.com/milhojas/pedidos-api/pkg/logger"
)

// Notifier publica un evento de sincronización a los clientes conectados
// después de cada refetch exitoso.
type Notifier interface {
	Publish(eventType string)
}

// Repos agrupa los cuatro repositorios que alimentan el snapshot.
type Repos struct {
	Orders   repository.OrderRepository
	Users    repository.UserRepository
	Products repository.ProductRepository
	Settings repository.SettingRepository
}

// Reader ejecuta fn con los cuatro repositorios sobre UNA misma vista
// consistente del almacén. La implementación de producción abre una
// transacción de solo lectura para que las cuatro colecciones salgan del
// mismo corte, sin mezclar lados de un commit concurrente.
type Reader interface {
	Read(ctx context.Context, fn func(r Repos) error) error
}

// Snapshot es la foto completa y autoritativa del estado. Los consumidores
// la tratan como de solo lectura; cada refetch la reemplaza entera.
type Snapshot struct {
	Orders    []*entity.Order
	Users     []*entity.User
	Products  []*entity.Product
	Settings  map[string]string
	FetchedAt time.Time
}

// Coordinator es el dueño del snapshot. Un único loop Run por proceso
// consume las invalidaciones; las lecturas son concurrentes vía RWMutex.
type Coordinator struct {
	reader   Reader
	notifier Notifier
	log      *logger.Logger
	debounce time.Duration

	kick chan struct{}

	// refreshMu serializa fetch + instalación: sin él, un fetch iniciado
	// antes de un commit podría terminar después de otro fetch posterior e
	// instalar datos previos al commit encima del estado más nuevo.
	refreshMu sync.Mutex

	mu   sync.RWMutex
	snap Snapshot
}

// New construye el coordinador. debounce <= 0 desactiva el colapso de
// ráfagas (cada evento dispara un fetch).
func New(reader Reader, notifier Notifier, log *logger.Logger, debounce time.Duration) *Coordinator {
	return &Coordinator{
		reader:   reader,
		notifier: notifier,
		log:      log,
		debounce: debounce,
		kick:     make(chan struct{}, 1),
	}
}

// Snapshot devuelve la foto actual. El slice y el map internos se comparten:
// los consumidores no deben mutarlos.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Refresh rehace el fetch completo y reemplaza el snapshot. Los Refresh
// concurrentes se serializan: el que llega segundo lee DESPUÉS de que el
// primero instaló, así el último snapshot instalado siempre refleja el
// último estado confirmado. Si cualquier lectura falla, el snapshot anterior
// queda intacto (viejo pero disponible) y el error se devuelve para que el
// llamador lo registre como SyncError.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var (
		orders   []*entity.Order
		users    []*entity.User
		products []*entity.Product
		settings map[string]string
	)
	err := c.reader.Read(ctx, func(r Repos) error {
		var err error
		if orders, err = r.Orders.ListAll(); err != nil {
			return fmt.Errorf("sync: fetch pedidos: %w", err)
		}
		if users, err = r.Users.List(); err != nil {
			return fmt.Errorf("sync: fetch usuarios: %w", err)
		}
		if products, err = r.Products.List(); err != nil {
			return fmt.Errorf("sync: fetch productos: %w", err)
		}
		settingRows, err := r.Settings.List()
		if err != nil {
			return fmt.Errorf("sync: fetch settings: %w", err)
		}
		settings = make(map[string]string, len(settingRows))
		for _, s := range settingRows {
			settings[s.Key] = s.Value
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.snap = Snapshot{
		Orders:    orders,
		Users:     users,
		Products:  products,
		Settings:  settings,
		FetchedAt: time.Now(),
	}
	c.mu.Unlock()

	if c.notifier != nil {
		c.notifier.Publish("sync")
	}
	return nil
}

// Invalidate encola una resincronización. No bloquea: si ya hay una
// invalidación pendiente el evento se funde con ella, lo que es correcto
// porque el fetch siempre trae el estado completo.
func (c *Coordinator) Invalidate() {
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// Run consume invalidaciones hasta que el contexto se cancele. Cada ráfaga
// de eventos dentro de la ventana de debounce termina en UN solo fetch,
// ejecutado después del último evento (flanco trasero, nunca delantero).
func (c *Coordinator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.kick:
		}

		if c.debounce > 0 {
			timer := time.NewTimer(c.debounce)
		settle:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-c.kick:
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(c.debounce)
				case <-timer.C:
					break settle
				}
			}
		}

		if err := c.Refresh(ctx); err != nil {
			c.log.Error().Err(err).Msg("sincronización fallida; se conserva el snapshot anterior")
		}
	}
}
