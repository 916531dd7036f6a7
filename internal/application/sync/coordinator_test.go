package sync_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appsync "github.com/milhojas/pedidos-api/internal/application/sync"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeSource emula las cuatro colecciones persistidas. Cuenta los fetch de
// pedidos para verificar el colapso de ráfagas. Si blockFirst está activo,
// el primer ListAll captura el estado, avisa por entered y queda detenido
// hasta release, para simular un fetch lento en vuelo.
type fakeSource struct {
	mu       sync.Mutex
	orders   []*entity.Order
	users    []*entity.User
	products []*entity.Product
	settings []*entity.Setting

	fetches atomic.Int64
	failing atomic.Bool

	blockFirst atomic.Bool
	entered    chan struct{}
	release    chan struct{}
}

var errDown = errors.New("base de datos caída")

func (s *fakeSource) ListAll() ([]*entity.Order, error) {
	s.fetches.Add(1)
	if s.failing.Load() {
		return nil, errDown
	}
	s.mu.Lock()
	out := append([]*entity.Order(nil), s.orders...)
	s.mu.Unlock()

	if s.blockFirst.CompareAndSwap(true, false) {
		close(s.entered)
		<-s.release
	}
	return out, nil
}

func (s *fakeSource) CreateHeader(*entity.Order) error            { return nil }
func (s *fakeSource) AddItems(string, []entity.OrderItem) error   { return nil }
func (s *fakeSource) GetByID(string) (*entity.Order, error)       { return nil, nil }
func (s *fakeSource) ListByStore(string) ([]*entity.Order, error) { return nil, nil }
func (s *fakeSource) UpdateStatus(*entity.Order) error            { return nil }
func (s *fakeSource) Delete(string) error                         { return nil }

// userSource, productSource y settingSource comparten el origen para no
// duplicar estado.
type userSource struct{ src *fakeSource }

func (u userSource) Create(*entity.User) error                  { return nil }
func (u userSource) GetByID(string) (*entity.User, error)       { return nil, nil }
func (u userSource) GetByUsername(string) (*entity.User, error) { return nil, nil }
func (u userSource) Update(*entity.User) error                  { return nil }
func (u userSource) Delete(string) error                        { return nil }
func (u userSource) List() ([]*entity.User, error) {
	if u.src.failing.Load() {
		return nil, errDown
	}
	u.src.mu.Lock()
	defer u.src.mu.Unlock()
	return append([]*entity.User(nil), u.src.users...), nil
}

type productSource struct{ src *fakeSource }

func (p productSource) Create(*entity.Product) error            { return nil }
func (p productSource) GetByID(string) (*entity.Product, error) { return nil, nil }
func (p productSource) Update(*entity.Product) error            { return nil }
func (p productSource) Delete(string) error                     { return nil }
func (p productSource) List() ([]*entity.Product, error) {
	if p.src.failing.Load() {
		return nil, errDown
	}
	p.src.mu.Lock()
	defer p.src.mu.Unlock()
	return append([]*entity.Product(nil), p.src.products...), nil
}

type settingSource struct{ src *fakeSource }

func (s settingSource) Upsert(*entity.Setting) error        { return nil }
func (s settingSource) Get(string) (*entity.Setting, error) { return nil, nil }
func (s settingSource) List() ([]*entity.Setting, error) {
	if s.src.failing.Load() {
		return nil, errDown
	}
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	return append([]*entity.Setting(nil), s.src.settings...), nil
}

// fakeReader entrega los cuatro repositorios falsos sin transacción real.
type fakeReader struct{ src *fakeSource }

func (f fakeReader) Read(_ context.Context, fn func(r appsync.Repos) error) error {
	return fn(appsync.Repos{
		Orders:   f.src,
		Users:    userSource{f.src},
		Products: productSource{f.src},
		Settings: settingSource{f.src},
	})
}

// fakeNotifier acumula los eventos publicados tras cada refetch exitoso.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) Publish(eventType string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, eventType)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func newTestCoordinator(t *testing.T, debounce time.Duration) (*appsync.Coordinator, *fakeSource, *fakeNotifier) {
	t.Helper()
	src := &fakeSource{}
	notifier := &fakeNotifier{}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	coord := appsync.New(fakeReader{src}, notifier, log, debounce)
	return coord, src, notifier
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresh
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_ReemplazaSnapshotYNotifica(t *testing.T) {
	coord, src, notifier := newTestCoordinator(t, 0)
	src.orders = []*entity.Order{{ID: "ord-1", Status: entity.StatusPending}}
	src.settings = []*entity.Setting{{Key: "logo", Value: "data:image/png;base64,..."}}

	require.NoError(t, coord.Refresh(context.Background()))

	snap := coord.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "ord-1", snap.Orders[0].ID)
	assert.Equal(t, "data:image/png;base64,...", snap.Settings["logo"])
	assert.False(t, snap.FetchedAt.IsZero())
	assert.Equal(t, 1, notifier.count(), "cada refetch exitoso publica un evento")
}

// Si cualquier lectura falla, el snapshot anterior queda intacto: viejo pero
// disponible. Ningún consumidor ve un estado a medias.
func TestRefresh_FalloConservaSnapshotAnterior(t *testing.T) {
	coord, src, notifier := newTestCoordinator(t, 0)
	src.orders = []*entity.Order{{ID: "ord-1", Status: entity.StatusPending}}
	require.NoError(t, coord.Refresh(context.Background()))

	src.failing.Store(true)
	err := coord.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)

	snap := coord.Snapshot()
	require.Len(t, snap.Orders, 1, "el snapshot previo sobrevive al fallo")
	assert.Equal(t, 1, notifier.count(), "un fetch fallido no publica evento")
}

// Dos Refresh concurrentes no pueden instalarse en orden inverso: un fetch
// que capturó el estado viejo y quedó en vuelo no debe pisar el snapshot
// instalado por un fetch posterior que ya vio el estado nuevo.
func TestRefresh_ConcurrentesNoRetrocedenElSnapshot(t *testing.T) {
	coord, src, _ := newTestCoordinator(t, 0)
	src.orders = []*entity.Order{{ID: "viejo", Status: entity.StatusPending}}
	src.entered = make(chan struct{})
	src.release = make(chan struct{})
	src.blockFirst.Store(true)

	// Primer Refresh: captura "viejo" y queda detenido en vuelo.
	firstDone := make(chan struct{})
	go func() {
		_ = coord.Refresh(context.Background())
		close(firstDone)
	}()
	<-src.entered

	// Mientras el primero sigue en vuelo se confirma un estado nuevo y
	// llega otro Refresh (el caso de una mutación concurrente).
	src.mu.Lock()
	src.orders = []*entity.Order{{ID: "nuevo", Status: entity.StatusDispatched}}
	src.mu.Unlock()

	secondDone := make(chan struct{})
	go func() {
		_ = coord.Refresh(context.Background())
		close(secondDone)
	}()

	time.Sleep(20 * time.Millisecond)
	close(src.release)
	<-firstDone
	<-secondDone

	snap := coord.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "nuevo", snap.Orders[0].ID,
		"el snapshot debe seguir reflejando el último estado confirmado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Run + debounce
// ──────────────────────────────────────────────────────────────────────────────

// Una ráfaga de invalidaciones dentro de la ventana de debounce colapsa en
// UN solo fetch, ejecutado tras el último evento de la ráfaga.
func TestRun_RafagaColapsaEnUnSoloFetch(t *testing.T) {
	coord, src, _ := newTestCoordinator(t, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(done)
	}()

	for i := 0; i < 5; i++ {
		coord.Invalidate()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return src.fetches.Load() == 1
	}, time.Second, 10*time.Millisecond, "cinco eventos en ráfaga deben producir exactamente un fetch")

	// Tras asentarse no deben aparecer fetches extra.
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 1, src.fetches.Load())

	cancel()
	<-done
}

// Escenario de convergencia: llega un evento de cambio por una fila ajena,
// el coordinador rehace el fetch completo y el snapshot refleja el nuevo
// estado, sin inspeccionar el payload del evento.
func TestRun_EventoConvergeAlNuevoEstado(t *testing.T) {
	coord, src, _ := newTestCoordinator(t, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go coord.Run(ctx)

	src.mu.Lock()
	src.orders = []*entity.Order{{ID: "ord-99", Status: entity.StatusDispatched}}
	src.mu.Unlock()

	coord.Invalidate()

	assert.Eventually(t, func() bool {
		snap := coord.Snapshot()
		return len(snap.Orders) == 1 && snap.Orders[0].ID == "ord-99"
	}, time.Second, 10*time.Millisecond, "el snapshot debe converger al estado persistido")
}

// Un fetch fallido dentro de Run no tumba el loop: la siguiente invalidación
// vuelve a intentar y converge.
func TestRun_RecuperaTrasFallo(t *testing.T) {
	coord, src, _ := newTestCoordinator(t, 10*time.Millisecond)
	src.failing.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go coord.Run(ctx)

	coord.Invalidate()
	assert.Eventually(t, func() bool {
		return src.fetches.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	src.mu.Lock()
	src.orders = []*entity.Order{{ID: "ord-1", Status: entity.StatusPending}}
	src.mu.Unlock()
	src.failing.Store(false)

	coord.Invalidate()
	assert.Eventually(t, func() bool {
		return len(coord.Snapshot().Orders) == 1
	}, time.Second, 5*time.Millisecond, "tras recuperarse el snapshot converge")
}

func TestInvalidate_NoBloquea(t *testing.T) {
	coord, _, _ := newTestCoordinator(t, 0)

	// Sin loop Run consumiendo: múltiples invalidaciones no deben bloquear.
	for i := 0; i < 100; i++ {
		coord.Invalidate()
	}
}
