package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milhojas/pedidos-api/internal/domain"
	"github.com/milhojas/pedidos-api/internal/domain/entity"
	"github.com/milhojas/pedidos-api/internal/domain/lifecycle"
)

func pedidoEn(status string) *entity.Order {
	return &entity.Order{
		ID:        "ord-test",
		StoreID:   "store-01",
		Status:    status,
		CreatedAt: time.Now().Add(-time.Hour),
	}
}

// El conjunto de aristas debe ser exactamente:
// Pendiente→Despachado, Despachado→Recibido, Despachado→Con Novedad.
func TestCanTransition_SoloAristasValidas(t *testing.T) {
	estados := []string{
		entity.StatusPending,
		entity.StatusDispatched,
		entity.StatusReceived,
		entity.StatusIssue,
	}
	validas := map[[2]string]bool{
		{entity.StatusPending, entity.StatusDispatched}:  true,
		{entity.StatusDispatched, entity.StatusReceived}: true,
		{entity.StatusDispatched, entity.StatusIssue}:    true,
	}
	for _, from := range estados {
		for _, to := range estados {
			esperado := validas[[2]string{from, to}]
			assert.Equal(t, esperado, lifecycle.CanTransition(from, to),
				"transición %s → %s", from, to)
		}
	}
}

func TestAdvance_DespachoEstampaDispatchedAt(t *testing.T) {
	o := pedidoEn(entity.StatusPending)
	now := time.Now()

	require.NoError(t, lifecycle.Advance(o, entity.StatusDispatched, "", now))

	assert.Equal(t, entity.StatusDispatched, o.Status)
	require.NotNil(t, o.DispatchedAt)
	assert.Equal(t, now, *o.DispatchedAt)
	assert.Nil(t, o.ReceivedAt, "despachar no debe estampar received_at")
}

func TestAdvance_RecepcionSinNovedadLimpiaTexto(t *testing.T) {
	o := pedidoEn(entity.StatusDispatched)
	o.Novedades = "texto residual"
	now := time.Now()

	require.NoError(t, lifecycle.Advance(o, entity.StatusReceived, "", now))

	assert.Equal(t, entity.StatusReceived, o.Status)
	require.NotNil(t, o.ReceivedAt)
	assert.Empty(t, o.Novedades, "Recibido no debe conservar novedades")
}

func TestAdvance_RecepcionConNovedadGuardaTexto(t *testing.T) {
	o := pedidoEn(entity.StatusDispatched)
	now := time.Now()

	require.NoError(t, lifecycle.Advance(o, entity.StatusIssue, "falta una caja", now))

	assert.Equal(t, entity.StatusIssue, o.Status)
	require.NotNil(t, o.ReceivedAt)
	assert.Equal(t, "falta una caja", o.Novedades)
}

// Pendiente→Recibido no existe: un pedido no puede saltarse el despacho.
func TestAdvance_RechazaSaltoDeEstado(t *testing.T) {
	o := pedidoEn(entity.StatusPending)

	err := lifecycle.Advance(o, entity.StatusReceived, "", time.Now())

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.StatusPending, o.Status, "el pedido no debe mutar en transición inválida")
	assert.Nil(t, o.ReceivedAt)
}

func TestAdvance_EstadosTerminalesNoAvanzan(t *testing.T) {
	for _, status := range []string{entity.StatusReceived, entity.StatusIssue} {
		o := pedidoEn(status)
		err := lifecycle.Advance(o, entity.StatusDispatched, "", time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "desde %s", status)
	}
}

func TestCanDelete_SoloPendiente(t *testing.T) {
	assert.True(t, lifecycle.CanDelete(entity.StatusPending))
	assert.False(t, lifecycle.CanDelete(entity.StatusDispatched))
	assert.False(t, lifecycle.CanDelete(entity.StatusReceived))
	assert.False(t, lifecycle.CanDelete(entity.StatusIssue))
}

func TestInHistory(t *testing.T) {
	assert.False(t, lifecycle.InHistory(entity.StatusPending))
	assert.True(t, lifecycle.InHistory(entity.StatusDispatched))
	assert.True(t, lifecycle.InHistory(entity.StatusReceived))
	assert.True(t, lifecycle.InHistory(entity.StatusIssue))
}
