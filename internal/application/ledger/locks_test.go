package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/domain"
)

func TestRowLockManager_AdquiereYLibera(t *testing.T) {
	m := newRowLockManager(100 * time.Millisecond)
	keys := []rowKey{{"p1", "m"}, {"p2", "l"}}

	release, err := m.acquire(context.Background(), keys)
	require.NoError(t, err)
	release()

	// tras liberar, los mismos bloqueos vuelven a estar disponibles
	release, err = m.acquire(context.Background(), keys)
	require.NoError(t, err)
	release()
}

func TestRowLockManager_EsperaAcotada(t *testing.T) {
	m := newRowLockManager(50 * time.Millisecond)

	release, err := m.acquire(context.Background(), []rowKey{{"p1", "m"}})
	require.NoError(t, err)
	defer release()

	// la fila está tomada: el segundo intento agota el plazo y devuelve Busy
	// sin quedarse con bloqueos parciales
	start := time.Now()
	_, err = m.acquire(context.Background(), []rowKey{{"p1", "l"}, {"p1", "m"}})
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// p1/l fue liberada al fallar: debe poder tomarse de inmediato
	release2, err := m.acquire(context.Background(), []rowKey{{"p1", "l"}})
	require.NoError(t, err)
	release2()
}

func TestRowLockManager_ContextoCancelado(t *testing.T) {
	m := newRowLockManager(time.Second)

	release, err := m.acquire(context.Background(), []rowKey{{"p1", "m"}})
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.acquire(ctx, []rowKey{{"p1", "m"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRowKey_OrdenTotal(t *testing.T) {
	assert.True(t, rowKey{"a", "z"}.less(rowKey{"b", "a"}))
	assert.True(t, rowKey{"a", "m"}.less(rowKey{"a", "n"}))
	assert.False(t, rowKey{"b", "a"}.less(rowKey{"a", "z"}))
	assert.False(t, rowKey{"a", "m"}.less(rowKey{"a", "m"}))
}
