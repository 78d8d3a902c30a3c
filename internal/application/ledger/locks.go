package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/ledger-api/internal/domain"
)

// rowKey identifica una fila de stock (producto, talla).
type rowKey struct {
	productID string
	sizeID    string
}

func (k rowKey) less(o rowKey) bool {
	if k.productID != o.productID {
		return k.productID < o.productID
	}
	return k.sizeID < o.sizeID
}

// rowLockManager mantiene un bloqueo por fila de stock dentro del proceso.
// Los bloqueos se adquieren siempre en orden ascendente (product_id, size_id);
// ese orden total es el invariante que evita interbloqueos entre lotes solapados.
type rowLockManager struct {
	mu   sync.Mutex
	rows map[rowKey]chan struct{} // canal con capacidad 1 como mutex con espera acotada
	wait time.Duration
}

func newRowLockManager(wait time.Duration) *rowLockManager {
	return &rowLockManager{
		rows: make(map[rowKey]chan struct{}),
		wait: wait,
	}
}

func (m *rowLockManager) sem(k rowKey) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.rows[k]
	if !ok {
		ch = make(chan struct{}, 1)
		m.rows[k] = ch
	}
	return ch
}

// acquire toma los bloqueos de keys (ya ordenadas ascendentemente). La espera
// total está acotada por wait: si no logra todos los bloqueos dentro del plazo,
// libera lo adquirido y devuelve ErrBusy para que el caller reintente el lote.
func (m *rowLockManager) acquire(ctx context.Context, keys []rowKey) (release func(), err error) {
	timer := time.NewTimer(m.wait)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(keys))
	release = func() {
		// liberar en orden inverso al de adquisición
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, k := range keys {
		ch := m.sem(k)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-timer.C:
			release()
			return nil, domain.ErrBusy
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}
