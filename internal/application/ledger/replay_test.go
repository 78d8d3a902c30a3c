package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func trail(deltas ...int64) []*entity.HistoryEntry {
	var entries []*entity.HistoryEntry
	var running int64
	for _, d := range deltas {
		entries = append(entries, &entity.HistoryEntry{
			PreviousStock: running,
			Delta:         d,
			NewStock:      running + d,
		})
		running += d
	}
	return entries
}

func TestReplay_SumaDeltas(t *testing.T) {
	assert.Equal(t, int64(0), ledger.Replay(nil))
	assert.Equal(t, int64(13), ledger.Replay(trail(20, -7)))
	assert.Equal(t, int64(0), ledger.Replay(trail(5, -3, -2)))
}

func TestVerifyTrail_CadenaValida(t *testing.T) {
	require.NoError(t, ledger.VerifyTrail(nil))
	require.NoError(t, ledger.VerifyTrail(trail(10, -3, 5, -12)))
}

func TestVerifyTrail_DetectaEntradaInconsistente(t *testing.T) {
	entries := trail(10, -3)
	entries[1].NewStock = 8 // debería ser 7

	assert.Error(t, ledger.VerifyTrail(entries))
}

func TestVerifyTrail_DetectaHuecoEnLaCadena(t *testing.T) {
	entries := trail(10, -3)
	// entrada internamente consistente pero que no encadena con la anterior
	entries[1].PreviousStock = 9
	entries[1].NewStock = 6

	assert.Error(t, ledger.VerifyTrail(entries))
}
