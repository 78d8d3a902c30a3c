package ledger

import (
	"fmt"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

// Replay suma los deltas de un historial partiendo de cero. Sobre el historial
// completo de una fila, el resultado debe coincidir con su stock actual.
func Replay(entries []*entity.HistoryEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Delta
	}
	return total
}

// VerifyTrail comprueba que el historial de una fila forma una cadena de sumas
// prefijas válida: cada entrada cumple new = previous + delta y encadena con la
// anterior. Las entradas deben venir en orden de registro ascendente.
func VerifyTrail(entries []*entity.HistoryEntry) error {
	var running int64
	for i, e := range entries {
		if e.NewStock != e.PreviousStock+e.Delta {
			return fmt.Errorf("entrada %d (%s): new=%d no es previous=%d + delta=%d",
				i, e.ID, e.NewStock, e.PreviousStock, e.Delta)
		}
		if e.PreviousStock != running {
			return fmt.Errorf("entrada %d (%s): previous=%d no encadena con el acumulado %d",
				i, e.ID, e.PreviousStock, running)
		}
		running = e.NewStock
	}
	return nil
}
