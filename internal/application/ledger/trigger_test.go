package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func change(prev, next int64) []ledger.StockChange {
	return []ledger.StockChange{{ProductID: "p1", SizeID: "m", Previous: prev, New: next}}
}

// Con umbral 5, la secuencia 10 -> 6 -> 4 -> 3 -> 6 debe emitir exactamente una
// alerta de stock bajo (el cruce 6 -> 4) y una de reposición (el cruce 3 -> 6).
// Los decrementos ya por debajo del umbral no repiten la alerta.
func TestTrigger_AlertaSoloEnElFlanco(t *testing.T) {
	trigger := ledger.NewNotificationTrigger(5, true)

	var intents []entity.NotificationIntent
	steps := [][2]int64{{10, 6}, {6, 4}, {4, 3}, {3, 6}}
	for _, s := range steps {
		intents = append(intents, trigger.Evaluate(change(s[0], s[1]))...)
	}

	require.Len(t, intents, 2)
	assert.Equal(t, entity.NotificationStockLow, intents[0].Type)
	assert.Equal(t, int64(4), intents[0].Quantity)
	assert.Equal(t, entity.NotificationStockRestocked, intents[1].Type)
	assert.Equal(t, int64(6), intents[1].Quantity)
}

func TestTrigger_AgotadoEsPrioridadAlta(t *testing.T) {
	trigger := ledger.NewNotificationTrigger(5, true)

	intents := trigger.Evaluate(change(7, 0))
	require.Len(t, intents, 1)
	assert.Equal(t, entity.NotificationStockLow, intents[0].Type)
	assert.Equal(t, entity.PriorityHigh, intents[0].Priority)

	intents = trigger.Evaluate(change(7, 2))
	require.Len(t, intents, 1)
	assert.Equal(t, entity.PriorityNormal, intents[0].Priority)
}

func TestTrigger_SinAvisoDeReposicionSiEstaApagado(t *testing.T) {
	trigger := ledger.NewNotificationTrigger(5, false)

	intents := trigger.Evaluate(change(2, 9))
	assert.Empty(t, intents)

	// el cruce descendente sigue alertando
	intents = trigger.Evaluate(change(9, 2))
	require.Len(t, intents, 1)
	assert.Equal(t, entity.NotificationStockLow, intents[0].Type)
}

// Quedar exactamente en el umbral no es cruce descendente; caer del umbral sí.
func TestTrigger_BordesDelUmbral(t *testing.T) {
	trigger := ledger.NewNotificationTrigger(5, true)

	assert.Empty(t, trigger.Evaluate(change(7, 5)))

	intents := trigger.Evaluate(change(5, 4))
	require.Len(t, intents, 1)
	assert.Equal(t, entity.NotificationStockLow, intents[0].Type)

	// subir exactamente al umbral sí cuenta como reposición
	intents = trigger.Evaluate(change(4, 5))
	require.Len(t, intents, 1)
	assert.Equal(t, entity.NotificationStockRestocked, intents[0].Type)
}
