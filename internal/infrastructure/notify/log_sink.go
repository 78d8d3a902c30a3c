package notify

import (
	"context"

	"github.com/jhoicas/ledger-api/internal/domain/entity"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

var _ Sink = (*LogSink)(nil)

// LogSink registra los intents en el log estructurado. Es el sink por defecto
// cuando no hay Redis configurado.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink de log.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogSink{log: log}
}

// Deliver escribe el intent como evento info.
func (s *LogSink) Deliver(ctx context.Context, intent entity.NotificationIntent) error {
	s.log.Info().
		Str("type", intent.Type).
		Str("priority", intent.Priority).
		Str("product_id", intent.ProductID).
		Str("size_id", intent.SizeID).
		Int64("quantity", intent.Quantity).
		Int64("threshold", intent.Threshold).
		Msg(intent.Message)
	return nil
}
