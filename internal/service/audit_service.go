package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medai-lite/internal/domain"
	"medai-lite/internal/repository"
)

// AuditService registra eventos de auditoria de forma asincrona, sin
// bloquear el camino de respuesta.
type AuditService struct {
	logger *zap.Logger
	events repository.AuditRepository
}

func NewAuditService(logger *zap.Logger, events repository.AuditRepository) *AuditService {
	return &AuditService{logger: logger, events: events}
}

// Emit completa id y timestamp y persiste el evento en una goroutine.
// Un fallo de auditoria se loguea y nunca afecta la operacion original.
func (s *AuditService) Emit(event domain.AuditEvent) {
	if s == nil || s.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.CreatedAt = time.Now().UTC()

	go func(ev domain.AuditEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.events.Record(ctx, ev); err != nil {
			s.logger.Warn("audit event record failed",
				zap.Error(err),
				zap.String("action", ev.Action),
				zap.String("resource", ev.Resource),
			)
		}
	}(event)
}

func (s *AuditService) List(ctx context.Context, filter repository.AuditFilter) ([]domain.AuditEvent, error) {
	return s.events.List(ctx, filter)
}

// StatsSince resume eventos desde la fecha dada, para el panel administrativo.
func (s *AuditService) StatsSince(ctx context.Context, since time.Time) (domain.AuditStats, error) {
	return s.events.Stats(ctx, since)
}
