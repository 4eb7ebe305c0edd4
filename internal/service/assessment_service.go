package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"medai-lite/internal/agent"
	"medai-lite/internal/domain"
	"medai-lite/internal/repository"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidLimit       = errors.New("limit must be between 1 and 100")
)

// AssessmentService orquesta el flujo completo: validacion, evaluacion
// multi-agente, persistencia y auditoria.
type AssessmentService struct {
	logger      *zap.Logger
	aggregator  *agent.Aggregator
	assessments repository.AssessmentRepository
	audit       *AuditService
}

func NewAssessmentService(
	logger *zap.Logger,
	aggregator *agent.Aggregator,
	assessments repository.AssessmentRepository,
	audit *AuditService,
) *AssessmentService {
	return &AssessmentService{
		logger:      logger,
		aggregator:  aggregator,
		assessments: assessments,
		audit:       audit,
	}
}

// Assess valida el registro crudo, corre el agregador y persiste el registro
// resultante. Un error de validacion se devuelve sin ejecutar ningun agente;
// un error de agente falla la evaluacion completa.
func (s *AssessmentService) Assess(ctx context.Context, userID string, raw map[string]any, clientIP string) (domain.AssessmentRecord, error) {
	profile, err := domain.ValidateProfile(raw)
	if err != nil {
		s.emitAudit(userID, "assess", "assessment", domain.AuditStatusFailure, map[string]string{"reason": err.Error()}, clientIP)
		return domain.AssessmentRecord{}, err
	}

	result, err := s.aggregator.Assess(profile)
	if err != nil {
		s.logger.Error("aggregate assessment failed", zap.Error(err))
		s.emitAudit(userID, "assess", "assessment", domain.AuditStatusError, nil, clientIP)
		return domain.AssessmentRecord{}, err
	}

	record := domain.AssessmentRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Profile:   profile,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.assessments.Save(ctx, record); err != nil {
		s.logger.Error("save assessment failed", zap.Error(err), zap.String("assessment_id", record.ID))
		s.emitAudit(userID, "assess", "assessment", domain.AuditStatusError, nil, clientIP)
		return domain.AssessmentRecord{}, err
	}

	s.emitAudit(userID, "assess", "assessment", domain.AuditStatusSuccess, map[string]string{
		"assessment_id": record.ID,
		"risk_level":    string(result.OverallRiskLevel),
		"health_index":  fmt.Sprintf("%.2f", result.OverallHealthIndex),
	}, clientIP)

	return record, nil
}

func (s *AssessmentService) GetByID(ctx context.Context, id string) (domain.AssessmentRecord, error) {
	record, err := s.assessments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.AssessmentRecord{}, ErrAssessmentNotFound
	}
	return record, err
}

func (s *AssessmentService) History(ctx context.Context, userID string, limit int) ([]domain.AssessmentRecord, error) {
	if limit == 0 {
		limit = 10
	}
	if limit < 1 || limit > 100 {
		return nil, ErrInvalidLimit
	}
	return s.assessments.History(ctx, userID, limit)
}

func (s *AssessmentService) Delete(ctx context.Context, id, actorID, clientIP string) error {
	err := s.assessments.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAssessmentNotFound
	}
	if err != nil {
		return err
	}
	s.emitAudit(actorID, "delete", "assessment", domain.AuditStatusSuccess, map[string]string{"assessment_id": id}, clientIP)
	return nil
}

func (s *AssessmentService) Stats(ctx context.Context, userID string) (domain.AssessmentStats, error) {
	return s.assessments.Stats(ctx, userID)
}

// FindSimilar busca evaluaciones historicas con perfiles cercanos en el
// espacio de caracteristicas normalizado.
func (s *AssessmentService) FindSimilar(ctx context.Context, id string, k int) ([]domain.AssessmentRecord, error) {
	record, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assessments.FindSimilar(ctx, record.ID, record.Profile.FeatureVector(), k)
}

// emitAudit registra el evento fuera del camino de retorno de la evaluacion.
func (s *AssessmentService) emitAudit(userID, action, resource, status string, detail map[string]string, clientIP string) {
	if s.audit == nil {
		return
	}
	s.audit.Emit(domain.AuditEvent{
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		Status:    status,
		Detail:    detail,
		IPAddress: clientIP,
	})
}
