package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"medai-lite/internal/agent"
	"medai-lite/internal/domain"
	"medai-lite/internal/repository"
)

type mockAssessmentRepo struct {
	records map[string]domain.AssessmentRecord
	saveErr error
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{records: make(map[string]domain.AssessmentRecord)}
}

func (m *mockAssessmentRepo) Save(_ context.Context, record domain.AssessmentRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockAssessmentRepo) GetByID(_ context.Context, id string) (domain.AssessmentRecord, error) {
	record, ok := m.records[id]
	if !ok {
		return domain.AssessmentRecord{}, repository.ErrNotFound
	}
	return record, nil
}

func (m *mockAssessmentRepo) History(_ context.Context, userID string, limit int) ([]domain.AssessmentRecord, error) {
	var out []domain.AssessmentRecord
	for _, record := range m.records {
		if userID == "" || record.UserID == userID {
			out = append(out, record)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockAssessmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *mockAssessmentRepo) Stats(_ context.Context, _ string) (domain.AssessmentStats, error) {
	return domain.AssessmentStats{TotalAssessments: len(m.records)}, nil
}

func (m *mockAssessmentRepo) FindSimilar(_ context.Context, id string, _ pgvector.Vector, k int) ([]domain.AssessmentRecord, error) {
	var out []domain.AssessmentRecord
	for _, record := range m.records {
		if record.ID == id {
			continue
		}
		out = append(out, record)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

type mockAuditRepo struct {
	recorded chan domain.AuditEvent
}

func (m *mockAuditRepo) Record(_ context.Context, event domain.AuditEvent) error {
	m.recorded <- event
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, _ repository.AuditFilter) ([]domain.AuditEvent, error) {
	return nil, nil
}

func (m *mockAuditRepo) Stats(_ context.Context, _ time.Time) (domain.AuditStats, error) {
	return domain.AuditStats{}, nil
}

func newTestAssessmentService(t *testing.T, repo repository.AssessmentRepository, audit *AuditService) *AssessmentService {
	t.Helper()
	aggregator, err := agent.NewAggregator(agent.DefaultWeights)
	if err != nil {
		t.Fatalf("new aggregator: %v", err)
	}
	return NewAssessmentService(zap.NewNop(), aggregator, repo, audit)
}

func validRawProfile() map[string]any {
	return map[string]any{
		"age":           float64(30),
		"weight_kg":     float64(70),
		"height_cm":     float64(175),
		"systolic":      float64(120),
		"diastolic":     float64(80),
		"cholesterol":   float64(190),
		"is_smoker":     false,
		"exercise_days": float64(3),
	}
}

func TestAssessmentService_AssessPersistsRecord(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := newTestAssessmentService(t, repo, nil)

	record, err := svc.Assess(context.Background(), "u1", validRawProfile(), "192.0.2.1")
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if record.ID == "" {
		t.Fatalf("expected generated assessment id")
	}
	if record.UserID != "u1" {
		t.Fatalf("expected user id u1, got %q", record.UserID)
	}
	if record.Result.OverallHealthIndex != 14.55 {
		t.Fatalf("expected overall index 14.55, got %v", record.Result.OverallHealthIndex)
	}
	if _, ok := repo.records[record.ID]; !ok {
		t.Fatalf("expected record to be persisted")
	}
}

func TestAssessmentService_AssessValidationFailureSkipsAgents(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := newTestAssessmentService(t, repo, nil)

	raw := validRawProfile()
	delete(raw, "age")

	_, err := svc.Assess(context.Background(), "", raw, "192.0.2.1")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Field != "age" {
		t.Fatalf("expected age violation, got %+v", verr)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected no record persisted on validation failure")
	}
}

func TestAssessmentService_AssessSaveFailure(t *testing.T) {
	repo := newMockAssessmentRepo()
	repo.saveErr = errors.New("db down")
	svc := newTestAssessmentService(t, repo, nil)

	if _, err := svc.Assess(context.Background(), "", validRawProfile(), ""); err == nil {
		t.Fatalf("expected save error to propagate")
	}
}

func TestAssessmentService_AssessEmitsAuditEvent(t *testing.T) {
	repo := newMockAssessmentRepo()
	auditRepo := &mockAuditRepo{recorded: make(chan domain.AuditEvent, 1)}
	svc := newTestAssessmentService(t, repo, NewAuditService(zap.NewNop(), auditRepo))

	record, err := svc.Assess(context.Background(), "u1", validRawProfile(), "192.0.2.1")
	if err != nil {
		t.Fatalf("assess: %v", err)
	}

	select {
	case event := <-auditRepo.recorded:
		if event.Action != "assess" || event.Status != domain.AuditStatusSuccess {
			t.Fatalf("unexpected audit event: %+v", event)
		}
		if event.Detail["assessment_id"] != record.ID {
			t.Fatalf("expected audit detail to carry assessment id")
		}
		if event.IPAddress != "192.0.2.1" {
			t.Fatalf("expected client ip in audit event, got %q", event.IPAddress)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected audit event to be recorded")
	}
}

func TestAssessmentService_GetByIDNotFound(t *testing.T) {
	svc := newTestAssessmentService(t, newMockAssessmentRepo(), nil)

	_, err := svc.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound, got %v", err)
	}
}

func TestAssessmentService_HistoryLimitValidation(t *testing.T) {
	svc := newTestAssessmentService(t, newMockAssessmentRepo(), nil)

	if _, err := svc.History(context.Background(), "", 101); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for limit 101, got %v", err)
	}
	if _, err := svc.History(context.Background(), "", -1); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit for negative limit, got %v", err)
	}
	if _, err := svc.History(context.Background(), "", 0); err != nil {
		t.Fatalf("expected default limit for zero, got %v", err)
	}
}

func TestAssessmentService_DeleteNotFound(t *testing.T) {
	svc := newTestAssessmentService(t, newMockAssessmentRepo(), nil)

	err := svc.Delete(context.Background(), "missing", "", "")
	if !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound, got %v", err)
	}
}

func TestAssessmentService_FindSimilarExcludesSource(t *testing.T) {
	repo := newMockAssessmentRepo()
	svc := newTestAssessmentService(t, repo, nil)

	first, err := svc.Assess(context.Background(), "u1", validRawProfile(), "")
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	other := validRawProfile()
	other["age"] = 45
	if _, err := svc.Assess(context.Background(), "u2", other, ""); err != nil {
		t.Fatalf("assess: %v", err)
	}

	similar, err := svc.FindSimilar(context.Background(), first.ID, 5)
	if err != nil {
		t.Fatalf("find similar: %v", err)
	}
	for _, record := range similar {
		if record.ID == first.ID {
			t.Fatalf("expected source assessment to be excluded")
		}
	}
	if len(similar) != 1 {
		t.Fatalf("expected one similar record, got %d", len(similar))
	}
}
