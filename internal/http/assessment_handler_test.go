package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"medai-lite/internal/agent"
	"medai-lite/internal/domain"
	"medai-lite/internal/repository"
	"medai-lite/internal/service"
)

type stubAssessmentRepo struct {
	records map[string]domain.AssessmentRecord
}

func newStubAssessmentRepo() *stubAssessmentRepo {
	return &stubAssessmentRepo{records: make(map[string]domain.AssessmentRecord)}
}

func (s *stubAssessmentRepo) Save(_ context.Context, record domain.AssessmentRecord) error {
	s.records[record.ID] = record
	return nil
}

func (s *stubAssessmentRepo) GetByID(_ context.Context, id string) (domain.AssessmentRecord, error) {
	record, ok := s.records[id]
	if !ok {
		return domain.AssessmentRecord{}, repository.ErrNotFound
	}
	return record, nil
}

func (s *stubAssessmentRepo) History(_ context.Context, _ string, _ int) ([]domain.AssessmentRecord, error) {
	var out []domain.AssessmentRecord
	for _, record := range s.records {
		out = append(out, record)
	}
	return out, nil
}

func (s *stubAssessmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *stubAssessmentRepo) Stats(_ context.Context, _ string) (domain.AssessmentStats, error) {
	return domain.AssessmentStats{TotalAssessments: len(s.records)}, nil
}

func (s *stubAssessmentRepo) FindSimilar(_ context.Context, _ string, _ pgvector.Vector, _ int) ([]domain.AssessmentRecord, error) {
	return nil, nil
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }

func newTestRouter(t *testing.T, limiter service.RateLimiter) (*gin.Engine, *stubAssessmentRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	aggregator, err := agent.NewAggregator(agent.DefaultWeights)
	if err != nil {
		t.Fatalf("new aggregator: %v", err)
	}
	repo := newStubAssessmentRepo()
	assessSvc := service.NewAssessmentService(logger, aggregator, repo, nil)
	jwtSvc := service.NewJWTService("secret", 15*time.Minute, 30*time.Minute, nil)

	assessH := NewAssessmentHandler(logger, assessSvc, aggregator, limiter)
	userH := NewUserHandler(logger, nil, jwtSvc)
	adminH := NewAdminHandler(logger, assessSvc, nil)
	watchH := NewWatchHandler(logger)

	return NewRouter(logger, userH, assessH, adminH, watchH, jwtSvc), repo
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sampleBody() map[string]any {
	return map[string]any{
		"age":           30,
		"weight_kg":     70,
		"height_cm":     175,
		"systolic":      120,
		"diastolic":     80,
		"cholesterol":   190,
		"is_smoker":     false,
		"exercise_days": 3,
	}
}

func TestAssessEndpoint_HappyPath(t *testing.T) {
	r, repo := newTestRouter(t, nil)

	rec := postJSON(t, r, "/api/aggregate", sampleBody())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AssessmentID       string  `json:"assessment_id"`
		OverallHealthIndex float64 `json:"overall_health_index"`
		OverallRiskLevel   string  `json:"overall_risk_level"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AssessmentID == "" {
		t.Fatalf("expected assessment id in response")
	}
	if resp.OverallHealthIndex != 14.55 || resp.OverallRiskLevel != "Low" {
		t.Fatalf("unexpected result: %+v", resp)
	}
	if _, ok := repo.records[resp.AssessmentID]; !ok {
		t.Fatalf("expected assessment to be persisted")
	}
}

func TestAssessEndpoint_ValidationError(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	body := sampleBody()
	body["cholesterol"] = 50

	rec := postJSON(t, r, "/api/aggregate", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Validation struct {
			Field string `json:"field"`
		} `json:"validation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Validation.Field != "cholesterol" {
		t.Fatalf("expected cholesterol violation, got %+v", resp)
	}
}

func TestAssessEndpoint_RateLimited(t *testing.T) {
	r, _ := newTestRouter(t, denyAllLimiter{})

	rec := postJSON(t, r, "/api/aggregate", sampleBody())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAgentsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/aggregate/agents", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		TotalAgents int `json:"total_agents"`
		Agents      []struct {
			Key string `json:"key"`
		} `json:"agents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalAgents != 3 || len(resp.Agents) != 3 {
		t.Fatalf("expected three agents, got %+v", resp)
	}
	if resp.Agents[0].Key != "cardio" {
		t.Fatalf("expected cardio first, got %q", resp.Agents[0].Key)
	}
}

func TestGetAssessmentEndpoint_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history/missing-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHistoryEndpoint_InvalidLimit(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/history?limit=500", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteAssessmentEndpoint_RequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/history/some-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
