package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// RiskLevel clasifica un puntaje de riesgo en niveles discretos.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Puntos de corte unicos para clasificar puntajes 0-100.
// Low: [0,25), Moderate: [25,50), High: [50,100].
const (
	ModerateCutoff = 25.0
	HighCutoff     = 50.0
)

// ClassifyRisk mapea un puntaje 0-100 a su nivel de riesgo.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score < ModerateCutoff:
		return RiskLow
	case score < HighCutoff:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// AgentResult es la evaluacion de un dominio individual.
// Se produce nueva en cada llamada y no se muta despues de retornarla.
type AgentResult struct {
	RiskScore       float64            `json:"risk_score"`
	RiskLevel       RiskLevel          `json:"risk_level"`
	Category        string             `json:"category"`
	Breakdown       map[string]float64 `json:"breakdown"`
	Recommendations []string           `json:"recommendations"`
	Details         map[string]string  `json:"details,omitempty"`
	BMI             float64            `json:"bmi,omitempty"`
}

// AggregateResult es el veredicto combinado de todos los dominios.
type AggregateResult struct {
	OverallHealthIndex        float64                `json:"overall_health_index"`
	OverallRiskLevel          RiskLevel              `json:"overall_risk_level"`
	AgentAssessments          map[string]AgentResult `json:"agent_assessments"`
	CriticalAreas             []string               `json:"critical_areas"`
	IntegratedRecommendations []string               `json:"integrated_recommendations"`
	Performance               map[string]float64     `json:"performance"`
}

// AssessmentRecord es lo que persiste la capa externa: perfil original mas
// resultado agregado, con id y timestamp asignados fuera del nucleo.
type AssessmentRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Profile   HealthProfile   `json:"profile"`
	Result    AggregateResult `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// AssessmentStats resume los registros guardados.
type AssessmentStats struct {
	TotalAssessments  int     `json:"total_assessments"`
	AvgRiskScore      float64 `json:"avg_risk_score"`
	AvgBMI            float64 `json:"avg_bmi"`
	LowRiskCount      int     `json:"low_risk_count"`
	ModerateRiskCount int     `json:"moderate_risk_count"`
	HighRiskCount     int     `json:"high_risk_count"`
}

// FeatureVector proyecta el perfil a un vector normalizado de 8 dimensiones,
// usado para buscar evaluaciones historicas similares.
func (p HealthProfile) FeatureVector() pgvector.Vector {
	smoker := float32(0)
	if p.IsSmoker {
		smoker = 1
	}
	return pgvector.NewVector([]float32{
		float32(p.Age) / 150,
		float32(p.WeightKg) / 500,
		float32(p.HeightCm) / 300,
		float32(p.Systolic) / 250,
		float32(p.Diastolic) / 150,
		float32(p.Cholesterol) / 400,
		smoker,
		float32(p.ExerciseDays) / 7,
	})
}
