package agent

import (
	"fmt"
	"math"
	"time"

	"medai-lite/internal/domain"
)

// CriticalThreshold marca el puntaje de dominio a partir del cual un area se
// considera critica, por encima del corte de riesgo High.
const CriticalThreshold = 75.0

// MaxIntegratedRecommendations acota la lista combinada para despliegue.
const MaxIntegratedRecommendations = 15

// Weights define la ponderacion de cada dominio en el indice global.
// La suma debe ser exactamente 1.0.
type Weights struct {
	Cardio    float64
	Metabolic float64
	Neuro     float64
}

// DefaultWeights es la configuracion fija del sistema.
var DefaultWeights = Weights{Cardio: 0.35, Metabolic: 0.35, Neuro: 0.30}

const weightSumTolerance = 1e-9

// Aggregator invoca los tres agentes de dominio y combina sus resultados en
// un veredicto global. No retiene estado entre llamadas.
type Aggregator struct {
	agents  []Agent
	weights map[string]float64
}

// NewAggregator construye el agregador con el conjunto cerrado de agentes en
// orden declarado fijo. Verifica una sola vez el invariante de suma de pesos.
func NewAggregator(w Weights) (*Aggregator, error) {
	sum := w.Cardio + w.Metabolic + w.Neuro
	if math.Abs(sum-1.0) > weightSumTolerance {
		return nil, fmt.Errorf("aggregator weights must sum to 1.0, got %v", sum)
	}
	return &Aggregator{
		agents: []Agent{CardioAgent{}, MetabolicAgent{}, NeuroAgent{}},
		weights: map[string]float64{
			KeyCardio:    w.Cardio,
			KeyMetabolic: w.Metabolic,
			KeyNeuro:     w.Neuro,
		},
	}, nil
}

// AgentInfo expone metadata del registro de agentes.
type AgentInfo struct {
	Key         string  `json:"key"`
	DisplayName string  `json:"display_name"`
	Weight      float64 `json:"weight"`
}

// Agents lista los agentes registrados en orden declarado.
func (g *Aggregator) Agents() []AgentInfo {
	infos := make([]AgentInfo, 0, len(g.agents))
	for _, a := range g.agents {
		infos = append(infos, AgentInfo{
			Key:         a.Key(),
			DisplayName: a.DisplayName(),
			Weight:      g.weights[a.Key()],
		})
	}
	return infos
}

// Assess ejecuta todos los agentes sobre el mismo perfil validado y arma el
// resultado agregado. Si un agente falla, la evaluacion completa falla: una
// suma ponderada parcial representaria mal el indice de salud.
func (g *Aggregator) Assess(profile domain.HealthProfile) (domain.AggregateResult, error) {
	start := time.Now()

	assessments := make(map[string]domain.AgentResult, len(g.agents))
	performance := make(map[string]float64, len(g.agents)+1)

	for _, a := range g.agents {
		agentStart := time.Now()
		result, err := a.Evaluate(profile)
		if err != nil {
			return domain.AggregateResult{}, err
		}
		assessments[a.Key()] = result
		performance[a.Key()] = elapsedMs(agentStart)
	}

	var index float64
	for _, a := range g.agents {
		index += assessments[a.Key()].RiskScore * g.weights[a.Key()]
	}
	index = round2(clampScore(index))

	var critical []string
	for _, a := range g.agents {
		if assessments[a.Key()].RiskScore >= CriticalThreshold {
			critical = append(critical, a.Key())
		}
	}

	recommendations := g.integrateRecommendations(assessments)
	performance["total"] = elapsedMs(start)

	return domain.AggregateResult{
		OverallHealthIndex:        index,
		OverallRiskLevel:          domain.ClassifyRisk(index),
		AgentAssessments:          assessments,
		CriticalAreas:             critical,
		IntegratedRecommendations: recommendations,
		Performance:               performance,
	}, nil
}

// integrateRecommendations concatena en orden fijo de dominio, deduplica por
// cadena exacta preservando la primera aparicion y acota la lista.
func (g *Aggregator) integrateRecommendations(assessments map[string]domain.AgentResult) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, a := range g.agents {
		for _, rec := range assessments[a.Key()].Recommendations {
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			merged = append(merged, rec)
		}
	}
	if len(merged) > MaxIntegratedRecommendations {
		merged = merged[:MaxIntegratedRecommendations]
	}
	return merged
}

func elapsedMs(since time.Time) float64 {
	return round2(float64(time.Since(since).Microseconds()) / 1000)
}
