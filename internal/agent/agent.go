package agent

import (
	"fmt"
	"math"

	"medai-lite/internal/domain"
)

// Agent es una funcion pura que mapea un perfil validado a la evaluacion
// de riesgo de su dominio. Entrada identica produce salida identica.
type Agent interface {
	Key() string
	DisplayName() string
	Evaluate(profile domain.HealthProfile) (domain.AgentResult, error)
}

// Claves fijas de dominio, en el orden declarado de iteracion.
const (
	KeyCardio    = "cardio"
	KeyMetabolic = "metabolic"
	KeyNeuro     = "neuro"
)

// EvaluationError indica que un agente no pudo producir un resultado a partir
// de un perfil valido. Es un defecto de programacion, no una condicion de usuario.
type EvaluationError struct {
	AgentKey string
	Reason   string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s agent: %s", e.AgentKey, e.Reason)
}

// clampScore limita un puntaje al rango [0,100].
func clampScore(score float64) float64 {
	return math.Min(100, math.Max(0, score))
}

// round2 redondea a 2 decimales, igual que los puntajes expuestos por la API.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// checkBreakdown valida el invariante de que cada contribucion quede en [0,100].
func checkBreakdown(key string, breakdown map[string]float64) error {
	for factor, value := range breakdown {
		if value < 0 || value > 100 || math.IsNaN(value) {
			return &EvaluationError{AgentKey: key, Reason: fmt.Sprintf("factor %s out of range: %v", factor, value)}
		}
	}
	return nil
}
