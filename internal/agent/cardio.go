package agent

import (
	"medai-lite/internal/domain"
)

// CardioAgent evalua riesgo cardiovascular a partir de presion arterial,
// colesterol, tabaquismo, edad y actividad fisica.
type CardioAgent struct{}

// Pesos internos de los factores cardiovasculares.
const (
	cardioBPWeight       = 0.35
	cardioCholWeight     = 0.30
	cardioSmokingWeight  = 0.20
	cardioAgeWeight      = 0.10
	cardioExerciseWeight = 0.05
)

func (CardioAgent) Key() string         { return KeyCardio }
func (CardioAgent) DisplayName() string { return "Cardiovascular" }

func (a CardioAgent) Evaluate(profile domain.HealthProfile) (domain.AgentResult, error) {
	bpTier := bloodPressureTier(profile.Systolic, profile.Diastolic)
	cholTier := cholesterolTierOf(profile.Cholesterol)

	bpScore := bpTierScores[bpTier]
	cholScore := cholTierScores[cholTier]
	smokingScore := smokingPenalty(profile.IsSmoker)
	ageScore := cardioAgeScore(profile.Age)
	exerciseScore := cardioExerciseScore(profile.ExerciseDays)

	breakdown := map[string]float64{
		"blood_pressure": bpScore,
		"cholesterol":    cholScore,
		"smoking":        smokingScore,
		"age":            ageScore,
		"exercise":       exerciseScore,
	}
	if err := checkBreakdown(KeyCardio, breakdown); err != nil {
		return domain.AgentResult{}, err
	}

	score := bpScore*cardioBPWeight +
		cholScore*cardioCholWeight +
		smokingScore*cardioSmokingWeight +
		ageScore*cardioAgeWeight +
		exerciseScore*cardioExerciseWeight
	score = round2(clampScore(score))

	return domain.AgentResult{
		RiskScore:       score,
		RiskLevel:       domain.ClassifyRisk(score),
		Category:        a.DisplayName(),
		Breakdown:       breakdown,
		Recommendations: cardioRecommendations(score, breakdown, profile),
		Details: map[string]string{
			"bp_classification":          bpTierNames[bpTier],
			"cholesterol_classification": cholTierNames[cholTier],
		},
	}, nil
}

func smokingPenalty(isSmoker bool) float64 {
	if isSmoker {
		return 80
	}
	return 10
}

// cardioAgeScore crece de forma continua con la edad, sin escalones.
func cardioAgeScore(age int) float64 {
	return clampScore(float64(age) - 10)
}

func cardioExerciseScore(exerciseDays int) float64 {
	switch {
	case exerciseDays >= 5:
		return 10
	case exerciseDays >= 3:
		return 30
	case exerciseDays >= 1:
		return 50
	default:
		return 80
	}
}

func cardioRecommendations(score float64, breakdown map[string]float64, profile domain.HealthProfile) []string {
	var recs []string

	switch domain.ClassifyRisk(score) {
	case domain.RiskLow:
		recs = append(recs,
			"Maintain your current healthy lifestyle",
			"Keep monitoring your blood pressure and cholesterol",
		)
	case domain.RiskModerate:
		recs = append(recs,
			"Consult with a healthcare provider about your cardiovascular health",
			"Monitor blood pressure regularly",
		)
	default:
		recs = append(recs,
			"Schedule an appointment with a cardiologist",
			"Implement immediate lifestyle modifications under medical supervision",
		)
	}

	if breakdown["blood_pressure"] >= 60 {
		recs = append(recs, "Discuss blood pressure medication with your doctor")
	}
	if breakdown["cholesterol"] >= 50 {
		recs = append(recs, "Consider dietary changes to lower cholesterol")
	}
	if profile.IsSmoker {
		recs = append(recs, "Quit smoking to reduce cardiovascular and stroke risk")
	}
	if breakdown["exercise"] >= 50 {
		recs = append(recs, "Increase physical activity to at least 150 minutes per week")
	}

	return recs
}
