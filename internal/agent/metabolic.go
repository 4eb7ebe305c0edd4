package agent

import (
	"strings"

	"medai-lite/internal/domain"
)

// MetabolicAgent evalua riesgo metabolico: obesidad, perfil lipidico y
// sindrome metabolico a partir de BMI, colesterol, edad y ejercicio.
type MetabolicAgent struct{}

const (
	metabolicBMIWeight      = 0.40
	metabolicLipidWeight    = 0.30
	metabolicExerciseWeight = 0.20
	metabolicAgeWeight      = 0.10
)

func (MetabolicAgent) Key() string         { return KeyMetabolic }
func (MetabolicAgent) DisplayName() string { return "Metabolic" }

func (a MetabolicAgent) Evaluate(profile domain.HealthProfile) (domain.AgentResult, error) {
	bmi := CalculateBMI(profile.WeightKg, profile.HeightCm)
	tier := bmiTierOf(bmi)

	bmiScore := bmiTierScores[tier]
	lipidScore := metabolicLipidScore(profile.Cholesterol)
	exerciseScore := metabolicExerciseScore(profile.ExerciseDays)
	ageScore := metabolicAgeScore(profile.Age)

	breakdown := map[string]float64{
		"bmi":           bmiScore,
		"lipid_profile": lipidScore,
		"exercise":      exerciseScore,
		"age":           ageScore,
	}
	if err := checkBreakdown(KeyMetabolic, breakdown); err != nil {
		return domain.AgentResult{}, err
	}

	score := bmiScore*metabolicBMIWeight +
		lipidScore*metabolicLipidWeight +
		exerciseScore*metabolicExerciseWeight +
		ageScore*metabolicAgeWeight
	score = round2(clampScore(score))

	return domain.AgentResult{
		RiskScore:       score,
		RiskLevel:       domain.ClassifyRisk(score),
		Category:        a.DisplayName(),
		BMI:             bmi,
		Breakdown:       breakdown,
		Recommendations: metabolicRecommendations(score, breakdown),
		Details: map[string]string{
			"bmi_classification": bmiTierNames[tier],
			"metabolic_syndrome": metabolicSyndromeIndicator(bmi, profile.Cholesterol, profile.Age),
		},
	}, nil
}

// CalculateBMI calcula el indice de masa corporal redondeado a 2 decimales.
func CalculateBMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return round2(weightKg / (heightM * heightM))
}

func metabolicLipidScore(cholesterol int) float64 {
	switch {
	case cholesterol < 200:
		return 10
	case cholesterol < 240:
		return 40
	case cholesterol < 280:
		return 70
	default:
		return 90
	}
}

func metabolicExerciseScore(exerciseDays int) float64 {
	switch {
	case exerciseDays >= 5:
		return 10
	case exerciseDays >= 3:
		return 25
	case exerciseDays >= 1:
		return 50
	default:
		return 80
	}
}

func metabolicAgeScore(age int) float64 {
	switch {
	case age < 30:
		return 10
	case age < 45:
		return 25
	case age < 60:
		return 45
	default:
		return 65
	}
}

// metabolicSyndromeIndicator combina nivel de BMI, colesterol y edad en un
// indicador compuesto. Es un chequeo simplificado, no un diagnostico.
func metabolicSyndromeIndicator(bmi float64, cholesterol, age int) string {
	var signals []string
	if bmi >= 30 {
		signals = append(signals, "elevated BMI")
	}
	if cholesterol >= 240 {
		signals = append(signals, "elevated cholesterol")
	}
	if age >= 60 {
		signals = append(signals, "age over 60")
	}
	if len(signals) == 0 {
		return "not indicated"
	}
	return "risk present (" + strings.Join(signals, ", ") + ")"
}

func metabolicRecommendations(score float64, breakdown map[string]float64) []string {
	var recs []string

	switch domain.ClassifyRisk(score) {
	case domain.RiskLow:
		recs = append(recs,
			"Maintain your current healthy lifestyle",
			"Annual metabolic health screening recommended",
		)
	case domain.RiskModerate:
		recs = append(recs,
			"Consult with a nutritionist for diet optimization",
			"Monitor weight and BMI regularly",
		)
	default:
		recs = append(recs,
			"Schedule consultation with an endocrinologist",
			"Implement a structured weight management program",
		)
	}

	if breakdown["bmi"] >= 45 {
		recs = append(recs, "Work toward a healthy weight range with professional guidance")
	}
	if breakdown["lipid_profile"] >= 40 {
		recs = append(recs, "Consider dietary changes to lower cholesterol")
	}
	if breakdown["exercise"] >= 50 {
		recs = append(recs, "Increase physical activity to at least 150 minutes per week")
	}

	return recs
}
