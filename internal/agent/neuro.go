package agent

import (
	"math"

	"medai-lite/internal/domain"
)

// NeuroAgent evalua riesgo neurologico: declive cognitivo, riesgo de ACV y
// salud vascular cerebral.
type NeuroAgent struct{}

const (
	neuroCognitiveWeight  = 0.25
	neuroStrokeWeight     = 0.35
	neuroVascularWeight   = 0.25
	neuroProtectionWeight = 0.15
)

func (NeuroAgent) Key() string         { return KeyNeuro }
func (NeuroAgent) DisplayName() string { return "Neurological" }

func (a NeuroAgent) Evaluate(profile domain.HealthProfile) (domain.AgentResult, error) {
	cognitiveScore := cognitiveAgeScore(profile.Age)
	strokeScore := strokeRiskScore(profile)
	vascularScore := vascularHealthScore(profile.Systolic, profile.Cholesterol)
	protectionScore := neuroprotectionScore(profile.ExerciseDays)

	breakdown := map[string]float64{
		"cognitive_aging": cognitiveScore,
		"stroke_risk":     strokeScore,
		"vascular_health": vascularScore,
		"neuroprotection": protectionScore,
	}
	if err := checkBreakdown(KeyNeuro, breakdown); err != nil {
		return domain.AgentResult{}, err
	}

	score := cognitiveScore*neuroCognitiveWeight +
		strokeScore*neuroStrokeWeight +
		vascularScore*neuroVascularWeight +
		protectionScore*neuroProtectionWeight
	score = round2(clampScore(score))

	return domain.AgentResult{
		RiskScore:       score,
		RiskLevel:       domain.ClassifyRisk(score),
		Category:        a.DisplayName(),
		Breakdown:       breakdown,
		Recommendations: neuroRecommendations(score, breakdown, profile),
		Details: map[string]string{
			"stroke_risk_category": string(domain.ClassifyRisk(strokeScore)),
		},
	}, nil
}

func cognitiveAgeScore(age int) float64 {
	switch {
	case age < 40:
		return 5
	case age < 50:
		return 15
	case age < 60:
		return 30
	case age < 70:
		return 50
	case age < 80:
		return 70
	default:
		return 85
	}
}

// strokeRiskScore combina edad, presion arterial, tabaquismo y colesterol.
// El tabaquismo actua como multiplicador sobre la base edad+presion.
func strokeRiskScore(profile domain.HealthProfile) float64 {
	var risk float64

	switch {
	case profile.Age < 45:
		risk += 10
	case profile.Age < 55:
		risk += 25
	case profile.Age < 65:
		risk += 45
	case profile.Age < 75:
		risk += 65
	default:
		risk += 80
	}

	switch {
	case profile.Systolic >= 180 || profile.Diastolic >= 110:
		risk += 40
	case profile.Systolic >= 160 || profile.Diastolic >= 100:
		risk += 30
	case profile.Systolic >= 140 || profile.Diastolic >= 90:
		risk += 15
	}

	if profile.IsSmoker {
		risk *= 1.4
	}

	switch {
	case profile.Cholesterol >= 280:
		risk += 15
	case profile.Cholesterol >= 240:
		risk += 10
	}

	return math.Min(risk, 100)
}

func vascularHealthScore(systolic, cholesterol int) float64 {
	var bpComponent float64
	switch {
	case systolic < 120:
		bpComponent = 10
	case systolic < 140:
		bpComponent = 30
	case systolic < 160:
		bpComponent = 60
	default:
		bpComponent = 85
	}

	var cholComponent float64
	switch {
	case cholesterol < 200:
		cholComponent = 10
	case cholesterol < 240:
		cholComponent = 35
	default:
		cholComponent = 60
	}

	return (bpComponent + cholComponent) / 2
}

func neuroprotectionScore(exerciseDays int) float64 {
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

func neuroRecommendations(score float64, breakdown map[string]float64, profile domain.HealthProfile) []string {
	var recs []string

	switch domain.ClassifyRisk(score) {
	case domain.RiskLow:
		recs = append(recs,
			"Maintain brain-healthy lifestyle habits",
			"Engage in mentally stimulating activities",
		)
	case domain.RiskModerate:
		recs = append(recs,
			"Increase cardiovascular exercise (proven neuroprotective)",
			"Ensure adequate sleep (7-9 hours nightly)",
		)
	default:
		recs = append(recs,
			"Schedule consultation with a neurologist",
			"Comprehensive vascular health assessment needed",
		)
	}

	if breakdown["stroke_risk"] >= 50 {
		recs = append(recs, "Intensive blood pressure management required")
	}
	if breakdown["vascular_health"] >= 45 {
		recs = append(recs, "Monitor and manage blood pressure closely")
	}
	if profile.IsSmoker {
		recs = append(recs, "Quit smoking to reduce cardiovascular and stroke risk")
	}
	if breakdown["neuroprotection"] >= 50 {
		recs = append(recs, "Increase physical activity to at least 150 minutes per week")
	}

	return recs
}
