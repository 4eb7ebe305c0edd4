package agent

// Clasificaciones discretas compartidas por los agentes. Cada limite inferior
// de rango es inclusivo en el nivel mas alto (120/80 exacto cae en Normal).

type bpTier int

const (
	bpOptimal bpTier = iota
	bpNormal
	bpHighNormal
	bpStage1
	bpStage2
	bpCrisis
)

var bpTierNames = map[bpTier]string{
	bpOptimal:    "Optimal",
	bpNormal:     "Normal",
	bpHighNormal: "High Normal",
	bpStage1:     "Stage 1 Hypertension",
	bpStage2:     "Stage 2 Hypertension",
	bpCrisis:     "Hypertensive Crisis",
}

var bpTierScores = map[bpTier]float64{
	bpOptimal:    10,
	bpNormal:     20,
	bpHighNormal: 40,
	bpStage1:     60,
	bpStage2:     80,
	bpCrisis:     100,
}

// bloodPressureTier asigna el nivel del componente mas severo entre
// sistolica y diastolica.
func bloodPressureTier(systolic, diastolic int) bpTier {
	st := systolicTier(systolic)
	dt := diastolicTier(diastolic)
	if dt > st {
		return dt
	}
	return st
}

func systolicTier(systolic int) bpTier {
	switch {
	case systolic < 120:
		return bpOptimal
	case systolic < 130:
		return bpNormal
	case systolic < 140:
		return bpHighNormal
	case systolic < 160:
		return bpStage1
	case systolic < 180:
		return bpStage2
	default:
		return bpCrisis
	}
}

func diastolicTier(diastolic int) bpTier {
	switch {
	case diastolic < 80:
		return bpOptimal
	case diastolic < 85:
		return bpNormal
	case diastolic < 90:
		return bpHighNormal
	case diastolic < 100:
		return bpStage1
	case diastolic < 110:
		return bpStage2
	default:
		return bpCrisis
	}
}

type cholesterolTier int

const (
	cholDesirable cholesterolTier = iota
	cholBorderline
	cholHigh
)

var cholTierNames = map[cholesterolTier]string{
	cholDesirable:  "Desirable",
	cholBorderline: "Borderline High",
	cholHigh:       "High",
}

var cholTierScores = map[cholesterolTier]float64{
	cholDesirable:  10,
	cholBorderline: 50,
	cholHigh:       75,
}

func cholesterolTierOf(cholesterol int) cholesterolTier {
	switch {
	case cholesterol < 200:
		return cholDesirable
	case cholesterol < 240:
		return cholBorderline
	default:
		return cholHigh
	}
}

type bmiTier int

const (
	bmiUnderweight bmiTier = iota
	bmiNormal
	bmiOverweight
	bmiObese1
	bmiObese2
	bmiObese3
)

var bmiTierNames = map[bmiTier]string{
	bmiUnderweight: "Underweight",
	bmiNormal:      "Normal Weight",
	bmiOverweight:  "Overweight",
	bmiObese1:      "Obese Class I",
	bmiObese2:      "Obese Class II",
	bmiObese3:      "Obese Class III (Severe)",
}

var bmiTierScores = map[bmiTier]float64{
	bmiUnderweight: 40,
	bmiNormal:      10,
	bmiOverweight:  45,
	bmiObese1:      70,
	bmiObese2:      85,
	bmiObese3:      95,
}

func bmiTierOf(bmi float64) bmiTier {
	switch {
	case bmi < 18.5:
		return bmiUnderweight
	case bmi < 25:
		return bmiNormal
	case bmi < 30:
		return bmiOverweight
	case bmi < 35:
		return bmiObese1
	case bmi < 40:
		return bmiObese2
	default:
		return bmiObese3
	}
}
