package domain

import (
	"errors"
	"testing"
)

func validRaw() map[string]any {
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

func TestValidateProfile_OK(t *testing.T) {
	profile, err := ValidateProfile(validRaw())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Age != 30 || profile.WeightKg != 70 || profile.Systolic != 120 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.IsSmoker {
		t.Fatalf("expected non-smoker")
	}
}

func TestValidateProfile_MissingField(t *testing.T) {
	raw := validRaw()
	delete(raw, "age")

	_, err := ValidateProfile(raw)
	if err == nil {
		t.Fatalf("expected error for missing age")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Field != "age" || verr.Kind != ViolationMissing {
		t.Fatalf("expected missing age, got %+v", verr)
	}
}

func TestValidateProfile_OutOfRange(t *testing.T) {
	raw := validRaw()
	raw["cholesterol"] = float64(50)

	_, err := ValidateProfile(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "cholesterol" || verr.Kind != ViolationOutOfRange {
		t.Fatalf("expected out of range cholesterol, got %+v", verr)
	}
}

func TestValidateProfile_RangeBoundsInclusive(t *testing.T) {
	raw := validRaw()
	raw["age"] = float64(1)
	raw["exercise_days"] = float64(7)
	if _, err := ValidateProfile(raw); err != nil {
		t.Fatalf("bounds should be inclusive: %v", err)
	}

	raw["age"] = float64(0)
	if _, err := ValidateProfile(raw); err == nil {
		t.Fatalf("expected age 0 to be rejected")
	}
}

func TestValidateProfile_CoercesStrings(t *testing.T) {
	raw := validRaw()
	raw["age"] = "45"
	raw["weight_kg"] = " 82.5 "
	raw["is_smoker"] = "true"

	profile, err := ValidateProfile(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Age != 45 || profile.WeightKg != 82.5 || !profile.IsSmoker {
		t.Fatalf("string coercion failed: %+v", profile)
	}
}

func TestValidateProfile_WrongType(t *testing.T) {
	raw := validRaw()
	raw["systolic"] = "not-a-number"

	_, err := ValidateProfile(raw)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "systolic" || verr.Kind != ViolationWrongType {
		t.Fatalf("expected wrong type systolic, got %+v", verr)
	}

	raw = validRaw()
	raw["is_smoker"] = float64(1)
	_, err = ValidateProfile(raw)
	if !errors.As(err, &verr) || verr.Field != "is_smoker" {
		t.Fatalf("expected wrong type is_smoker, got %v", err)
	}
}

func TestClassifyRisk_Cutoffs(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0, RiskLow},
		{24.99, RiskLow},
		{25, RiskModerate},
		{49.99, RiskModerate},
		{50, RiskHigh},
		{100, RiskHigh},
	}
	for _, tc := range cases {
		if got := ClassifyRisk(tc.score); got != tc.want {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}
}

func TestFeatureVector_NormalizedAndDeterministic(t *testing.T) {
	profile := HealthProfile{
		Age: 30, WeightKg: 70, HeightCm: 175, Systolic: 120,
		Diastolic: 80, Cholesterol: 190, IsSmoker: true, ExerciseDays: 3,
	}
	v1 := profile.FeatureVector().Slice()
	v2 := profile.FeatureVector().Slice()

	if len(v1) != 8 {
		t.Fatalf("expected 8 dimensions, got %d", len(v1))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("feature vector not deterministic at dim %d", i)
		}
		if v1[i] < 0 || v1[i] > 1 {
			t.Fatalf("dim %d out of [0,1]: %v", i, v1[i])
		}
	}
	if v1[6] != 1 {
		t.Fatalf("expected smoker flag 1, got %v", v1[6])
	}
}
