package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// HealthProfile es el perfil de salud ya validado e inmutable.
// Todos los campos estan presentes y dentro de rango.
type HealthProfile struct {
	Age          int     `json:"age"`
	WeightKg     float64 `json:"weight_kg"`
	HeightCm     float64 `json:"height_cm"`
	Systolic     int     `json:"systolic"`
	Diastolic    int     `json:"diastolic"`
	Cholesterol  int     `json:"cholesterol"`
	IsSmoker     bool    `json:"is_smoker"`
	ExerciseDays int     `json:"exercise_days"`
}

// Tipos de violacion que puede reportar el validador.
const (
	ViolationMissing    = "missing"
	ViolationWrongType  = "wrong_type"
	ViolationOutOfRange = "out_of_range"
)

// ValidationError indica un campo faltante, mal tipado o fuera de rango.
type ValidationError struct {
	Field      string `json:"field"`
	Kind       string `json:"kind"`
	Constraint string `json:"constraint"`
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case ViolationMissing:
		return fmt.Sprintf("%s: required field is missing", e.Field)
	case ViolationWrongType:
		return fmt.Sprintf("%s: expected %s", e.Field, e.Constraint)
	default:
		return fmt.Sprintf("%s: value out of range (%s)", e.Field, e.Constraint)
	}
}

type fieldRange struct {
	name string
	min  float64
	max  float64
}

// Rangos declarados del perfil. Limites inclusivos en ambos extremos.
var profileRanges = []fieldRange{
	{"age", 1, 150},
	{"weight_kg", 20, 500},
	{"height_cm", 50, 300},
	{"systolic", 50, 250},
	{"diastolic", 30, 150},
	{"cholesterol", 100, 400},
	{"exercise_days", 0, 7},
}

// ValidateProfile normaliza y valida un registro crudo ya decodificado de JSON.
// Acepta numeros codificados como string y los convierte. Falla en el primer
// campo invalido; ningun perfil parcial pasa a los agentes.
func ValidateProfile(raw map[string]any) (HealthProfile, error) {
	values := make(map[string]float64, len(profileRanges))
	for _, fr := range profileRanges {
		v, ok := raw[fr.name]
		if !ok || v == nil {
			return HealthProfile{}, &ValidationError{Field: fr.name, Kind: ViolationMissing}
		}
		num, err := coerceNumber(v)
		if err != nil {
			return HealthProfile{}, &ValidationError{Field: fr.name, Kind: ViolationWrongType, Constraint: "numeric value"}
		}
		if num < fr.min || num > fr.max {
			return HealthProfile{}, &ValidationError{
				Field:      fr.name,
				Kind:       ViolationOutOfRange,
				Constraint: fmt.Sprintf("%g-%g", fr.min, fr.max),
			}
		}
		values[fr.name] = num
	}

	smoker, ok := raw["is_smoker"]
	if !ok || smoker == nil {
		return HealthProfile{}, &ValidationError{Field: "is_smoker", Kind: ViolationMissing}
	}
	isSmoker, err := coerceBool(smoker)
	if err != nil {
		return HealthProfile{}, &ValidationError{Field: "is_smoker", Kind: ViolationWrongType, Constraint: "boolean value"}
	}

	return HealthProfile{
		Age:          int(values["age"]),
		WeightKg:     values["weight_kg"],
		HeightCm:     values["height_cm"],
		Systolic:     int(values["systolic"]),
		Diastolic:    int(values["diastolic"]),
		Cholesterol:  int(values["cholesterol"]),
		IsSmoker:     isSmoker,
		ExerciseDays: int(values["exercise_days"]),
	}, nil
}

func coerceNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func coerceBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, err
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("unsupported boolean type %T", v)
	}
}
