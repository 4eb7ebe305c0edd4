package wearable

import (
	"hash/fnv"
	"math/rand"
	"time"
)

// Device simula un reloj de salud emparejado. En produccion este paquete se
// reemplaza por la integracion real con el proveedor del dispositivo.
// Los valores generados son deterministas por usuario: misma clave, mismos datos.
type Device struct {
	userID string
	info   DeviceInfo
}

type DeviceInfo struct {
	Model       string `json:"model"`
	OSVersion   string `json:"os_version"`
	PairedPhone string `json:"paired_phone"`
}

type ConnectionInfo struct {
	Connected   bool       `json:"connected"`
	Device      DeviceInfo `json:"device"`
	DataSources []string   `json:"data_sources"`
	Timestamp   time.Time  `json:"timestamp"`
}

type Vitals struct {
	HeartRateBPM    int       `json:"heart_rate_bpm"`
	BloodOxygenPct  int       `json:"blood_oxygen_pct"`
	RespiratoryRate int       `json:"respiratory_rate"`
	Timestamp       time.Time `json:"timestamp"`
}

type DailyActivity struct {
	Date            string  `json:"date"`
	Steps           int     `json:"steps"`
	DistanceKm      float64 `json:"distance_km"`
	ActiveCalories  int     `json:"active_calories"`
	ExerciseMinutes int     `json:"exercise_minutes"`
	StandHours      int     `json:"stand_hours"`
}

type SleepSummary struct {
	Date          string  `json:"date"`
	TotalHours    float64 `json:"total_hours"`
	DeepSleepPct  int     `json:"deep_sleep_pct"`
	RemSleepPct   int     `json:"rem_sleep_pct"`
	LightSleepPct int     `json:"light_sleep_pct"`
	SleepScore    int     `json:"sleep_score"`
}

type Workout struct {
	Date            string  `json:"date"`
	Type            string  `json:"type"`
	DurationMinutes int     `json:"duration_minutes"`
	Calories        int     `json:"calories"`
	AvgHeartRate    int     `json:"avg_heart_rate"`
	DistanceKm      float64 `json:"distance_km"`
}

type Export struct {
	Device     DeviceInfo      `json:"device"`
	UserID     string          `json:"user_id,omitempty"`
	Vitals     Vitals          `json:"vitals"`
	Activity   []DailyActivity `json:"activity"`
	Sleep      []SleepSummary  `json:"sleep"`
	Workouts   []Workout       `json:"workouts"`
	ExportedAt time.Time       `json:"exported_at"`
}

var dataSources = []string{
	"heart_rate", "blood_oxygen", "steps", "exercise_minutes", "sleep", "stand_hours",
}

var workoutTypes = []string{"Running", "Walking", "Cycling", "Strength", "Yoga", "Swimming"}

func NewDevice(userID string) *Device {
	return &Device{
		userID: userID,
		info: DeviceInfo{
			Model:       "HealthWatch S9",
			OSVersion:   "watchOS 10.0",
			PairedPhone: "Phone 15 Pro",
		},
	}
}

// rng devuelve un generador sembrado por usuario y seccion de datos, para que
// cada metodo sea determinista sin importar el orden de llamadas.
func (d *Device) rng(section string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(d.userID))
	h.Write([]byte("|"))
	h.Write([]byte(section))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func (d *Device) Connect() ConnectionInfo {
	return ConnectionInfo{
		Connected:   true,
		Device:      d.info,
		DataSources: dataSources,
		Timestamp:   time.Now().UTC(),
	}
}

func (d *Device) CurrentVitals() Vitals {
	r := d.rng("vitals")
	return Vitals{
		HeartRateBPM:    65 + r.Intn(21),
		BloodOxygenPct:  96 + r.Intn(4),
		RespiratoryRate: 12 + r.Intn(7),
		Timestamp:       time.Now().UTC(),
	}
}

func (d *Device) ActivitySummary(days int) []DailyActivity {
	if days <= 0 {
		days = 7
	}
	r := d.rng("activity")
	summaries := make([]DailyActivity, 0, days)
	for day := 0; day < days; day++ {
		date := time.Now().UTC().AddDate(0, 0, -day)
		summaries = append(summaries, DailyActivity{
			Date:            date.Format("2006-01-02"),
			Steps:           3000 + r.Intn(9001),
			DistanceKm:      roundTo2(2.0 + r.Float64()*6.0),
			ActiveCalories:  200 + r.Intn(401),
			ExerciseMinutes: r.Intn(91),
			StandHours:      6 + r.Intn(7),
		})
	}
	return summaries
}

func (d *Device) SleepHistory(days int) []SleepSummary {
	if days <= 0 {
		days = 7
	}
	r := d.rng("sleep")
	history := make([]SleepSummary, 0, days)
	for day := 1; day <= days; day++ {
		date := time.Now().UTC().AddDate(0, 0, -day)
		deep := 15 + r.Intn(16)
		rem := 20 + r.Intn(11)
		history = append(history, SleepSummary{
			Date:          date.Format("2006-01-02"),
			TotalHours:    roundTo2(5.5 + r.Float64()*3.5),
			DeepSleepPct:  deep,
			RemSleepPct:   rem,
			LightSleepPct: 100 - deep - rem,
			SleepScore:    60 + r.Intn(36),
		})
	}
	return history
}

func (d *Device) Workouts(days int) []Workout {
	if days <= 0 {
		days = 7
	}
	r := d.rng("workouts")
	count := 3 + r.Intn(days)
	workouts := make([]Workout, 0, count)
	for i := 0; i < count; i++ {
		date := time.Now().UTC().AddDate(0, 0, -r.Intn(days))
		workouts = append(workouts, Workout{
			Date:            date.Format("2006-01-02"),
			Type:            workoutTypes[r.Intn(len(workoutTypes))],
			DurationMinutes: 20 + r.Intn(71),
			Calories:        150 + r.Intn(451),
			AvgHeartRate:    110 + r.Intn(51),
			DistanceKm:      roundTo2(r.Float64() * 10),
		})
	}
	return workouts
}

func (d *Device) ExportData() Export {
	return Export{
		Device:     d.info,
		UserID:     d.userID,
		Vitals:     d.CurrentVitals(),
		Activity:   d.ActivitySummary(7),
		Sleep:      d.SleepHistory(7),
		Workouts:   d.Workouts(7),
		ExportedAt: time.Now().UTC(),
	}
}

// SampleProfile genera datos de entrada plausibles para pre-llenar una
// evaluacion. La salida pasa por el validador como cualquier otro input.
func (d *Device) SampleProfile() map[string]any {
	r := d.rng("profile")
	return map[string]any{
		"age":           float64(25 + r.Intn(41)),
		"weight_kg":     roundTo2(60 + r.Float64()*40),
		"height_cm":     float64(160 + r.Intn(31)),
		"systolic":      float64(110 + r.Intn(31)),
		"diastolic":     float64(70 + r.Intn(21)),
		"cholesterol":   float64(160 + r.Intn(81)),
		"is_smoker":     r.Intn(2) == 1,
		"exercise_days": float64(r.Intn(7)),
	}
}

func roundTo2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
