package domain

import "time"

// Estados posibles de un evento de auditoria.
const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
	AuditStatusError   = "error"
)

// AuditEvent registra una accion del sistema para trazabilidad.
// Se emite fuera del camino de retorno de la evaluacion.
type AuditEvent struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id,omitempty"`
	Action    string            `json:"action"`
	Resource  string            `json:"resource"`
	Status    string            `json:"status"`
	Detail    map[string]string `json:"detail,omitempty"`
	IPAddress string            `json:"ip_address,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// AuditStats agrupa conteos de eventos para el panel administrativo.
type AuditStats struct {
	TotalEvents int            `json:"total_events"`
	ByStatus    map[string]int `json:"by_status"`
	ByAction    map[string]int `json:"by_action"`
	Since       time.Time      `json:"since"`
}
