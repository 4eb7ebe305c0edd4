package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medai-lite/internal/domain"
)

// AuditFilter acota la consulta de eventos de auditoria.
type AuditFilter struct {
	UserID   string
	Action   string
	Resource string
	Status   string
	Limit    int
	Offset   int
}

// AuditRepository define el contrato de persistencia para eventos de auditoria.
type AuditRepository interface {
	Record(ctx context.Context, event domain.AuditEvent) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditEvent, error)
	Stats(ctx context.Context, since time.Time) (domain.AuditStats, error)
}

// PgAuditRepository implementa AuditRepository usando pgxpool.
type PgAuditRepository struct {
	pool *pgxpool.Pool
}

func NewPgAuditRepository(pool *pgxpool.Pool) *PgAuditRepository {
	return &PgAuditRepository{pool: pool}
}

func (r *PgAuditRepository) Record(ctx context.Context, event domain.AuditEvent) error {
	detailJSON := []byte("{}")
	if event.Detail != nil {
		encoded, err := json.Marshal(event.Detail)
		if err != nil {
			return err
		}
		detailJSON = encoded
	}

	var userID any
	if event.UserID != "" {
		userID = event.UserID
	}

	const query = `
		INSERT INTO audit_events (id, user_id, action, resource, status, detail, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		userID,
		event.Action,
		event.Resource,
		event.Status,
		detailJSON,
		event.IPAddress,
		event.CreatedAt,
	)
	return err
}

func (r *PgAuditRepository) List(ctx context.Context, filter AuditFilter) ([]domain.AuditEvent, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	// Filtros opcionales: cadena vacia desactiva cada condicion.
	const query = `
		SELECT id, user_id, action, resource, status, detail, ip_address, created_at
		FROM audit_events
		WHERE ($1 = '' OR user_id::text = $1)
		  AND ($2 = '' OR action = $2)
		  AND ($3 = '' OR resource = $3)
		  AND ($4 = '' OR status = $4)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`
	rows, err := r.pool.Query(ctx, query,
		filter.UserID, filter.Action, filter.Resource, filter.Status,
		filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}

func (r *PgAuditRepository) Stats(ctx context.Context, since time.Time) (domain.AuditStats, error) {
	const query = `
		SELECT action, status, COUNT(*)
		FROM audit_events
		WHERE created_at >= $1
		GROUP BY action, status
	`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return domain.AuditStats{}, err
	}
	defer rows.Close()

	stats := domain.AuditStats{
		ByStatus: make(map[string]int),
		ByAction: make(map[string]int),
		Since:    since,
	}
	for rows.Next() {
		var (
			action, status string
			count          int
		)
		if err := rows.Scan(&action, &status, &count); err != nil {
			return domain.AuditStats{}, err
		}
		stats.ByAction[action] += count
		stats.ByStatus[status] += count
		stats.TotalEvents += count
	}
	return stats, rows.Err()
}

func scanAuditEvents(rows pgx.Rows) ([]domain.AuditEvent, error) {
	var events []domain.AuditEvent
	for rows.Next() {
		var (
			event      domain.AuditEvent
			userID     sql.NullString
			detailJSON []byte
		)
		if err := rows.Scan(
			&event.ID,
			&userID,
			&event.Action,
			&event.Resource,
			&event.Status,
			&detailJSON,
			&event.IPAddress,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if userID.Valid {
			event.UserID = userID.String
		}
		if len(detailJSON) > 0 {
			if err := json.Unmarshal(detailJSON, &event.Detail); err != nil {
				return nil, err
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
