package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"medai-lite/internal/domain"
)

// ErrNotFound se devuelve cuando un registro no existe.
var ErrNotFound = errors.New("record not found")

// AssessmentRepository define el contrato de persistencia para evaluaciones.
type AssessmentRepository interface {
	Save(ctx context.Context, record domain.AssessmentRecord) error
	GetByID(ctx context.Context, id string) (domain.AssessmentRecord, error)
	History(ctx context.Context, userID string, limit int) ([]domain.AssessmentRecord, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, userID string) (domain.AssessmentStats, error)
	FindSimilar(ctx context.Context, id string, features pgvector.Vector, k int) ([]domain.AssessmentRecord, error)
}

// PgAssessmentRepository implementa AssessmentRepository usando pgxpool.
type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Save(ctx context.Context, record domain.AssessmentRecord) error {
	profileJSON, err := json.Marshal(record.Profile)
	if err != nil {
		return err
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return err
	}

	var userID any
	if record.UserID != "" {
		userID = record.UserID
	}

	const query = `
		INSERT INTO assessments (id, user_id, profile, result, bmi, overall_score, risk_level, features, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		record.ID,
		userID,
		profileJSON,
		resultJSON,
		record.Result.AgentAssessments["metabolic"].BMI,
		record.Result.OverallHealthIndex,
		string(record.Result.OverallRiskLevel),
		record.Profile.FeatureVector(),
		record.CreatedAt,
	)
	return err
}

const assessmentColumns = `id, user_id, profile, result, created_at`

func (r *PgAssessmentRepository) GetByID(ctx context.Context, id string) (domain.AssessmentRecord, error) {
	const query = `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE id = $1
	`
	record, err := scanAssessment(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AssessmentRecord{}, ErrNotFound
	}
	return record, err
}

func (r *PgAssessmentRepository) History(ctx context.Context, userID string, limit int) ([]domain.AssessmentRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	const queryAll = `
		SELECT ` + assessmentColumns + `
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1
	`
	const queryByUser = `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var (
		rows pgx.Rows
		err  error
	)
	if userID == "" {
		rows, err = r.pool.Query(ctx, queryAll, limit)
	} else {
		rows, err = r.pool.Query(ctx, queryByUser, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssessments(rows)
}

func (r *PgAssessmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM assessments WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgAssessmentRepository) Stats(ctx context.Context, userID string) (domain.AssessmentStats, error) {
	const queryAll = `
		SELECT COUNT(*),
		       COALESCE(AVG(overall_score), 0),
		       COALESCE(AVG(bmi), 0),
		       COUNT(*) FILTER (WHERE risk_level = 'Low'),
		       COUNT(*) FILTER (WHERE risk_level = 'Moderate'),
		       COUNT(*) FILTER (WHERE risk_level = 'High')
		FROM assessments
	`
	const queryByUser = queryAll + ` WHERE user_id = $1`

	var row pgx.Row
	if userID == "" {
		row = r.pool.QueryRow(ctx, queryAll)
	} else {
		row = r.pool.QueryRow(ctx, queryByUser, userID)
	}

	var stats domain.AssessmentStats
	err := row.Scan(
		&stats.TotalAssessments,
		&stats.AvgRiskScore,
		&stats.AvgBMI,
		&stats.LowRiskCount,
		&stats.ModerateRiskCount,
		&stats.HighRiskCount,
	)
	return stats, err
}

func (r *PgAssessmentRepository) FindSimilar(ctx context.Context, id string, features pgvector.Vector, k int) ([]domain.AssessmentRecord, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE id <> $1
		ORDER BY features <=> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, id, features, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssessments(rows)
}

func scanAssessment(row pgx.Row) (domain.AssessmentRecord, error) {
	var (
		record      domain.AssessmentRecord
		userID      sql.NullString
		profileJSON []byte
		resultJSON  []byte
	)
	if err := row.Scan(&record.ID, &userID, &profileJSON, &resultJSON, &record.CreatedAt); err != nil {
		return domain.AssessmentRecord{}, err
	}
	if userID.Valid {
		record.UserID = userID.String
	}
	if err := json.Unmarshal(profileJSON, &record.Profile); err != nil {
		return domain.AssessmentRecord{}, err
	}
	if err := json.Unmarshal(resultJSON, &record.Result); err != nil {
		return domain.AssessmentRecord{}, err
	}
	return record, nil
}

func scanAssessments(rows pgx.Rows) ([]domain.AssessmentRecord, error) {
	var records []domain.AssessmentRecord
	for rows.Next() {
		record, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
