package repository

import (
	"context"
	"fmt"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmergencyRepository handles database operations for emergency reports
type EmergencyRepository struct {
	db *pgxpool.Pool
}

// NewEmergencyRepository creates a new emergency repository
func NewEmergencyRepository(db *pgxpool.Pool) *EmergencyRepository {
	return &EmergencyRepository{db: db}
}

// Create inserts a new OPEN emergency report
func (r *EmergencyRepository) Create(ctx context.Context, report *models.EmergencyReport) error {
	query := `
		INSERT INTO emergency_reports (id, ride_id, reporter_id, type, description,
			lat, lng, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		report.ID, report.RideID, report.ReporterID, report.Type,
		report.Description, report.Lat, report.Lng, report.Status, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create emergency report: %w", err)
	}
	return nil
}

// GetByID retrieves an emergency report by ID
func (r *EmergencyRepository) GetByID(ctx context.Context, id string) (*models.EmergencyReport, error) {
	query := `
		SELECT id, ride_id, reporter_id, type, description, lat, lng, status, resolved_at, created_at
		FROM emergency_reports
		WHERE id = $1
	`
	var report models.EmergencyReport
	err := r.db.QueryRow(ctx, query, id).Scan(
		&report.ID, &report.RideID, &report.ReporterID, &report.Type,
		&report.Description, &report.Lat, &report.Lng, &report.Status,
		&report.ResolvedAt, &report.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("emergency report")
		}
		return nil, fmt.Errorf("failed to get emergency report: %w", err)
	}
	return &report, nil
}

// ListOpen retrieves OPEN reports, newest first, with the total count
func (r *EmergencyRepository) ListOpen(ctx context.Context, limit, offset int) ([]*models.EmergencyReport, int, error) {
	countQuery := `SELECT COUNT(*) FROM emergency_reports WHERE status = $1`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, models.EmergencyOpen).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count emergency reports: %w", err)
	}

	query := `
		SELECT id, ride_id, reporter_id, type, description, lat, lng, status, resolved_at, created_at
		FROM emergency_reports
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, models.EmergencyOpen, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list emergency reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.EmergencyReport
	for rows.Next() {
		var report models.EmergencyReport
		err := rows.Scan(
			&report.ID, &report.RideID, &report.ReporterID, &report.Type,
			&report.Description, &report.Lat, &report.Lng, &report.Status,
			&report.ResolvedAt, &report.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan emergency report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating emergency reports: %w", err)
	}

	return reports, total, nil
}

// Resolve moves an OPEN report to RESOLVED and stamps resolved_at once.
// The status guard makes resolving an already-resolved report match zero
// rows.
func (r *EmergencyRepository) Resolve(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE emergency_reports
		SET status = $1, resolved_at = now()
		WHERE id = $2 AND status = $3
	`
	result, err := r.db.Exec(ctx, query, models.EmergencyResolved, id, models.EmergencyOpen)
	if err != nil {
		return false, fmt.Errorf("failed to resolve emergency report: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
