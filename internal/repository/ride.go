package repository

import (
	"context"
	"fmt"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const rideColumns = `id, rider_id, driver_id, pickup_address, pickup_lat, pickup_lng,
		drop_address, drop_lat, drop_lng, estimated_price, actual_price,
		distance_km, duration_min, status, requested_at, accepted_at,
		started_at, completed_at, cancelled_at, created_at, updated_at`

// RideRepository handles database operations for rides
type RideRepository struct {
	db *pgxpool.Pool
}

// NewRideRepository creates a new ride repository
func NewRideRepository(db *pgxpool.Pool) *RideRepository {
	return &RideRepository{db: db}
}

func scanRide(row pgx.Row) (*models.Ride, error) {
	var ride models.Ride
	err := row.Scan(
		&ride.ID, &ride.RiderID, &ride.DriverID, &ride.PickupAddress,
		&ride.PickupLat, &ride.PickupLng, &ride.DropAddress, &ride.DropLat,
		&ride.DropLng, &ride.EstimatedPrice, &ride.ActualPrice,
		&ride.DistanceKM, &ride.DurationMin, &ride.Status, &ride.RequestedAt,
		&ride.AcceptedAt, &ride.StartedAt, &ride.CompletedAt, &ride.CancelledAt,
		&ride.CreatedAt, &ride.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("ride")
		}
		return nil, fmt.Errorf("failed to scan ride: %w", err)
	}
	return &ride, nil
}

// Create inserts a new PENDING ride
func (r *RideRepository) Create(ctx context.Context, ride *models.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, pickup_address, pickup_lat, pickup_lng,
			drop_address, drop_lat, drop_lng, estimated_price, distance_km,
			duration_min, status, requested_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.Exec(ctx, query,
		ride.ID, ride.RiderID, ride.PickupAddress, ride.PickupLat, ride.PickupLng,
		ride.DropAddress, ride.DropLat, ride.DropLng, ride.EstimatedPrice,
		ride.DistanceKM, ride.DurationMin, ride.Status, ride.RequestedAt,
		ride.CreatedAt, ride.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}
	return nil
}

// GetByID retrieves a ride by ID
func (r *RideRepository) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return scanRide(r.db.QueryRow(ctx, query, id))
}

// Accept assigns the driver and moves the ride PENDING -> ACCEPTED with a
// single conditional update. The status guard in the WHERE clause is the
// backstop against two drivers accepting the same ride: the second update
// matches zero rows.
func (r *RideRepository) Accept(ctx context.Context, rideID, driverID string, acceptedAt time.Time) (bool, error) {
	query := `
		UPDATE rides
		SET driver_id = $1, status = $2, accepted_at = $3, updated_at = now()
		WHERE id = $4 AND status = $5 AND driver_id IS NULL
	`
	result, err := r.db.Exec(ctx, query,
		driverID, models.RideAccepted, acceptedAt, rideID, models.RidePending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to accept ride: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AdvanceStatus moves the ride from prev to next, stamping the timeline
// column for next when it has one. The prev guard makes the update
// conditional, so a concurrent transition loses cleanly.
func (r *RideRepository) AdvanceStatus(ctx context.Context, rideID string, prev, next models.RideStatus, at time.Time, actualPrice *float64) (bool, error) {
	query := `UPDATE rides SET status = $1, updated_at = now()`
	args := []any{next}

	if column := timelineColumnFor(next); column != "" {
		args = append(args, at)
		query += fmt.Sprintf(", %s = $%d", column, len(args))
	}
	if next == models.RideCompleted && actualPrice != nil {
		args = append(args, *actualPrice)
		query += fmt.Sprintf(", actual_price = $%d", len(args))
	}

	args = append(args, rideID)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))
	args = append(args, prev)
	query += fmt.Sprintf(" AND status = $%d", len(args))

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to advance ride status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Cancel moves a non-terminal ride to CANCELLED. A false return means the
// ride was already terminal; the idempotent double-cancel case is resolved
// by the caller.
func (r *RideRepository) Cancel(ctx context.Context, rideID string, cancelledAt time.Time) (bool, error) {
	query := `
		UPDATE rides
		SET status = $1, cancelled_at = $2, updated_at = now()
		WHERE id = $3 AND status NOT IN ($4, $5)
	`
	result, err := r.db.Exec(ctx, query,
		models.RideCancelled, cancelledAt, rideID,
		models.RideCompleted, models.RideCancelled,
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel ride: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ListByUser retrieves rides where the user is rider or driver, newest
// request first, with the total count for pagination. statusFilter is
// optional.
func (r *RideRepository) ListByUser(ctx context.Context, userID string, statusFilter *models.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	where := `(rider_id = $1 OR driver_id = $1)`
	args := []any{userID}
	if statusFilter != nil {
		args = append(args, *statusFilter)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	countQuery := `SELECT COUNT(*) FROM rides WHERE ` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rides: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+rideColumns+` FROM rides WHERE `+where+`
		ORDER BY requested_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rides: %w", err)
	}
	defer rows.Close()

	var rides []*models.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, 0, err
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rides: %w", err)
	}

	return rides, total, nil
}

// CountActiveForUser counts non-terminal rides where the user is rider or
// driver. Used as the guard before account deletion.
func (r *RideRepository) CountActiveForUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM rides
		WHERE (rider_id = $1 OR driver_id = $1)
		  AND status NOT IN ($2, $3)
	`
	var count int
	err := r.db.QueryRow(ctx, query, userID, models.RideCompleted, models.RideCancelled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active rides: %w", err)
	}
	return count, nil
}

// StatsForUser aggregates COMPLETED-ride counts and actual-price sums for
// the user as rider and as driver. COALESCE keeps the sums at 0 when no
// rows match.
func (r *RideRepository) StatsForUser(ctx context.Context, userID string) (*models.UserStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE rider_id = $1),
			COUNT(*) FILTER (WHERE driver_id = $1),
			COALESCE(SUM(actual_price) FILTER (WHERE rider_id = $1), 0),
			COALESCE(SUM(actual_price) FILTER (WHERE driver_id = $1), 0)
		FROM rides
		WHERE status = $2 AND (rider_id = $1 OR driver_id = $1)
	`
	var stats models.UserStats
	err := r.db.QueryRow(ctx, query, userID, models.RideCompleted).Scan(
		&stats.RidesAsRider, &stats.RidesAsDriver,
		&stats.TotalSpent, &stats.TotalEarned,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ride stats: %w", err)
	}
	return &stats, nil
}

// timelineColumnFor maps a status to the timestamp column stamped on entry,
// or "" when the status has no dedicated column. Only the statuses reachable
// through AdvanceStatus appear here; accepted_at and cancelled_at are
// stamped by Accept and Cancel directly.
func timelineColumnFor(status models.RideStatus) string {
	switch status {
	case models.RideInProgress:
		return "started_at"
	case models.RideCompleted:
		return "completed_at"
	default:
		return ""
	}
}
