package repository

import (
	"context"
	"fmt"

	"ridesafe-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RatingRepository handles database operations for ride ratings
type RatingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a new rating. Ratings are immutable once created.
func (r *RatingRepository) Create(ctx context.Context, rating *models.RideRating) error {
	query := `
		INSERT INTO ride_ratings (id, ride_id, rater_id, rated_id, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		rating.ID, rating.RideID, rating.RaterID, rating.RatedID,
		rating.Rating, rating.Review, rating.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// ExistsForRide checks if the rater has already rated this ride
func (r *RatingRepository) ExistsForRide(ctx context.Context, rideID, raterID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ride_ratings WHERE ride_id = $1 AND rater_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, rideID, raterID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check rating existence: %w", err)
	}
	return exists, nil
}

// AggregateForUser returns the mean rating and the count of ratings where
// the user is the rated party. Both are 0 when no ratings exist.
func (r *RatingRepository) AggregateForUser(ctx context.Context, userID string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ride_ratings
		WHERE rated_id = $1
	`
	var avg float64
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return avg, count, nil
}

// ListForUser retrieves ratings received by a user, newest first, with the
// total count for pagination.
func (r *RatingRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.RideRating, int, error) {
	countQuery := `SELECT COUNT(*) FROM ride_ratings WHERE rated_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ratings: %w", err)
	}

	query := `
		SELECT id, ride_id, rater_id, rated_id, rating, review, created_at
		FROM ride_ratings
		WHERE rated_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.RideRating
	for rows.Next() {
		var rating models.RideRating
		err := rows.Scan(
			&rating.ID, &rating.RideID, &rating.RaterID, &rating.RatedID,
			&rating.Rating, &rating.Review, &rating.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, &rating)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, total, nil
}
