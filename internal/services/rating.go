package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/google/uuid"
)

// RatingStore is the rating persistence surface the service depends on.
type RatingStore interface {
	Create(ctx context.Context, rating *models.RideRating) error
	ExistsForRide(ctx context.Context, rideID, raterID string) (bool, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.RideRating, int, error)
}

// RideReader looks up rides for cross-entity checks.
type RideReader interface {
	GetByID(ctx context.Context, id string) (*models.Ride, error)
}

// RatingService handles post-ride ratings
type RatingService struct {
	ratingRepo RatingStore
	rideRepo   RideReader
}

// NewRatingService creates a new rating service
func NewRatingService(ratingRepo RatingStore, rideRepo RideReader) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		rideRepo:   rideRepo,
	}
}

// RateRide creates a rating of the ride's counterpart by the rater. One
// rating per completed ride per direction; ratings are immutable.
func (s *RatingService) RateRide(ctx context.Context, rideID, raterID string, rating int, review string) (*models.RideRating, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating", "rating must be between 1 and 5")
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(raterID) {
		return nil, apperrors.NotFound("ride")
	}
	if ride.Status != models.RideCompleted {
		return nil, apperrors.Conflict("only completed rides can be rated")
	}

	ratedID := ride.CounterpartOf(raterID)
	if ratedID == "" {
		return nil, apperrors.Conflict("ride has no counterpart to rate")
	}

	exists, err := s.ratingRepo.ExistsForRide(ctx, rideID, raterID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing rating: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("ride has already been rated")
	}

	entry := &models.RideRating{
		ID:        uuid.New().String(),
		RideID:    rideID,
		RaterID:   raterID,
		RatedID:   ratedID,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	if text := strings.TrimSpace(review); text != "" {
		entry.Review = &text
	}

	if err := s.ratingRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return entry, nil
}

// ListRatings retrieves ratings received by a user, newest first
func (s *RatingService) ListRatings(ctx context.Context, userID string, limit, offset int) ([]*models.RideRating, models.Pagination, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	ratings, total, err := s.ratingRepo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, models.NewPagination(total, limit, offset), nil
}
