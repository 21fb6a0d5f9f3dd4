package services

import (
	"context"
	"testing"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/google/uuid"
)

func TestRateRide(t *testing.T) {
	ride := rideInStatus("rider-1", "driver-1", models.RideCompleted)
	store := &fakeRatingStore{}
	svc := NewRatingService(store, newFakeRideStore(ride))

	rating, err := svc.RateRide(context.Background(), ride.ID, "rider-1", 5, "  smooth ride  ")
	if err != nil {
		t.Fatalf("RateRide: %v", err)
	}
	if rating.RatedID != "driver-1" {
		t.Errorf("rated = %q, want the counterpart driver-1", rating.RatedID)
	}
	if rating.Review == nil || *rating.Review != "smooth ride" {
		t.Error("review should be trimmed and kept")
	}

	// the driver rates back independently
	if _, err := svc.RateRide(context.Background(), ride.ID, "driver-1", 4, ""); err != nil {
		t.Fatalf("driver rating: %v", err)
	}

	// but each side rates at most once
	_, err = svc.RateRide(context.Background(), ride.ID, "rider-1", 3, "")
	if !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("duplicate rating: expected conflict, got %v", err)
	}
}

func TestRateRideGuards(t *testing.T) {
	t.Run("out of bounds", func(t *testing.T) {
		ride := rideInStatus("rider-1", "driver-1", models.RideCompleted)
		svc := NewRatingService(&fakeRatingStore{}, newFakeRideStore(ride))
		for _, score := range []int{0, 6, -1} {
			if _, err := svc.RateRide(context.Background(), ride.ID, "rider-1", score, ""); !apperrors.IsKind(err, apperrors.KindValidation) {
				t.Fatalf("score %d: expected validation error, got %v", score, err)
			}
		}
	})

	t.Run("not completed", func(t *testing.T) {
		for _, status := range []models.RideStatus{models.RideAccepted, models.RideInProgress, models.RideCancelled} {
			ride := rideInStatus("rider-1", "driver-1", status)
			svc := NewRatingService(&fakeRatingStore{}, newFakeRideStore(ride))
			if _, err := svc.RateRide(context.Background(), ride.ID, "rider-1", 5, ""); !apperrors.IsKind(err, apperrors.KindConflict) {
				t.Fatalf("%s: expected conflict, got %v", status, err)
			}
		}
	})

	t.Run("non-participant", func(t *testing.T) {
		ride := rideInStatus("rider-1", "driver-1", models.RideCompleted)
		svc := NewRatingService(&fakeRatingStore{}, newFakeRideStore(ride))
		if _, err := svc.RateRide(context.Background(), ride.ID, "stranger", 5, ""); !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestListRatings(t *testing.T) {
	store := &fakeRatingStore{}
	for i := 0; i < 12; i++ {
		store.Create(context.Background(), &models.RideRating{
			ID:      uuid.New().String(),
			RideID:  uuid.New().String(),
			RaterID: uuid.New().String(),
			RatedID: "driver-1",
			Rating:  5,
		})
	}
	svc := NewRatingService(store, newFakeRideStore())

	ratings, page, err := svc.ListRatings(context.Background(), "driver-1", 10, 0)
	if err != nil {
		t.Fatalf("ListRatings: %v", err)
	}
	if len(ratings) != 10 || page.Total != 12 || !page.HasMore {
		t.Errorf("first page: len=%d total=%d hasMore=%v, want 10/12/true", len(ratings), page.Total, page.HasMore)
	}

	ratings, page, err = svc.ListRatings(context.Background(), "driver-1", 10, 10)
	if err != nil {
		t.Fatalf("ListRatings: %v", err)
	}
	if len(ratings) != 2 || page.HasMore {
		t.Errorf("second page: len=%d hasMore=%v, want 2/false", len(ratings), page.HasMore)
	}
}
