package services

import (
	"context"
	"fmt"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/google/uuid"
)

// RideStore is the ride persistence surface the service depends on.
type RideStore interface {
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id string) (*models.Ride, error)
	Accept(ctx context.Context, rideID, driverID string, acceptedAt time.Time) (bool, error)
	AdvanceStatus(ctx context.Context, rideID string, prev, next models.RideStatus, at time.Time, actualPrice *float64) (bool, error)
	Cancel(ctx context.Context, rideID string, cancelledAt time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string, statusFilter *models.RideStatus, limit, offset int) ([]*models.Ride, int, error)
	CountActiveForUser(ctx context.Context, userID string) (int, error)
}

// RideNotifier pushes ride events to connected counterparts. Delivery is
// best-effort and never fails the operation.
type RideNotifier interface {
	RideEvent(userID string, ride *models.Ride, event string)
}

// RideService handles the ride lifecycle business logic
type RideService struct {
	rideRepo RideStore
	notifier RideNotifier
}

// NewRideService creates a new ride service
func NewRideService(rideRepo RideStore, notifier RideNotifier) *RideService {
	return &RideService{
		rideRepo: rideRepo,
		notifier: notifier,
	}
}

// RequestRideInput carries a ride request. Coordinates are pointers so a
// missing coordinate is distinguishable from latitude/longitude zero.
type RequestRideInput struct {
	PickupAddress  string   `json:"pickup_address"`
	PickupLat      *float64 `json:"pickup_lat"`
	PickupLng      *float64 `json:"pickup_lng"`
	DropAddress    string   `json:"drop_address"`
	DropLat        *float64 `json:"drop_lat"`
	DropLng        *float64 `json:"drop_lng"`
	EstimatedPrice float64  `json:"estimated_price"`
	DistanceKM     float64  `json:"distance_km"`
	DurationMin    int      `json:"duration_min"`
}

// RequestRide creates a new ride in PENDING state
func (s *RideService) RequestRide(ctx context.Context, riderID string, input RequestRideInput) (*models.Ride, error) {
	switch {
	case input.PickupLat == nil || input.PickupLng == nil:
		return nil, apperrors.Validation("pickup", "pickup coordinates are required")
	case input.DropLat == nil || input.DropLng == nil:
		return nil, apperrors.Validation("drop", "drop coordinates are required")
	}

	now := time.Now().UTC()
	ride := &models.Ride{
		ID:             uuid.New().String(),
		RiderID:        riderID,
		PickupAddress:  input.PickupAddress,
		PickupLat:      *input.PickupLat,
		PickupLng:      *input.PickupLng,
		DropAddress:    input.DropAddress,
		DropLat:        *input.DropLat,
		DropLng:        *input.DropLng,
		EstimatedPrice: input.EstimatedPrice,
		DistanceKM:     input.DistanceKM,
		DurationMin:    input.DurationMin,
		Status:         models.RidePending,
		RequestedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to request ride: %w", err)
	}

	return ride, nil
}

// AcceptRide assigns a driver to a PENDING ride. The repository update is
// guarded by the prior status, so of two concurrent accepts exactly one
// wins and the other gets a conflict.
func (s *RideService) AcceptRide(ctx context.Context, rideID, driverID string) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.RiderID == driverID {
		return nil, apperrors.Conflict("cannot accept your own ride")
	}
	if ride.Status != models.RidePending || ride.DriverID != nil {
		return nil, apperrors.Conflict("ride is no longer available")
	}

	accepted, err := s.rideRepo.Accept(ctx, rideID, driverID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to accept ride: %w", err)
	}
	if !accepted {
		// lost the race to another driver
		return nil, apperrors.Conflict("ride is no longer available")
	}

	ride, err = s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	s.notify(ride.RiderID, ride, "ride_accepted")
	return ride, nil
}

// AdvanceRide moves the ride one step along the linear status order.
// Acceptance and cancellation have their own operations and are rejected
// here: acceptance assigns the driver, so letting it through this path
// would produce an ACCEPTED ride with no driver.
func (s *RideService) AdvanceRide(ctx context.Context, rideID, userID string, nextStatus string, actualPrice *float64) (*models.Ride, error) {
	next, err := models.ParseRideStatus(nextStatus)
	if err != nil {
		return nil, apperrors.Validation("status", "unknown ride status")
	}
	if next == models.RideAccepted {
		return nil, apperrors.Validation("status", "use the accept operation to assign a driver")
	}
	if next == models.RideCancelled {
		return nil, apperrors.Validation("status", "use the cancel operation to cancel a ride")
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(userID) {
		return nil, apperrors.NotFound("ride")
	}
	if !ride.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidTransition(ride.Status.String(), next.String())
	}

	advanced, err := s.rideRepo.AdvanceStatus(ctx, rideID, ride.Status, next, time.Now().UTC(), actualPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to advance ride: %w", err)
	}
	if !advanced {
		return nil, apperrors.Conflict("ride status changed concurrently")
	}

	ride, err = s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if counterpart := ride.CounterpartOf(userID); counterpart != "" {
		s.notify(counterpart, ride, "ride_status")
	}
	return ride, nil
}

// CancelRide cancels a non-terminal ride. Cancelling an already-cancelled
// ride is a no-op, not an error.
func (s *RideService) CancelRide(ctx context.Context, rideID, actorID string) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(actorID) {
		return nil, apperrors.NotFound("ride")
	}

	if ride.Status == models.RideCancelled {
		return ride, nil
	}
	if ride.Status == models.RideCompleted {
		return nil, apperrors.Conflict("cannot cancel a completed ride")
	}

	cancelled, err := s.rideRepo.Cancel(ctx, rideID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to cancel ride: %w", err)
	}

	ride, err = s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !cancelled && ride.Status != models.RideCancelled {
		// the guard matched nothing and the ride is not cancelled: it
		// completed concurrently
		return nil, apperrors.Conflict("cannot cancel a completed ride")
	}

	if counterpart := ride.CounterpartOf(actorID); counterpart != "" {
		s.notify(counterpart, ride, "ride_cancelled")
	}
	return ride, nil
}

// GetRide retrieves a single ride, restricted to its participants
func (s *RideService) GetRide(ctx context.Context, rideID, userID string) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(userID) {
		return nil, apperrors.NotFound("ride")
	}
	return ride, nil
}

// ListRides retrieves rides where the user is rider or driver, newest
// request first.
func (s *RideService) ListRides(ctx context.Context, userID, statusFilter string, limit, offset int) ([]*models.Ride, models.Pagination, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var filter *models.RideStatus
	if statusFilter != "" {
		status, err := models.ParseRideStatus(statusFilter)
		if err != nil {
			return nil, models.Pagination{}, apperrors.Validation("status", "unknown ride status")
		}
		filter = &status
	}

	rides, total, err := s.rideRepo.ListByUser(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list rides: %w", err)
	}

	return rides, models.NewPagination(total, limit, offset), nil
}

func (s *RideService) notify(userID string, ride *models.Ride, event string) {
	if s.notifier == nil {
		return
	}
	s.notifier.RideEvent(userID, ride, event)
}
