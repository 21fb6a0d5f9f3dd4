package services

import (
	"context"
	"sort"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"
)

// In-memory stands-ins for the pgx repositories, mirroring their
// conditional-update semantics.

type fakeRideStore struct {
	rides map[string]*models.Ride
}

func newFakeRideStore(rides ...*models.Ride) *fakeRideStore {
	s := &fakeRideStore{rides: make(map[string]*models.Ride)}
	for _, ride := range rides {
		copied := *ride
		s.rides[ride.ID] = &copied
	}
	return s
}

func (s *fakeRideStore) Create(_ context.Context, ride *models.Ride) error {
	copied := *ride
	s.rides[ride.ID] = &copied
	return nil
}

func (s *fakeRideStore) GetByID(_ context.Context, id string) (*models.Ride, error) {
	ride, ok := s.rides[id]
	if !ok {
		return nil, apperrors.NotFound("ride")
	}
	copied := *ride
	return &copied, nil
}

func (s *fakeRideStore) Accept(_ context.Context, rideID, driverID string, acceptedAt time.Time) (bool, error) {
	ride, ok := s.rides[rideID]
	if !ok || ride.Status != models.RidePending || ride.DriverID != nil {
		return false, nil
	}
	ride.DriverID = &driverID
	ride.Status = models.RideAccepted
	ride.AcceptedAt = &acceptedAt
	return true, nil
}

func (s *fakeRideStore) AdvanceStatus(_ context.Context, rideID string, prev, next models.RideStatus, at time.Time, actualPrice *float64) (bool, error) {
	ride, ok := s.rides[rideID]
	if !ok || ride.Status != prev {
		return false, nil
	}
	ride.Status = next
	switch next {
	case models.RideInProgress:
		ride.StartedAt = &at
	case models.RideCompleted:
		ride.CompletedAt = &at
		if actualPrice != nil {
			ride.ActualPrice = actualPrice
		}
	}
	return true, nil
}

func (s *fakeRideStore) Cancel(_ context.Context, rideID string, cancelledAt time.Time) (bool, error) {
	ride, ok := s.rides[rideID]
	if !ok || ride.Status.Terminal() {
		return false, nil
	}
	ride.Status = models.RideCancelled
	ride.CancelledAt = &cancelledAt
	return true, nil
}

func (s *fakeRideStore) ListByUser(_ context.Context, userID string, statusFilter *models.RideStatus, limit, offset int) ([]*models.Ride, int, error) {
	var matched []*models.Ride
	for _, ride := range s.rides {
		if !ride.IsParticipant(userID) {
			continue
		}
		if statusFilter != nil && ride.Status != *statusFilter {
			continue
		}
		copied := *ride
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].RequestedAt.After(matched[j].RequestedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *fakeRideStore) CountActiveForUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, ride := range s.rides {
		if ride.IsParticipant(userID) && !ride.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func (s *fakeRideStore) StatsForUser(_ context.Context, userID string) (*models.UserStats, error) {
	var stats models.UserStats
	for _, ride := range s.rides {
		if ride.Status != models.RideCompleted {
			continue
		}
		price := 0.0
		if ride.ActualPrice != nil {
			price = *ride.ActualPrice
		}
		if ride.RiderID == userID {
			stats.RidesAsRider++
			stats.TotalSpent += price
		}
		if ride.DriverID != nil && *ride.DriverID == userID {
			stats.RidesAsDriver++
			stats.TotalEarned += price
		}
	}
	return &stats, nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*models.User)}
	for _, user := range users {
		copied := *user
		s.users[user.ID] = &copied
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (s *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) UpdateProfile(_ context.Context, userID string, patch *models.ProfilePatch) error {
	user, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Gender != nil {
		user.Gender = *patch.Gender
	}
	if patch.DateOfBirth != nil {
		dob := *patch.DateOfBirth
		user.DateOfBirth = &dob
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}
	return nil
}

func (s *fakeUserStore) UpdatePreferences(_ context.Context, userID string, patch *models.PreferencesPatch) error {
	user, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	if patch.GenderPreference != nil {
		pref := *patch.GenderPreference
		user.GenderPreference = &pref
	}
	if patch.BiometricEnabled != nil {
		user.BiometricEnabled = *patch.BiometricEnabled
	}
	return nil
}

func (s *fakeUserStore) UpdateProfileImageURL(_ context.Context, userID, url string) error {
	user, ok := s.users[userID]
	if !ok {
		return apperrors.NotFound("user")
	}
	user.ProfileImageURL = &url
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, userID string) error {
	if _, ok := s.users[userID]; !ok {
		return apperrors.NotFound("user")
	}
	delete(s.users, userID)
	return nil
}

type fakeRatingStore struct {
	ratings []*models.RideRating
}

func (s *fakeRatingStore) Create(_ context.Context, rating *models.RideRating) error {
	copied := *rating
	s.ratings = append(s.ratings, &copied)
	return nil
}

func (s *fakeRatingStore) ExistsForRide(_ context.Context, rideID, raterID string) (bool, error) {
	for _, rating := range s.ratings {
		if rating.RideID == rideID && rating.RaterID == raterID {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeRatingStore) AggregateForUser(_ context.Context, userID string) (float64, int, error) {
	sum, count := 0, 0
	for _, rating := range s.ratings {
		if rating.RatedID == userID {
			sum += rating.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (s *fakeRatingStore) ListForUser(_ context.Context, userID string, limit, offset int) ([]*models.RideRating, int, error) {
	var matched []*models.RideRating
	for _, rating := range s.ratings {
		if rating.RatedID == userID {
			copied := *rating
			matched = append(matched, &copied)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

type fakeMessageStore struct {
	messages map[string]*models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[string]*models.Message)}
}

func (s *fakeMessageStore) Create(_ context.Context, msg *models.Message) error {
	copied := *msg
	s.messages[msg.ID] = &copied
	return nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id string) (*models.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, apperrors.NotFound("message")
	}
	copied := *msg
	return &copied, nil
}

func (s *fakeMessageStore) ListByRide(_ context.Context, rideID string) ([]*models.Message, error) {
	var matched []*models.Message
	for _, msg := range s.messages {
		if msg.RideID == rideID {
			copied := *msg
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

func (s *fakeMessageStore) MarkRead(_ context.Context, messageID string) (bool, error) {
	msg, ok := s.messages[messageID]
	if !ok || msg.Read {
		return false, nil
	}
	now := time.Now().UTC()
	msg.Read = true
	msg.ReadAt = &now
	return true, nil
}

type fakeEmergencyStore struct {
	reports map[string]*models.EmergencyReport
}

func newFakeEmergencyStore() *fakeEmergencyStore {
	return &fakeEmergencyStore{reports: make(map[string]*models.EmergencyReport)}
}

func (s *fakeEmergencyStore) Create(_ context.Context, report *models.EmergencyReport) error {
	copied := *report
	s.reports[report.ID] = &copied
	return nil
}

func (s *fakeEmergencyStore) GetByID(_ context.Context, id string) (*models.EmergencyReport, error) {
	report, ok := s.reports[id]
	if !ok {
		return nil, apperrors.NotFound("emergency report")
	}
	copied := *report
	return &copied, nil
}

func (s *fakeEmergencyStore) ListOpen(_ context.Context, limit, offset int) ([]*models.EmergencyReport, int, error) {
	var matched []*models.EmergencyReport
	for _, report := range s.reports {
		if report.Status == models.EmergencyOpen {
			copied := *report
			matched = append(matched, &copied)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *fakeEmergencyStore) Resolve(_ context.Context, id string) (bool, error) {
	report, ok := s.reports[id]
	if !ok || report.Status != models.EmergencyOpen {
		return false, nil
	}
	now := time.Now().UTC()
	report.Status = models.EmergencyResolved
	report.ResolvedAt = &now
	return true, nil
}

type fakeVehicleStore struct {
	vehicles map[string]*models.Vehicle
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: make(map[string]*models.Vehicle)}
}

func (s *fakeVehicleStore) Create(_ context.Context, vehicle *models.Vehicle) error {
	copied := *vehicle
	s.vehicles[vehicle.DriverID] = &copied
	return nil
}

func (s *fakeVehicleStore) GetByDriverID(_ context.Context, driverID string) (*models.Vehicle, error) {
	vehicle, ok := s.vehicles[driverID]
	if !ok {
		return nil, apperrors.NotFound("vehicle")
	}
	copied := *vehicle
	return &copied, nil
}

func (s *fakeVehicleStore) DriverHasVehicle(_ context.Context, driverID string) (bool, error) {
	_, ok := s.vehicles[driverID]
	return ok, nil
}

// recordingNotifier captures pushed events, serving both the ride and
// the message notifier surfaces.
type recordingNotifier struct {
	rideEvents []string
	rideUsers  []string
	messages   []*models.Message
	msgUsers   []string
}

func (n *recordingNotifier) RideEvent(userID string, _ *models.Ride, event string) {
	n.rideUsers = append(n.rideUsers, userID)
	n.rideEvents = append(n.rideEvents, event)
}

func (n *recordingNotifier) NewMessage(userID string, msg *models.Message) {
	n.msgUsers = append(n.msgUsers, userID)
	n.messages = append(n.messages, msg)
}

// small helpers shared by the service tests

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
