package models

import "time"

// Role distinguishes the two kinds of accounts.
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleDriver    Role = "DRIVER"
)

// Valid reports whether the role is a known one.
func (r Role) Valid() bool {
	return r == RolePassenger || r == RoleDriver
}

// User represents an account in the system
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Gender           string     `json:"gender,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Address          string     `json:"address,omitempty"`
	ProfileImageURL  *string    `json:"profile_image_url,omitempty"`
	Role             Role       `json:"role"`
	GenderPreference *string    `json:"gender_preference,omitempty"`
	BiometricEnabled bool       `json:"biometric_enabled"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Vehicle represents the single vehicle registered by a driver
type Vehicle struct {
	ID        string    `json:"id"`
	DriverID  string    `json:"driver_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	Plate     string    `json:"plate"`
	Color     string    `json:"color"`
	Type      string    `json:"type"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Ride represents a single passenger transport request tracked
// through a fixed status sequence.
type Ride struct {
	ID             string     `json:"id"`
	RiderID        string     `json:"rider_id"`
	DriverID       *string    `json:"driver_id,omitempty"` // nil until accepted
	PickupAddress  string     `json:"pickup_address"`
	PickupLat      float64    `json:"pickup_lat"`
	PickupLng      float64    `json:"pickup_lng"`
	DropAddress    string     `json:"drop_address"`
	DropLat        float64    `json:"drop_lat"`
	DropLng        float64    `json:"drop_lng"`
	EstimatedPrice float64    `json:"estimated_price"`
	ActualPrice    *float64   `json:"actual_price,omitempty"`
	DistanceKM     float64    `json:"distance_km"`
	DurationMin    int        `json:"duration_min"`
	Status         RideStatus `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CounterpartOf returns the other party of the ride, or "" when the
// given user is not a participant (or no driver is assigned yet).
func (r *Ride) CounterpartOf(userID string) string {
	switch {
	case r.RiderID == userID && r.DriverID != nil:
		return *r.DriverID
	case r.DriverID != nil && *r.DriverID == userID:
		return r.RiderID
	default:
		return ""
	}
}

// IsParticipant reports whether the user is the rider or the assigned driver.
func (r *Ride) IsParticipant(userID string) bool {
	return r.RiderID == userID || (r.DriverID != nil && *r.DriverID == userID)
}

// RideRating represents a post-ride rating of one party by the other
type RideRating struct {
	ID        string    `json:"id"`
	RideID    string    `json:"ride_id"`
	RaterID   string    `json:"rater_id"`
	RatedID   string    `json:"rated_id"`
	Rating    int       `json:"rating"`
	Review    *string   `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents an in-ride chat message between rider and driver
type Message struct {
	ID         string     `json:"id"`
	RideID     string     `json:"ride_id"`
	SenderID   string     `json:"sender_id"`
	ReceiverID string     `json:"receiver_id"`
	Content    string     `json:"content"`
	Type       string     `json:"type"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// EmergencyReport statuses.
const (
	EmergencyOpen     = "OPEN"
	EmergencyResolved = "RESOLVED"
)

// EmergencyReport represents an emergency raised during a ride
type EmergencyReport struct {
	ID          string     `json:"id"`
	RideID      string     `json:"ride_id"`
	ReporterID  string     `json:"reporter_id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Status      string     `json:"status"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
