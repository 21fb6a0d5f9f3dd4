package models

import (
	"errors"
	"strings"
)

// RideStatus is a ride status as stored in the rides table.
type RideStatus string

const (
	RidePending    RideStatus = "PENDING"
	RideAccepted   RideStatus = "ACCEPTED"
	RideEnRoute    RideStatus = "EN_ROUTE"
	RidePickedUp   RideStatus = "PICKED_UP"
	RideInProgress RideStatus = "IN_PROGRESS"
	RideCompleted  RideStatus = "COMPLETED"
	RideCancelled  RideStatus = "CANCELLED"
)

var ErrInvalidRideStatus = errors.New("invalid ride status")

// ParseRideStatus normalizes (uppercases+trims) and validates a status string.
func ParseRideStatus(in string) (RideStatus, error) {
	status := RideStatus(strings.ToUpper(strings.TrimSpace(in)))
	if status.Valid() {
		return status, nil
	}
	return "", ErrInvalidRideStatus
}

// Valid reports whether status is one of the allowed ride status constants.
func (s RideStatus) Valid() bool {
	switch s {
	case RidePending, RideAccepted, RideEnRoute, RidePickedUp, RideInProgress, RideCompleted, RideCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s RideStatus) String() string {
	return string(s)
}

// CanTransitionTo specifies if the status can transition to the next status.
// The forward order is strictly linear; CANCELLED is reachable from any
// non-terminal status.
func (s RideStatus) CanTransitionTo(next RideStatus) bool {
	switch s {
	case RidePending:
		return next == RideAccepted || next == RideCancelled
	case RideAccepted:
		return next == RideEnRoute || next == RideCancelled
	case RideEnRoute:
		return next == RidePickedUp || next == RideCancelled
	case RidePickedUp:
		return next == RideInProgress || next == RideCancelled
	case RideInProgress:
		return next == RideCompleted || next == RideCancelled
	case RideCompleted, RideCancelled:
		return false
	default:
		return false
	}
}

// Terminal indicates if the status is a terminal state.
func (s RideStatus) Terminal() bool {
	return s == RideCompleted || s == RideCancelled
}
