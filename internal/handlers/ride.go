package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ridesafe-backend/internal/middleware"
	"ridesafe-backend/internal/models"
	"ridesafe-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RideHandler handles ride lifecycle HTTP requests
type RideHandler struct {
	rideService *services.RideService
}

// NewRideHandler creates a new ride handler
func NewRideHandler(rideService *services.RideService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
	}
}

// RequestRide handles POST /api/v1/rides
func (h *RideHandler) RequestRide(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input services.RequestRideInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ride, err := h.rideService.RequestRide(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("ride_id", ride.ID).
		Str("rider_id", userID).
		Msg("Ride requested")

	respondJSON(w, http.StatusCreated, ride)
}

// AcceptRide handles POST /api/v1/rides/{rideID}/accept
func (h *RideHandler) AcceptRide(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	ride, err := h.rideService.AcceptRide(r.Context(), rideID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("ride_id", rideID).
		Str("driver_id", userID).
		Msg("Ride accepted")

	respondJSON(w, http.StatusOK, ride)
}

// AdvanceRideRequest is the status-advance request body.
type AdvanceRideRequest struct {
	Status      string   `json:"status"`
	ActualPrice *float64 `json:"actual_price,omitempty"`
}

// AdvanceRide handles POST /api/v1/rides/{rideID}/status
func (h *RideHandler) AdvanceRide(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	var req AdvanceRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ride, err := h.rideService.AdvanceRide(r.Context(), rideID, userID, req.Status, req.ActualPrice)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("ride_id", rideID).
		Str("status", string(ride.Status)).
		Msg("Ride status advanced")

	respondJSON(w, http.StatusOK, ride)
}

// CancelRide handles POST /api/v1/rides/{rideID}/cancel
func (h *RideHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	ride, err := h.rideService.CancelRide(r.Context(), rideID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("ride_id", rideID).
		Str("user_id", userID).
		Msg("Ride cancelled")

	respondJSON(w, http.StatusOK, ride)
}

// GetRide handles GET /api/v1/rides/{rideID}
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	ride, err := h.rideService.GetRide(r.Context(), rideID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ride)
}

// ListRidesResponse is the ride list response body.
type ListRidesResponse struct {
	Rides []*models.Ride `json:"rides"`
	models.Pagination
}

// ListRides handles GET /api/v1/rides
func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil {
			limit = parsedLimit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil {
			offset = parsedOffset
		}
	}

	rides, pagination, err := h.rideService.ListRides(r.Context(), userID, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if rides == nil {
		rides = []*models.Ride{}
	}
	respondJSON(w, http.StatusOK, ListRidesResponse{Rides: rides, Pagination: pagination})
}
