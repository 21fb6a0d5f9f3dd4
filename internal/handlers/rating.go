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

// RatingHandler handles ride rating HTTP requests
type RatingHandler struct {
	ratingService *services.RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// RateRideRequest is the rating request body.
type RateRideRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// RateRide handles POST /api/v1/rides/{rideID}/rating
func (h *RatingHandler) RateRide(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	var req RateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rating, err := h.ratingService.RateRide(r.Context(), rideID, userID, req.Rating, req.Review)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("ride_id", rideID).
		Str("rater_id", userID).
		Int("rating", req.Rating).
		Msg("Ride rated")

	respondJSON(w, http.StatusCreated, rating)
}

// ListRatingsResponse is the rating list response body.
type ListRatingsResponse struct {
	Ratings []*models.RideRating `json:"ratings"`
	models.Pagination
}

// ListRatings handles GET /api/v1/users/{userID}/ratings
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

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

	ratings, pagination, err := h.ratingService.ListRatings(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if ratings == nil {
		ratings = []*models.RideRating{}
	}
	respondJSON(w, http.StatusOK, ListRatingsResponse{Ratings: ratings, Pagination: pagination})
}
