package handlers

import (
	"encoding/json"
	"net/http"

	"ridesafe-backend/internal/middleware"
	"ridesafe-backend/internal/models"
	"ridesafe-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles profile, preferences, statistics and account requests
type UserHandler struct {
	userService  *services.UserService
	imageService *services.ImageService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, imageService *services.ImageService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		imageService: imageService,
	}
}

// GetProfile handles GET /api/v1/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var patch models.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.userService.UpdateProfile(r.Context(), userID, &patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// GetPreferences handles GET /api/v1/preferences
func (h *UserHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	prefs, err := h.userService.GetPreferences(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /api/v1/preferences
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var patch models.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	prefs, err := h.userService.UpdatePreferences(r.Context(), userID, &patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// GetStats handles GET /api/v1/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.userService.GetStats(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// DeleteAccount handles DELETE /api/v1/account
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.userService.DeleteAccount(r.Context(), userID); err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Account deleted")

	w.WriteHeader(http.StatusNoContent)
}

// UploadImageRequest is the profile image upload request body.
type UploadImageRequest struct {
	ContentType string `json:"content_type"`
}

// UploadProfileImage handles POST /api/v1/profile/image
func (h *UserHandler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.imageService.ProfileImageUploadURL(r.Context(), userID, req.ContentType)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Profile image upload URL generated")

	respondJSON(w, http.StatusOK, response)
}
