package handlers

import (
	"encoding/json"
	"net/http"

	"ridesafe-backend/internal/middleware"
	"ridesafe-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// VehicleHandler handles driver vehicle HTTP requests
type VehicleHandler struct {
	vehicleService *services.VehicleService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// RegisterVehicle handles POST /api/v1/vehicle
func (h *VehicleHandler) RegisterVehicle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input services.VehicleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	vehicle, err := h.vehicleService.RegisterVehicle(r.Context(), userID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("vehicle_id", vehicle.ID).
		Str("driver_id", userID).
		Msg("Vehicle registered")

	respondJSON(w, http.StatusCreated, vehicle)
}

// GetVehicle handles GET /api/v1/vehicle
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	vehicle, err := h.vehicleService.GetVehicle(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, vehicle)
}
