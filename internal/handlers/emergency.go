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

// EmergencyHandler handles emergency report HTTP requests
type EmergencyHandler struct {
	emergencyService *services.EmergencyService
}

// NewEmergencyHandler creates a new emergency handler
func NewEmergencyHandler(emergencyService *services.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{
		emergencyService: emergencyService,
	}
}

// Report handles POST /api/v1/rides/{rideID}/emergency
func (h *EmergencyHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	rideID := chi.URLParam(r, "rideID")

	var input services.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, err := h.emergencyService.Report(r.Context(), rideID, userID, input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("report_id", report.ID).
		Str("ride_id", rideID).
		Str("type", report.Type).
		Msg("Emergency reported")

	respondJSON(w, http.StatusCreated, report)
}

// ListOpenResponse is the open report list response body.
type ListOpenResponse struct {
	Reports []*models.EmergencyReport `json:"reports"`
	models.Pagination
}

// ListOpen handles GET /api/v1/emergencies
func (h *EmergencyHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
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

	reports, pagination, err := h.emergencyService.ListOpenReports(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if reports == nil {
		reports = []*models.EmergencyReport{}
	}
	respondJSON(w, http.StatusOK, ListOpenResponse{Reports: reports, Pagination: pagination})
}

// Resolve handles POST /api/v1/emergencies/{reportID}/resolve
func (h *EmergencyHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	report, err := h.emergencyService.ResolveReport(r.Context(), reportID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Info().Str("report_id", reportID).Msg("Emergency resolved")

	respondJSON(w, http.StatusOK, report)
}
