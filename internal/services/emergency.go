package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/google/uuid"
)

// EmergencyStore is the emergency-report persistence surface.
type EmergencyStore interface {
	Create(ctx context.Context, report *models.EmergencyReport) error
	GetByID(ctx context.Context, id string) (*models.EmergencyReport, error)
	ListOpen(ctx context.Context, limit, offset int) ([]*models.EmergencyReport, int, error)
	Resolve(ctx context.Context, id string) (bool, error)
}

// EmergencyService handles in-ride emergency reports
type EmergencyService struct {
	emergencyRepo EmergencyStore
	rideRepo      RideReader
}

// NewEmergencyService creates a new emergency service
func NewEmergencyService(emergencyRepo EmergencyStore, rideRepo RideReader) *EmergencyService {
	return &EmergencyService{
		emergencyRepo: emergencyRepo,
		rideRepo:      rideRepo,
	}
}

// ReportInput carries an emergency report request.
type ReportInput struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

// Report creates an OPEN emergency report for a ride the reporter is part of
func (s *EmergencyService) Report(ctx context.Context, rideID, reporterID string, input ReportInput) (*models.EmergencyReport, error) {
	if strings.TrimSpace(input.Type) == "" {
		return nil, apperrors.Validation("type", "report type is required")
	}
	if input.Lat == nil || input.Lng == nil {
		return nil, apperrors.Validation("location", "coordinates are required")
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(reporterID) {
		return nil, apperrors.NotFound("ride")
	}

	report := &models.EmergencyReport{
		ID:          uuid.New().String(),
		RideID:      rideID,
		ReporterID:  reporterID,
		Type:        input.Type,
		Description: input.Description,
		Lat:         *input.Lat,
		Lng:         *input.Lng,
		Status:      models.EmergencyOpen,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.emergencyRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to create emergency report: %w", err)
	}
	return report, nil
}

// GetReport retrieves a single report
func (s *EmergencyService) GetReport(ctx context.Context, id string) (*models.EmergencyReport, error) {
	return s.emergencyRepo.GetByID(ctx, id)
}

// ListOpenReports retrieves OPEN reports, newest first
func (s *EmergencyService) ListOpenReports(ctx context.Context, limit, offset int) ([]*models.EmergencyReport, models.Pagination, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	reports, total, err := s.emergencyRepo.ListOpen(ctx, limit, offset)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list emergency reports: %w", err)
	}
	return reports, models.NewPagination(total, limit, offset), nil
}

// ResolveReport moves an OPEN report to RESOLVED; the resolution timestamp
// is set exactly once.
func (s *EmergencyService) ResolveReport(ctx context.Context, id string) (*models.EmergencyReport, error) {
	report, err := s.emergencyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status == models.EmergencyResolved {
		return nil, apperrors.Conflict("report is already resolved")
	}

	resolved, err := s.emergencyRepo.Resolve(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve emergency report: %w", err)
	}
	if !resolved {
		return nil, apperrors.Conflict("report is already resolved")
	}

	return s.emergencyRepo.GetByID(ctx, id)
}
