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

// VehicleStore is the vehicle persistence surface the service depends on.
type VehicleStore interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByDriverID(ctx context.Context, driverID string) (*models.Vehicle, error)
	DriverHasVehicle(ctx context.Context, driverID string) (bool, error)
}

// UserReader looks up users for role checks.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// VehicleService handles driver vehicle registration
type VehicleService struct {
	vehicleRepo VehicleStore
	userRepo    UserReader
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicleRepo VehicleStore, userRepo UserReader) *VehicleService {
	return &VehicleService{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
	}
}

// VehicleInput carries a vehicle registration request.
type VehicleInput struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Plate string `json:"plate"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

// RegisterVehicle registers the single vehicle of a driver
func (s *VehicleService) RegisterVehicle(ctx context.Context, driverID string, input VehicleInput) (*models.Vehicle, error) {
	if strings.TrimSpace(input.Make) == "" || strings.TrimSpace(input.Model) == "" {
		return nil, apperrors.Validation("vehicle", "make and model are required")
	}
	if strings.TrimSpace(input.Plate) == "" {
		return nil, apperrors.Validation("plate", "plate is required")
	}

	user, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleDriver {
		return nil, apperrors.Conflict("only drivers can register a vehicle")
	}

	exists, err := s.vehicleRepo.DriverHasVehicle(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check vehicle existence: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("driver already has a registered vehicle")
	}

	vehicle := &models.Vehicle{
		ID:        uuid.New().String(),
		DriverID:  driverID,
		Make:      strings.TrimSpace(input.Make),
		Model:     strings.TrimSpace(input.Model),
		Year:      input.Year,
		Plate:     strings.TrimSpace(input.Plate),
		Color:     input.Color,
		Type:      input.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to register vehicle: %w", err)
	}
	return vehicle, nil
}

// GetVehicle retrieves the driver's registered vehicle
func (s *VehicleService) GetVehicle(ctx context.Context, driverID string) (*models.Vehicle, error) {
	return s.vehicleRepo.GetByDriverID(ctx, driverID)
}
