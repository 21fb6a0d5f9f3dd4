package repository

import (
	"context"
	"fmt"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VehicleRepository handles database operations for driver vehicles
type VehicleRepository struct {
	db *pgxpool.Pool
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// Create inserts a new vehicle
func (r *VehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, driver_id, make, model, year, plate, color, type, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		vehicle.ID, vehicle.DriverID, vehicle.Make, vehicle.Model, vehicle.Year,
		vehicle.Plate, vehicle.Color, vehicle.Type, vehicle.Verified, vehicle.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetByDriverID retrieves the vehicle registered by a driver
func (r *VehicleRepository) GetByDriverID(ctx context.Context, driverID string) (*models.Vehicle, error) {
	query := `
		SELECT id, driver_id, make, model, year, plate, color, type, verified, created_at
		FROM vehicles
		WHERE driver_id = $1
	`
	var vehicle models.Vehicle
	err := r.db.QueryRow(ctx, query, driverID).Scan(
		&vehicle.ID, &vehicle.DriverID, &vehicle.Make, &vehicle.Model, &vehicle.Year,
		&vehicle.Plate, &vehicle.Color, &vehicle.Type, &vehicle.Verified, &vehicle.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("vehicle")
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &vehicle, nil
}

// DriverHasVehicle checks if a driver has already registered a vehicle
func (r *VehicleRepository) DriverHasVehicle(ctx context.Context, driverID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM vehicles WHERE driver_id = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, driverID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle existence: %w", err)
	}
	return exists, nil
}
