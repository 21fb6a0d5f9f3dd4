package services

import (
	"context"
	"testing"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"
)

func TestRegisterVehicle(t *testing.T) {
	driver := testUser(models.RoleDriver)
	store := newFakeVehicleStore()
	svc := NewVehicleService(store, newFakeUserStore(driver))

	input := VehicleInput{
		Make:  " Toyota ",
		Model: "Prius",
		Year:  2021,
		Plate: "ABC-1234",
		Color: "silver",
		Type:  "sedan",
	}
	vehicle, err := svc.RegisterVehicle(context.Background(), driver.ID, input)
	if err != nil {
		t.Fatalf("RegisterVehicle: %v", err)
	}
	if vehicle.Make != "Toyota" {
		t.Errorf("make = %q, want trimmed Toyota", vehicle.Make)
	}
	if vehicle.Verified {
		t.Error("new vehicle should start unverified")
	}

	got, err := svc.GetVehicle(context.Background(), driver.ID)
	if err != nil {
		t.Fatalf("GetVehicle: %v", err)
	}
	if got.ID != vehicle.ID {
		t.Error("GetVehicle should return the registered vehicle")
	}

	// one vehicle per driver
	if _, err := svc.RegisterVehicle(context.Background(), driver.ID, input); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("second vehicle: expected conflict, got %v", err)
	}
}

func TestRegisterVehicleGuards(t *testing.T) {
	passenger := testUser(models.RolePassenger)
	svc := NewVehicleService(newFakeVehicleStore(), newFakeUserStore(passenger))

	valid := VehicleInput{Make: "Toyota", Model: "Prius", Plate: "ABC-1234"}

	if _, err := svc.RegisterVehicle(context.Background(), passenger.ID, valid); !apperrors.IsKind(err, apperrors.KindConflict) {
		t.Fatalf("passenger: expected conflict, got %v", err)
	}

	missing := valid
	missing.Model = ""
	if _, err := svc.RegisterVehicle(context.Background(), passenger.ID, missing); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("missing model: expected validation error, got %v", err)
	}

	missing = valid
	missing.Plate = "  "
	if _, err := svc.RegisterVehicle(context.Background(), passenger.ID, missing); !apperrors.IsKind(err, apperrors.KindValidation) {
		t.Fatalf("missing plate: expected validation error, got %v", err)
	}
}

func TestGetVehicleNotFound(t *testing.T) {
	svc := NewVehicleService(newFakeVehicleStore(), newFakeUserStore())
	if _, err := svc.GetVehicle(context.Background(), "driver-1"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
