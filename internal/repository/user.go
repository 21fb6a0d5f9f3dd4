package repository

import (
	"context"
	"fmt"
	"strings"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, name, phone, gender, date_of_birth,
		address, profile_image_url, role, gender_preference, biometric_enabled,
		created_at, updated_at`

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Phone,
		&user.Gender, &user.DateOfBirth, &user.Address, &user.ProfileImageURL,
		&user.Role, &user.GenderPreference, &user.BiometricEnabled,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound("user")
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, phone, gender,
			date_of_birth, address, role, biometric_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Phone, user.Gender,
		user.DateOfBirth, user.Address, user.Role, user.BiometricEnabled,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateProfile applies only the fields present in the patch. Absent
// fields keep their stored values.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, patch *models.ProfilePatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{userID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

// UpdatePreferences applies only the preference fields present in the patch.
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID string, patch *models.PreferencesPatch) error {
	sets := []string{"updated_at = now()"}
	args := []any{userID}

	if patch.GenderPreference != nil {
		args = append(args, *patch.GenderPreference)
		sets = append(sets, fmt.Sprintf("gender_preference = $%d", len(args)))
	}
	if patch.BiometricEnabled != nil {
		args = append(args, *patch.BiometricEnabled)
		sets = append(sets, fmt.Sprintf("biometric_enabled = $%d", len(args)))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

// UpdateProfileImageURL stores the S3 object URL for the user's profile image
func (r *UserRepository) UpdateProfileImageURL(ctx context.Context, userID, url string) error {
	query := `UPDATE users SET profile_image_url = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.Exec(ctx, query, url, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile image url: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}

// Delete removes the user row. Dependent rows (rides, ratings, messages,
// emergency reports, vehicle) are removed by the ON DELETE CASCADE
// constraints declared in migrations/schema.sql.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("user")
	}
	return nil
}
