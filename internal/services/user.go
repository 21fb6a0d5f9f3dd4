package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 30

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// UserStore is the user persistence surface the service depends on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, userID string, patch *models.ProfilePatch) error
	UpdatePreferences(ctx context.Context, userID string, patch *models.PreferencesPatch) error
	Delete(ctx context.Context, userID string) error
}

// RideGuard exposes the ride aggregates the profile service needs.
type RideGuard interface {
	CountActiveForUser(ctx context.Context, userID string) (int, error)
	StatsForUser(ctx context.Context, userID string) (*models.UserStats, error)
}

// RatingAggregator exposes the rating aggregates the profile service needs.
type RatingAggregator interface {
	AggregateForUser(ctx context.Context, userID string) (float64, int, error)
}

// UserService handles accounts, profiles, preferences and statistics
type UserService struct {
	userRepo   UserStore
	rideRepo   RideGuard
	ratingRepo RatingAggregator
	jwtSecret  string
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, rideRepo RideGuard, ratingRepo RatingAggregator, jwtSecret string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		rideRepo:   rideRepo,
		ratingRepo: ratingRepo,
		jwtSecret:  jwtSecret,
	}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// Register creates a new account and returns it with a signed token
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", apperrors.Validation("email", "a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, "", apperrors.Validation("password", "password must be at least 8 characters")
	}
	if len(strings.TrimSpace(input.Name)) < 2 {
		return nil, "", apperrors.Validation("name", "name must be at least 2 characters")
	}
	if input.Phone != "" && !phonePattern.MatchString(input.Phone) {
		return nil, "", apperrors.Validation("phone", "invalid phone format")
	}
	role := models.Role(strings.ToUpper(strings.TrimSpace(input.Role)))
	if !role.Valid() {
		return nil, "", apperrors.Validation("role", "role must be PASSENGER or DRIVER")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", apperrors.Conflict("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(input.Name),
		Phone:        input.Phone,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, "", apperrors.Validation("credentials", "invalid email or password")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.Validation("credentials", "invalid email or password")
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// Profile is a user with the derived rating fields.
type Profile struct {
	models.User
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// GetProfile returns profile fields plus the derived rating aggregates
func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.ratingRepo.AggregateForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating aggregates: %w", err)
	}

	return &Profile{
		User:          *user,
		AverageRating: RoundRating(avg),
		TotalRatings:  count,
	}, nil
}

// UpdateProfile applies only the fields present in the patch and returns
// the updated profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch *models.ProfilePatch) (*Profile, error) {
	if patch.Name != nil && len(strings.TrimSpace(*patch.Name)) < 2 {
		return nil, apperrors.Validation("name", "name must be at least 2 characters")
	}
	if patch.Phone != nil && !phonePattern.MatchString(*patch.Phone) {
		return nil, apperrors.Validation("phone", "invalid phone format")
	}

	if !patch.Empty() {
		if err := s.userRepo.UpdateProfile(ctx, userID, patch); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(ctx, userID)
}

// GetStats returns the derived per-user aggregates
func (s *UserService) GetStats(ctx context.Context, userID string) (*models.UserStats, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	stats, err := s.rideRepo.StatsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ride stats: %w", err)
	}

	avg, count, err := s.ratingRepo.AggregateForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating aggregates: %w", err)
	}
	stats.AverageRating = RoundRating(avg)
	stats.TotalRatings = count

	return stats, nil
}

// GetPreferences returns the user's matching preferences
func (s *UserService) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.Preferences{
		GenderPreference: user.GenderPreference,
		BiometricEnabled: user.BiometricEnabled,
	}, nil
}

// UpdatePreferences applies only the preference fields present in the patch
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, patch *models.PreferencesPatch) (*models.Preferences, error) {
	if !patch.Empty() {
		if err := s.userRepo.UpdatePreferences(ctx, userID, patch); err != nil {
			return nil, err
		}
	}
	return s.GetPreferences(ctx, userID)
}

// DeleteAccount removes the account. Deletion is blocked while the user
// holds any ride in a non-terminal status; dependent rows of a deletable
// user are removed by the store's declared cascade.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	active, err := s.rideRepo.CountActiveForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check active rides: %w", err)
	}
	if active > 0 {
		return apperrors.Conflict("account has active rides")
	}

	return s.userRepo.Delete(ctx, userID)
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
