package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
	jwtExpDays        = 365
)

var (
	// ErrUnknownUser is returned when login names a user that does not exist.
	ErrUnknownUser = errors.New("unknown user")
	// ErrAuthentication is returned when the password does not match.
	ErrAuthentication = errors.New("password does not match")
	// ErrInvalidUsername is returned when a registration username is too
	// short or contains whitespace.
	ErrInvalidUsername = errors.New("invalid username")
	// ErrWeakPassword is returned when a registration password fails the
	// complexity rules.
	ErrWeakPassword = errors.New("password too weak")
)

// AuthService handles registration, login and token issuance.
type AuthService struct {
	repo      repository.Repository
	jwtSecret string
}

// NewAuthService creates a new auth service.
func NewAuthService(repo repository.Repository, jwtSecret string) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// RegisterPetUser registers a pet account with a hashed password.
func (s *AuthService) RegisterPetUser(ctx context.Context, username, email, password string, animal models.AnimalType) (*models.User, error) {
	hash, err := s.validateCredentials(username, password)
	if err != nil {
		return nil, err
	}
	user := models.NewPetUser(0, username, email, hash, animal, time.Now().UTC())
	if err := s.repo.AddPetUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterHumanUser registers a human account with a hashed password.
func (s *AuthService) RegisterHumanUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := s.validateCredentials(username, password)
	if err != nil {
		return nil, err
	}
	user := models.NewHumanUser(0, username, email, hash, time.Now().UTC())
	if err := s.repo.AddHumanUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterTempUser registers a provisional account that can later be
// converted into a pet or human one.
func (s *AuthService) RegisterTempUser(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := s.validateCredentials(username, password)
	if err != nil {
		return nil, err
	}
	user := models.NewTempUser(0, username, email, hash, time.Now().UTC())
	if err := s.repo.AddTempUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and returns the user plus a signed token.
// An unknown username and a wrong password fail with distinct errors.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repo.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUnknownUser
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrAuthentication
	}
	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword re-hashes and stores a new password for the user.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, password string) error {
	if !passwordValid(password) {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.repo.UpdateUser(ctx, user)
}

func (s *AuthService) validateCredentials(username, password string) (string, error) {
	if len(username) < minUsernameLength || strings.ContainsFunc(username, unicode.IsSpace) {
		return "", ErrInvalidUsername
	}
	if !passwordValid(password) {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// passwordValid requires a minimum length plus at least one upper case
// letter, one lower case letter and one digit.
func passwordValid(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// GenerateJWT generates a signed token for a user.
func (s *AuthService) GenerateJWT(userID int64) (string, error) {
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

// ValidateJWT validates a token and returns the user ID it carries.
func (s *AuthService) ValidateJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	// Numeric claims come back as float64 from the JSON decoder.
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in token")
	}

	return int64(userID), nil
}
