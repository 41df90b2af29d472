package auth

import (
	"crypto/rand"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nichelabs/nichenav/internal/database"
	"github.com/nichelabs/nichenav/pkg/models"
)

const minPasswordLength = 8

// Manager handles registration, login, and token validation backed by
// the profiles table.
type Manager struct {
	db        *database.Database
	jwtSecret string
	tokenTTL  time.Duration
}

// NewManager creates a new auth manager
func NewManager(db *database.Database, jwtSecret string, tokenTTL time.Duration) *Manager {
	if jwtSecret == "" {
		// Generate a random JWT secret if not provided
		jwtSecret = generateRandomSecret(32)
		log.Printf("Generated random JWT secret for session (not persistent)")
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	return &Manager{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account on the free plan and logs it in
func (m *Manager) Register(req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email address")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	profile := &models.Profile{
		ID:                 uuid.New().String(),
		Email:              email,
		Username:           username,
		SubscriptionStatus: models.PlanFree,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := m.db.CreateProfile(profile, string(passwordHash)); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	log.Printf("Registered user %s", username)
	return m.loginResponse(profile)
}

// Login authenticates by email and password and returns a token
func (m *Manager) Login(req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	profile, passwordHash, err := m.db.GetProfileByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	return m.loginResponse(profile)
}

func (m *Manager) loginResponse(profile *models.Profile) (*LoginResponse, error) {
	token, err := m.GenerateToken(profile)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(m.tokenTTL.Seconds()),
		User:      *profile,
	}, nil
}

// GenerateToken creates a JWT token for a user
func (m *Manager) GenerateToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   profile.ID,
		Email:    profile.Email,
		Username: profile.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "nichenav",
			Subject:   profile.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.jwtSecret))
}

// ValidateToken validates a JWT token and returns its claims
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}

// ChangePassword verifies the old password and stores a new hash
func (m *Manager) ChangePassword(userID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	passwordHash, err := m.db.GetPasswordHash(userID)
	if err != nil {
		return fmt.Errorf("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("incorrect password")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return m.db.UpdatePassword(userID, string(newHash))
}

// generateRandomSecret generates a random secret string
func generateRandomSecret(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return fmt.Sprintf("%x", bytes)
}
