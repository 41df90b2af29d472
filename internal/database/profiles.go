package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nichelabs/nichenav/pkg/models"
)

// CreateProfile inserts a new user profile with its password hash
func (d *Database) CreateProfile(profile *models.Profile, passwordHash string) error {
	query := `
		INSERT INTO profiles (
			id, email, username, password_hash, subscription_status,
			stripe_customer_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(rebind(query),
		profile.ID,
		profile.Email,
		profile.Username,
		passwordHash,
		profile.SubscriptionStatus,
		nullString(profile.StripeCustomerID),
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by user ID
func (d *Database) GetProfile(userID string) (*models.Profile, error) {
	query := `
		SELECT id, email, username, subscription_status, stripe_customer_id,
			   created_at, updated_at
		FROM profiles
		WHERE id = ?
	`
	return d.scanProfile(d.db.QueryRow(rebind(query), userID))
}

// GetProfileByEmail retrieves a profile and its password hash by email
func (d *Database) GetProfileByEmail(email string) (*models.Profile, string, error) {
	query := `
		SELECT id, email, username, password_hash, subscription_status,
			   stripe_customer_id, created_at, updated_at
		FROM profiles
		WHERE email = ?
	`

	profile := &models.Profile{}
	var passwordHash string
	var customerID sql.NullString

	err := d.db.QueryRow(rebind(query), email).Scan(
		&profile.ID,
		&profile.Email,
		&profile.Username,
		&passwordHash,
		&profile.SubscriptionStatus,
		&customerID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("profile not found: %s", email)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get profile: %w", err)
	}

	profile.StripeCustomerID = customerID.String
	return profile, passwordHash, nil
}

// GetProfileByStripeCustomer retrieves a profile by its Stripe customer ID.
// Used by webhook handlers to map billing events back to a user.
func (d *Database) GetProfileByStripeCustomer(customerID string) (*models.Profile, error) {
	query := `
		SELECT id, email, username, subscription_status, stripe_customer_id,
			   created_at, updated_at
		FROM profiles
		WHERE stripe_customer_id = ?
	`
	return d.scanProfile(d.db.QueryRow(rebind(query), customerID))
}

// UpdateSubscriptionStatus sets a user's plan
func (d *Database) UpdateSubscriptionStatus(userID string, status models.SubscriptionStatus) error {
	query := `UPDATE profiles SET subscription_status = ?, updated_at = ? WHERE id = ?`

	result, err := d.db.Exec(rebind(query), status, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	return requireRowAffected(result, "profile", userID)
}

// SetStripeCustomerID records the Stripe customer created for a user
func (d *Database) SetStripeCustomerID(userID, customerID string) error {
	query := `UPDATE profiles SET stripe_customer_id = ?, updated_at = ? WHERE id = ?`

	result, err := d.db.Exec(rebind(query), customerID, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set stripe customer: %w", err)
	}
	return requireRowAffected(result, "profile", userID)
}

// UpdatePassword replaces a user's password hash
func (d *Database) UpdatePassword(userID, passwordHash string) error {
	query := `UPDATE profiles SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := d.db.Exec(rebind(query), passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowAffected(result, "profile", userID)
}

// GetPasswordHash retrieves a user's password hash by ID
func (d *Database) GetPasswordHash(userID string) (string, error) {
	query := `SELECT password_hash FROM profiles WHERE id = ?`

	var hash string
	err := d.db.QueryRow(rebind(query), userID).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("profile not found: %s", userID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get password hash: %w", err)
	}
	return hash, nil
}

// DeleteProfile removes a user; ideas and their children cascade
func (d *Database) DeleteProfile(userID string) error {
	result, err := d.db.Exec(rebind(`DELETE FROM profiles WHERE id = ?`), userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return requireRowAffected(result, "profile", userID)
}

func (d *Database) scanProfile(row *sql.Row) (*models.Profile, error) {
	profile := &models.Profile{}
	var customerID sql.NullString

	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.Username,
		&profile.SubscriptionStatus,
		&customerID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.StripeCustomerID = customerID.String
	return profile, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRowAffected(result sql.Result, entity, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
