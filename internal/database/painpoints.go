package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nichelabs/nichenav/pkg/models"
)

// AddPainPoints appends pain points to an idea
func (d *Database) AddPainPoints(ideaID string, painPoints []models.PainPoint) error {
	if len(painPoints) == 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPainPoints(tx, ideaID, painPoints); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pain points: %w", err)
	}
	return nil
}

// ReplacePainPoints swaps an idea's pain point set atomically
func (d *Database) ReplacePainPoints(ideaID string, painPoints []models.PainPoint) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(rebind(`DELETE FROM pain_points WHERE idea_id = ?`), ideaID); err != nil {
		return fmt.Errorf("failed to clear pain points: %w", err)
	}

	if err := insertPainPoints(tx, ideaID, painPoints); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pain points: %w", err)
	}
	return nil
}

// ListPainPoints returns an idea's pain points, oldest first
func (d *Database) ListPainPoints(ideaID string) ([]models.PainPoint, error) {
	query := `
		SELECT id, idea_id, category, description, impact_score,
			   willingness_to_pay, frequency_score, created_at
		FROM pain_points
		WHERE idea_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := d.db.Query(rebind(query), ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pain points: %w", err)
	}
	defer rows.Close()

	var painPoints []models.PainPoint
	for rows.Next() {
		var p models.PainPoint
		err := rows.Scan(
			&p.ID,
			&p.IdeaID,
			&p.Category,
			&p.Description,
			&p.ImpactScore,
			&p.WillingnessToPay,
			&p.FrequencyScore,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pain point: %w", err)
		}
		painPoints = append(painPoints, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pain points: %w", err)
	}
	return painPoints, nil
}

func insertPainPoints(tx *sql.Tx, ideaID string, painPoints []models.PainPoint) error {
	query := rebind(`
		INSERT INTO pain_points (
			id, idea_id, category, description, impact_score,
			willingness_to_pay, frequency_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	now := time.Now().UTC()
	for _, p := range painPoints {
		id := p.ID
		if id == "" {
			id = newID()
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		_, err := tx.Exec(query,
			id,
			ideaID,
			p.Category,
			p.Description,
			p.ImpactScore,
			p.WillingnessToPay,
			p.FrequencyScore,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pain point: %w", err)
		}
	}
	return nil
}
