package database

import (
	"fmt"
	"time"

	"github.com/nichelabs/nichenav/pkg/models"
)

// AddValidationSignal records a new piece of validation evidence against
// an idea. Signals are append-only; there is no update or delete.
func (d *Database) AddValidationSignal(signal *models.ValidationSignal) error {
	resultJSON, err := models.EncodeSignalResult(signal.Result)
	if err != nil {
		return fmt.Errorf("failed to encode signal result: %w", err)
	}

	if signal.ID == "" {
		signal.ID = newID()
	}
	if signal.CreatedAt.IsZero() {
		signal.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO validation_signals (id, idea_id, kind, result_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err = d.db.Exec(rebind(query),
		signal.ID,
		signal.IdeaID,
		signal.Kind,
		string(resultJSON),
		signal.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add validation signal: %w", err)
	}
	return nil
}

// ListValidationSignals returns an idea's signals in recording order
func (d *Database) ListValidationSignals(ideaID string) ([]models.ValidationSignal, error) {
	query := `
		SELECT id, idea_id, kind, result_json, created_at
		FROM validation_signals
		WHERE idea_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := d.db.Query(rebind(query), ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation signals: %w", err)
	}
	defer rows.Close()

	var signals []models.ValidationSignal
	for rows.Next() {
		var signal models.ValidationSignal
		var resultJSON string

		err := rows.Scan(
			&signal.ID,
			&signal.IdeaID,
			&signal.Kind,
			&resultJSON,
			&signal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan validation signal: %w", err)
		}

		result, err := models.DecodeSignalResult(signal.Kind, []byte(resultJSON))
		if err != nil {
			return nil, fmt.Errorf("failed to decode signal result: %w", err)
		}
		signal.Result = result

		signals = append(signals, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate validation signals: %w", err)
	}
	return signals, nil
}

// CountValidationSignals returns how many signals a user has recorded
// across all their ideas. Consulted by the subscription gate.
func (d *Database) CountValidationSignals(userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM validation_signals s
		JOIN ideas i ON i.id = s.idea_id
		WHERE i.user_id = ?
	`

	var count int
	if err := d.db.QueryRow(rebind(query), userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count validation signals: %w", err)
	}
	return count, nil
}
