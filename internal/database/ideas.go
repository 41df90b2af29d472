package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nichelabs/nichenav/pkg/models"
)

const ideaColumns = `id, user_id, name, description, problem_category,
	validation_stage, revenue_potential, target_users,
	monetization_json, acquisition_json, created_at, updated_at`

// CreateIdea inserts a new idea owned by a user
func (d *Database) CreateIdea(idea *models.Idea) error {
	monetizationJSON, acquisitionJSON, err := strategyJSON(idea)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ideas (
			id, user_id, name, description, problem_category,
			validation_stage, revenue_potential, target_users,
			monetization_json, acquisition_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = d.db.Exec(rebind(query),
		idea.ID,
		idea.UserID,
		idea.Name,
		idea.Description,
		idea.ProblemCategory,
		idea.ValidationStage,
		idea.RevenuePotential,
		idea.TargetUsers,
		monetizationJSON,
		acquisitionJSON,
		idea.CreatedAt,
		idea.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}
	return nil
}

// GetIdea retrieves one idea with its pain points and validation signals.
// The user ID scopes the lookup so users can only read their own ideas.
func (d *Database) GetIdea(ideaID, userID string) (*models.Idea, error) {
	query := fmt.Sprintf(`SELECT %s FROM ideas WHERE id = ? AND user_id = ?`, ideaColumns)

	idea, err := scanIdea(d.db.QueryRow(rebind(query), ideaID, userID))
	if err != nil {
		return nil, err
	}

	if err := d.loadIdeaChildren(idea); err != nil {
		return nil, err
	}
	return idea, nil
}

// ListIdeas returns all of a user's ideas, newest first, with children
func (d *Database) ListIdeas(userID string) ([]*models.Idea, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM ideas
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, ideaColumns)

	rows, err := d.db.Query(rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	ideas, err := collectIdeas(rows)
	if err != nil {
		return nil, err
	}

	for _, idea := range ideas {
		if err := d.loadIdeaChildren(idea); err != nil {
			return nil, err
		}
	}
	return ideas, nil
}

// ideaUpdateColumns whitelists the fields a caller may update
var ideaUpdateColumns = map[string]string{
	"name":              "name",
	"description":       "description",
	"problem_category":  "problem_category",
	"validation_stage":  "validation_stage",
	"revenue_potential": "revenue_potential",
	"target_users":      "target_users",
}

// UpdateIdea applies a partial update to an idea. Unknown fields are
// rejected. Concurrent updates are last-write-wins.
func (d *Database) UpdateIdea(ideaID, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+3)
	for field, value := range updates {
		column, ok := ideaUpdateColumns[field]
		if !ok {
			return fmt.Errorf("cannot update field: %s", field)
		}
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UTC(), ideaID, userID)

	query := fmt.Sprintf(`UPDATE ideas SET %s WHERE id = ? AND user_id = ?`,
		strings.Join(setClauses, ", "))

	result, err := d.db.Exec(rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}
	return requireRowAffected(result, "idea", ideaID)
}

// SetMonetizationStrategy stores a generated pricing plan on an idea
func (d *Database) SetMonetizationStrategy(ideaID, userID string, strategy *models.MonetizationStrategy) error {
	data, err := json.Marshal(strategy)
	if err != nil {
		return fmt.Errorf("failed to marshal monetization strategy: %w", err)
	}

	query := `UPDATE ideas SET monetization_json = ?, updated_at = ? WHERE id = ? AND user_id = ?`
	result, err := d.db.Exec(rebind(query), string(data), time.Now().UTC(), ideaID, userID)
	if err != nil {
		return fmt.Errorf("failed to store monetization strategy: %w", err)
	}
	return requireRowAffected(result, "idea", ideaID)
}

// SetAcquisitionStrategy stores a generated acquisition plan on an idea
func (d *Database) SetAcquisitionStrategy(ideaID, userID string, strategy *models.AcquisitionStrategy) error {
	data, err := json.Marshal(strategy)
	if err != nil {
		return fmt.Errorf("failed to marshal acquisition strategy: %w", err)
	}

	query := `UPDATE ideas SET acquisition_json = ?, updated_at = ? WHERE id = ? AND user_id = ?`
	result, err := d.db.Exec(rebind(query), string(data), time.Now().UTC(), ideaID, userID)
	if err != nil {
		return fmt.Errorf("failed to store acquisition strategy: %w", err)
	}
	return requireRowAffected(result, "idea", ideaID)
}

// DeleteIdea removes an idea; pain points and signals cascade
func (d *Database) DeleteIdea(ideaID, userID string) error {
	result, err := d.db.Exec(rebind(`DELETE FROM ideas WHERE id = ? AND user_id = ?`), ideaID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete idea: %w", err)
	}
	return requireRowAffected(result, "idea", ideaID)
}

// CountIdeas returns how many ideas a user currently has. Consulted by
// the subscription gate before create operations.
func (d *Database) CountIdeas(userID string) (int, error) {
	var count int
	err := d.db.QueryRow(rebind(`SELECT COUNT(*) FROM ideas WHERE user_id = ?`), userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ideas: %w", err)
	}
	return count, nil
}

// DuplicateIdea copies an idea under a "(Copy)" name with validation
// reset to the initial stage. Children are not copied.
func (d *Database) DuplicateIdea(ideaID, userID string) (*models.Idea, error) {
	original, err := d.GetIdea(ideaID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	duplicate := &models.Idea{
		ID:               newID(),
		UserID:           userID,
		Name:             original.Name + " (Copy)",
		Description:      original.Description,
		ProblemCategory:  original.ProblemCategory,
		ValidationStage:  models.StageInitial,
		RevenuePotential: original.RevenuePotential,
		TargetUsers:      original.TargetUsers,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := d.CreateIdea(duplicate); err != nil {
		return nil, err
	}
	return duplicate, nil
}

// SearchFilters narrows and orders an idea search
type SearchFilters struct {
	Category   string
	Stage      models.ValidationStage
	MinRevenue int
	MaxRevenue int
	SortBy     string
	SortOrder  string
}

// searchSortColumns whitelists sortable columns
var searchSortColumns = map[string]bool{
	"created_at":        true,
	"updated_at":        true,
	"name":              true,
	"revenue_potential": true,
	"target_users":      true,
}

// SearchIdeas finds a user's ideas matching a free-text term and filters
func (d *Database) SearchIdeas(userID, term string, filters SearchFilters) ([]*models.Idea, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{userID}

	if term != "" {
		where = append(where, "(name ILIKE ? OR description ILIKE ?)")
		pattern := "%" + term + "%"
		args = append(args, pattern, pattern)
	}
	if filters.Category != "" {
		where = append(where, "problem_category = ?")
		args = append(args, filters.Category)
	}
	if filters.Stage != "" {
		where = append(where, "validation_stage = ?")
		args = append(args, filters.Stage)
	}
	if filters.MinRevenue > 0 {
		where = append(where, "revenue_potential >= ?")
		args = append(args, filters.MinRevenue)
	}
	if filters.MaxRevenue > 0 {
		where = append(where, "revenue_potential <= ?")
		args = append(args, filters.MaxRevenue)
	}

	sortBy := filters.SortBy
	if !searchSortColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM ideas WHERE %s ORDER BY %s %s`,
		ideaColumns, strings.Join(where, " AND "), sortBy, order)

	rows, err := d.db.Query(rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search ideas: %w", err)
	}
	defer rows.Close()

	ideas, err := collectIdeas(rows)
	if err != nil {
		return nil, err
	}

	for _, idea := range ideas {
		if err := d.loadIdeaChildren(idea); err != nil {
			return nil, err
		}
	}
	return ideas, nil
}

// IdeaStatistics summarizes a user's portfolio by stage and category
func (d *Database) IdeaStatistics(userID string) (*models.IdeaStatistics, error) {
	ideas, err := d.ListIdeas(userID)
	if err != nil {
		return nil, err
	}

	stats := &models.IdeaStatistics{
		TotalIdeas: len(ideas),
		ByStage: map[string]int{
			string(models.StageInitial):   0,
			string(models.StageTesting):   0,
			string(models.StageValidated): 0,
			string(models.StageRejected):  0,
		},
		ByCategory: map[string]int{},
	}

	for _, idea := range ideas {
		stats.ByStage[string(idea.ValidationStage)]++
		stats.ByCategory[idea.ProblemCategory]++
		stats.TotalRevenuePotential += idea.RevenuePotential
		stats.TotalTargetUsers += idea.TargetUsers
		stats.ValidationSignals += len(idea.ValidationSignals)
	}
	if len(ideas) > 0 {
		stats.AverageRevenuePerIdea = float64(stats.TotalRevenuePotential) / float64(len(ideas))
	}

	return stats, nil
}

// loadIdeaChildren populates an idea's pain points and signals
func (d *Database) loadIdeaChildren(idea *models.Idea) error {
	painPoints, err := d.ListPainPoints(idea.ID)
	if err != nil {
		return err
	}
	idea.PainPoints = painPoints

	signals, err := d.ListValidationSignals(idea.ID)
	if err != nil {
		return err
	}
	idea.ValidationSignals = signals
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIdea(row rowScanner) (*models.Idea, error) {
	idea := &models.Idea{}
	var monetizationJSON, acquisitionJSON sql.NullString

	err := row.Scan(
		&idea.ID,
		&idea.UserID,
		&idea.Name,
		&idea.Description,
		&idea.ProblemCategory,
		&idea.ValidationStage,
		&idea.RevenuePotential,
		&idea.TargetUsers,
		&monetizationJSON,
		&acquisitionJSON,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("idea not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan idea: %w", err)
	}

	if monetizationJSON.Valid && monetizationJSON.String != "" {
		var strategy models.MonetizationStrategy
		if err := json.Unmarshal([]byte(monetizationJSON.String), &strategy); err != nil {
			return nil, fmt.Errorf("failed to unmarshal monetization strategy: %w", err)
		}
		idea.Monetization = &strategy
	}
	if acquisitionJSON.Valid && acquisitionJSON.String != "" {
		var strategy models.AcquisitionStrategy
		if err := json.Unmarshal([]byte(acquisitionJSON.String), &strategy); err != nil {
			return nil, fmt.Errorf("failed to unmarshal acquisition strategy: %w", err)
		}
		idea.Acquisition = &strategy
	}

	return idea, nil
}

func collectIdeas(rows *sql.Rows) ([]*models.Idea, error) {
	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}
	return ideas, nil
}

func strategyJSON(idea *models.Idea) (sql.NullString, sql.NullString, error) {
	var monetization, acquisition sql.NullString

	if idea.Monetization != nil {
		data, err := json.Marshal(idea.Monetization)
		if err != nil {
			return monetization, acquisition, fmt.Errorf("failed to marshal monetization strategy: %w", err)
		}
		monetization = sql.NullString{String: string(data), Valid: true}
	}
	if idea.Acquisition != nil {
		data, err := json.Marshal(idea.Acquisition)
		if err != nil {
			return monetization, acquisition, fmt.Errorf("failed to marshal acquisition strategy: %w", err)
		}
		acquisition = sql.NullString{String: string(data), Valid: true}
	}

	return monetization, acquisition, nil
}
