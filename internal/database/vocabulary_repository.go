package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/kapp/pkg/models"
)

// VocabularyRepository handles database operations for glossary entries
type VocabularyRepository struct{}

// NewVocabularyRepository creates a new repository instance
func NewVocabularyRepository() *VocabularyRepository {
	return &VocabularyRepository{}
}

// List returns glossary entries, optionally filtered by category and
// difficulty. A zero difficulty or empty category means no filter.
func (r *VocabularyRepository) List(category string, difficulty int, limit int) ([]models.VocabularyItem, error) {
	query := "SELECT * FROM vocabulary_items"
	var conditions []string
	var args []interface{}

	if category != "" {
		args = append(args, category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if difficulty > 0 {
		args = append(args, difficulty)
		conditions = append(conditions, fmt.Sprintf("difficulty_level = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY difficulty_level ASC, category ASC, id ASC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var items []models.VocabularyItem
	if err := DB.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get vocabulary items: %v", err)
	}
	return items, nil
}

// GetByID returns a single glossary entry, or nil when it doesn't exist
func (r *VocabularyRepository) GetByID(id int64) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	err := DB.Get(&item, "SELECT * FROM vocabulary_items WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary item: %v", err)
	}
	return &item, nil
}

// GetByIDs returns glossary entries for the given ids, keyed by id
func (r *VocabularyRepository) GetByIDs(ids []int64) (map[int64]models.VocabularyItem, error) {
	result := make(map[int64]models.VocabularyItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In("SELECT * FROM vocabulary_items WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build vocabulary query: %v", err)
	}
	query = DB.Rebind(query)

	var items []models.VocabularyItem
	if err := DB.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get vocabulary items: %v", err)
	}
	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

// Categories returns the distinct non-empty categories in use
func (r *VocabularyRepository) Categories() ([]string, error) {
	var categories []string
	err := DB.Select(&categories, "SELECT DISTINCT category FROM vocabulary_items WHERE category != '' ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %v", err)
	}
	return categories, nil
}
