package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/kapp/pkg/models"
)

// SRSRepository handles scheduling state, review history and due selection
// for one item kind. Both kinds share this implementation; only the table
// names, the scope filter column and the ordering of never-reviewed items
// differ.
type SRSRepository struct {
	kind        models.ItemKind
	stateTable  string
	reviewTable string
	itemTable   string
	scopeColumn string
	newOrder    string
}

// NewVocabularySRSRepository returns the repository for vocabulary items.
// Scope filters select a glossary category; new items surface easiest first.
func NewVocabularySRSRepository() *SRSRepository {
	return &SRSRepository{
		kind:        models.ItemKindVocabulary,
		stateTable:  "vocabulary_srs",
		reviewTable: "vocabulary_reviews",
		itemTable:   "vocabulary_items",
		scopeColumn: "category",
		newOrder:    "i.difficulty_level ASC, i.category ASC, i.id ASC",
	}
}

// NewExerciseSRSRepository returns the repository for lesson exercises.
// Scope filters select a lesson; new items surface in lesson display order.
func NewExerciseSRSRepository() *SRSRepository {
	return &SRSRepository{
		kind:        models.ItemKindExercise,
		stateTable:  "exercise_srs",
		reviewTable: "exercise_reviews",
		itemTable:   "exercises",
		scopeColumn: "lesson_id",
		newOrder:    "i.lesson_id ASC, i.display_order ASC, i.id ASC",
	}
}

// Kind returns the item kind this repository serves
func (r *SRSRepository) Kind() models.ItemKind {
	return r.kind
}

// ItemExists reports whether the content row behind itemID exists
func (r *SRSRepository) ItemExists(itemID int64) (bool, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id = $1", r.itemTable)
	if err := DB.Get(&count, query, itemID); err != nil {
		return false, fmt.Errorf("failed to check item existence: %v", err)
	}
	return count > 0, nil
}

// GetState returns the progress row for (userID, itemID), or nil when the
// item has never been reviewed
func (r *SRSRepository) GetState(userID, itemID int64) (*models.ItemProgress, error) {
	var progress models.ItemProgress
	query := fmt.Sprintf("SELECT * FROM %s WHERE user_id = $1 AND item_id = $2", r.stateTable)
	err := DB.Get(&progress, query, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduling state: %v", err)
	}
	return &progress, nil
}

// ApplyReview runs one review transaction: it loads (or default-initializes)
// the progress row for (userID, itemID), hands it to apply, then persists
// the mutated row together with the history record apply returns. Everything
// happens in a single transaction; an error from apply rolls back with no
// state change.
func (r *SRSRepository) ApplyReview(userID, itemID int64, apply func(*models.ItemProgress) (*models.ReviewRecord, error)) (*models.ItemProgress, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("SELECT * FROM %s WHERE user_id = $1 AND item_id = $2", r.stateTable)
	if DB.DriverName() == "postgres" {
		// Lock the row so concurrent reviews of the same item serialize
		query += " FOR UPDATE"
	}

	var progress models.ItemProgress
	err = tx.Get(&progress, query, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		progress = models.ItemProgress{
			UserID:          userID,
			ItemID:          itemID,
			SchedulingState: models.NewSchedulingState(),
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get scheduling state: %v", err)
	}

	record, err := apply(&progress)
	if err != nil {
		return nil, err
	}

	if progress.ID == 0 {
		if err := r.insertState(tx, &progress); err != nil {
			return nil, err
		}
	} else {
		if err := r.updateState(tx, &progress); err != nil {
			return nil, err
		}
	}

	if record != nil {
		if err := r.insertRecord(tx, record); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit review: %v", err)
	}
	return &progress, nil
}

func (r *SRSRepository) insertState(tx *sqlx.Tx, progress *models.ItemProgress) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			user_id, item_id, review_interval, repetitions, ease_factor,
			next_review_date, last_reviewed_at, times_practiced, times_correct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.stateTable)

	if DB.DriverName() == "postgres" {
		return tx.QueryRow(
			query+" RETURNING id",
			progress.UserID,
			progress.ItemID,
			progress.Interval,
			progress.Repetitions,
			progress.EaseFactor,
			progress.NextReviewDate,
			progress.LastReviewedAt,
			progress.TimesPracticed,
			progress.TimesCorrect,
		).Scan(&progress.ID)
	}

	result, err := tx.Exec(
		query,
		progress.UserID,
		progress.ItemID,
		progress.Interval,
		progress.Repetitions,
		progress.EaseFactor,
		progress.NextReviewDate,
		progress.LastReviewedAt,
		progress.TimesPracticed,
		progress.TimesCorrect,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scheduling state: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted state id: %v", err)
	}
	progress.ID = id
	return nil
}

func (r *SRSRepository) updateState(tx *sqlx.Tx, progress *models.ItemProgress) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			review_interval = $1,
			repetitions = $2,
			ease_factor = $3,
			next_review_date = $4,
			last_reviewed_at = $5,
			times_practiced = $6,
			times_correct = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`, r.stateTable)

	_, err := tx.Exec(
		query,
		progress.Interval,
		progress.Repetitions,
		progress.EaseFactor,
		progress.NextReviewDate,
		progress.LastReviewedAt,
		progress.TimesPracticed,
		progress.TimesCorrect,
		progress.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scheduling state: %v", err)
	}
	return nil
}

func (r *SRSRepository) insertRecord(tx *sqlx.Tx, record *models.ReviewRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			user_id, item_id, quality, effective_quality, peeked,
			review_interval, ease_factor, repetitions, reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.reviewTable)

	if DB.DriverName() == "postgres" {
		return tx.QueryRow(
			query+" RETURNING id",
			record.UserID,
			record.ItemID,
			record.Quality,
			record.EffectiveQuality,
			record.Peeked,
			record.Interval,
			record.EaseFactor,
			record.Repetitions,
			record.ReviewedAt,
		).Scan(&record.ID)
	}

	result, err := tx.Exec(
		query,
		record.UserID,
		record.ItemID,
		record.Quality,
		record.EffectiveQuality,
		record.Peeked,
		record.Interval,
		record.EaseFactor,
		record.Repetitions,
		record.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert review record: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted record id: %v", err)
	}
	record.ID = id
	return nil
}

// DueStates returns up to limit states whose next review is at or before
// now, oldest due first. An empty scope means no content filter.
func (r *SRSRepository) DueStates(userID int64, now time.Time, limit int, scope string) ([]models.ItemProgress, error) {
	var query string
	var args []interface{}
	if scope == "" {
		query = fmt.Sprintf(`
			SELECT s.* FROM %s s
			WHERE s.user_id = $1 AND s.next_review_date IS NOT NULL AND s.next_review_date <= $2
			ORDER BY s.next_review_date ASC
			LIMIT $3
		`, r.stateTable)
		args = []interface{}{userID, now, limit}
	} else {
		query = fmt.Sprintf(`
			SELECT s.* FROM %s s
			JOIN %s i ON i.id = s.item_id
			WHERE s.user_id = $1 AND s.next_review_date IS NOT NULL AND s.next_review_date <= $2
				AND i.%s = $3
			ORDER BY s.next_review_date ASC
			LIMIT $4
		`, r.stateTable, r.itemTable, r.scopeColumn)
		args = []interface{}{userID, now, scope, limit}
	}

	var states []models.ItemProgress
	if err := DB.Select(&states, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get due states: %v", err)
	}
	return states, nil
}

// CountDue returns the uncapped number of due items in scope
func (r *SRSRepository) CountDue(userID int64, now time.Time, scope string) (int, error) {
	var query string
	var args []interface{}
	if scope == "" {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s s
			WHERE s.user_id = $1 AND s.next_review_date IS NOT NULL AND s.next_review_date <= $2
		`, r.stateTable)
		args = []interface{}{userID, now}
	} else {
		query = fmt.Sprintf(`
			SELECT COUNT(*) FROM %s s
			JOIN %s i ON i.id = s.item_id
			WHERE s.user_id = $1 AND s.next_review_date IS NOT NULL AND s.next_review_date <= $2
				AND i.%s = $3
		`, r.stateTable, r.itemTable, r.scopeColumn)
		args = []interface{}{userID, now, scope}
	}

	var count int
	if err := DB.Get(&count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count due states: %v", err)
	}
	return count, nil
}

// NewItemIDs returns ids of items the user has never reviewed, in the
// kind's stable content order, up to limit
func (r *SRSRepository) NewItemIDs(userID int64, limit int, scope string) ([]int64, error) {
	var query string
	var args []interface{}
	if scope == "" {
		query = fmt.Sprintf(`
			SELECT i.id FROM %s i
			LEFT JOIN %s s ON s.item_id = i.id AND s.user_id = $1
			WHERE s.id IS NULL OR s.next_review_date IS NULL
			ORDER BY %s
			LIMIT $2
		`, r.itemTable, r.stateTable, r.newOrder)
		args = []interface{}{userID, limit}
	} else {
		query = fmt.Sprintf(`
			SELECT i.id FROM %s i
			LEFT JOIN %s s ON s.item_id = i.id AND s.user_id = $1
			WHERE (s.id IS NULL OR s.next_review_date IS NULL) AND i.%s = $2
			ORDER BY %s
			LIMIT $3
		`, r.itemTable, r.stateTable, r.scopeColumn, r.newOrder)
		args = []interface{}{userID, scope, limit}
	}

	var ids []int64
	if err := DB.Select(&ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get new item ids: %v", err)
	}
	return ids, nil
}

// WeakStates returns practiced items whose lifetime accuracy is below
// threshold, worst first
func (r *SRSRepository) WeakStates(userID int64, threshold float64, limit int) ([]models.ItemProgress, error) {
	query := fmt.Sprintf(`
		SELECT s.* FROM %s s
		WHERE s.user_id = $1 AND s.times_practiced > 0
			AND CAST(s.times_correct AS REAL) / s.times_practiced < $2
		ORDER BY CAST(s.times_correct AS REAL) / s.times_practiced ASC, s.times_practiced DESC
		LIMIT $3
	`, r.stateTable)

	var states []models.ItemProgress
	if err := DB.Select(&states, query, userID, threshold, limit); err != nil {
		return nil, fmt.Errorf("failed to get weak states: %v", err)
	}
	return states, nil
}

// ReviewHistory returns the append-only review log, newest first. A limit
// of 0 returns everything.
func (r *SRSRepository) ReviewHistory(userID int64, limit int) ([]models.ReviewRecord, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE user_id = $1 ORDER BY reviewed_at DESC, id DESC", r.reviewTable)
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	var records []models.ReviewRecord
	if err := DB.Select(&records, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get review history: %v", err)
	}
	for i := range records {
		records[i].Kind = r.kind
	}
	return records, nil
}

// Statistics returns aggregate practice numbers for this kind
func (r *SRSRepository) Statistics(userID int64, now time.Time) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var tracked int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", r.stateTable)
	if err := DB.Get(&tracked, query, userID); err != nil {
		return nil, fmt.Errorf("failed to count tracked items: %v", err)
	}
	stats["tracked_items"] = tracked

	due, err := r.CountDue(userID, now, "")
	if err != nil {
		return nil, err
	}
	stats["due_now"] = due

	var practiced, correct int
	query = fmt.Sprintf(
		"SELECT COALESCE(SUM(times_practiced), 0), COALESCE(SUM(times_correct), 0) FROM %s WHERE user_id = $1",
		r.stateTable,
	)
	if err := DB.QueryRow(query, userID).Scan(&practiced, &correct); err != nil {
		return nil, fmt.Errorf("failed to sum practice counters: %v", err)
	}
	stats["times_practiced"] = practiced
	stats["times_correct"] = correct
	accuracy := 0.0
	if practiced > 0 {
		accuracy = float64(correct) / float64(practiced)
	}
	stats["accuracy"] = accuracy

	var avgEF float64
	query = fmt.Sprintf("SELECT COALESCE(AVG(ease_factor), 2.5) FROM %s WHERE user_id = $1", r.stateTable)
	if err := DB.Get(&avgEF, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get average ease factor: %v", err)
	}
	stats["avg_ease_factor"] = avgEF

	var mastered int
	query = fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE user_id = $1 AND repetitions >= 5 AND review_interval >= 30",
		r.stateTable,
	)
	if err := DB.Get(&mastered, query, userID); err != nil {
		return nil, fmt.Errorf("failed to count mastered items: %v", err)
	}
	stats["mastered"] = mastered

	return stats, nil
}
