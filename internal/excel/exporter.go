// Package excel builds spreadsheet exports of the review history so
// learners can take their data elsewhere.
package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/kapp/internal/database"
	"github.com/example/kapp/pkg/models"
)

// ExportConfig defines what goes into the workbook
type ExportConfig struct {
	HistoryLimit    int    // Most recent reviews per kind; 0 exports everything
	SummarySheet    string // Name of the summary sheet
	VocabularySheet string // Name of the vocabulary history sheet
	ExerciseSheet   string // Name of the exercise history sheet
}

// DefaultExportConfig returns the default export configuration
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		SummarySheet:    "Summary",
		VocabularySheet: "Vocabulary Reviews",
		ExerciseSheet:   "Exercise Reviews",
	}
}

// ExportResult holds the built workbook and row counts
type ExportResult struct {
	File           *excelize.File
	VocabularyRows int
	ExerciseRows   int
}

// ExportReviews builds a workbook with one summary sheet and one history
// sheet per item kind
func ExportReviews(userID int64, now time.Time, config ExportConfig) (*ExportResult, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", config.SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to name summary sheet: %v", err)
	}

	vocabSRS := database.NewVocabularySRSRepository()
	exerciseSRS := database.NewExerciseSRSRepository()

	if err := writeSummarySheet(f, config.SummarySheet, userID, now, vocabSRS, exerciseSRS); err != nil {
		return nil, err
	}

	vocabRows, err := writeVocabularySheet(f, config.VocabularySheet, userID, config.HistoryLimit, vocabSRS)
	if err != nil {
		return nil, err
	}
	exerciseRows, err := writeExerciseSheet(f, config.ExerciseSheet, userID, config.HistoryLimit, exerciseSRS)
	if err != nil {
		return nil, err
	}

	return &ExportResult{File: f, VocabularyRows: vocabRows, ExerciseRows: exerciseRows}, nil
}

func writeSummarySheet(f *excelize.File, sheet string, userID int64, now time.Time, vocabSRS, exerciseSRS *database.SRSRepository) error {
	if err := setRow(f, sheet, 1, []interface{}{"Kind", "Tracked Items", "Due Now", "Times Practiced", "Times Correct", "Accuracy", "Avg Ease Factor", "Mastered"}); err != nil {
		return err
	}

	row := 2
	for _, repo := range []*database.SRSRepository{vocabSRS, exerciseSRS} {
		stats, err := repo.Statistics(userID, now)
		if err != nil {
			return err
		}
		values := []interface{}{
			string(repo.Kind()),
			stats["tracked_items"],
			stats["due_now"],
			stats["times_practiced"],
			stats["times_correct"],
			stats["accuracy"],
			stats["avg_ease_factor"],
			stats["mastered"],
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}

	return f.SetColWidth(sheet, "A", "H", 16)
}

func writeVocabularySheet(f *excelize.File, sheet string, userID int64, limit int, srs *database.SRSRepository) (int, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return 0, fmt.Errorf("failed to create sheet %s: %v", sheet, err)
	}

	records, err := srs.ReviewHistory(userID, limit)
	if err != nil {
		return 0, err
	}

	// Attach the words so the sheet reads without the database at hand
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ItemID)
	}
	items, err := database.NewVocabularyRepository().GetByIDs(ids)
	if err != nil {
		return 0, err
	}

	if err := setRow(f, sheet, 1, []interface{}{"Reviewed At", "Item ID", "Korean", "English", "Quality", "Effective Quality", "Peeked", "Interval (days)", "Ease Factor", "Repetitions"}); err != nil {
		return 0, err
	}
	for i, r := range records {
		korean, english := "", ""
		if item, ok := items[r.ItemID]; ok {
			korean, english = item.Korean, item.English
		}
		values := []interface{}{
			r.ReviewedAt.Format(time.RFC3339),
			r.ItemID,
			korean,
			english,
			r.Quality,
			r.EffectiveQuality,
			r.Peeked,
			r.Interval,
			r.EaseFactor,
			r.Repetitions,
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return 0, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "J", 16); err != nil {
		return 0, err
	}
	return len(records), nil
}

func writeExerciseSheet(f *excelize.File, sheet string, userID int64, limit int, srs *database.SRSRepository) (int, error) {
	if _, err := f.NewSheet(sheet); err != nil {
		return 0, fmt.Errorf("failed to create sheet %s: %v", sheet, err)
	}

	records, err := srs.ReviewHistory(userID, limit)
	if err != nil {
		return 0, err
	}

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ItemID)
	}
	exercises, err := database.NewLessonRepository().GetExercisesByIDs(ids)
	if err != nil {
		return 0, err
	}

	if err := setRow(f, sheet, 1, []interface{}{"Reviewed At", "Item ID", "Type", "Question", "Quality", "Effective Quality", "Peeked", "Interval (days)", "Ease Factor", "Repetitions"}); err != nil {
		return 0, err
	}
	for i, r := range records {
		var exercise models.Exercise
		if e, ok := exercises[r.ItemID]; ok {
			exercise = e
		}
		values := []interface{}{
			r.ReviewedAt.Format(time.RFC3339),
			r.ItemID,
			exercise.ExerciseType,
			exercise.Question,
			r.Quality,
			r.EffectiveQuality,
			r.Peeked,
			r.Interval,
			r.EaseFactor,
			r.Repetitions,
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return 0, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "J", 16); err != nil {
		return 0, err
	}
	return len(records), nil
}

// setRow writes values across one row starting at column A
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %v", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %v", cell, err)
		}
	}
	return nil
}
