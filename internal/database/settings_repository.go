package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/kapp/pkg/models"
)

// SettingsRepository handles database operations for user settings
type SettingsRepository struct{}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

// Get returns the user's settings, falling back to defaults when none were
// ever saved
func (r *SettingsRepository) Get(userID int64) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := DB.Get(&settings, "SELECT * FROM user_settings WHERE user_id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := models.DefaultUserSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user settings: %v", err)
	}
	return &settings, nil
}

// Upsert saves the user's settings, creating the row on first save
func (r *SettingsRepository) Upsert(settings *models.UserSettings) error {
	var existing int64
	err := DB.QueryRow("SELECT user_id FROM user_settings WHERE user_id = $1", settings.UserID).Scan(&existing)
	if err == nil {
		_, err = DB.Exec(`
			UPDATE user_settings SET
				immersion_level = $1,
				autoplay_audio = $2,
				show_romanization = $3,
				updated_at = CURRENT_TIMESTAMP
			WHERE user_id = $4
		`, settings.ImmersionLevel, settings.AutoplayAudio, settings.ShowRomanization, settings.UserID)
		if err != nil {
			return fmt.Errorf("failed to update user settings: %v", err)
		}
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check user settings: %v", err)
	}

	_, err = DB.Exec(`
		INSERT INTO user_settings (user_id, immersion_level, autoplay_audio, show_romanization)
		VALUES ($1, $2, $3, $4)
	`, settings.UserID, settings.ImmersionLevel, settings.AutoplayAudio, settings.ShowRomanization)
	if err != nil {
		return fmt.Errorf("failed to insert user settings: %v", err)
	}
	return nil
}
