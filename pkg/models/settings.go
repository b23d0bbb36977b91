package models

import "time"

// Immersion level bounds for user settings
const (
	MinImmersionLevel = 1
	MaxImmersionLevel = 3
)

// UserSettings stores per-user study preferences
type UserSettings struct {
	UserID           int64     `json:"user_id" db:"user_id"`
	ImmersionLevel   int       `json:"immersion_level" db:"immersion_level"` // 1 = mostly English, 3 = mostly Korean
	AutoplayAudio    bool      `json:"autoplay_audio" db:"autoplay_audio"`
	ShowRomanization bool      `json:"show_romanization" db:"show_romanization"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultUserSettings returns the settings handed to a user who has never
// saved any
func DefaultUserSettings(userID int64) UserSettings {
	return UserSettings{
		UserID:           userID,
		ImmersionLevel:   MinImmersionLevel,
		AutoplayAudio:    true,
		ShowRomanization: true,
	}
}
