package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/kapp/internal/config"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes the database connection described by cfg and creates
// the schema if needed
func Connect(cfg *config.Config) error {
	if cfg.DBType == "postgres" {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// SQLite: relative paths live under the data directory
	dbPath := cfg.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, dbPath)
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys so SRS rows cascade with their content
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	idType := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		idType = "BIGSERIAL PRIMARY KEY"
	}

	statements := []struct {
		name string
		ddl  string
	}{
		{"courses", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS courses (
				id %s,
				title TEXT NOT NULL,
				description TEXT DEFAULT '',
				language TEXT DEFAULT 'Korean',
				level TEXT DEFAULT 'beginner',
				image_url TEXT DEFAULT '',
				is_active BOOLEAN DEFAULT true,
				display_order INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, idType)},
		{"units", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS units (
				id %s,
				course_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				description TEXT DEFAULT '',
				display_order INTEGER DEFAULT 0,
				is_locked BOOLEAN DEFAULT false,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (course_id) REFERENCES courses(id) ON DELETE CASCADE
			)
		`, idType)},
		{"lessons", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS lessons (
				id %s,
				unit_id INTEGER NOT NULL,
				title TEXT NOT NULL,
				description TEXT DEFAULT '',
				grammar_explanation TEXT DEFAULT '',
				grammar_tip TEXT DEFAULT '',
				display_order INTEGER DEFAULT 0,
				estimated_minutes INTEGER DEFAULT 10,
				is_locked BOOLEAN DEFAULT false,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
			)
		`, idType)},
		{"exercises", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS exercises (
				id %s,
				lesson_id INTEGER NOT NULL,
				exercise_type TEXT NOT NULL,
				question TEXT DEFAULT '',
				instruction TEXT DEFAULT '',
				korean_text TEXT DEFAULT '',
				romanization TEXT DEFAULT '',
				english_text TEXT DEFAULT '',
				options TEXT DEFAULT '[]',
				correct_answer TEXT DEFAULT '',
				content_text TEXT DEFAULT '',
				audio_url TEXT DEFAULT '',
				explanation TEXT DEFAULT '',
				display_order INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (lesson_id) REFERENCES lessons(id) ON DELETE CASCADE
			)
		`, idType)},
		{"vocabulary_items", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS vocabulary_items (
				id %s,
				korean TEXT NOT NULL,
				romanization TEXT DEFAULT '',
				english TEXT NOT NULL,
				part_of_speech TEXT DEFAULT '',
				example_sentence_korean TEXT DEFAULT '',
				example_sentence_english TEXT DEFAULT '',
				audio_url TEXT DEFAULT '',
				category TEXT DEFAULT '',
				difficulty_level INTEGER DEFAULT 1,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, idType)},
		{"vocabulary_srs", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS vocabulary_srs (
				id %s,
				user_id INTEGER NOT NULL,
				item_id INTEGER NOT NULL,
				review_interval INTEGER DEFAULT 0,
				repetitions INTEGER DEFAULT 0,
				ease_factor REAL DEFAULT 2.5,
				next_review_date TIMESTAMP,
				last_reviewed_at TIMESTAMP,
				times_practiced INTEGER DEFAULT 0,
				times_correct INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (item_id) REFERENCES vocabulary_items(id) ON DELETE CASCADE,
				UNIQUE(user_id, item_id)
			)
		`, idType)},
		{"exercise_srs", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS exercise_srs (
				id %s,
				user_id INTEGER NOT NULL,
				item_id INTEGER NOT NULL,
				review_interval INTEGER DEFAULT 0,
				repetitions INTEGER DEFAULT 0,
				ease_factor REAL DEFAULT 2.5,
				next_review_date TIMESTAMP,
				last_reviewed_at TIMESTAMP,
				times_practiced INTEGER DEFAULT 0,
				times_correct INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (item_id) REFERENCES exercises(id) ON DELETE CASCADE,
				UNIQUE(user_id, item_id)
			)
		`, idType)},
		{"vocabulary_reviews", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS vocabulary_reviews (
				id %s,
				user_id INTEGER NOT NULL,
				item_id INTEGER NOT NULL,
				quality INTEGER NOT NULL,
				effective_quality INTEGER NOT NULL,
				peeked BOOLEAN DEFAULT false,
				review_interval INTEGER NOT NULL,
				ease_factor REAL NOT NULL,
				repetitions INTEGER NOT NULL,
				reviewed_at TIMESTAMP NOT NULL,
				FOREIGN KEY (item_id) REFERENCES vocabulary_items(id) ON DELETE CASCADE
			)
		`, idType)},
		{"exercise_reviews", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS exercise_reviews (
				id %s,
				user_id INTEGER NOT NULL,
				item_id INTEGER NOT NULL,
				quality INTEGER NOT NULL,
				effective_quality INTEGER NOT NULL,
				peeked BOOLEAN DEFAULT false,
				review_interval INTEGER NOT NULL,
				ease_factor REAL NOT NULL,
				repetitions INTEGER NOT NULL,
				reviewed_at TIMESTAMP NOT NULL,
				FOREIGN KEY (item_id) REFERENCES exercises(id) ON DELETE CASCADE
			)
		`, idType)},
		{"lesson_progress", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS lesson_progress (
				id %s,
				user_id INTEGER NOT NULL,
				lesson_id INTEGER NOT NULL,
				is_started BOOLEAN DEFAULT false,
				is_completed BOOLEAN DEFAULT false,
				completed_exercises INTEGER DEFAULT 0,
				total_exercises INTEGER DEFAULT 0,
				score REAL DEFAULT 0,
				time_spent_seconds INTEGER DEFAULT 0,
				started_at TIMESTAMP,
				completed_at TIMESTAMP,
				last_activity_at TIMESTAMP,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (lesson_id) REFERENCES lessons(id) ON DELETE CASCADE,
				UNIQUE(user_id, lesson_id)
			)
		`, idType)},
		{"user_settings", `
			CREATE TABLE IF NOT EXISTS user_settings (
				user_id INTEGER PRIMARY KEY,
				immersion_level INTEGER DEFAULT 1,
				autoplay_audio BOOLEAN DEFAULT true,
				show_romanization BOOLEAN DEFAULT true,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`},
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %v", stmt.name, err)
		}
	}

	// The due query filters on (user_id, next_review_date) constantly
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_vocabulary_srs_due ON vocabulary_srs(user_id, next_review_date)",
		"CREATE INDEX IF NOT EXISTS idx_exercise_srs_due ON exercise_srs(user_id, next_review_date)",
	}
	for _, idx := range indexes {
		if _, err := DB.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %v", err)
		}
	}

	return nil
}
