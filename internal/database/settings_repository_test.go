package database

import (
	"testing"

	"github.com/example/kapp/pkg/models"
)

func TestSettingsDefaultsWhenUnset(t *testing.T) {
	setupTestDB(t)
	repo := NewSettingsRepository()

	settings, err := repo.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.ImmersionLevel != models.MinImmersionLevel {
		t.Errorf("expected default immersion level %d, got %d", models.MinImmersionLevel, settings.ImmersionLevel)
	}
	if !settings.AutoplayAudio || !settings.ShowRomanization {
		t.Errorf("expected default toggles on, got %+v", settings)
	}
}

func TestSettingsUpsert(t *testing.T) {
	setupTestDB(t)
	repo := NewSettingsRepository()

	settings := models.DefaultUserSettings(1)
	settings.ImmersionLevel = 2
	settings.AutoplayAudio = false
	if err := repo.Upsert(&settings); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	stored, err := repo.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.ImmersionLevel != 2 || stored.AutoplayAudio {
		t.Errorf("stored settings mismatch: %+v", stored)
	}

	stored.ImmersionLevel = 3
	stored.ShowRomanization = false
	if err := repo.Upsert(stored); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	again, err := repo.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.ImmersionLevel != 3 || again.ShowRomanization {
		t.Errorf("updated settings mismatch: %+v", again)
	}
}
