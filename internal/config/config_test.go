package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                "8480",
		Env:                 "development",
		ArenaWindowHours:    24,
		ModerationTimeoutMS: 3000,
		AuthorSalt:          "roastarena-dev-salt-change-in-production",
		DBPassword:          "password",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("development defaults pass", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("port required", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Port = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("window must be positive", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ArenaWindowHours = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("moderation timeout must be positive", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.ModerationTimeoutMS = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("production rejects dev salt", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Env = "production"
		cfg.DBPassword = "s3cure-enough-for-tests"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AUTHOR_SALT")
	})

	t.Run("production rejects default db password", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Env = "production"
		cfg.AuthorSalt = "a-long-production-grade-salt"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
	})

	t.Run("production with proper secrets passes", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Env = "production"
		cfg.AuthorSalt = "a-long-production-grade-salt"
		cfg.DBPassword = "s3cure-enough-for-tests"
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_TopicRotation(t *testing.T) {
	t.Parallel()

	t.Run("empty selects built-in list", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{DailyTopics: "   "}
		assert.Nil(t, cfg.TopicRotation())
	})

	t.Run("splits and trims", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{DailyTopics: " your fridge , your desk ,, your car "}
		assert.Equal(t, []string{"your fridge", "your desk", "your car"}, cfg.TopicRotation())
	})
}
