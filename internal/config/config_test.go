package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Assignment.ReassignCompleted)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, 0, cfg.Mirror.RetryCount)
	assert.Equal(t, "training-materials", cfg.Storage.Bucket)
	assert.Equal(t, 2, cfg.Events.Workers)
	assert.Equal(t, 30*time.Second, cfg.Events.PublishTimeout)
	assert.Contains(t, cfg.CORS.AllowedMethods, "PUT")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("ASSIGNMENT_REASSIGN_COMPLETED", "true")
	t.Setenv("DATABASE_NAME", "other_db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Address)
	assert.True(t, cfg.Assignment.ReassignCompleted)
	assert.Equal(t, "other_db", cfg.Database.Name)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "u",
		Password: "p",
		Name:     "n",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=disable", cfg.DSN())
}
