package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	c, err := LoadFile(writeConfig(t, `
[mainConfig]
appName = "unisocial"
`))
	require.NoError(t, err)

	assert.Equal(t, "unisocial", c.MainConfig.AppName)
	assert.Equal(t, "dev", c.MainConfig.Mode)
	assert.Equal(t, 8000, c.MainConfig.Port)
	assert.Equal(t, "mysql", c.StorageConfig.Driver)
	assert.Equal(t, "channel", c.KafkaConfig.MessageMode)
	assert.Equal(t, "club_membership_event", c.KafkaConfig.NotifyTopic)
	assert.Equal(t, 30, c.JWTConfig.AccessTokenExpiry)
	assert.Equal(t, 168, c.JWTConfig.RefreshTokenExpiry)
	assert.Equal(t, "disable", c.PostgresConfig.SSLMode)
	assert.Equal(t, "unisocial.db", c.SqliteConfig.Path)
}

func TestLoadFileOverrides(t *testing.T) {
	c, err := LoadFile(writeConfig(t, `
[mainConfig]
port = 9000
mode = "release"

[storageConfig]
driver = "sqlite"

[sqliteConfig]
path = "/var/lib/unisocial/data.db"

[kafkaConfig]
messageMode = "kafka"
hostPort = "localhost:9092"

[adminConfig]
emails = ["Root@University.edu"]
`))
	require.NoError(t, err)

	assert.Equal(t, 9000, c.MainConfig.Port)
	assert.Equal(t, "release", c.MainConfig.Mode)
	assert.Equal(t, "sqlite", c.StorageConfig.Driver)
	assert.Equal(t, "/var/lib/unisocial/data.db", c.SqliteConfig.Path)
	assert.Equal(t, "kafka", c.KafkaConfig.MessageMode)
	assert.True(t, c.IsBootstrapAdmin("root@university.edu"))
	assert.False(t, c.IsBootstrapAdmin("alice@university.edu"))
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "[mainConfig\nport = "))
	assert.Error(t, err)
}
