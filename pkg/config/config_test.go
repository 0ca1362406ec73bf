package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DevelopmentDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "./tmp/data.sqlite", cfg.DatabaseFilePath)
	assert.True(t, cfg.DatabaseDebug)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "database_file_path")
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("MEBOOK_DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("MEBOOK_JWT_SECRET", "env-secret")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DatabaseFilePath)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/mebookmeta.db
server_port: 8080
database_debug: true
jwt_secret: secret-from-file
upload_dir: /data/uploads
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/mebookmeta.db", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DatabaseDebug)
	assert.Equal(t, "/data/uploads", cfg.UploadDir)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/mebookmeta.db
jwt_secret: secret-from-file
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("MEBOOK_DATABASE_FILE_PATH", "/override/path.db")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/override/path.db", cfg.DatabaseFilePath)
	assert.Equal(t, "secret-from-file", cfg.JWTSecret)
}
