package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Database struct {
		Host     string `env:"TESTCFG_DATABASE_HOST" default:"localhost"`
		Port     int32  `env:"TESTCFG_DATABASE_PORT" default:"5432"`
		Password string `env:"TESTCFG_DATABASE_PASSWORD"`
	}
	Scheduler struct {
		Tick    time.Duration `env:"TESTCFG_SCHEDULER_TICK" default:"1m"`
		Enabled bool          `env:"TESTCFG_SCHEDULER_ENABLED" default:"true"`
		Radius  float64       `env:"TESTCFG_SCHEDULER_RADIUS" default:"5"`
	}
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, int32(5432), cfg.Database.Port)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, time.Minute, cfg.Scheduler.Tick)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 5.0, cfg.Scheduler.Radius)
}

func TestParseEnv_EnvOverridesDefault(t *testing.T) {
	t.Setenv("TESTCFG_DATABASE_HOST", "db.internal")
	t.Setenv("TESTCFG_SCHEDULER_TICK", "30s")

	var cfg testConfig
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Tick)
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("TESTCFG_DATABASE_PORT", "not-a-number")

	var cfg testConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTCFG_DATABASE_PORT")
}

func TestParseEnv_RejectsNonPointer(t *testing.T) {
	assert.ErrorIs(t, ParseEnv(testConfig{}), ErrNotStructPointer)
}

func TestLoadAndParseYaml(t *testing.T) {
	t.Setenv("TESTCFG_DATABASE_HOST", "")
	t.Setenv("TESTCFG_DATABASE_PASSWORD", "")
	t.Setenv("TESTCFG_SCHEDULER_TICK", "")
	t.Setenv("TESTCFG_SECRET", "from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
testcfg:
  database:
    host: yaml-host
    password: ${TESTCFG_SECRET:-fallback}
  scheduler:
    tick: 2m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	var cfg testConfig
	require.NoError(t, LoadAndParseYaml(path, &cfg))

	assert.Equal(t, "yaml-host", cfg.Database.Host)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.Tick)
}

func TestLoadYamlFile_NoPath(t *testing.T) {
	assert.ErrorIs(t, LoadYamlFile(""), ErrNoFilePath)
}
