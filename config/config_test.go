package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiredSecrets(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing token",
			env:     map[string]string{"DATABASE_URL": "postgres://localhost"},
			wantErr: ErrMissingToken,
		},
		{
			name:    "missing database url",
			env:     map[string]string{"DISCORD_TOKEN": "abc"},
			wantErr: ErrMissingDatabaseURL,
		},
		{
			name: "test environment skips secrets",
			env:  map[string]string{"ENVIRONMENT": "test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetEnv(t, "DISCORD_TOKEN", "DATABASE_URL", "ENVIRONMENT")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, cfg)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	unsetEnv(t, "ENVIRONMENT", "DATABASE_NAME", "LIVENESS_ADDR")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.LivenessAddr)
	assert.Equal(t, int64(500), cfg.DailyReward)
	assert.Equal(t, 24*time.Hour, cfg.DailyCooldown)
	assert.Equal(t, time.Hour, cfg.WorkCooldown)
	assert.Equal(t, 2*time.Hour, cfg.RobCooldown)
	assert.Equal(t, int64(15), cfg.XPPerMessage)
	assert.Equal(t, 60*time.Second, cfg.XPCooldown)
	assert.Equal(t, "Silenciado", cfg.MuteRoleName)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432")
	t.Setenv("DATABASE_NAME", "nexus")
	t.Setenv("ROB_COOLDOWN", "30m")
	t.Setenv("WORK_MIN_PAY", "10")
	t.Setenv("WORK_MAX_PAY", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.RobCooldown)
	assert.Equal(t, int64(10), cfg.WorkMinPay)
	assert.Equal(t, int64(20), cfg.WorkMaxPay)
	assert.Equal(t, "postgres://localhost:5432/nexus?sslmode=disable", cfg.GetDatabaseURL())
}

func TestValidate_WorkPayRange(t *testing.T) {
	cfg := NewTestConfig()
	cfg.WorkMinPay = 300
	cfg.WorkMaxPay = 100

	assert.Error(t, cfg.Validate())
}

func TestSetTestConfig(t *testing.T) {
	custom := NewTestConfig()
	custom.DailyReward = 42

	SetTestConfig(custom)
	defer ResetConfig()

	assert.Equal(t, int64(42), Get().DailyReward)
}

// unsetEnv removes variables for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
