package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{}
	cfg.Server.Listen = ":8080"
	cfg.Server.Timeout = 30 * time.Second
	cfg.Database.DSN = "file:test.db"
	cfg.News = NewsConfig{Language: "en", MaxResults: 3, Timeout: 10 * time.Second}
	cfg.Telegram = TelegramConfig{Token: "test-token"}
	threshold := 0.3
	cfg.Schedule = ScheduleConfig{
		CheckInterval:  time.Hour,
		CycleTimeout:   10 * time.Minute,
		RetentionDays:  7,
		MaxWorkers:     5,
		ScoreThreshold: &threshold,
	}
	return cfg
}

func TestVerifyAgainstEmbeddedSchema(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing server listen",
			mutate:  func(cfg *Config) { cfg.Server.Listen = "" },
			wantErr: true,
			errMsg:  "server.listen is required",
		},
		{
			name:    "missing server timeout",
			mutate:  func(cfg *Config) { cfg.Server.Timeout = 0 },
			wantErr: true,
			errMsg:  "server.timeout is required",
		},
		{
			name:    "missing telegram token",
			mutate:  func(cfg *Config) { cfg.Telegram.Token = "" },
			wantErr: true,
			errMsg:  "telegram.token is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := VerifyAgainstEmbeddedSchema(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	schema, err := GenerateSchema()
	require.NoError(t, err)
	require.NotNil(t, schema)

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	// generated schema references all top-level sections
	assert.Contains(t, string(data), "server")
	assert.Contains(t, string(data), "database")
	assert.Contains(t, string(data), "news")
	assert.Contains(t, string(data), "telegram")
	assert.Contains(t, string(data), "schedule")
}

func TestEmbeddedSchemaIsValidJSON(t *testing.T) {
	var schema map[string]interface{}
	err := json.Unmarshal([]byte(embeddedSchema), &schema)
	require.NoError(t, err)
	assert.Contains(t, schema, "$defs")
}
