package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StorageDriverPostgres, cfg.App.StorageDriver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.Metrics.Enabled)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("DB_PORT", "6543")
	v.Set("HTTP_PORT", 9090)
	v.Set("METRICS_ENABLED", false)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.App.StorageDriver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "taller", Password: "p@ss:w/rd", DBName: "taller", SSLMode: "disable"}
	assert.Equal(t, "postgres://taller:p%40ss%3Aw%2Frd@db:5432/taller?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
