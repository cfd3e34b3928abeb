package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "rokokgs-stock", cfg.App.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "MOV", cfg.Stock.ReferencePrefix)
	assert.Equal(t, 6, cfg.Stock.ReferenceSuffixLen)
	assert.Equal(t, 3, cfg.Stock.ReferenceMaxAttempts)
	assert.Equal(t, 15, cfg.Stock.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Stock.TxTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STOCK_PAGE_SIZE", "20")
	v.Set("STOCK_REFERENCE_PREFIX", "ADJ")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("STOCK_TX_TIMEOUT_SECONDS", 5)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Stock.PageSize)
	assert.Equal(t, "ADJ", cfg.Stock.ReferencePrefix)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 5*time.Second, cfg.Stock.TxTimeout)
}

func TestFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("STOCK_REFERENCE_MAX_ATTEMPTS", 0)
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("APP_ENV", "production")
	_, err = fromViper(v)
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "rokokgs", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/rokokgs?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
