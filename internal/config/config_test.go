package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDatabaseConfigDefaults(t *testing.T) {
	cfg := loadDatabaseConfig("dev")

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "3306", cfg.Port)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, 50, cfg.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
}

func TestLoadDatabaseConfigPoolOverrides(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "4")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("DB_CONN_MAX_LIFETIME_MINUTES", "5")

	cfg := loadDatabaseConfig("prod")

	assert.Equal(t, 4, cfg.MaxIdleConns)
	assert.Equal(t, 20, cfg.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db.internal", Port: "3306",
		User: "tabitha", Password: "secret", DBName: "tabitha_home",
	}

	assert.Equal(t,
		"tabitha:secret@tcp(db.internal:3306)/tabitha_home?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DSN(),
	)
}
