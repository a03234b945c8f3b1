package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "test",
			Password: "test",
			Database: "test_db",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "test_db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Checkout: CheckoutConfig{
			Gateway:  "stripe",
			Currency: "usd",
			LockTTL:  30 * time.Second,
		},
		Worker: WorkerConfig{
			BatchSize: 10,
		},
	}
}

func TestConfig_Validate_Success(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"port too low", 0},
		{"port negative", -1},
		{"port too high", 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Port = tt.port

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "server.port")
		})
	}
}

func TestConfig_Validate_MissingMongoURI(t *testing.T) {
	cfg := validConfig()
	cfg.Mongo.URI = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mongo.uri")
}

func TestConfig_Validate_InvalidCurrency(t *testing.T) {
	cfg := validConfig()
	cfg.Checkout.Currency = "dollars"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "checkout.currency")
}

func TestConfig_Validate_JoinsMultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Database.Host = ""
	cfg.Worker.BatchSize = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "database.host")
	assert.Contains(t, err.Error(), "worker.batch_size")
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "coursepay", SSLMode: "disable",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=coursepay sslmode=disable", cfg.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "stripe", cfg.Checkout.Gateway)
	assert.Equal(t, "usd", cfg.Checkout.Currency)
	assert.Equal(t, "enrollment-mailers", cfg.Worker.ConsumerGroup)
}
