package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, 2, cfg.Pipeline.MaxRetries)
	assert.Equal(t, 10, cfg.Pipeline.MinMarkdownLength)
	assert.Equal(t, 100000, cfg.Pipeline.MaxMarkdownLength)
	assert.Equal(t, 5*time.Minute, cfg.Pipeline.CatalogCacheTTL)
	assert.Equal(t, "switch-catalog", cfg.Database.Elasticsearch.ProductIndex)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidateConfig(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.Postgres.Database = "catalog"
	cfg.Database.Postgres.User = "pipeline"

	require.NoError(t, validateConfig(cfg))
}

func TestValidateConfig_MissingDatabase(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfig_LengthBoundsOrdered(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.Postgres.Database = "catalog"
	cfg.Database.Postgres.User = "pipeline"
	cfg.Pipeline.MinMarkdownLength = 200000

	assert.Error(t, validateConfig(cfg))
}

func TestValidateConfig_ElasticsearchNeedsAddresses(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.Postgres.Database = "catalog"
	cfg.Database.Postgres.User = "pipeline"
	cfg.Database.Elasticsearch.Enabled = true

	assert.Error(t, validateConfig(cfg))
}

func TestGetDSN(t *testing.T) {
	p := PostgresConfig{
		Host: "localhost", Port: 5432, Database: "catalog",
		User: "pipeline", Password: "secret", SSLMode: "disable",
	}

	dsn := p.GetDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=catalog")
	assert.Contains(t, dsn, "sslmode=disable")
}
