package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.GeneratorHost)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithHost("http://models.internal:9100"),
		WithEmbeddingModel("text-embedding-3-small"),
		WithGeneratorModel("gpt-4o"),
		WithRerankerHost("http://rerank.internal:8787/"),
		WithRerankerModel("bge-reranker-v2-m3"),
	)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://models.internal:9100/v1", cfg.EmbeddingHost)
	assert.Equal(t, "http://models.internal:9100/v1", cfg.GeneratorHost)
	assert.Equal(t, "http://rerank.internal:8787", cfg.RerankerHost)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o", cfg.GeneratorModel)
	assert.Equal(t, "bge-reranker-v2-m3", cfg.RerankerModel)
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EmbeddingHost = "http://localhost:11434"
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("strips trailing slash before adding suffix", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GeneratorHost = "http://localhost:11434/"
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.GeneratorHost)
	})

	t.Run("already normalized host unchanged", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfigValidate_MissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing embedding host", func(c *Config) { c.EmbeddingHost = "" }},
		{"missing generator host", func(c *Config) { c.GeneratorHost = "" }},
		{"missing reranker host", func(c *Config) { c.RerankerHost = "" }},
		{"missing embedding model", func(c *Config) { c.EmbeddingModel = "" }},
		{"missing generator model", func(c *Config) { c.GeneratorModel = "" }},
		{"missing reranker model", func(c *Config) { c.RerankerModel = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
