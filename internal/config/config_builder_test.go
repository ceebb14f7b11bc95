package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_LaterLayersOverride(t *testing.T) {
	b := newConfigBuilder().withDefaults()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0"}, Workers: Workers{PollInterval: time.Minute}},
		&StructuredConfig{App: App{Version: "2.0.0", Author: "bob"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", cfg.App.Version)
	assert.Equal(t, "bob", cfg.App.Author)
	assert.Equal(t, time.Minute, cfg.Workers.PollInterval)
	// zero fields keep the defaults
	assert.Equal(t, ModeLedger, cfg.Adapter.Mode)
	assert.Equal(t, 5, cfg.Workers.RetryMaxAttempts)
}

func TestBuild_RejectsNegativeTolerance(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Workers: Workers{MatchTolerance: -1}})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrInvalidWorkerConfigs)
}

func TestGetStructuredConfig_Priority(t *testing.T) {
	p := writeJSON(t, `{"app": {"author": "from-json"}, "workers": {"retry_max_attempts": 9}}`)

	t.Setenv("APP_AUTHOR", "from-env")
	t.Setenv("APP_HASH_KEY", "env-key")
	t.Setenv("WORKERS_RETRY_MAX_ATTEMPTS", "7")

	cfg, err := GetStructuredConfig([]string{"-author", "from-flag", "-config", p, "-poll-interval", "3s"})
	require.NoError(t, err)

	assert.Equal(t, "from-json", cfg.App.Author)
	assert.Equal(t, "env-key", cfg.App.HashKey)
	assert.Equal(t, 9, cfg.Workers.RetryMaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.Workers.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Workers.RetryCeiling)
}

func TestGetStructuredConfig_MissingJSON(t *testing.T) {
	_, err := GetStructuredConfig([]string{"-c", "/does/not/exist.json"})
	assert.ErrorContains(t, err, "error reading a json file")
}

func TestGetClientConfig(t *testing.T) {
	t.Run("memory mode", func(t *testing.T) {
		cfg, err := GetClientConfig([]string{"-mode", "memory", "-author", "alice", "-cache", "b.db"})
		require.NoError(t, err)
		assert.Equal(t, ModeMemory, cfg.Adapter.Mode)
		assert.Equal(t, "alice", cfg.App.Author)
		assert.Equal(t, "b.db", cfg.Storage.CacheDSN)
		assert.Equal(t, time.Second, cfg.Adapter.Memory.Latency)
	})

	t.Run("ledger mode needs a hash key", func(t *testing.T) {
		_, err := GetClientConfig([]string{"-author", "alice"})
		assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	})

	t.Run("author required", func(t *testing.T) {
		_, err := GetClientConfig([]string{"-mode", "memory"})
		assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	})
}

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		return newClientConfig(defaults())
	}

	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{
			name: "ledger ok",
			mutate: func(c *ClientConfig) {
				c.App.Author = "alice"
				c.App.HashKey = "k"
			},
		},
		{
			name: "chain ok without author",
			mutate: func(c *ClientConfig) {
				c.Adapter.Mode = ModeChain
				c.Adapter.Chain.RPCURL = "ws://localhost:8546"
				c.Adapter.Chain.PrivateKey = "aa"
				c.Adapter.Chain.Contract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
			},
		},
		{
			name: "chain bad contract",
			mutate: func(c *ClientConfig) {
				c.Adapter.Mode = ModeChain
				c.Adapter.Chain.RPCURL = "ws://localhost:8546"
				c.Adapter.Chain.PrivateKey = "aa"
				c.Adapter.Chain.Contract = "contract"
			},
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *ClientConfig) { c.Adapter.Mode = "carrier-pigeon" },
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name: "ledger without address",
			mutate: func(c *ClientConfig) {
				c.App.Author = "alice"
				c.App.HashKey = "k"
				c.Adapter.HTTPAddress = ""
			},
			wantErr: ErrInvalidAdapterConfigs,
		},
		{
			name: "retry ceiling below base",
			mutate: func(c *ClientConfig) {
				c.Adapter.Mode = ModeMemory
				c.App.Author = "alice"
				c.Workers.RetryCeiling = time.Millisecond
			},
			wantErr: ErrInvalidWorkerConfigs,
		},
		{
			name: "zero attempts",
			mutate: func(c *ClientConfig) {
				c.Adapter.Mode = ModeMemory
				c.App.Author = "alice"
				c.Workers.RetryMaxAttempts = 0
			},
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetServerConfig(t *testing.T) {
	cfg, err := GetServerConfig([]string{"-d", "postgres://localhost/notes", "-hash-key", "k", "-a", "localhost:9000"})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", cfg.HTTPAddress)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)

	_, err = GetServerConfig([]string{"-hash-key", "k"})
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)

	_, err = GetServerConfig([]string{"-d", "postgres://localhost/notes"})
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}
