package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "btcusd", cfg.Pair)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100, cfg.Merge.ChannelSize)
	assert.Equal(t, 10, cfg.Merge.TopLevels)
	assert.Equal(t, "0.0.0.0:5005", cfg.Server.ListenAddr)
	assert.Equal(t, "wss://stream.binance.com:9443/ws", cfg.Binance.WebSocketURL)
	assert.Equal(t, "wss://ws.bitstamp.net", cfg.Bitstamp.WebSocketURL)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pair: ethusd\nmerge:\n  top_levels: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ethusd", cfg.Pair)
	assert.Equal(t, 5, cfg.Merge.TopLevels)
	assert.Equal(t, 100, cfg.Merge.ChannelSize)
}

func TestLoadMissingConfigFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
}

func TestValidateRejectsNonPositiveChannelSize(t *testing.T) {
	cfg := &Config{Pair: "btcusd", Merge: MergeConfig{ChannelSize: 0, TopLevels: 10}, Server: ServerConfig{ListenAddr: "0.0.0.0:5005"}}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyPair(t *testing.T) {
	cfg := &Config{Merge: MergeConfig{ChannelSize: 1, TopLevels: 1}, Server: ServerConfig{ListenAddr: "0.0.0.0:5005"}}
	require.Error(t, cfg.Validate())
}
