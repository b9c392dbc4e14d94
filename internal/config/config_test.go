package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10, cfg.ResultCap)
	require.Equal(t, 10, cfg.HistoryWindow)
	require.Equal(t, 30, cfg.TranscriptLimit)
	require.Equal(t, 400, cfg.ChatMaxTokens)
	require.InDelta(t, 0.7, cfg.ChatTemperature, 1e-9)
	require.Equal(t, "frontier", cfg.TemporalTaskQueue)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FRONTIER_RESULT_CAP", "3")
	t.Setenv("FRONTIER_CHAT_MODEL", "llama-3.1-8b-instant")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.ResultCap)
	require.Equal(t, "llama-3.1-8b-instant", cfg.ChatModel)
}

func TestLoadRejectsNonPositiveCap(t *testing.T) {
	t.Setenv("FRONTIER_RESULT_CAP", "0")
	_, err := Load()
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}
