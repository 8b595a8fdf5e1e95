package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad/telegram-uz-translit/store"
)

func Test_loadConfig(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		config, err := loadConfig([]string{"--TOKEN", "abc", "--STORAGE", "sqlite"}, "")
		require.NoError(t, err)
		assert.Equal(t, "abc", config.Token)
		assert.Equal(t, "sqlite", config.Storage)
		assert.Equal(t, "user_modes.db", config.StoragePath)
		assert.Equal(t, ":8080", config.Listen)
	})

	t.Run("options file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "options.json")
		require.NoError(t, os.WriteFile(file, []byte(`{"TOKEN":"from-file","STORAGE":"channel","CHANNEL_ID":-100123}`), 0o600))

		config, err := loadConfig(nil, file)
		require.NoError(t, err)
		assert.Equal(t, "from-file", config.Token)
		assert.Equal(t, int64(-100123), config.ChannelID)

		sc := config.storeConfig(nil)
		assert.Equal(t, store.KindChannel, sc.Kind)
		assert.Equal(t, int64(-100123), sc.ChannelID)
	})

	t.Run("env overrides file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "options.json")
		require.NoError(t, os.WriteFile(file, []byte(`{"TOKEN":"from-file"}`), 0o600))
		t.Setenv("TOKEN", "from-env")

		config, err := loadConfig(nil, file)
		require.NoError(t, err)
		assert.Equal(t, "from-env", config.Token)
		assert.Equal(t, "user_modes.json", config.StoragePath)
	})

	t.Run("missing options file", func(t *testing.T) {
		config, err := loadConfig([]string{"--TOKEN", "abc"}, filepath.Join(t.TempDir(), "none.json"))
		require.NoError(t, err)
		assert.Equal(t, "file", config.Storage)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Setenv("TOKEN", "")
		_, err := loadConfig(nil, "")
		assert.Error(t, err)
	})

	t.Run("channel without id", func(t *testing.T) {
		_, err := loadConfig([]string{"--TOKEN", "abc", "--STORAGE", "channel"}, "")
		assert.Error(t, err)
	})

	t.Run("unknown storage", func(t *testing.T) {
		_, err := loadConfig([]string{"--TOKEN", "abc", "--STORAGE", "sheets"}, "")
		assert.ErrorIs(t, err, store.ErrUnknownKind)
	})

	t.Run("apostrophe", func(t *testing.T) {
		config, err := loadConfig([]string{"--TOKEN", "abc", "--APOSTROPHE", "ʻ"}, "")
		require.NoError(t, err)
		assert.Len(t, config.translitOptions(), 1)

		_, err = loadConfig([]string{"--TOKEN", "abc", "--APOSTROPHE", "''"}, "")
		assert.Error(t, err)
	})
}
