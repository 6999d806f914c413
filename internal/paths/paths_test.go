package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/phonebook", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "phonebook"), got)
	})
}

func TestDefaultDataDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_DATA_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-data/phonebook", got)
	})

	t.Run("falls back to ~/.local/share when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".local", "share", "phonebook"), got)
	})
}

func TestDefaultDirs_HomeDirError(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	orig := platformDir.homeDir
	platformDir.homeDir = func() (string, error) { return "", errors.New("no home") }
	t.Cleanup(func() { platformDir.homeDir = orig })

	_, err := DefaultConfigDir()
	assert.Error(t, err)
	_, err = DefaultDataDir()
	assert.Error(t, err)
}

func TestDefaultDirs_HomeFallback(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	orig := platformDir.homeDir
	platformDir.homeDir = func() (string, error) { return "/home/tester", nil }
	t.Cleanup(func() { platformDir.homeDir = orig })

	configDir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/phonebook", configDir)

	dataDir, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.local/share/phonebook", dataDir)
}

func TestResolveConfigDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := ResolveConfigDir("/explicit/config")
		require.NoError(t, err)
		assert.Equal(t, "/explicit/config", got)
	})

	t.Run("relative flag becomes absolute", func(t *testing.T) {
		got, err := ResolveConfigDir("relative/path")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("platform default when flag empty", func(t *testing.T) {
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Contains(t, got, "phonebook")
	})
}

func TestResolveDataDir(t *testing.T) {
	got, err := ResolveDataDir("/flag/data")
	require.NoError(t, err)
	assert.Equal(t, "/flag/data", got)

	got, err = ResolveDataDir("")
	require.NoError(t, err)
	assert.Contains(t, got, "phonebook")
}

func TestResolveStorePath(t *testing.T) {
	tests := []struct {
		name        string
		flag        string
		configValue string
		envVal      string
		dataDir     string
		want        string
	}{
		{
			name:        "flag wins over all",
			flag:        "/flag/users.dat",
			configValue: "/config/users.dat",
			envVal:      "/env/users.dat",
			dataDir:     "/data",
			want:        "/flag/users.dat",
		},
		{
			name:        "config.yaml wins over env",
			configValue: "/config/users.dat",
			envVal:      "/env/users.dat",
			dataDir:     "/data",
			want:        "/config/users.dat",
		},
		{
			name:    "env wins when flag and config empty",
			envVal:  "/env/users.dat",
			dataDir: "/data",
			want:    "/env/users.dat",
		},
		{
			name:    "users.dat in data dir when all empty",
			dataDir: "/data",
			want:    "/data/users.dat",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvStorePath, tt.envVal)
			got, err := ResolveStorePath(tt.flag, tt.configValue, tt.dataDir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStorePath_AbsolutePath(t *testing.T) {
	t.Run("relative flag becomes absolute", func(t *testing.T) {
		t.Setenv(EnvStorePath, "")
		got, err := ResolveStorePath("book.dat", "", "/data")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})

	t.Run("relative env becomes absolute", func(t *testing.T) {
		t.Setenv(EnvStorePath, "relative/users.dat")
		got, err := ResolveStorePath("", "", "/data")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}
