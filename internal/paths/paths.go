// Package paths resolves the configuration directory, the data directory,
// and the contact store file location.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// appDirName is the per-application directory under the platform config and
// data roots.
const appDirName = "phonebook"

// EnvStorePath overrides the store file location. It is the only
// environment variable phonebook reads.
const EnvStorePath = "PHONEBOOK_STORE"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the directory holding phonebook's config.yaml:
// $XDG_CONFIG_HOME/phonebook on Linux (or ~/.config/phonebook), and the
// user config directory elsewhere.
func DefaultConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the directory holding the contact store:
// $XDG_DATA_HOME/phonebook on Linux (or ~/.local/share/phonebook). Other
// platforms keep the store next to config.yaml.
func DefaultDataDir() (string, error) {
	return appDir("XDG_DATA_HOME", ".local", "share")
}

// appDir resolves the phonebook directory under the XDG root named by
// xdgEnv, falling back to home/homeRel... on Linux.
func appDir(xdgEnv string, homeRel ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, homeRel...)
	return filepath.Join(append(parts, appDirName)...), nil
}

// ResolveConfigDir returns flag as an absolute path if set, otherwise
// DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns flag as an absolute path if set, otherwise
// DefaultDataDir().
func ResolveDataDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	return DefaultDataDir()
}

// ResolveStorePath returns the contact store file following the precedence
// chain: flag > configValue > PHONEBOOK_STORE env > dataDir/users.dat.
func ResolveStorePath(flag, configValue, dataDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvStorePath); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Join(dataDir, types.DefaultStoreFile), nil
}
