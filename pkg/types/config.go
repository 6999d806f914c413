package types

import "errors"

// Config holds the store location and search backend selection.
type Config struct {
	StorePath     string `json:"store_path" yaml:"store_path"`
	SearchBackend string `json:"search_backend" yaml:"search_backend"`
	LogLevel      string `json:"log_level" yaml:"log_level"`
}

// Supported search backends.
const (
	SearchMemory = "memory"
	SearchSQLite = "sqlite"
)

// DefaultStoreFile is the file name used when no store path is configured.
const DefaultStoreFile = "users.dat"

// Config validation errors.
var (
	ErrStorePathEmpty       = errors.New("store path must not be empty")
	ErrSearchBackendUnknown = errors.New("unknown search backend")
	ErrLogLevelUnknown      = errors.New("unknown log level")
)

// knownSearchBackends lists the backends that Validate accepts.
var knownSearchBackends = map[string]bool{
	SearchMemory: true,
	SearchSQLite: true,
}

var knownLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed. An empty SearchBackend
// selects the memory backend.
func (c Config) Validate() error {
	if c.StorePath == "" {
		return ErrStorePathEmpty
	}
	if c.SearchBackend != "" && !knownSearchBackends[c.SearchBackend] {
		return ErrSearchBackendUnknown
	}
	if !knownLogLevels[c.LogLevel] {
		return ErrLogLevelUnknown
	}
	return nil
}
