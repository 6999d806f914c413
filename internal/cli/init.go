package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/phonebook/internal/jsonl"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	StorePath     string `yaml:"store_path,omitempty"`
	SearchBackend string `yaml:"search_backend"`
	LogLevel      string `yaml:"log_level"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and an empty contact store",
		Long: "Write config.yaml to the configuration directory if it is missing and\n" +
			"create an empty contact store if none exists. Existing files are left alone.",
		Args: cobra.NoArgs,
		RunE: a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return &sysError{err: fmt.Errorf("create config directory: %w", err)}
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	cfg := configFile{
		StorePath:     a.flags.storeFile,
		SearchBackend: a.cfg.SearchBackend,
		LogLevel:      a.cfg.LogLevel,
	}
	if cfg.StorePath != "" {
		cfg.StorePath = a.cfg.StorePath
	}
	if err := writeConfigIfMissing(configPath, cfg); err != nil {
		return &sysError{err: fmt.Errorf("write config: %w", err)}
	}

	exists, size, err := jsonl.Stat(a.cfg.StorePath)
	if err != nil {
		return &sysError{err: err}
	}
	if !exists {
		if err := a.saveBook(types.NewAddressBook()); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Phonebook initialized")
	fmt.Fprintf(out, "config: %s\n", configPath)
	if exists {
		fmt.Fprintf(out, "store:  %s (existing, %d bytes)\n", a.cfg.StorePath, size)
	} else {
		fmt.Fprintf(out, "store:  %s (created)\n", a.cfg.StorePath)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. If it already exists, the function returns nil (idempotent).
func writeConfigIfMissing(path string, cfg configFile) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
