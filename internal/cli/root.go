// Package cli implements the phonebook command-line interface: an
// interactive REPL when run without arguments, and one-shot subcommands
// that load the store, run a single command and save.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/phonebook/internal/commands"
	"github.com/mesh-intelligence/phonebook/internal/jsonl"
	"github.com/mesh-intelligence/phonebook/internal/paths"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	storeFile string
	verbose   bool
}

// app is the state shared by the commands of one root command. It is
// filled in by PersistentPreRunE.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	logger    *zap.Logger
}

// sysError marks failures of the environment (file I/O, a corrupt store)
// as opposed to bad user input.
type sysError struct {
	err error
}

func (e *sysError) Error() string { return e.err.Error() }
func (e *sysError) Unwrap() error { return e.err }

// NewRootCmd creates the top-level "phonebook" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "phonebook",
		Short: "A personal contact book",
		Long: "Phonebook keeps names, phone numbers, emails and birthdays in a local file.\n" +
			"Run without arguments to start the interactive prompt.",
		Version: Version,
		Args:    cobra.NoArgs,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: a.runREPL,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/phonebook)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/phonebook)")
	root.PersistentFlags().StringVarP(&a.flags.storeFile, "file", "f", "", "contact store file (default: <data-dir>/users.dat)")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newExecCmd(a))
	root.AddCommand(newContactCmds(a)...)

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var se *sysError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &se), errors.Is(err, types.ErrCorruptStore):
		return exitSysError
	default:
		return exitUserError
	}
}

// setup resolves directories, loads config.yaml and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return &sysError{err: fmt.Errorf("resolve config dir: %w", err)}
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir)
	if err != nil {
		return &sysError{err: fmt.Errorf("resolve data dir: %w", err)}
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}

	storePath, err := paths.ResolveStorePath(a.flags.storeFile, v.GetString(cfgKeyStorePath), dataDir)
	if err != nil {
		return &sysError{err: fmt.Errorf("resolve store path: %w", err)}
	}

	cfg := types.Config{
		StorePath:     storePath,
		SearchBackend: v.GetString(cfgKeySearchBackend),
		LogLevel:      v.GetString(cfgKeyLogLevel),
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", configDir, err)
	}

	logger, err := newLogger(cfg.LogLevel, a.flags.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.configDir = configDir
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("store_path", cfg.StorePath),
		zap.String("search_backend", cfg.SearchBackend))
	return nil
}

// loadBook reads the contact store. A corrupt store is reported as is so
// the caller never overwrites it.
func (a *app) loadBook() (*types.AddressBook, error) {
	book, err := jsonl.Load(a.cfg.StorePath)
	if err != nil {
		if errors.Is(err, types.ErrCorruptStore) {
			return nil, err
		}
		return nil, &sysError{err: err}
	}
	a.logger.Debug("store loaded", zap.String("path", a.cfg.StorePath), zap.Int("contacts", book.Len()))
	return book, nil
}

func (a *app) saveBook(book *types.AddressBook) error {
	if err := jsonl.Save(book, a.cfg.StorePath); err != nil {
		return &sysError{err: err}
	}
	a.logger.Debug("store saved", zap.String("path", a.cfg.StorePath), zap.Int("contacts", book.Len()))
	return nil
}

func (a *app) newHandler(book *types.AddressBook) *commands.Handler {
	return commands.New(book, commands.Options{
		SearchBackend: a.cfg.SearchBackend,
		Logger:        a.logger,
	})
}
