// Package cli provides the lexsync command tree.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
	"github.com/custodia-labs/lexsync/internal/logger"
)

// version is set at build time with -ldflags "-X .../cli.version=...".
var version = "dev"

// Services injected by Wiring, or directly by tests.
var (
	settingsService  driving.SettingsService
	reconcileService driving.ReconcileService
	artifactStore    driven.ArtifactStore
	corpusWatcher    driven.CorpusWatcher
	outputSettings   = domain.DefaultSettings().Output

	// setupErr explains why a full run cannot start (missing settings).
	setupErr error
)

// Global flags.
var (
	verbose   bool
	configDir string
	noHistory bool
)

// Options are the global flags passed to Wiring.
type Options struct {
	ConfigDir string
	NoHistory bool
}

// Services is everything the commands need.
type Services struct {
	Settings  driving.SettingsService
	Reconcile driving.ReconcileService
	Artifacts driven.ArtifactStore

	// Watcher is set when the corpus source can push changes.
	Watcher driven.CorpusWatcher

	Output domain.OutputSettings

	// SetupErr is set when the settings are incomplete. Commands that only
	// read settings or history still work.
	SetupErr error

	// Close releases databases and watchers. May be nil.
	Close func() error
}

// Wiring builds the services once the global flags are parsed.
type Wiring func(opts Options) (*Services, error)

var (
	wiring  Wiring
	closers []func() error
)

// SetWiring installs the function that builds services before a command runs.
func SetWiring(w Wiring) {
	wiring = w
}

var rootCmd = &cobra.Command{
	Use:   "lexsync",
	Short: "Reconcile a legislative document registry with its markdown corpus",
	Long: `lexsync resolves the identity of legislative documents (ordinances,
resolutions and interpretations) across a registry of records and a corpus
of markdown files, reports every match, ambiguity and gap, and builds the
relationship graph between documents.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print each phase of a run to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.lexsync)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record runs in the history database")
}

// setup runs Wiring once per process.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if wiring == nil {
		return nil
	}

	w := wiring
	wiring = nil
	s, err := w(Options{ConfigDir: configDir, NoHistory: noHistory})
	if err != nil {
		return err
	}

	settingsService = s.Settings
	reconcileService = s.Reconcile
	artifactStore = s.Artifacts
	corpusWatcher = s.Watcher
	outputSettings = s.Output
	setupErr = s.SetupErr
	if s.Close != nil {
		closers = append(closers, s.Close)
	}
	return nil
}

// Execute runs the command tree on stdout and releases whatever Wiring opened.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	err := rootCmd.ExecuteContext(ctx)
	for _, c := range closers {
		if cerr := c(); cerr != nil {
			logger.Warn("Closing: %v", cerr)
		}
	}
	closers = nil
	return err
}

// requireReconcile returns an error unless a full run can start.
func requireReconcile() error {
	if setupErr != nil {
		return setupErr
	}
	if reconcileService == nil {
		return errors.New("reconcile service not configured")
	}
	return nil
}
