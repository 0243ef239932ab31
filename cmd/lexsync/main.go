// Package main provides the lexsync binary entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/lexsync/internal/adapters/driven/auth"
	"github.com/custodia-labs/lexsync/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexsync/internal/adapters/driven/output"
	"github.com/custodia-labs/lexsync/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexsync/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexsync/internal/adapters/driving/cli"
	"github.com/custodia-labs/lexsync/internal/connectors/filesystem"
	"github.com/custodia-labs/lexsync/internal/connectors/github"
	"github.com/custodia-labs/lexsync/internal/connectors/registry"
	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/core/services"
	"github.com/custodia-labs/lexsync/internal/logger"
	"github.com/custodia-labs/lexsync/internal/normalisers/markdown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetWiring(wire)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds every service from the stored settings. Incomplete settings
// are not an error here: they become SetupErr so settings commands still run.
func wire(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	conventions, err := settings.Conventions()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	var closers []func() error
	out := &cli.Services{
		Settings: settingsService,
		Output:   settings.Output,
		Close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}

	// Relative artifact paths resolve against a local corpus root.
	artifactRoot := ""
	if settings.Corpus.Source == domain.CorpusSourceFilesystem {
		artifactRoot = settings.Corpus.Root
	}
	out.Artifacts = output.NewWriter(artifactRoot)

	runStore := openRunStore(opts.NoHistory, settings.Output.DataDir, &closers)

	if err := settingsService.Validate(settings); err != nil {
		out.SetupErr = err
		out.Reconcile = services.NewReconcileService(nil, nil, nil, runStore, conventions, settings.Registry)
		return out, nil
	}

	registryCfg, err := registry.ParseConfig(settings.Registry)
	if err != nil {
		return nil, err
	}
	registryClient := registry.NewClient(registryCfg, auth.ForSettings("registry.token", settings.Registry.Token, false))

	var source driven.CorpusSource
	switch settings.Corpus.Source {
	case domain.CorpusSourceGitHub:
		ghCfg, err := github.ParseConfig(settings.Corpus)
		if err != nil {
			return nil, err
		}
		client := github.NewClient(auth.ForSettings("corpus.github_token", settings.Corpus.GitHubToken, true))
		source = github.New(ghCfg, client)
	default:
		fs := filesystem.New(settings.Corpus.Root, settings.Corpus.Include)
		closers = append(closers, fs.Close)
		source = fs
		out.Watcher = fs
	}

	out.Reconcile = services.NewReconcileService(
		registryClient, source, markdown.New(), runStore, conventions, settings.Registry,
	)
	return out, nil
}

// openRunStore opens run history, falling back to memory when the database
// cannot be opened.
func openRunStore(noHistory bool, dataDir string, closers *[]func() error) driven.RunStore {
	if noHistory {
		return memory.NewRunStore()
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("Run history disabled: %v", err)
		return memory.NewRunStore()
	}
	*closers = append(*closers, store.Close)
	return store.RunStore()
}
