package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the registry connection, the corpus location and
the output paths. Settings are stored in config.toml in the configuration
directory. Tokens can also be supplied with LEXSYNC_REGISTRY_TOKEN and
LEXSYNC_GITHUB_TOKEN.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one setting",
	Long: `Set one setting by its dot-separated key, for example:

  lexsync settings set registry.base_id appXXXXXXXXXXXXXX
  lexsync settings set corpus.include "_ordinances/**,_resolutions/**"

List values are comma separated. Run 'lexsync settings keys' for every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every setting key",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Registry]")
	cmd.Printf("  Base URL: %s\n", orNotSet(settings.Registry.BaseURL))
	cmd.Printf("  Base: %s\n", orNotSet(settings.Registry.BaseID))
	cmd.Printf("  Table: %s\n", orNotSet(settings.Registry.Table))
	if settings.Registry.View != "" {
		cmd.Printf("  View: %s\n", settings.Registry.View)
	}
	cmd.Printf("  Fields: %s, %s\n", settings.Registry.IdentifierField, settings.Registry.PathField)
	cmd.Printf("  Token: %s\n", maskSecret(settings.Registry.Token))
	cmd.Printf("  Request delay: %s\n", settings.Registry.RequestDelay)
	cmd.Printf("  Max attempts: %d\n", settings.Registry.MaxAttempts)
	cmd.Printf("  Timeout: %s\n", settings.Registry.Timeout)
	cmd.Println()

	cmd.Println("[Corpus]")
	cmd.Printf("  Source: %s\n", settings.Corpus.Source)
	if settings.Corpus.Source == domain.CorpusSourceGitHub {
		cmd.Printf("  Repository: %s\n", orNotSet(settings.Corpus.GitHubRepo))
		cmd.Printf("  Ref: %s\n", settings.Corpus.GitHubRef)
		cmd.Printf("  Token: %s\n", maskSecret(settings.Corpus.GitHubToken))
	} else {
		cmd.Printf("  Root: %s\n", settings.Corpus.Root)
	}
	if len(settings.Corpus.Include) > 0 {
		cmd.Printf("  Include: %s\n", strings.Join(settings.Corpus.Include, ", "))
	}
	for _, d := range settings.Corpus.Directories {
		cmd.Printf("  %s: %s\n", d.Kind, d.Path)
	}
	cmd.Println()

	cmd.Println("[Output]")
	cmd.Printf("  Graph: %s\n", settings.Output.GraphPath)
	cmd.Printf("  Report: %s\n", settings.Output.ReportPath)
	if settings.Output.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Output.DataDir)
	}
	cmd.Println()

	cmd.Println("[Policy]")
	cmd.Printf("  Two-digit year pivot: %d\n", settings.Policy.TwoDigitYearPivot)
	cmd.Println()

	if err := settingsService.Validate(settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'lexsync settings set KEY VALUE' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if strings.HasSuffix(key, "token") {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func maskSecret(v string) string {
	if v == "" {
		return "(not set)"
	}
	return maskAPIKey(v)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
