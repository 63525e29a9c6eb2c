package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grynov/collabora-online/translations"
)

var (
	// Global flags
	verbose    bool
	coreRepo   string
	onlineRepo string
	lang       string

	// Update flags
	downstreamPotDir string
	upstreamPotDir   string
	downstreamBranch string
	upstreamBranch   string
	prefillRepo      string
	createNew        bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "core-translations",
	Short: "Maintain downstream core translations in the online repo",
	Long: `core-translations keeps downstream-only core strings translatable.

The downstream core branch carries strings that never reach the upstream
translation project. "update" extracts exactly that string diff into
browser/po/templates/core.pot and refreshes the per-language
browser/po/core-<lang>.po catalogs, prefilling from a newer core branch
where the strings already landed. Once translators have filled the
catalogs, "retrofit" pushes the finished strings back into the core
repo's translations/source tree.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// updateCmd regenerates the template and the online catalogs
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Extract the downstream string diff and refresh the online catalogs",
	Long: `Compares the downstream and upstream pot trees, writes the strings only
the downstream branch has to browser/po/templates/core.pot, and merges
them into every core-<lang>.po catalog. Existing translations are kept;
untranslated entries are prefilled from the prefill repo's
translations/source tree.

The pot trees come either pre-extracted:

  core-translations update --downstream-pot-dir /tmp/down --upstream-pot-dir /tmp/up

or from branches, checked out into temporary worktrees and extracted
with "make translations":

  core-translations update --downstream-branch distro/collabora/co-25.04 \
    --upstream-branch libreoffice-25-2`,
	RunE: runUpdate,
}

// retrofitCmd pushes finished translations back into the core repo
var retrofitCmd = &cobra.Command{
	Use:   "retrofit",
	Short: "Push finished online translations back into the core repo",
	Long: `Merges the current pots into the core repo's translations/source
catalogs, overlays the translated strings from browser/po/core-<lang>.po,
and filters noise-only changes out of the resulting git diff so the
commit carries real translation work only.

Example:
  core-translations retrofit --core-repo ~/co-25.04 --lang de`,
	RunE: runRetrofit,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&coreRepo, "core-repo", "~/co-25.04", "Downstream core checkout")
	rootCmd.PersistentFlags().StringVar(&onlineRepo, "online-repo", ".", "Online repo checkout")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "", "Restrict to one language code, e.g. zh_CN")

	// Update source selection
	updateCmd.Flags().StringVar(&downstreamPotDir, "downstream-pot-dir", "", "Pre-extracted downstream pot tree")
	updateCmd.Flags().StringVar(&upstreamPotDir, "upstream-pot-dir", "", "Pre-extracted upstream pot tree")
	updateCmd.Flags().StringVar(&downstreamBranch, "downstream-branch", "", "Downstream branch to extract pots from")
	updateCmd.Flags().StringVar(&upstreamBranch, "upstream-branch", "", "Upstream branch to extract pots from")
	updateCmd.Flags().StringVar(&prefillRepo, "prefill-repo", "", "Core checkout seeding untranslated entries (default: --core-repo)")
	updateCmd.Flags().BoolVar(&createNew, "create-new", false, "Create catalogs for languages new to the online repo")

	// Add commands to root
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(retrofitCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() translations.Options {
	return translations.Options{
		OnlineRepo:       onlineRepo,
		CoreRepo:         coreRepo,
		PrefillRepo:      prefillRepo,
		DownstreamPotDir: downstreamPotDir,
		UpstreamPotDir:   upstreamPotDir,
		DownstreamBranch: downstreamBranch,
		UpstreamBranch:   upstreamBranch,
		Lang:             lang,
		CreateNew:        createNew,
		Logger:           logger,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	return translations.Update(cmd.Context(), options())
}

func runRetrofit(cmd *cobra.Command, args []string) error {
	return translations.Retrofit(cmd.Context(), options())
}
