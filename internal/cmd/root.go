package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Digital-Shane/tvrename/internal/config"
	"github.com/Digital-Shane/tvrename/internal/core"
	"github.com/Digital-Shane/tvrename/internal/log"
	"github.com/Digital-Shane/tvrename/internal/logger"
	"github.com/Digital-Shane/tvrename/internal/media"
	"github.com/Digital-Shane/tvrename/internal/prompt"
	"github.com/Digital-Shane/tvrename/internal/tui/ask"
	"github.com/Digital-Shane/tvrename/internal/tui/status"
	"github.com/Digital-Shane/tvrename/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command. Ctrl-C cancels the run between files.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(defaultDeps()).ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

type runOptions struct {
	show       string
	dryRun     bool
	ask        bool
	verbose    bool
	configPath string
}

func newRootCommand(d deps) *cobra.Command {
	var opts runOptions
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "tvrename [flags] FILE...",
		Short: "Rename TV episodes after their catalog titles",
		Long: `tvrename renames TV show episodes based on episode names by looking up
season and episode numbers in an online catalog (TheTVDB, TMDB or OMDb).

The show is taken from --show, from the part of the file name before the
separator, or from the parent directory name. The remaining name is fuzzy
matched against every episode title of the show. Ties are resolved
interactively; existing files are never overwritten.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd.Context(), d, v, opts, args)
		},
	}
	rootCmd.SetIn(d.stdin)
	rootCmd.SetOut(d.stdout)
	rootCmd.SetErr(d.stderr)
	rootCmd.SetArgs(d.args)

	defaults := config.DefaultConfig()
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.show, "show", "s", "", "Set show name instead of parsing it from file or directory name")
	flags.BoolVarP(&opts.dryRun, "dry-run", "d", false, "Dry run, don't actually rename files")
	flags.BoolVarP(&opts.ask, "ask", "i", false, "Ask before actually renaming files")
	flags.StringP(config.KeySeparator, "S", defaults.Separator, "String that separates show name from episode name")
	flags.StringP(config.KeyLanguage, "l", defaults.Language, "Language to request from the catalog")
	flags.StringP(config.KeyProvider, "p", defaults.Provider, "Catalog backend: tvdb, tmdb or omdb")
	flags.Bool(config.KeyJournal, defaults.Journal, "Record renames so they can be reverted with 'tvrename undo'")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Write debug diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Settings file (default ~/.tvrename/config.yaml)")

	for _, key := range []string{config.KeySeparator, config.KeyLanguage, config.KeyProvider, config.KeyJournal} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(newUndoCommand(d))
	return rootCmd
}

// loadConfig points v at the settings file, if any, and loads it. An
// explicit --config must exist; the default file is optional.
func loadConfig(v *viper.Viper, opts runOptions) (*config.Config, error) {
	switch {
	case opts.configPath != "":
		v.SetConfigFile(opts.configPath)
	default:
		if path, err := config.ConfigPath(); err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				v.SetConfigFile(path)
			}
		}
	}
	return config.Load(v)
}

func runRename(ctx context.Context, d deps, v *viper.Viper, opts runOptions, args []string) error {
	cfg, err := loadConfig(v, opts)
	if err != nil {
		return err
	}

	l := logger.New(d.stderr, opts.verbose)
	logger.Set(l)
	defer func() { _ = l.Sync() }()
	ctx = logger.WithCtx(ctx, l)

	th := theme.New(theme.WithRenderer(lipgloss.NewRenderer(d.stdout)))
	printer := status.NewPrinter(d.stdout, status.WithTheme(th), status.WithPlain(!isTerminal(d.stdout)))
	if opts.dryRun {
		printer.Banner()
	}

	notRegular := 0
	batch := media.BuildBatch(args, media.ParseOptions{Show: opts.show, Separator: cfg.Separator}, func(path string, err error) {
		notRegular++
		l.Debugw("skipping input", "path", path, "error", err)
		printer.Report(core.Event{Kind: core.EventNotRegular, Path: path, Err: err})
	})

	apiKey, err := config.ReadAPIKey(cfg.Provider)
	if err != nil {
		return err
	}
	if batch.Len() == 0 {
		printer.Summary(core.Stats{NotRegular: notRegular})
		return nil
	}

	catalog, err := d.newProvider(cfg.Provider, apiKey)
	if err != nil {
		return fmt.Errorf("%s catalog: %w", cfg.Provider, err)
	}

	if err := startJournal(cfg, opts, d.args); err != nil {
		return err
	}
	l.Debugw("journal", "enabled", log.Enabled())
	defer func() {
		if err := log.EndSession(); err != nil {
			l.Warnw("failed to write journal", "error", err)
		}
	}()

	var prompter prompt.Prompter
	if d.interactive() {
		prompter = ask.NewPrompter(d.stdin, d.stdout, th)
	} else {
		prompter = prompt.NewLinePrompter(d.stdin, d.stdout)
	}

	runner := &core.Runner{
		Provider: catalog,
		Language: cfg.Language,
		Prompter: prompter,
		Reporter: printer,
		Renamer: &core.Renamer{
			DryRun:   opts.dryRun,
			Ask:      opts.ask,
			Prompter: prompter,
			Reporter: printer,
		},
	}

	stats, runErr := runner.Run(ctx, batch)
	stats.NotRegular = notRegular
	printer.Summary(stats)

	if runErr != nil {
		return runErr
	}
	if stats.Failed > 0 {
		return fmt.Errorf("%d renames failed", stats.Failed)
	}
	return nil
}

// startJournal opens a journal session unless the run is a dry run.
func startJournal(cfg *config.Config, opts runOptions, args []string) error {
	enabled := cfg.Journal && !opts.dryRun
	if err := log.Initialize(enabled, cfg.LogRetentionDays); err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	return log.StartSession("tvrename", args)
}
