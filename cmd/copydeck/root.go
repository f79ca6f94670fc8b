package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/copydeck"
	"github.com/aretw0/copydeck/internal/platform"
)

var (
	verbose    bool
	dataDir    string
	configPath string
	assumeYes  bool

	cfg       copydeck.Config
	confirmer Confirmer
	prompter  Prompter
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "copydeck",
	Short: "Organize copyable snippets into decks of cards",
	Long: `copydeck keeps labelled text snippets ("cards") grouped into named decks.
Decks and cards can be added, edited, renamed, reordered and deleted; the
whole collection is stored as one JSON document that can be exported and
imported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := copydeck.LoadConfig(configPath)
		if err != nil {
			return fail("Error loading config", err)
		}
		cfg = loaded

		level, _ := platform.ParseLogLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)

		p := newLinePrompt(cmd.InOrStdin(), cmd.OutOrStdout())
		prompter = p
		confirmer = p
		if assumeYes {
			confirmer = alwaysYes{}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding the deck store (default: config, ./.copydeck or $XDG_DATA_HOME/copydeck)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/copydeck/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")
}

// resolveDataDir applies the --data-dir flag over the config.
func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fail("Error getting working directory", err)
	}
	return cfg.ResolveDataDir(wd), nil
}

// openService loads the store for the current invocation.
func openService(cmd *cobra.Command) (*copydeck.Service, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	opts := append(cfg.Options(), copydeck.WithLogger(slog.Default()))
	svc, err := copydeck.Open(cmd.Context(), dir, opts...)
	if err != nil {
		return nil, fail("Error opening deck store", err)
	}
	return svc, nil
}

// cliError carries a user-facing prefix for a failure.
type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return fmt.Sprintf("%s: %v", e.msg, e.err) }
func (e *cliError) Unwrap() error { return e.err }

func fail(msg string, err error) error {
	var ce *cliError
	if errors.As(err, &ce) {
		return err
	}
	return &cliError{msg: msg, err: err}
}
