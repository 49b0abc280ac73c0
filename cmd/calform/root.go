package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/calform"
	"github.com/aretw0/calform/internal/calibration"
	"github.com/aretw0/calform/internal/cli"
	"github.com/aretw0/calform/internal/config"
	"github.com/aretw0/calform/internal/logging"
	"github.com/aretw0/calform/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calform",
	Short: "calform remembers and generates linear advance calibration forms",
	Long: `calform keeps the parameters of a K3D linear advance calibration between runs,
validates them the way the web form does and writes the calibration G-code.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// settings are resolved once per invocation from env, .env and flags.
var settings struct {
	cfg      config.Config
	logger   *slog.Logger
	reporter *tui.Reporter
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("env-file", ".env", "Optional .env file read before the environment")
	rootCmd.PersistentFlags().String("store", "", "Durable medium: file, redis, sqlite or memory (env CALFORM_STORE)")
	rootCmd.PersistentFlags().String("dir", "", "Directory holding remembered values (env CALFORM_DIR)")
	rootCmd.PersistentFlags().String("lang", "", "Message language, e.g. en or ru (env CALFORM_LANG)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (env CALFORM_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("registry", "", "YAML form registry replacing the built-in fields (env CALFORM_REGISTRY)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit (env CALFORM_METRICS_FILE)")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"store":        &cfg.Store,
		"dir":          &cfg.Dir,
		"lang":         &cfg.Lang,
		"log-level":    &cfg.LogLevel,
		"registry":     &cfg.Registry,
		"metrics-file": &cfg.MetricsFile,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings.cfg = cfg
	settings.logger = logging.New(logging.ParseLevel(cfg.LogLevel))
	settings.reporter = tui.NewReporter(cmd.ErrOrStderr())
	return nil
}

// openEngine builds the engine, restores remembered values and fills the
// remaining fields with the form defaults.
func openEngine(ctx context.Context) (*calform.Engine, func() error, error) {
	eng, release, err := cli.NewEngine(ctx, cli.Options{
		Config:   settings.cfg,
		Logger:   settings.logger,
		Reporter: settings.reporter,
	})
	if err != nil {
		return nil, nil, err
	}
	// Read failures are reported by the engine; the readable fields are kept.
	_ = eng.Load(ctx)
	eng.SetDefaults(calibration.Defaults())
	return eng, release, nil
}

// reportProblems prints the localized problems and reports whether there were any.
func reportProblems(eng *calform.Engine, problems []calform.Problem) bool {
	for _, msg := range eng.Messages(problems) {
		settings.reporter.Report(msg)
	}
	return len(problems) > 0
}
