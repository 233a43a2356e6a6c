package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/alexshd/emulsion/internal/catalog"
	"github.com/alexshd/emulsion/internal/config"
)

// app carries state shared by every subcommand, filled in by setup.
type app struct {
	configPath  string
	catalogPath string
	logLevel    string
	logJSON     bool
	jsonOut     bool

	cfg     *config.Config
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "emulsim",
		Short: "Microemulsion formulation engine and stability optimizer",
		Long: `emulsim predicts whether a five-phase formulation (solvent, cosolvent,
surfactant, cosurfactant, water) forms a balanced microemulsion that
dissolves a target resin, and searches for the composition that does both.

Stability is scored by HLD (0 is balanced), solubility by RED (< 1 dissolves).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "emulsim.yaml", "YAML config file (missing file means defaults)")
	pf.StringVar(&a.catalogPath, "catalog", "", "TOML component catalog (default: built-in)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&a.logJSON, "log-json", false, "log as JSON instead of text")
	pf.BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newCatalogCmd(a),
		newEvaluateCmd(a),
		newOptimizeCmd(a),
	)
	return root
}

// setup loads config, applies flag overrides, then builds the logger and
// the catalog. Flags win over env, env over the file.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = a.logJSON
	}
	if flags.Changed("catalog") {
		cfg.Catalog.Path = a.catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	level, _ := cfg.Logging.SlogLevel()
	a.logger = newLogger(cmd.ErrOrStderr(), level, cfg.Logging.JSON)

	if cfg.Catalog.Path == "" {
		a.catalog, err = catalog.Default()
	} else {
		a.catalog, err = catalog.LoadFile(cfg.Catalog.Path)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("setup complete",
		"config", a.configPath,
		"catalog", cfg.Catalog.Path)
	return nil
}

func newLogger(w io.Writer, level slog.Level, asJSON bool) *slog.Logger {
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}
	_, isFile := w.(*os.File)
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !isFile,
	}))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
