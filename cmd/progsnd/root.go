// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ik5/progsnd/internal/config"
	"github.com/ik5/progsnd/internal/telemetry"
)

var (
	cfgFile string
	cfg     config.Config
	// cfgDir is the directory relative paths in the config resolve against.
	cfgDir          string
	logger          = slog.Default()
	shutdownTracing func(context.Context) error
)

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"table":      "table",
	"media-root": "media_root",
	"log-level":  "log.level",
	"strict":     "strict",
	"tracing":    "tracing",
}

var rootCmd = &cobra.Command{
	Use:   "progsnd",
	Short: "Resolve programmer sounds by key",
	Long: `progsnd maps sound keys to audio files through sound tables, loads them
with the requested mode and renders, plays or serves them.`,
	SilenceUsage: true,
}

func init() {
	// Assigned here rather than in the literal: loadConfig refers to rootCmd,
	// which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = loadConfig

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default ./progsnd.yaml)")
	f.String("table", "", "table to resolve keys against")
	f.String("media-root", "", "directory relative sound paths resolve against")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.Bool("strict", false, "panic on invalid handles")
	f.Bool("tracing", false, "write resolve spans to stderr")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	v := viper.New()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			return err
		}
	}

	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	cfgDir = ""
	if used := v.ConfigFileUsed(); used != "" {
		cfgDir = filepath.Dir(used)
	}

	logger = cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	shutdownTracing, err = telemetry.Setup(cmd.Context(), cfg.Tracing, os.Stderr, "progsnd")
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	return nil
}
