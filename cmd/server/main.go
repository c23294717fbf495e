// Package main is the songbook server binary.
//
//	songbook serve     run the HTTP API
//	songbook migrate   create or update the database schema and exit
//	songbook version   print build information
//
// Configuration comes from environment variables, an optional --config
// file, and the flags below, all merged by viper (see internal/config).
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/songbook/internal/config"
)

// Build information, set with -ldflags "-X main.version=...".
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var configFile string

	root := &cobra.Command{
		Use:           "songbook",
		Short:         "Songbook API server",
		Long:          "Backend for the songbook app: categories, songs, playlists, practice notes and a music catalog feed.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("db-path", config.DefaultDBPath, "SQLite database file")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	bindFlag(v, root, "db_path", "db-path")
	bindFlag(v, root, "log_level", "log-level")

	load := func() (*config.Config, *slog.Logger, error) {
		logger := newLogger(v.GetString("log_level"))
		cfg, err := config.Load(v, configFile)
		if err != nil {
			return nil, nil, err
		}
		return cfg, logger, nil
	}

	root.AddCommand(
		newServeCmd(v, load),
		newMigrateCmd(load),
		newVersionCmd(),
	)
	return root
}

// bindFlag makes key resolve to the flag when it was set on the command line.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", flag, err))
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// ensureDBDir creates the parent directory of a file database.
func ensureDBDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}
