package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sakif/songbook/internal/config"
	"github.com/sakif/songbook/internal/server"
)

type loadFunc func() (*config.Config, *slog.Logger, error)

func newServeCmd(v *viper.Viper, load loadFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration:\n%w", err)
			}
			if err := ensureDBDir(cfg.Database.Path); err != nil {
				return err
			}

			srv, err := server.New(cfg, logger, version)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			// Start blocks until SIGINT or SIGTERM.
			return srv.Start()
		},
	}

	cmd.Flags().Int("port", 8080, "HTTP port")
	cmd.Flags().String("music-provider", config.ProviderProxy, "music catalog backend: proxy or spotify")
	for key, flag := range map[string]string{
		"port":           "port",
		"music_provider": "music-provider",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
	return cmd
}
