package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/billet-recovery/internal/config"
	"github.com/iwvelando/billet-recovery/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		address       string
		maxUploadSize string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and the optimization API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			section := a.conf.Server
			if cmd.Flags().Changed("address") {
				section.Address = address
			}
			if cmd.Flags().Changed("max-upload-size") {
				section.MaxUploadSize = maxUploadSize
			}
			srvCfg, err := server.NewConfig(&section)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.warn(a.conf, "main.serve")

			runner, err := a.newRunner()
			if err != nil {
				return err
			}

			if _, err := os.Stat(a.configLocation); err == nil {
				go func() {
					if err := config.Watch(ctx, a.logger, a.configLocation, a.applyLogLevel); err != nil {
						a.logger.Warn("configuration hot reload disabled",
							zap.String("op", "main.serve"),
							zap.Error(err),
						)
					}
				}()
			}

			handler := server.NewHandler(a.logger, srvCfg.UploadSizeBytes(), version, runner)
			return server.ListenAndServe(ctx, a.logger, srvCfg, handler)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	cmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "request body limit override (e.g. 256K)")

	return cmd
}
