package main

import (
	"fmt"
	"syscall"

	"github.com/klothoplatform/stackquery/pkg/api"
	"github.com/klothoplatform/stackquery/pkg/cleanup"
	"github.com/klothoplatform/stackquery/pkg/config"
	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stack queries over HTTP",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	config.AddServerFlags(serveCmd.Flags())
	return serveCmd
}

func serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := zap.S()

	cfg, err := config.Load(config.NewViper(), cmd.Flags(), commonCfg.ConfigFile)
	if err != nil {
		return err
	}

	ws, err := workspace.OpenLocal(ctx, afero.NewOsFs(), cfg.WorkspaceOptions())
	if err != nil {
		return fmt.Errorf("could not open workspace: %w", err)
	}
	log.Infof("Using workspace %s (org=%q project=%q)", cfg.WorkDir, cfg.Org, cfg.Project)

	a := &api.API{Stacks: tiers.NewService(ws, cfg.TierOptions())}
	srv := api.NewServer(cfg.Port, a.Handler(zap.L()))

	cleanup.OnKill(func(sig syscall.Signal) error {
		log.Infof("Draining requests before exit (%s)", sig)
		return nil
	})
	return srv.Run(ctx)
}
