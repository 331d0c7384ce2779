package main

import (
	"fmt"

	"github.com/klothoplatform/stackquery/pkg/client"
	"github.com/klothoplatform/stackquery/pkg/config"
	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// queryFlags are shared by the commands that can either open the workspace locally or ask a running server.
type queryFlags struct {
	server     string
	retries    int
	outputFlag string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	config.AddWorkspaceFlags(flags)
	flags.StringVar(&q.server, "server", "", "URL of a running stackquery server to query instead of the local workspace")
	flags.IntVar(&q.retries, "retries", 0, "Retries for server queries that fail with a 5xx response")
	flags.StringVarP(&q.outputFlag, "output", "o", string(outputText), "Output format: text, json or yaml")
}

func (q *queryFlags) output() (outputFormat, error) {
	return parseOutputFormat(q.outputFlag)
}

func (q *queryFlags) remote() *client.Client {
	return client.New(q.server, client.Options{RetryCount: q.retries})
}

// localService opens the configured workspace for a single command invocation.
func localService(cmd *cobra.Command) (*tiers.Service, error) {
	cfg, err := config.Load(config.NewViper(), cmd.Flags(), commonCfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	zap.S().Debugf("Opening workspace in %s", cfg.WorkDir)
	ws, err := workspace.OpenLocal(cmd.Context(), afero.NewOsFs(), cfg.WorkspaceOptions())
	if err != nil {
		return nil, fmt.Errorf("could not open workspace: %w", err)
	}
	return tiers.NewService(ws, cfg.TierOptions()), nil
}
