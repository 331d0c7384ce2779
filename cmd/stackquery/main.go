package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	clicommon "github.com/klothoplatform/stackquery/pkg/cli_common"
	"github.com/klothoplatform/stackquery/pkg/cleanup"
	"github.com/spf13/cobra"
)

var commonCfg clicommon.CommonConfig

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stackquery",
		Short:         "Query Pulumi stacks of a project and serve them over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	clicommon.SetupRoot(rootCmd, &commonCfg)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTiersCmd())
	rootCmd.AddCommand(newStacksCmd())
	rootCmd.AddCommand(newDetailsCmd())
	return rootCmd
}

func cli() int {
	ctx := cleanup.InitializeHandler(context.Background())
	defer func() {
		if r := recover(); r != nil {
			_ = cleanup.Execute(syscall.SIGTERM)
			panic(r)
		}
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(cli())
}
