package main

import (
	"context"
	"os"

	"github.com/klothoplatform/stackquery/pkg/workspace"
	"github.com/spf13/cobra"
)

func newTiersCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "List the stacks that qualify as demo tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStackList(cmd, &q, listSource{
				remote: func() ([]workspace.StackSummary, error) { return q.remote().ListDemoTiers() },
				local:  func(ctx context.Context, s stackLister) ([]workspace.StackSummary, error) { return s.ListQualifyingStacks(ctx) },
			})
		},
	}
	q.register(cmd)
	return cmd
}

func newStacksCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "stacks",
		Short: "List every stack of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStackList(cmd, &q, listSource{
				remote: func() ([]workspace.StackSummary, error) { return q.remote().ListStacks() },
				local:  func(ctx context.Context, s stackLister) ([]workspace.StackSummary, error) { return s.ListStacks(ctx) },
			})
		},
	}
	q.register(cmd)
	return cmd
}

func newDetailsCmd() *cobra.Command {
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "details <stack>",
		Short: "Show the config and outputs of a stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := q.output()
			if err != nil {
				return err
			}
			if q.server != "" {
				details, err := q.remote().StackDetails(args[0])
				if err != nil {
					return err
				}
				return printDetails(os.Stdout, details, format)
			}
			svc, err := localService(cmd)
			if err != nil {
				return err
			}
			return printDetails(os.Stdout, svc.StackDetails(cmd.Context(), args[0]), format)
		},
	}
	q.register(cmd)
	return cmd
}

type (
	stackLister interface {
		ListQualifyingStacks(ctx context.Context) ([]workspace.StackSummary, error)
		ListStacks(ctx context.Context) ([]workspace.StackSummary, error)
	}

	listSource struct {
		remote func() ([]workspace.StackSummary, error)
		local  func(ctx context.Context, s stackLister) ([]workspace.StackSummary, error)
	}
)

func runStackList(cmd *cobra.Command, q *queryFlags, src listSource) error {
	format, err := q.output()
	if err != nil {
		return err
	}
	var stacks []workspace.StackSummary
	if q.server != "" {
		stacks, err = src.remote()
	} else {
		svc, openErr := localService(cmd)
		if openErr != nil {
			return openErr
		}
		stacks, err = src.local(cmd.Context(), svc)
	}
	if err != nil {
		return err
	}
	return printStacks(os.Stdout, stacks, format)
}
