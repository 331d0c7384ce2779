package workspace

import (
	"context"
	"strings"
)

//go:generate mockgen -source=./workspace.go --destination=../api/workspace_mock_test.go --package=api

type (
	// Client is the subset of a Pulumi workspace needed to enumerate and introspect stacks.
	Client interface {
		ListStacks(ctx context.Context) ([]StackSummary, error)
		GetConfig(ctx context.Context, stackName string, key string) (ConfigValue, error)
		GetAllConfig(ctx context.Context, stackName string) (map[string]ConfigValue, error)
		StackOutputs(ctx context.Context, stackName string) (map[string]OutputValue, error)
	}

	StackSummary struct {
		Name             string `json:"name" yaml:"name"`
		Current          bool   `json:"current" yaml:"current"`
		LastUpdate       string `json:"lastUpdate,omitempty" yaml:"lastUpdate,omitempty"`
		UpdateInProgress bool   `json:"updateInProgress" yaml:"updateInProgress"`
		ResourceCount    *int   `json:"resourceCount,omitempty" yaml:"resourceCount,omitempty"`
		URL              string `json:"url,omitempty" yaml:"url,omitempty"`
	}

	ConfigValue struct {
		Value  string `json:"value" yaml:"value"`
		Secret bool   `json:"secret" yaml:"secret"`
	}

	OutputValue struct {
		Value  any  `json:"value" yaml:"value"`
		Secret bool `json:"secret" yaml:"secret"`
	}
)

// FullyQualifiedName returns the `<org>/<project>/<stack>` name used to scope configuration lookups.
// Empty org or project segments are omitted, leaving the bare stack name when neither is set.
func FullyQualifiedName(org, project, stack string) string {
	var parts []string
	for _, p := range []string{org, project} {
		if p = strings.Trim(p, "/ "); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(append(parts, stack), "/")
}
