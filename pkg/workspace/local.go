package workspace

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// projectFiles are the file names Pulumi accepts as a project definition.
var projectFiles = []string{"Pulumi.yaml", "Pulumi.yml"}

type (
	LocalOptions struct {
		// WorkDir is the Pulumi project directory the workspace operates on.
		WorkDir string
		// PulumiHome overrides $PULUMI_HOME when set.
		PulumiHome string
		// Passphrase is passed through as PULUMI_CONFIG_PASSPHRASE for passphrase-encrypted stacks.
		Passphrase string
	}

	// LocalClient is a Client backed by a Pulumi Automation API LocalWorkspace.
	LocalClient struct {
		ws  auto.Workspace
		log *zap.SugaredLogger
	}
)

// CheckProjectDir makes sure dir exists and holds a Pulumi project file.
func CheckProjectDir(fs afero.Fs, dir string) error {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return errors.Wrapf(err, "could not stat work directory %s", dir)
	}
	if !exists {
		return errors.Errorf("work directory %s does not exist", dir)
	}
	for _, name := range projectFiles {
		if ok, err := afero.Exists(fs, filepath.Join(dir, name)); err == nil && ok {
			return nil
		}
	}
	return errors.Errorf("no Pulumi project file found in %s", dir)
}

// OpenLocal creates the workspace once for the life of the process.
func OpenLocal(ctx context.Context, fs afero.Fs, opts LocalOptions) (*LocalClient, error) {
	dir, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not resolve work directory %s", opts.WorkDir)
	}
	if err := CheckProjectDir(fs, dir); err != nil {
		return nil, err
	}

	wsOpts := []auto.LocalWorkspaceOption{auto.WorkDir(dir)}
	if opts.PulumiHome != "" {
		if err := fs.MkdirAll(opts.PulumiHome, 0755); err != nil {
			return nil, errors.Wrapf(err, "could not create pulumi home %s", opts.PulumiHome)
		}
		wsOpts = append(wsOpts, auto.PulumiHome(opts.PulumiHome))
	}
	if opts.Passphrase != "" {
		wsOpts = append(wsOpts, auto.EnvVars(map[string]string{
			"PULUMI_CONFIG_PASSPHRASE": opts.Passphrase,
		}))
	}

	ws, err := auto.NewLocalWorkspace(ctx, wsOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create local workspace")
	}
	return NewLocalClient(ws), nil
}

func NewLocalClient(ws auto.Workspace) *LocalClient {
	return &LocalClient{
		ws:  ws,
		log: zap.L().Named("workspace").Sugar(),
	}
}

func (c *LocalClient) ListStacks(ctx context.Context) ([]StackSummary, error) {
	stacks, err := c.ws.ListStacks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list stacks")
	}
	c.log.Debugf("listed %d stacks", len(stacks))
	return convertSummaries(stacks), nil
}

func (c *LocalClient) GetConfig(ctx context.Context, stackName string, key string) (ConfigValue, error) {
	v, err := c.ws.GetConfig(ctx, stackName, key)
	if err != nil {
		return ConfigValue{}, errors.Wrapf(err, "could not get config %q for stack %s", key, stackName)
	}
	return ConfigValue{Value: v.Value, Secret: v.Secret}, nil
}

func (c *LocalClient) GetAllConfig(ctx context.Context, stackName string) (map[string]ConfigValue, error) {
	cfg, err := c.ws.GetAllConfig(ctx, stackName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not get config for stack %s", stackName)
	}
	return convertConfig(cfg), nil
}

func (c *LocalClient) StackOutputs(ctx context.Context, stackName string) (map[string]OutputValue, error) {
	outputs, err := c.ws.StackOutputs(ctx, stackName)
	if err != nil {
		return nil, errors.Wrapf(err, "could not get outputs for stack %s", stackName)
	}
	return convertOutputs(outputs), nil
}

func convertSummaries(stacks []auto.StackSummary) []StackSummary {
	summaries := make([]StackSummary, len(stacks))
	for i, s := range stacks {
		summaries[i] = StackSummary{
			Name:             s.Name,
			Current:          s.Current,
			LastUpdate:       s.LastUpdate,
			UpdateInProgress: s.UpdateInProgress,
			ResourceCount:    s.ResourceCount,
			URL:              s.URL,
		}
	}
	return summaries
}

func convertConfig(cfg auto.ConfigMap) map[string]ConfigValue {
	out := make(map[string]ConfigValue, len(cfg))
	for k, v := range cfg {
		out[k] = ConfigValue{Value: v.Value, Secret: v.Secret}
	}
	return out
}

func convertOutputs(outputs auto.OutputMap) map[string]OutputValue {
	out := make(map[string]OutputValue, len(outputs))
	for k, v := range outputs {
		out[k] = OutputValue{Value: v.Value, Secret: v.Secret}
	}
	return out
}
