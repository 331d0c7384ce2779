package tiers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alitto/pond"
	"github.com/klothoplatform/stackquery/pkg/async"
	"github.com/klothoplatform/stackquery/pkg/filter"
	"github.com/klothoplatform/stackquery/pkg/logging"
	"github.com/klothoplatform/stackquery/pkg/multierr"
	"github.com/klothoplatform/stackquery/pkg/set"
	"github.com/klothoplatform/stackquery/pkg/workspace"
)

const (
	DefaultStackPrefix    = "tier"
	DefaultConfigKey      = "pricingMode"
	DefaultMatchValue     = "FREE"
	DefaultMaxConcurrency = 8
)

type (
	Options struct {
		// Org and Project scope the config lookups as `<org>/<project>/<stack>`.
		Org     string
		Project string

		StackPrefix string
		ConfigKey   string
		MatchValue  string

		MaxConcurrency int
		// FetchTimeout bounds each config lookup. Zero means no timeout.
		FetchTimeout time.Duration
	}

	// Service answers stack queries against a single workspace client shared by all requests.
	Service struct {
		Client  workspace.Client
		Options Options
	}

	// StackDetails is the full config and outputs of one stack. The zero value means the
	// lookup failed and encodes as `{}`; a found stack always carries both maps, possibly empty.
	StackDetails struct {
		Config map[string]workspace.ConfigValue `json:"config" yaml:"config"`
		Output map[string]workspace.OutputValue `json:"output" yaml:"output"`
	}

	stackDetailsJSON StackDetails
)

func (d StackDetails) Found() bool {
	return d.Config != nil || d.Output != nil
}

func (d StackDetails) MarshalJSON() ([]byte, error) {
	if !d.Found() {
		return []byte("{}"), nil
	}
	if d.Config == nil {
		d.Config = map[string]workspace.ConfigValue{}
	}
	if d.Output == nil {
		d.Output = map[string]workspace.OutputValue{}
	}
	return json.Marshal(stackDetailsJSON(d))
}

func (o Options) withDefaults() Options {
	if o.StackPrefix == "" {
		o.StackPrefix = DefaultStackPrefix
	}
	if o.ConfigKey == "" {
		o.ConfigKey = DefaultConfigKey
	}
	if o.MatchValue == "" {
		o.MatchValue = DefaultMatchValue
	}
	if o.MaxConcurrency < 1 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	return o
}

func NewService(client workspace.Client, opts Options) *Service {
	return &Service{
		Client:  client,
		Options: opts.withDefaults(),
	}
}

// IsCandidate reports whether the stack is subject to the tier classification at all.
func (s *Service) IsCandidate(name string) bool {
	return strings.HasPrefix(name, s.Options.StackPrefix)
}

func (s *Service) isCandidateStack(stack workspace.StackSummary) bool {
	return s.IsCandidate(stack.Name)
}

// Qualifies applies the classification to an already resolved lookup. A stack
// whose lookup failed or is missing never qualifies.
func (s *Service) Qualifies(name string, resolved *async.ConcurrentMap[string, workspace.ConfigValue]) bool {
	if !s.IsCandidate(name) {
		return false
	}
	v, ok := resolved.Get(name)
	return ok && v.Value == s.Options.MatchValue
}

// ListStacks returns every stack known to the workspace in enumeration order.
func (s *Service) ListStacks(ctx context.Context) ([]workspace.StackSummary, error) {
	stacks, err := s.Client.ListStacks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	if stacks == nil {
		stacks = []workspace.StackSummary{}
	}
	return stacks, nil
}

// ListQualifyingStacks returns the candidate stacks whose classification config equals the match value,
// preserving the enumeration order of the workspace. All lookups are resolved before any stack is classified.
func (s *Service) ListQualifyingStacks(ctx context.Context) ([]workspace.StackSummary, error) {
	log := logging.GetLogger(ctx).Named("tiers").Sugar()

	stacks, err := s.ListStacks(ctx)
	if err != nil {
		return nil, err
	}

	resolved := s.resolveConfig(ctx, stacks)

	result := filter.New(func(stack workspace.StackSummary) bool {
		return s.Qualifies(stack.Name, resolved)
	}).Apply(stacks...)
	log.Debugf("%d of %d stacks qualify (%s == %q)", len(result), len(stacks), s.Options.ConfigKey, s.Options.MatchValue)
	return result, nil
}

// resolveConfig fetches the classification key of every candidate stack on a bounded pool and waits for all of them.
// Failed lookups are logged and left out of the returned map.
func (s *Service) resolveConfig(ctx context.Context, stacks []workspace.StackSummary) *async.ConcurrentMap[string, workspace.ConfigValue] {
	log := logging.GetLogger(ctx).Named("tiers").Sugar()
	resolved := &async.ConcurrentMap[string, workspace.ConfigValue]{}

	candidates := make(set.Set[string])
	for _, stack := range filter.New(s.isCandidateStack).Apply(stacks...) {
		candidates.Add(stack.Name)
	}
	if candidates.Len() == 0 {
		return resolved
	}

	pool := pond.New(s.Options.MaxConcurrency, candidates.Len())
	defer pool.StopAndWait()

	var errs async.ConcurrentMap[string, error]
	group := pool.Group()
	for _, name := range candidates.ToSlice() {
		name := name
		group.Submit(func() {
			v, err := s.fetchConfig(ctx, name)
			if err != nil {
				errs.Set(name, err)
				log.Warnf("failed to get config %s for stack %s: %v", s.Options.ConfigKey, name, err)
				return
			}
			resolved.Set(name, v)
		})
	}
	group.Wait()

	if n := errs.Len(); n > 0 {
		var merr multierr.Error
		for _, e := range errs.Entries() {
			merr.Append(fmt.Errorf("%s: %w", e.Key, e.Value))
		}
		log.Debugf("%d of %d config lookups failed: %v", n, candidates.Len(), merr.ErrOrNil())
	}
	return resolved
}

func (s *Service) fetchConfig(ctx context.Context, name string) (workspace.ConfigValue, error) {
	if s.Options.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Options.FetchTimeout)
		defer cancel()
	}
	fqn := workspace.FullyQualifiedName(s.Options.Org, s.Options.Project, name)
	return s.Client.GetConfig(ctx, fqn, s.Options.ConfigKey)
}

// StackDetails returns the full config and outputs of a stack. Lookup failures are logged and yield empty details.
func (s *Service) StackDetails(ctx context.Context, name string) StackDetails {
	log := logging.GetLogger(ctx).Named("tiers").Sugar()
	if name == "" {
		log.Debug("no stack name given for details")
		return StackDetails{}
	}
	fqn := workspace.FullyQualifiedName(s.Options.Org, s.Options.Project, name)

	cfg, err := s.Client.GetAllConfig(ctx, fqn)
	if err != nil {
		log.Warnf("failed to get config for stack: %s, err: %v", name, err)
		return StackDetails{}
	}
	outputs, err := s.Client.StackOutputs(ctx, fqn)
	if err != nil {
		log.Warnf("failed to get output for stack: %s, err: %v", name, err)
		return StackDetails{}
	}
	if cfg == nil {
		cfg = map[string]workspace.ConfigValue{}
	}
	if outputs == nil {
		outputs = map[string]workspace.OutputValue{}
	}
	return StackDetails{Config: cfg, Output: outputs}
}
