package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "STACKQUERY"
	ConfigName = "stackquery"

	DefaultPort = 3000
)

type Config struct {
	Port    int    `mapstructure:"port" yaml:"port"`
	WorkDir string `mapstructure:"work-dir" yaml:"work-dir"`

	Org     string `mapstructure:"org" yaml:"org"`
	Project string `mapstructure:"project" yaml:"project"`

	StackPrefix string `mapstructure:"stack-prefix" yaml:"stack-prefix"`
	ConfigKey   string `mapstructure:"config-key" yaml:"config-key"`
	MatchValue  string `mapstructure:"match-value" yaml:"match-value"`

	MaxConcurrency int           `mapstructure:"max-concurrency" yaml:"max-concurrency"`
	FetchTimeout   time.Duration `mapstructure:"fetch-timeout" yaml:"fetch-timeout"`

	PulumiHome       string `mapstructure:"pulumi-home" yaml:"pulumi-home"`
	ConfigPassphrase string `mapstructure:"config-passphrase" yaml:"-"`
}

func Defaults() Config {
	return Config{
		Port:           DefaultPort,
		WorkDir:        ".",
		StackPrefix:    tiers.DefaultStackPrefix,
		ConfigKey:      tiers.DefaultConfigKey,
		MatchValue:     tiers.DefaultMatchValue,
		MaxConcurrency: tiers.DefaultMaxConcurrency,
	}
}

// AddWorkspaceFlags registers the flags needed to open a workspace and run queries.
func AddWorkspaceFlags(flags *pflag.FlagSet) {
	d := Defaults()
	flags.String("work-dir", d.WorkDir, "Pulumi project directory the workspace operates on")
	flags.String("org", d.Org, "Organization used to qualify stack names for config lookups")
	flags.String("project", d.Project, "Project used to qualify stack names for config lookups")
	flags.String("stack-prefix", d.StackPrefix, "Only stacks with this name prefix are classified")
	flags.String("config-key", d.ConfigKey, "Config key that classifies a stack")
	flags.String("match-value", d.MatchValue, "Config value a stack must have to qualify")
	flags.Int("max-concurrency", d.MaxConcurrency, "Maximum concurrent config lookups per query")
	flags.Duration("fetch-timeout", d.FetchTimeout, "Timeout for each config lookup (0 for none)")
	flags.String("pulumi-home", d.PulumiHome, "Override PULUMI_HOME")
}

// AddServerFlags registers the listener flags on top of the workspace flags.
func AddServerFlags(flags *pflag.FlagSet) {
	AddWorkspaceFlags(flags)
	flags.IntP("port", "p", DefaultPort, "Port to listen on")
}

// NewViper creates a viper instance with defaults and environment bindings applied.
// Environment variables are `STACKQUERY_<KEY>` with dashes replaced by underscores; the
// port additionally honours the conventional `PORT`.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("port", d.Port)
	v.SetDefault("work-dir", d.WorkDir)
	v.SetDefault("org", d.Org)
	v.SetDefault("project", d.Project)
	v.SetDefault("stack-prefix", d.StackPrefix)
	v.SetDefault("config-key", d.ConfigKey)
	v.SetDefault("match-value", d.MatchValue)
	v.SetDefault("max-concurrency", d.MaxConcurrency)
	v.SetDefault("fetch-timeout", d.FetchTimeout)
	v.SetDefault("pulumi-home", d.PulumiHome)
	v.SetDefault("config-passphrase", d.ConfigPassphrase)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")
	_ = v.BindEnv("config-passphrase", "PULUMI_CONFIG_PASSPHRASE")
	return v
}

// Load resolves the configuration with precedence flag > env > file > default. An explicit
// configFile must exist; otherwise `stackquery.yaml` in the working directory is optional.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("could not bind flags: %w", err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.WorkDir == "" {
		errs = append(errs, errors.New("work-dir must be set"))
	}
	if c.StackPrefix == "" {
		errs = append(errs, errors.New("stack-prefix must be set"))
	}
	if c.ConfigKey == "" {
		errs = append(errs, errors.New("config-key must be set"))
	}
	if c.MatchValue == "" {
		errs = append(errs, errors.New("match-value must be set"))
	}
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("max-concurrency must be at least 1, got %d", c.MaxConcurrency))
	}
	if c.FetchTimeout < 0 {
		errs = append(errs, fmt.Errorf("fetch-timeout must not be negative, got %s", c.FetchTimeout))
	}
	return errors.Join(errs...)
}

func (c Config) TierOptions() tiers.Options {
	return tiers.Options{
		Org:            c.Org,
		Project:        c.Project,
		StackPrefix:    c.StackPrefix,
		ConfigKey:      c.ConfigKey,
		MatchValue:     c.MatchValue,
		MaxConcurrency: c.MaxConcurrency,
		FetchTimeout:   c.FetchTimeout,
	}
}

func (c Config) WorkspaceOptions() workspace.LocalOptions {
	return workspace.LocalOptions{
		WorkDir:    c.WorkDir,
		PulumiHome: c.PulumiHome,
		Passphrase: c.ConfigPassphrase,
	}
}
