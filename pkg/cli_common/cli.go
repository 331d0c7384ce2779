package clicommon

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/klothoplatform/stackquery/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type CommonConfig struct {
	Verbosity  LevelledFlag
	JSONLog    bool
	Color      string
	LogsDir    string
	ProfileTo  string
	ConfigFile string
}

func setupProfiling(commonCfg *CommonConfig) func() {
	if commonCfg.ProfileTo == "" {
		return func() {}
	}
	err := os.MkdirAll(filepath.Dir(commonCfg.ProfileTo), 0755)
	if err != nil {
		panic(fmt.Errorf("failed to create profile directory: %w", err))
	}
	profileF, err := os.OpenFile(commonCfg.ProfileTo, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		panic(fmt.Errorf("failed to open profile file: %w", err))
	}
	err = pprof.StartCPUProfile(profileF)
	if err != nil {
		panic(fmt.Errorf("failed to start profile: %w", err))
	}
	return func() {
		pprof.StopCPUProfile()
		profileF.Close()
	}
}

// LogOpts builds the logger options for the parsed flags.
func (commonCfg *CommonConfig) LogOpts() logging.LogOpts {
	opts := logging.LogOpts{
		Verbosity:       int(commonCfg.Verbosity),
		Color:           commonCfg.Color,
		CategoryLogsDir: commonCfg.LogsDir,
	}
	if commonCfg.JSONLog {
		opts.Encoding = "json"
	}
	return opts
}

func SetupRoot(root *cobra.Command, commonCfg *CommonConfig) {
	flags := root.PersistentFlags()
	flags.VarP(&commonCfg.Verbosity, "verbose", "v", "Enable verbose logging, repeat for more detail")
	flags.Lookup("verbose").NoOptDefVal = "true"
	flags.BoolVar(&commonCfg.JSONLog, "json-log", false, "Enable JSON logging")
	flags.StringVar(&commonCfg.Color, "color", "auto", "Colorize console logs: auto, always or never")
	flags.StringVar(&commonCfg.LogsDir, "logs-dir", "", "Directory to write per-category logs to")
	flags.StringVar(&commonCfg.ProfileTo, "profiling", "", "Profile to file")
	flags.StringVar(&commonCfg.ConfigFile, "config", "", "Config file (defaults to ./stackquery.yaml when present)")

	profileClose := func() {}

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		zap.ReplaceGlobals(commonCfg.LogOpts().NewLogger())

		profileClose = setupProfiling(commonCfg)
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		zap.L().Sync() //nolint:errcheck

		profileClose()
	}
}
