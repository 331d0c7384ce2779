package logging

import (
	"fmt"
	"os"
	"strings"

	prettyconsole "github.com/thessem/zap-prettyconsole"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type LogOpts struct {
	// Verbosity 0 logs at info, 1 and above at debug. Above 1 adds caller information.
	Verbosity       int
	Color           string
	CategoryLogsDir string
	Encoding        string
	DefaultLevels   map[string]zapcore.Level
}

func (opts LogOpts) encoderConfig() zapcore.EncoderConfig {
	var cfg zapcore.EncoderConfig
	if opts.Verbosity > 0 {
		cfg = zap.NewDevelopmentEncoderConfig()
	} else {
		cfg = zap.NewProductionEncoderConfig()
	}
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func (opts LogOpts) useColor() bool {
	switch opts.Color {
	case "always", "on":
		return true
	case "never", "off":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

func (opts LogOpts) Encoder() zapcore.Encoder {
	switch opts.Encoding {
	case "json":
		return zapcore.NewJSONEncoder(opts.encoderConfig())
	case "console", "pretty_console", "":
		if opts.useColor() {
			cfg := prettyconsole.NewEncoderConfig()
			cfg.EncodeTime = zapcore.ISO8601TimeEncoder
			return prettyconsole.NewEncoder(cfg)
		}
		cfg := opts.encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	default:
		panic(fmt.Errorf("unknown encoding %q", opts.Encoding))
	}
}

// Levels returns the per-module levels, overridden entirely by LOG_LEVEL
// (eg `LOG_LEVEL=tiers=debug,api.access=warn`) when set.
func (opts LogOpts) Levels() map[string]zapcore.Level {
	levelEnv, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		return opts.DefaultLevels
	}
	values := strings.Split(levelEnv, ",")
	levels := make(map[string]zapcore.Level, len(values))
	for _, v := range values {
		k, v, ok := strings.Cut(v, "=")
		if !ok {
			continue
		}
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		levels[strings.TrimSpace(k)] = lvl
	}
	return levels
}

func (opts LogOpts) CategoryCore(core zapcore.Core) zapcore.Core {
	if opts.CategoryLogsDir == "" {
		return core
	}
	var categEnc zapcore.Encoder
	switch opts.Encoding {
	case "json":
		categEnc = zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
	default:
		categEnc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zapcore.NewTee(core, NewCategoryWriter(categEnc, opts.CategoryLogsDir))
}

func (opts LogOpts) NewCore(w zapcore.WriteSyncer) zapcore.Core {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Verbosity > 0 {
		level.SetLevel(zap.DebugLevel)
	}

	core := zapcore.NewCore(opts.Encoder(), w, level)
	if levels := opts.Levels(); len(levels) > 0 {
		core = NewEntryLeveller(core, levels)
	}
	return opts.CategoryCore(core)
}

func (opts LogOpts) NewLogger() *zap.Logger {
	var zopts []zap.Option
	if opts.Verbosity > 1 {
		zopts = append(zopts, zap.AddCaller())
	}
	return zap.New(opts.NewCore(zapcore.Lock(os.Stderr)), zopts...)
}
