package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// EntryLeveller is a zapcore.Core that filters log entries by logger name, with the most
// specific dotted prefix winning: a level for "api" applies to "api.access" unless
// "api.access" has its own. The "" module sets a floor for all named loggers.
type EntryLeveller struct {
	zapcore.Core

	levels map[string]zapcore.Level
	// lowest is the most verbose configured level, used by Enabled so a module can be
	// raised above the level of the wrapped core.
	lowest zapcore.Level
	hasAny bool
}

func NewEntryLeveller(core zapcore.Core, levels map[string]zapcore.Level) *EntryLeveller {
	el := &EntryLeveller{Core: core, levels: make(map[string]zapcore.Level, len(levels))}
	for k, v := range levels {
		el.levels[k] = v
		if !el.hasAny || v < el.lowest {
			el.lowest = v
			el.hasAny = true
		}
	}
	return el
}

func (el *EntryLeveller) With(f []zapcore.Field) zapcore.Core {
	return &EntryLeveller{
		Core:   el.Core.With(f),
		levels: el.levels,
		lowest: el.lowest,
		hasAny: el.hasAny,
	}
}

// Enabled is true when either the wrapped core or any configured module would accept lvl.
// Check makes the final decision per logger name.
func (el *EntryLeveller) Enabled(lvl zapcore.Level) bool {
	return el.Core.Enabled(lvl) || (el.hasAny && lvl >= el.lowest)
}

// LevelFor returns the configured level for a logger name, if any applies.
func (el *EntryLeveller) LevelFor(name string) (zapcore.Level, bool) {
	for module := name; ; {
		if lvl, ok := el.levels[module]; ok {
			return lvl, true
		}
		i := strings.LastIndexByte(module, '.')
		if i < 0 {
			break
		}
		module = module[:i]
	}
	if name != "" {
		lvl, ok := el.levels[""]
		return lvl, ok
	}
	return 0, false
}

func (el *EntryLeveller) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	lvl, ok := el.LevelFor(e.LoggerName)
	if !ok {
		return el.Core.Check(e, ce)
	}
	if e.Level < lvl {
		return ce
	}
	// Write on the wrapped core is not level gated, so entries below its own level still go through.
	return ce.AddCore(e, el)
}
