package logging

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// CategoryWriter is a zapcore.Core that writes every named entry to `<root>/<category>.log`,
// where the category is the first segment of the logger name (eg `tiers`, `api`, `workspace`).
type CategoryWriter struct {
	Encoder     zapcore.Encoder
	LogRootPath string

	mu    *sync.Mutex
	files map[string]*os.File
}

func NewCategoryWriter(enc zapcore.Encoder, logRootPath string) *CategoryWriter {
	return &CategoryWriter{
		Encoder:     enc,
		LogRootPath: logRootPath,
		mu:          &sync.Mutex{},
		files:       make(map[string]*os.File),
	}
}

func (c *CategoryWriter) Enabled(zapcore.Level) bool {
	return true
}

func (c *CategoryWriter) With(fields []zapcore.Field) zapcore.Core {
	clone := &CategoryWriter{
		Encoder:     c.Encoder.Clone(),
		LogRootPath: c.LogRootPath,
		mu:          c.mu,
		files:       c.files,
	}
	for i := range fields {
		fields[i].AddTo(clone.Encoder)
	}
	return clone
}

func (c *CategoryWriter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ent.LoggerName == "" {
		return ce
	}
	return ce.AddCore(ent, c)
}

func category(loggerName string) (categ, rest string) {
	categ, rest, _ = strings.Cut(loggerName, ".")
	categ = strings.TrimSpace(categ)
	categ = strings.ReplaceAll(categ, string(os.PathSeparator), "_")
	return categ, rest
}

// file must be called with c.mu held.
func (c *CategoryWriter) file(categ string) (io.Writer, error) {
	if f, ok := c.files[categ]; ok {
		return f, nil
	}
	if err := os.MkdirAll(c.LogRootPath, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(c.LogRootPath, categ+".log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	c.files[categ] = f
	return f, nil
}

func (c *CategoryWriter) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	categ, rest := category(ent.LoggerName)
	if categ == "" {
		return nil
	}
	ent.LoggerName = rest

	buf, err := c.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()

	c.mu.Lock()
	defer c.mu.Unlock()
	w, err := c.file(categ)
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func (c *CategoryWriter) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs error
	for _, f := range c.files {
		errs = errors.Join(errs, f.Sync())
	}
	return errs
}
