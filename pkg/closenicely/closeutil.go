package closenicely

import (
	"io"

	"go.uber.org/zap"
)

// OrDebug closes c, logging any failure at debug on the global logger.
func OrDebug(c io.Closer) {
	FuncOrDebug(c.Close)
}

func FuncOrDebug(closer func() error) {
	if err := closer(); err != nil {
		zap.L().Debug("Failed to close resource", zap.Error(err))
	}
}

// DrainAndClose discards what is left of rc before closing it so the underlying
// HTTP connection can be reused.
func DrainAndClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, rc)
	OrDebug(rc)
}
