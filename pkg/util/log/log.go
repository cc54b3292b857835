// Package log constructs go-kit loggers.
package log

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	dslog "github.com/grafana/dskit/log"
)

const (
	FormatLogfmt = "logfmt"
	FormatJSON   = "json"
)

// NewLogger creates a logger writing to w in the given format, either
// logfmt or json. Messages below lvl (debug, info, warn or error) are
// dropped.
func NewLogger(format, lvl string, w io.Writer) (log.Logger, error) {
	var l dslog.Level
	if err := l.Set(lvl); err != nil {
		return nil, err
	}

	var logger log.Logger
	switch format {
	case FormatLogfmt, "":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
	case FormatJSON:
		logger = log.NewJSONLogger(log.NewSyncWriter(w))
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}

	logger = level.NewFilter(logger, l.Option)
	return log.With(logger, "ts", log.DefaultTimestampUTC), nil
}
