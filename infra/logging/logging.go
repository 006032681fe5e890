package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giovaniif/items/infra/loki"
)

type Options struct {
	Level   string
	Service string
	LokiURL string
	// Output defaults to stderr.
	Output io.Writer
}

// New builds a JSON zap logger. When LokiURL is set every entry is also
// pushed to Loki. The returned close function flushes both sinks.
func New(opts Options) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "ts"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(out), level)}

	lokiWriter := loki.NewWriter(opts.LokiURL, "items", opts.Service)
	if lokiWriter != nil {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), lokiWriter, level))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.Service != "" {
		logger = logger.With(zap.String("service", opts.Service))
	}
	return logger, func() {
		_ = logger.Sync()
		if lokiWriter != nil {
			_ = lokiWriter.Close()
		}
	}, nil
}
