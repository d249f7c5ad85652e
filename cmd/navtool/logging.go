package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logOptions selects where navtool logs go.
type logOptions struct {
	file       string
	level      string
	maxSizeMB  int
	maxBackups int
}

// newLogger writes JSON lines to a rotating file when opts.file is set and
// console lines to stderr otherwise. The returned closer releases the log
// file and is nil when logging to stderr.
func newLogger(opts logOptions, stderr io.Writer) (*zap.Logger, io.Closer, error) {
	lvl, err := zapcore.ParseLevel(opts.level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var (
		core   zapcore.Core
		closer io.Closer
	)
	if opts.file != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.file,
			MaxSize:    opts.maxSizeMB,
			MaxBackups: opts.maxBackups,
		}
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), lvl)
		closer = rotator
	} else {
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(stderr)), lvl)
	}
	return zap.New(core), closer, nil
}
