// Package logging builds the process-wide zap logger.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger at the given level. When stderr is true all
// output goes to stderr; stdio transports own stdout, so anything written
// there would corrupt the protocol stream.
func New(level string, stderr bool) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	sink := zapcore.Lock(os.Stdout)
	if stderr {
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, lvl)
	return zap.New(core, zap.AddCaller())
}
