// Package logging wires zap for ribezal while keeping the console output
// plain: callers never see zap's own timestamp/level framing, just a
// "[LOG]"/"[INFO]"/"[ERROR]"/"[HELP]" prefix carried in the message text.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger at the given level ("debug", "info", "warn",
// "error") that writes bare messages to stdout with no timestamp, level,
// or caller framing — the prefix is carried in the message itself by
// Log/Info/Errorf/Help.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	encCfg := zapcore.EncoderConfig{
		MessageKey: "msg",
		LineEnding: zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(os.Stdout)), lvl)
	return zap.New(core), nil
}

// Log emits a "[LOG] msg" line at info level.
func Log(l *zap.Logger, msg string) {
	l.Info("[LOG] " + msg)
}

// Info emits a "[INFO] ..." line at info level.
func Info(l *zap.Logger, format string, args ...any) {
	l.Info("[INFO] " + fmt.Sprintf(format, args...))
}

// Errorf emits a "[ERROR] ..." line at error level.
func Errorf(l *zap.Logger, format string, args ...any) {
	l.Error("[ERROR] " + fmt.Sprintf(format, args...))
}

// Help emits a "[HELP] msg" line at info level.
func Help(l *zap.Logger, msg string) {
	l.Info("[HELP] " + msg)
}

// Raw emits msg verbatim at info level, with no prefix added. Use this for
// text that already carries its own category prefix (or none at all), so
// it isn't wrapped in another layer of framing.
func Raw(l *zap.Logger, msg string) {
	l.Info(msg)
}
