// internal/logger/pretty.go
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Colors for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

func prettyEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    customLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// PrettyEncoder creates a user-friendly console encoder
func PrettyEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(prettyEncoderConfig())
}

// customLevelEncoder formats log levels with colors
func customLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString(fmt.Sprintf("%s[DEBUG]%s", ColorCyan, ColorReset))
	case zapcore.InfoLevel:
		enc.AppendString(fmt.Sprintf("%s[INFO]%s", ColorGreen, ColorReset))
	case zapcore.WarnLevel:
		enc.AppendString(fmt.Sprintf("%s[WARN]%s", ColorYellow, ColorReset))
	case zapcore.ErrorLevel:
		enc.AppendString(fmt.Sprintf("%s[ERROR]%s", ColorRed, ColorReset))
	case zapcore.FatalLevel:
		enc.AppendString(fmt.Sprintf("%s[FATAL]%s", ColorRed+ColorBold, ColorReset))
	default:
		enc.AppendString(fmt.Sprintf("[%s]", level.CapitalString()))
	}
}

// customTimeEncoder formats time in a readable way
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05"))
}

func level(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// CreatePrettyLogger writes friendly one-line messages to stderr, leaving
// stdout to command output.
func CreatePrettyLogger(debug bool) *zap.Logger {
	return NewPrettyLogger(os.Stderr, debug)
}

// NewPrettyLogger is CreatePrettyLogger with an explicit writer.
func NewPrettyLogger(w io.Writer, debug bool) *zap.Logger {
	core := zapcore.NewCore(
		PrettyEncoder(),
		zapcore.Lock(zapcore.AddSync(w)),
		level(debug),
	)
	return zap.New(&FieldFilterCore{core: core})
}

// FormatMessage creates user-friendly log messages
func FormatMessage(msg string, fields ...zap.Field) string {
	switch {
	case strings.Contains(msg, "Dashboard engine started"):
		return fmt.Sprintf("%s▶ Live simulation started (%s rows, tick %s)%s",
			ColorGreen, extractField(fields, "rows"), extractField(fields, "tick_interval"), ColorReset)

	case strings.Contains(msg, "Dashboard engine stopped"):
		return fmt.Sprintf("%s■ Live simulation stopped after %s ticks%s",
			ColorBlue, extractField(fields, "ticks"), ColorReset)

	case strings.Contains(msg, "Dashboard engine paused"):
		if extractField(fields, "paused") == "true" {
			return fmt.Sprintf("%s⏸ Paused%s", ColorYellow, ColorReset)
		}
		return fmt.Sprintf("%s▶ Resumed%s", ColorGreen, ColorReset)

	case strings.Contains(msg, "Snapshot exported"):
		return fmt.Sprintf("%s💾 Snapshot exported: %s%s",
			ColorGreen, shortenPath(extractField(fields, "path")), ColorReset)

	case strings.Contains(msg, "Export attempt failed"):
		return fmt.Sprintf("%s↻ Export failed, retrying: %s%s",
			ColorYellow, extractField(fields, "error"), ColorReset)

	case strings.Contains(msg, "History generated"):
		return fmt.Sprintf("%s📈 Generated %s days of desk PnL%s",
			ColorCyan, extractField(fields, "days"), ColorReset)

	default:
		return msg
	}
}

// Helper functions
func extractField(fields []zap.Field, key string) string {
	for _, field := range fields {
		if field.Key != key {
			continue
		}
		switch field.Type {
		case zapcore.StringType:
			return field.String
		case zapcore.BoolType:
			return fmt.Sprintf("%t", field.Integer == 1)
		case zapcore.DurationType:
			return time.Duration(field.Integer).String()
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
			zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
			return fmt.Sprintf("%d", field.Integer)
		case zapcore.ErrorType:
			if err, ok := field.Interface.(error); ok {
				return err.Error()
			}
		}
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

func shortenPath(path string) string {
	if len(path) > 40 {
		return "..." + path[len(path)-37:]
	}
	return path
}

// FieldFilterCore rewrites known messages and drops structured fields from
// console output.
type FieldFilterCore struct {
	core   zapcore.Core
	fields []zapcore.Field
}

func (c *FieldFilterCore) Enabled(level zapcore.Level) bool {
	return c.core.Enabled(level)
}

func (c *FieldFilterCore) With(fields []zapcore.Field) zapcore.Core {
	merged := append(append([]zapcore.Field{}, c.fields...), fields...)
	return &FieldFilterCore{core: c.core, fields: merged}
}

func (c *FieldFilterCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *FieldFilterCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, c.fields...), fields...)

	cleanEntry := entry
	cleanEntry.Message = FormatMessage(entry.Message, all...)
	if cleanEntry.Message == entry.Message {
		if errMsg := extractField(all, "error"); errMsg != "" {
			cleanEntry.Message = fmt.Sprintf("%s: %s", entry.Message, errMsg)
		}
	}

	return c.core.Write(cleanEntry, nil)
}

func (c *FieldFilterCore) Sync() error {
	return c.core.Sync()
}

// CreateTUILogger writes JSON entries only into buffer so nothing reaches the
// terminal owned by the TUI. The buffer spills to its rotating file.
func CreateTUILogger(debug bool, buffer *LogBuffer) (*zap.Logger, error) {
	if buffer == nil {
		return nil, fmt.Errorf("buffer is required for TUI logger")
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	bufferCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buffer),
		level(debug),
	)

	return zap.New(bufferCore), nil
}
