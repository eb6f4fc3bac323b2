package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// PrettyFormatter renders compact colored lines for interactive regsync runs,
// where the phase markers and per-member action lines dominate the output.
// Lambda deployments use the JSON formatter so CloudWatch Logs stays
// queryable.
type PrettyFormatter struct{}

// Format renders one entry as "HH:MM:SS <glyph> message k=v k=v".
func (f *PrettyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	glyph, color := levelGlyph(entry.Level)

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s %s%s%s %s",
		colorGray, entry.Time.Format("15:04:05"), colorReset,
		color, glyph, colorReset,
		entry.Message,
	)

	// Fields print sorted so successive action lines line up and diff
	// cleanly in captured output.
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s%s%s=%v", colorCyan, k, colorReset, entry.Data[k])
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func levelGlyph(level logrus.Level) (string, string) {
	switch level {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "✗", colorRed
	case logrus.WarnLevel:
		return "⚠", colorYellow
	case logrus.DebugLevel, logrus.TraceLevel:
		return "·", colorGray
	default:
		return "•", colorGreen
	}
}

// NewLogger creates a configured logrus logger.
func NewLogger(level string, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	setFormatter(logger, format)
	setLevel(logger, level)
	return logger
}

// Configure sets output, format, and level on an existing logger.
func Configure(logger *logrus.Logger, out io.Writer, level string, format string) {
	if out != nil {
		logger.SetOutput(out)
	}
	setFormatter(logger, format)
	setLevel(logger, level)
}

func setFormatter(logger *logrus.Logger, format string) {
	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "pretty":
		logger.SetFormatter(&PrettyFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}
}

func setLevel(logger *logrus.Logger, level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}
