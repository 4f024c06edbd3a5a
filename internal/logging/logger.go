package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// NewLogger creates an hclog logger writing to output (stderr when nil).
// JSON output is selected with JNIENV_JSON_LOG=1.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv("JNIENV_JSON_LOG") == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// GetLogLevel returns JNIENV_LOG_LEVEL, defaulting to warn.
func GetLogLevel() string {
	level := os.Getenv("JNIENV_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	return level
}
