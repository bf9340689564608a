// Package logging sets up charmbracelet/log for alexa-ssml and records
// render metrics at debug level.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"

	"github.com/dgnsrekt/alexa-ssml/utils"
)

// AppName is used for the log file and the user directories.
const AppName = "alexa-ssml"

// DefaultLogFile returns the log file path under the user cache directory.
func DefaultLogFile() (string, error) {
	dir, err := gap.NewScope(gap.User, AppName).CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}

// ParseLevel maps a config level name to a log level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unsupported log level: %s", level)
	}
}

// Setup routes the default logger to file (or the default log file when
// empty) at the given level. Stdout stays reserved for rendered output.
// The returned closer closes the log file.
func Setup(level, file string) (func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log.SetOutput(io.Discard)

	if file == "" {
		file, err = DefaultLogFile()
		if err != nil {
			return nil, err
		}
	}
	file = utils.ExpandPath(file)

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil { //nolint:gosec
		return nil, err
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, err
	}

	log.SetOutput(f)
	log.SetReportTimestamp(true)
	log.SetTimeFormat(time.RFC3339)
	log.SetLevel(lvl)
	log.Debug("logging initialized", "level", lvl, "path", file)

	return f.Close, nil
}

// Metrics describes one render.
type Metrics struct {
	Kind      string
	Source    string
	Dialect   string
	Start     time.Time
	Duration  time.Duration
	Fragments int
	Bytes     int
	Err       error
}

// StartRender starts tracking a render of source.
func StartRender(kind, source, dialect string) *Metrics {
	m := &Metrics{
		Kind:    kind,
		Source:  source,
		Dialect: dialect,
		Start:   time.Now(),
	}
	log.Debug("render started", "kind", kind, "source", source, "dialect", dialect)
	return m
}

// End completes the render and logs the outcome. A zero fragment count
// is left out of the log line.
func (m *Metrics) End(output string, fragments int, err error) {
	m.Duration = time.Since(m.Start)
	m.Fragments = fragments
	m.Bytes = len(output)
	m.Err = err

	if err != nil {
		log.Error("render failed",
			"kind", m.Kind,
			"source", m.Source,
			"duration", m.Duration,
			"error", err)
		return
	}
	kv := []any{
		"kind", m.Kind,
		"source", m.Source,
		"dialect", m.Dialect,
		"size", humanize.Bytes(uint64(m.Bytes)), //nolint:gosec
		"duration", m.Duration,
	}
	if m.Fragments > 0 {
		kv = append(kv, "fragments", m.Fragments)
	}
	log.Debug("render completed", kv...)
}
