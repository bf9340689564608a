package logging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input     string
		want      log.Level
		wantError bool
	}{
		{"debug", log.DebugLevel, false},
		{"INFO", log.InfoLevel, false},
		{"", log.InfoLevel, false},
		{"warn", log.WarnLevel, false},
		{"error", log.ErrorLevel, false},
		{"trace", log.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseLevel(%q) error = %v, wantError %v", tt.input, err, tt.wantError)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "render.log")

	closer, err := Setup("debug", path)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	m := StartRender("script", "intro.yaml", "alexa")
	m.End("<speak>hello</speak>", 1, nil)
	StartRender("markdown", "README.md", "alexa").End("", 0, errors.New("boom"))

	if err := closer(); err != nil {
		t.Fatalf("closer() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	for _, want := range []string{"render completed", "intro.yaml", "20 B", "render failed", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log file missing %q:\n%s", want, out)
		}
	}

	if m.Bytes != len("<speak>hello</speak>") || m.Fragments != 1 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if _, err := Setup("verbose", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Error("Setup() expected error for unknown level")
	}
}
