package utils

import (
	"os"
	"testing"
)

func TestRemoveFrontmatter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "with front matter",
			input: "---\ntitle: Hello\n---\n# Heading\n",
			want:  "# Heading\n",
		},
		{
			name:  "without front matter",
			input: "# Heading\n\nBody.\n",
			want:  "# Heading\n\nBody.\n",
		},
		{
			name:  "rule later in document",
			input: "Intro\n---\nMore\n---\n",
			want:  "Intro\n---\nMore\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(RemoveFrontmatter([]byte(tt.input)))
			if got != tt.want {
				t.Errorf("RemoveFrontmatter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("ALEXA_SSML_TEST_DIR", "/tmp/ssml")
	if got := ExpandPath("$ALEXA_SSML_TEST_DIR/out.ssml"); got != "/tmp/ssml/out.ssml" {
		t.Errorf("ExpandPath() = %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x.yml"); got != home+"/x.yml" {
		t.Errorf("ExpandPath(~) = %q, want prefix %q", got, home)
	}
}

func TestFileKinds(t *testing.T) {
	if !IsMarkdownFile("README.md") || !IsMarkdownFile("README") || IsMarkdownFile("main.go") {
		t.Error("IsMarkdownFile classification wrong")
	}
	if !IsScriptFile("intro.yaml") || !IsScriptFile("intro.JSON") || IsScriptFile("intro.md") {
		t.Error("IsScriptFile classification wrong")
	}
}
