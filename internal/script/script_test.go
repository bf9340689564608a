package script

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/alexa-ssml/ssml"
)

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(`
dialect: Alexa
steps:
  - speak: "Hello "
  - audio: https://example.com/chime.mp3
  - emphasis: {text: wow, level: strong}
  - say_as: {text: "2122241555", interpret_as: telephone}
  - prosody: {text: hi, volume: loud, rate: "50%"}
  - rate: {text: quick, value: fast}
  - pause: 500ms
  - pause: {strength: strong}
  - pause: {duration: 2s}
  - sub: {text: Al, alias: aluminium}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if s.Dialect != DialectAlexa {
		t.Errorf("Dialect = %q, want alexa", s.Dialect)
	}
	if len(s.Steps) != 10 {
		t.Fatalf("len(Steps) = %d, want 10", len(s.Steps))
	}

	tests := []struct {
		index int
		op    string
		args  any
	}{
		{0, OpSpeak, "Hello "},
		{1, OpAudio, "https://example.com/chime.mp3"},
		{2, OpEmphasis, EmphasisArgs{Text: "wow", Level: "strong"}},
		{3, OpSayAs, SayAsArgs{Text: "2122241555", InterpretAs: "telephone"}},
		{4, OpProsody, ProsodyArgs{Text: "hi", Volume: "loud", Rate: "50%"}},
		{5, OpRate, ValueArgs{Text: "quick", Value: "fast"}},
		{6, OpPause, PauseArgs{Duration: 500 * time.Millisecond}},
		{7, OpPause, PauseArgs{Strength: "strong"}},
		{8, OpPause, PauseArgs{Duration: 2 * time.Second}},
		{9, OpSub, SubArgs{Text: "Al", Alias: "aluminium"}},
	}
	for _, tt := range tests {
		step := s.Steps[tt.index]
		if step.Op != tt.op {
			t.Errorf("Steps[%d].Op = %q, want %q", tt.index, step.Op, tt.op)
		}
		if step.Args != tt.args {
			t.Errorf("Steps[%d].Args = %#v, want %#v", tt.index, step.Args, tt.args)
		}
	}
	if s.Steps[0].Line != 4 {
		t.Errorf("Steps[0].Line = %d, want 4", s.Steps[0].Line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		sentinel  error
		errorText string
	}{
		{
			name:     "empty document",
			input:    "",
			sentinel: ErrEmptyScript,
		},
		{
			name:      "unknown top level key",
			input:     "voice: joanna\nsteps: []\n",
			errorText: "field voice not found",
		},
		{
			name:      "unknown op with suggestion",
			input:     "steps:\n  - speak: hi\n  - spek: there\n",
			sentinel:  ErrUnknownStep,
			errorText: `step 2: unknown step "spek", did you mean speak?`,
		},
		{
			name:      "unknown op without suggestion",
			input:     "steps:\n  - zzz: there\n",
			sentinel:  ErrUnknownStep,
			errorText: "expected one of: speak, audio",
		},
		{
			name:      "two keys in one step",
			input:     "steps:\n  - speak: hi\n    audio: https://x/y.mp3\n",
			sentinel:  ErrMalformed,
			errorText: "exactly one key",
		},
		{
			name:      "unknown argument field",
			input:     "steps:\n  - emphasis: {text: hi, strength: strong}\n",
			sentinel:  ErrMalformed,
			errorText: "step 1 (emphasis)",
		},
		{
			name:      "mapping where string expected",
			input:     "steps:\n  - speak: {text: hi}\n",
			sentinel:  ErrMalformed,
			errorText: "expected a string value",
		},
		{
			name:      "bad duration",
			input:     "steps:\n  - pause: soon\n",
			sentinel:  ErrMalformed,
			errorText: `invalid duration "soon"`,
		},
		{
			name:      "pause with both fields",
			input:     "steps:\n  - pause: {duration: 1s, strength: weak}\n",
			sentinel:  ErrMalformed,
			errorText: "not both",
		},
		{
			name:      "pause with neither field",
			input:     "steps:\n  - pause: {}\n",
			sentinel:  ErrMalformed,
			errorText: "needs a duration or a strength",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() expected error but got none")
			}
			if tt.sentinel != nil && !errors.Is(err, tt.sentinel) {
				t.Errorf("Parse() error = %v, want errors.Is %v", err, tt.sentinel)
			}
			if !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("Parse() error = %q, want to contain %q", err.Error(), tt.errorText)
			}
		})
	}
}

func render(t *testing.T, doc string) (string, error) {
	t.Helper()
	s, err := ParseBytes([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return Render(s)
}

func TestRenderAlexa(t *testing.T) {
	got, err := render(t, `
steps:
  - speak: "Hello "
  - audio: https://example.com/chime.mp3
  - emphasis: {text: wow, level: strong}
  - say_as: {text: "2122241555", interpret_as: telephone}
  - role: {text: read, role: "amazon:VBD"}
  - prosody: {text: hi, volume: loud, pitch: low, rate: "50%"}
  - volume: {text: shh, value: x-soft}
  - speechcon: bingo
  - pause: 1500ms
  - pause: {strength: x-strong}
  - paragraph: para
  - sentence: sent
  - sub: {text: Al, alias: aluminium}
`)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `<speak>Hello ` +
		`<audio src="https://example.com/chime.mp3"/>` +
		`<emphasis level="strong">wow</emphasis>` +
		`<say-as interpret-as="telephone">2122241555</say-as>` +
		`<w role="amazon:VBD">read</w>` +
		`<prosody volume="loud" pitch="low" rate="50%">hi</prosody>` +
		`<prosody volume="x-soft">shh</prosody>` +
		`<say-as interpret-as="interjection">bingo</say-as>` +
		`<break time="1500ms"/>` +
		`<break strength="x-strong"/>` +
		`<p>para</p>` +
		`<s>sent</s>` +
		`<sub alias="aluminium">Al</sub>` +
		`</speak>`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderWhisper(t *testing.T) {
	got, err := render(t, "steps:\n  - whisper: secret\n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != `<speak><amazon:effect name="whispered">secret</amazon:effect></speak>` {
		t.Errorf("Render() = %s", got)
	}
}

func TestRenderGeneric(t *testing.T) {
	got, err := render(t, `
dialect: generic
steps:
  - lang: {text: bonjour, lang: fr-FR}
  - lang_start: en-GB
  - speak: cheerio
  - lang_end: en-GB
  - mark: here
  - volume: {text: quiet, value: default}
`)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := `<speak><lang xml:lang="fr-FR">bonjour</lang>` +
		`<lang xml:lang="en-GB">cheerio</lang>` +
		`<mark name="here"/>` +
		`<prosody volume="default">quiet</prosody></speak>`
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		sentinel  error
		errorText string
	}{
		{
			name:      "insecure audio",
			input:     "steps:\n  - speak: hi\n  - audio: http://example.com/a.mp3\n",
			sentinel:  ssml.ErrInvalidValue,
			errorText: "step 2 (audio): ssml: PlayAudio: url must start with https://",
		},
		{
			name:      "mark under alexa",
			input:     "steps:\n  - mark: here\n",
			sentinel:  ssml.ErrUnsupported,
			errorText: "step 1 (mark)",
		},
		{
			name:      "lang under alexa",
			input:     "steps:\n  - lang: {text: hola, lang: es-ES}\n",
			sentinel:  ssml.ErrUnsupported,
			errorText: "<lang>",
		},
		{
			name:      "default volume under alexa",
			input:     "steps:\n  - volume: {text: x, value: default}\n",
			sentinel:  ssml.ErrTypeMismatch,
			errorText: "'default' for the volume",
		},
		{
			name:      "short percentage rate under alexa",
			input:     "steps:\n  - rate: {text: x, value: \"5%\"}\n",
			sentinel:  ssml.ErrTypeMismatch,
			errorText: "rate should be",
		},
		{
			name:      "whisper under generic",
			input:     "dialect: generic\nsteps:\n  - whisper: psst\n",
			sentinel:  ssml.ErrUnsupported,
			errorText: "the generic dialect has no <amazon:effect> tag",
		},
		{
			name:      "speechcon under generic",
			input:     "dialect: generic\nsteps:\n  - speechcon: bingo\n",
			sentinel:  ssml.ErrTypeMismatch,
			errorText: "interpret-as should be one of",
		},
		{
			name:      "unknown dialect",
			input:     "dialect: polly\nsteps: []\n",
			sentinel:  ErrUnknownDialect,
			errorText: `unknown dialect "polly"`,
		},
		{
			name:      "pause too long",
			input:     "steps:\n  - pause: 11s\n",
			sentinel:  ssml.ErrInvalidValue,
			errorText: "step 1 (pause)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(t, tt.input)
			if err == nil {
				t.Fatalf("Render() = %q, expected error", got)
			}
			if got != "" {
				t.Errorf("Render() returned output %q alongside error", got)
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Render() error = %v, want errors.Is %v", err, tt.sentinel)
			}
			if !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("Render() error = %q, want to contain %q", err.Error(), tt.errorText)
			}
		})
	}
}

func TestRenderEmptySteps(t *testing.T) {
	got, err := render(t, "steps: []\n")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != "<speak></speak>" {
		t.Errorf("Render() = %q, want empty speak", got)
	}
}

func TestOpsIsACopy(t *testing.T) {
	a := Ops()
	a[0] = "changed"
	if Ops()[0] != OpSpeak {
		t.Error("Ops() exposes the internal slice")
	}
}
