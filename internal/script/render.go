package script

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/alexa-ssml/alexa"
	"github.com/dgnsrekt/alexa-ssml/ssml"
)

// Supported dialects. An empty dialect renders as alexa.
const (
	DialectAlexa   = "alexa"
	DialectGeneric = "generic"
)

// target is the set of builder operations a script can drive.
type target interface {
	speak(text string)
	audio(url string)
	emphasis(text, level string)
	sayAs(text, as string)
	role(text, role string)
	prosody(text, volume, pitch, rate string)
	speechcon(text string)
	pause(p PauseArgs)
	paragraph(text string)
	sentence(text string)
	whisper(text string)
	sub(text, alias string)
	lang(text, lang string)
	langStart(lang string)
	langEnd(lang string)
	mark(name string)

	err() error
	build() (string, error)
}

// Render replays the script onto a builder for its dialect and returns the
// finished document. The first failing step stops the render.
func Render(s *Script) (string, error) {
	t, err := newTarget(s.Dialect)
	if err != nil {
		return "", err
	}

	for i, step := range s.Steps {
		apply(t, step)
		if err := t.err(); err != nil {
			log.Debug("script step failed", "index", i+1, "op", step.Op, "line", step.Line, "error", err)
			return "", &StepError{Index: i + 1, Op: step.Op, Err: err}
		}
	}
	return t.build()
}

func newTarget(dialect string) (target, error) {
	switch dialect {
	case DialectAlexa, "":
		return &alexaTarget{b: alexa.New()}, nil
	case DialectGeneric:
		return &genericTarget{b: ssml.New()}, nil
	default:
		return nil, fmt.Errorf("%w %q: must be one of %v", ErrUnknownDialect, dialect, []string{DialectAlexa, DialectGeneric})
	}
}

func apply(t target, step Step) {
	switch a := step.Args.(type) {
	case string:
		switch step.Op {
		case OpSpeak:
			t.speak(a)
		case OpAudio:
			t.audio(a)
		case OpSpeechcon:
			t.speechcon(a)
		case OpParagraph:
			t.paragraph(a)
		case OpSentence:
			t.sentence(a)
		case OpWhisper:
			t.whisper(a)
		case OpMark:
			t.mark(a)
		case OpLangStart:
			t.langStart(a)
		case OpLangEnd:
			t.langEnd(a)
		}
	case EmphasisArgs:
		t.emphasis(a.Text, a.Level)
	case SayAsArgs:
		t.sayAs(a.Text, a.InterpretAs)
	case RoleArgs:
		t.role(a.Text, a.Role)
	case ProsodyArgs:
		t.prosody(a.Text, a.Volume, a.Pitch, a.Rate)
	case ValueArgs:
		switch step.Op {
		case OpVolume:
			t.prosody(a.Text, a.Value, "", "")
		case OpPitch:
			t.prosody(a.Text, "", a.Value, "")
		case OpRate:
			t.prosody(a.Text, "", "", a.Value)
		}
	case SubArgs:
		t.sub(a.Text, a.Alias)
	case LangArgs:
		t.lang(a.Text, a.Lang)
	case PauseArgs:
		t.pause(a)
	}
}

type alexaTarget struct {
	b *alexa.Builder
}

func (t *alexaTarget) speak(text string) { t.b.Speak(text) }
func (t *alexaTarget) audio(url string) { t.b.PlayAudio(url) }

func (t *alexaTarget) emphasis(text, level string) {
	t.b.SpeakWithEmphasis(text, alexa.Emphasis(level))
}

func (t *alexaTarget) sayAs(text, as string) { t.b.SpeakAs(text, ssml.InterpretAs(as)) }
func (t *alexaTarget) role(text, role string) {
	t.b.SpeakWithRole(text, ssml.Role(role))
}

// prosody routes single attributes to the dedicated operations so their
// alexa checks and error messages apply.
func (t *alexaTarget) prosody(text, volume, pitch, rate string) {
	switch {
	case volume != "" && pitch == "" && rate == "":
		t.b.SpeakWithVolume(text, ssml.Volume(volume))
	case volume == "" && pitch != "" && rate == "":
		t.b.SpeakWithPitch(text, ssml.Pitch(pitch))
	case volume == "" && pitch == "" && rate != "":
		t.b.SpeakWithRate(text, ssml.Rate(rate))
	default:
		t.b.SpeakWithProsody(text, ssml.Volume(volume), ssml.Pitch(pitch), ssml.Rate(rate))
	}
}

func (t *alexaTarget) speechcon(text string) { t.b.SpeakWithSpeechcon(text) }

func (t *alexaTarget) pause(p PauseArgs) {
	if p.Strength != "" {
		t.b.PauseByStrength(ssml.BreakStrength(p.Strength))
		return
	}
	t.b.Pause(p.Duration)
}

func (t *alexaTarget) paragraph(text string) { t.b.Paragraph(text) }
func (t *alexaTarget) sentence(text string) { t.b.Sentence(text) }
func (t *alexaTarget) whisper(text string) { t.b.Whisper(text) }
func (t *alexaTarget) sub(text, alias string) { t.b.Substitute(text, alias) }
func (t *alexaTarget) lang(text, lang string) { t.b.SpeakWithLanguage(text, lang) }
func (t *alexaTarget) langStart(lang string) { t.b.StartLanguage(lang) }
func (t *alexaTarget) langEnd(lang string) { t.b.EndLanguage(lang) }
func (t *alexaTarget) mark(name string) { t.b.Mark(name) }
func (t *alexaTarget) err() error { return t.b.Err() }
func (t *alexaTarget) build() (string, error) { return t.b.Build() }

type genericTarget struct {
	b *ssml.Builder
}

func (t *genericTarget) unsupported(op, tag string) {
	t.b.Fail(ssml.UnsupportedError(op, "the generic dialect has no <%s> tag", tag))
}

func (t *genericTarget) speak(text string) { t.b.Speak(text) }
func (t *genericTarget) audio(string) { t.unsupported("PlayAudio", "audio") }
func (t *genericTarget) emphasis(_, _ string) {
	t.unsupported("SpeakWithEmphasis", "emphasis")
}

func (t *genericTarget) sayAs(text, as string) { t.b.SpeakAs(text, ssml.InterpretAs(as)) }
func (t *genericTarget) role(text, role string) {
	t.b.SpeakWithRole(text, ssml.Role(role))
}

func (t *genericTarget) prosody(text, volume, pitch, rate string) {
	t.b.SpeakWithProsody(text, ssml.Volume(volume), ssml.Pitch(pitch), ssml.Rate(rate))
}

func (t *genericTarget) speechcon(text string) {
	t.b.SpeakAs(text, alexa.InterpretAsInterjection)
}

func (t *genericTarget) pause(p PauseArgs) {
	if p.Strength != "" {
		t.b.PauseByStrength(ssml.BreakStrength(p.Strength))
		return
	}
	t.b.Pause(p.Duration)
}

func (t *genericTarget) paragraph(text string) { t.b.Paragraph(text) }
func (t *genericTarget) sentence(text string) { t.b.Sentence(text) }
func (t *genericTarget) whisper(string) { t.unsupported("Whisper", "amazon:effect") }
func (t *genericTarget) sub(text, alias string) { t.b.Substitute(text, alias) }
func (t *genericTarget) lang(text, lang string) { t.b.SpeakWithLanguage(text, lang) }
func (t *genericTarget) langStart(lang string) { t.b.StartLanguage(lang) }
func (t *genericTarget) langEnd(string) { t.b.EndLanguage() }
func (t *genericTarget) mark(name string) { t.b.Mark(name) }
func (t *genericTarget) err() error { return t.b.Err() }
func (t *genericTarget) build() (string, error) { return t.b.Build() }
