// Package alexa narrows the general SSML engine to the tag subset Alexa
// accepts and adds the Alexa-only audio and whisper effects.
//
// A Builder wraps an ssml.Builder configured with the Alexa rules. Allowed
// operations are forwarded, restricted ones validate first, and the
// language and mark operations always fail because Alexa has no such tags.
package alexa

import (
	"strings"
	"time"

	"github.com/dgnsrekt/alexa-ssml/ssml"
)

// Builder produces Alexa-flavoured SSML. The zero value is not usable; call New.
type Builder struct {
	engine *ssml.Builder
}

// New returns an empty Alexa builder.
func New() *Builder {
	return &Builder{engine: ssml.New(ssml.WithRules(Rules()))}
}

func (b *Builder) fail(err error) *Builder {
	b.engine.Fail(err)
	return b
}

// Err returns the first validation error recorded on the builder.
func (b *Builder) Err() error { return b.engine.Err() }

// Len returns the number of fragments appended so far.
func (b *Builder) Len() int { return b.engine.Len() }

// Body returns the buffered markup without the root element.
func (b *Builder) Body() string { return b.engine.Body() }

// String renders the current buffer, ignoring any recorded error.
func (b *Builder) String() string { return b.engine.String() }

// Build returns the finished document or the first recorded error.
func (b *Builder) Build() (string, error) { return b.engine.Build() }

// Reset empties the buffer and clears any recorded error.
func (b *Builder) Reset() *Builder {
	b.engine.Reset()
	return b
}

// PlayAudio appends an audio clip. The URL must use https and point at an
// mp3 file; it is emitted verbatim.
func (b *Builder) PlayAudio(url string) *Builder {
	if b.Err() != nil {
		return b
	}
	if !strings.HasPrefix(strings.ToLower(url), secureScheme) {
		return b.fail(ssml.ValueError("PlayAudio", "url must start with %s", secureScheme))
	}
	if !strings.HasSuffix(url, audioExtension) {
		return b.fail(ssml.ValueError("PlayAudio", "url must end with %s", audioExtension))
	}
	b.engine.EmptyElement("audio", ssml.Attr{Name: "src", Value: url})
	return b
}

// StartLanguage always fails: Alexa does not support the lang tag.
func (b *Builder) StartLanguage(language string) *Builder {
	return b.fail(unsupportedLanguage("StartLanguage"))
}

// EndLanguage always fails: Alexa does not support the lang tag.
func (b *Builder) EndLanguage(language string) *Builder {
	return b.fail(unsupportedLanguage("EndLanguage"))
}

// SpeakWithLanguage always fails: Alexa does not support the lang tag.
func (b *Builder) SpeakWithLanguage(speech, language string) *Builder {
	return b.fail(unsupportedLanguage("SpeakWithLanguage"))
}

func unsupportedLanguage(op string) error {
	return ssml.UnsupportedError(op, "alexa does not support the <lang> tag")
}

// Mark always fails: Alexa does not support the mark tag.
func (b *Builder) Mark(tagName string) *Builder {
	return b.fail(ssml.UnsupportedError("Mark", "alexa does not support the <mark> tag"))
}

// SpeakWithProsody speaks with any combination of volume, pitch and rate.
// Empty values are left out. The default volume and pitch are rejected.
func (b *Builder) SpeakWithProsody(speech string, volume ssml.Volume, pitch ssml.Pitch, rate ssml.Rate) *Builder {
	if err := checkNotDefault("SpeakWithProsody", volume, pitch); err != nil {
		return b.fail(err)
	}
	b.engine.SpeakWithProsody(speech, volume, pitch, rate)
	return b
}

// SpeakWithVolume speaks at the given volume. The default volume is rejected.
func (b *Builder) SpeakWithVolume(speech string, volume ssml.Volume) *Builder {
	if err := checkNotDefault("SpeakWithVolume", volume, ""); err != nil {
		return b.fail(err)
	}
	b.engine.SpeakWithVolume(speech, volume)
	return b
}

// SpeakWithPitch speaks at the given pitch. The default pitch is rejected.
func (b *Builder) SpeakWithPitch(speech string, pitch ssml.Pitch) *Builder {
	if err := checkNotDefault("SpeakWithPitch", "", pitch); err != nil {
		return b.fail(err)
	}
	b.engine.SpeakWithPitch(speech, pitch)
	return b
}

func checkNotDefault(op string, volume ssml.Volume, pitch ssml.Pitch) error {
	if volume == ssml.VolumeDefault {
		return ssml.TypeError(op, "alexa does not support 'default' for the volume")
	}
	if pitch == ssml.PitchDefault {
		return ssml.TypeError(op, "alexa does not support 'default' for the pitch")
	}
	return nil
}

// SpeakWithEmphasis speaks with the given emphasis level.
func (b *Builder) SpeakWithEmphasis(speech string, level Emphasis) *Builder {
	if b.Err() != nil {
		return b
	}
	if !level.IsValid() {
		return b.fail(ssml.TypeError("SpeakWithEmphasis", "level must be one of: %s", ssml.JoinValues(emphases)))
	}
	b.engine.Element("emphasis", speech, ssml.Attr{Name: "level", Value: string(level)})
	return b
}

// SpeakWithSpeechcon speaks one of Alexa's predefined interjections.
func (b *Builder) SpeakWithSpeechcon(speechcon string) *Builder {
	return b.SpeakAs(speechcon, InterpretAsInterjection)
}

// Whisper speaks in a whispered voice.
func (b *Builder) Whisper(speech string) *Builder {
	b.engine.Element("amazon:effect", speech, ssml.Attr{Name: "name", Value: "whispered"})
	return b
}

// Speak appends plain text.
func (b *Builder) Speak(text string) *Builder {
	b.engine.Speak(text)
	return b
}

// Pause appends a timed break.
func (b *Builder) Pause(d time.Duration) *Builder {
	b.engine.Pause(d)
	return b
}

// PauseByStrength appends a break of the given strength.
func (b *Builder) PauseByStrength(strength ssml.BreakStrength) *Builder {
	b.engine.PauseByStrength(strength)
	return b
}

// Paragraph appends text as a paragraph.
func (b *Builder) Paragraph(text string) *Builder {
	b.engine.Paragraph(text)
	return b
}

// Sentence appends text as a sentence.
func (b *Builder) Sentence(text string) *Builder {
	b.engine.Sentence(text)
	return b
}

// Substitute speaks alias in place of text.
func (b *Builder) Substitute(text, alias string) *Builder {
	b.engine.Substitute(text, alias)
	return b
}

// SpeakAs appends text with an interpret-as hint, including interjection.
func (b *Builder) SpeakAs(text string, as ssml.InterpretAs) *Builder {
	b.engine.SpeakAs(text, as)
	return b
}

// SpeakWithRole appends a word with a grammatical role, including RoleNoun.
func (b *Builder) SpeakWithRole(text string, role ssml.Role) *Builder {
	b.engine.SpeakWithRole(text, role)
	return b
}

// SpeakWithRate speaks at a named rate or an Alexa percentage.
func (b *Builder) SpeakWithRate(text string, rate ssml.Rate) *Builder {
	b.engine.SpeakWithRate(text, rate)
	return b
}
