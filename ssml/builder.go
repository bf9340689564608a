package ssml

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	rootOpen  = "<speak>"
	rootClose = "</speak>"

	// MaxPause is the longest break the engine will emit.
	MaxPause = 10 * time.Second
)

// Attr is a single attribute of an emitted element.
type Attr struct {
	Name  string
	Value string
}

// Option configures a Builder.
type Option func(*Builder)

// WithRules replaces the engine's dialect checks. Unset checks fall back
// to DefaultRules.
func WithRules(r Rules) Option {
	return func(b *Builder) {
		b.rules = r.withDefaults()
	}
}

// Builder accumulates SSML fragments. Each successful operation appends
// one complete fragment; nothing already appended is ever rewritten.
// A Builder is not safe for concurrent use.
type Builder struct {
	rules     Rules
	fragments []string
	err       error
}

// New creates an empty builder using DefaultRules unless overridden.
func New(opts ...Option) *Builder {
	b := &Builder{rules: DefaultRules()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Rules returns the dialect checks in effect.
func (b *Builder) Rules() Rules {
	return b.rules
}

// Err returns the first validation error recorded on the builder.
func (b *Builder) Err() error {
	return b.err
}

// Fail records err unless an error is already recorded. Dialect layers use
// it to report their own validation failures with the same semantics as
// the engine's operations.
func (b *Builder) Fail(err error) *Builder {
	if b.err == nil && err != nil {
		b.err = err
	}
	return b
}

// Len returns the number of fragments appended so far.
func (b *Builder) Len() int {
	return len(b.fragments)
}

// Body returns the buffered markup without the root element.
func (b *Builder) Body() string {
	return strings.Join(b.fragments, "")
}

// String renders the current buffer wrapped in the root element, ignoring
// any recorded error.
func (b *Builder) String() string {
	return rootOpen + b.Body() + rootClose
}

// Build returns the finished document. If an operation failed, Build
// returns that error and no document. The builder stays usable afterwards.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.String(), nil
}

// Reset empties the buffer and clears any recorded error.
func (b *Builder) Reset() *Builder {
	b.fragments = nil
	b.err = nil
	return b
}

func (b *Builder) append(fragment string) *Builder {
	if b.err != nil {
		return b
	}
	b.fragments = append(b.fragments, fragment)
	return b
}

// Element appends name with the given attributes, in order, wrapping body
// verbatim. Neither name nor values are checked or escaped.
func (b *Builder) Element(name, body string, attrs ...Attr) *Builder {
	var sb strings.Builder
	writeOpenTag(&sb, name, attrs)
	sb.WriteByte('>')
	sb.WriteString(body)
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
	return b.append(sb.String())
}

// EmptyElement appends a self-closing name element.
func (b *Builder) EmptyElement(name string, attrs ...Attr) *Builder {
	var sb strings.Builder
	writeOpenTag(&sb, name, attrs)
	sb.WriteString("/>")
	return b.append(sb.String())
}

func writeOpenTag(sb *strings.Builder, name string, attrs []Attr) {
	sb.WriteByte('<')
	sb.WriteString(name)
	for _, a := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		sb.WriteString(`="`)
		sb.WriteString(a.Value)
		sb.WriteByte('"')
	}
}

// Speak appends plain text.
func (b *Builder) Speak(text string) *Builder {
	return b.append(text)
}

// Pause appends a timed break of at most MaxPause.
func (b *Builder) Pause(d time.Duration) *Builder {
	if b.err != nil {
		return b
	}
	if d < 0 || d > MaxPause {
		return b.Fail(ValueError("Pause", "pause must be between 0s and %s, got %s", MaxPause, d))
	}
	return b.EmptyElement("break", Attr{"time", formatPause(d)})
}

func formatPause(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

// PauseByStrength appends a break of the given strength.
func (b *Builder) PauseByStrength(strength BreakStrength) *Builder {
	if b.err != nil {
		return b
	}
	if !strength.IsValid() {
		return b.Fail(TypeError("PauseByStrength", "strength must be one of: %s", JoinValues(breakStrengths)))
	}
	return b.EmptyElement("break", Attr{"strength", string(strength)})
}

// Paragraph appends text as a p element.
func (b *Builder) Paragraph(text string) *Builder {
	return b.Element("p", text)
}

// Sentence appends text as an s element.
func (b *Builder) Sentence(text string) *Builder {
	return b.Element("s", text)
}

// Substitute speaks alias in place of text.
func (b *Builder) Substitute(text, alias string) *Builder {
	if b.err != nil {
		return b
	}
	if alias == "" {
		return b.Fail(ValueError("Substitute", "alias must not be empty"))
	}
	return b.Element("sub", text, Attr{"alias", alias})
}

// SpeakAs appends text with an interpret-as hint.
func (b *Builder) SpeakAs(text string, as InterpretAs) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.rules.CheckInterpretAs(as); err != nil {
		return b.Fail(withOp("SpeakAs", err))
	}
	return b.Element("say-as", text, Attr{"interpret-as", string(as)})
}

// SpeakWithRole appends a word annotated with its grammatical role.
func (b *Builder) SpeakWithRole(text string, role Role) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.rules.CheckRole(role); err != nil {
		return b.Fail(withOp("SpeakWithRole", err))
	}
	return b.Element("w", text, Attr{"role", string(role)})
}

// SpeakWithVolume appends text spoken at the given volume.
func (b *Builder) SpeakWithVolume(text string, volume Volume) *Builder {
	return b.prosody("SpeakWithVolume", text, volume, "", "")
}

// SpeakWithPitch appends text spoken at the given pitch.
func (b *Builder) SpeakWithPitch(text string, pitch Pitch) *Builder {
	return b.prosody("SpeakWithPitch", text, "", pitch, "")
}

// SpeakWithRate appends text spoken at the given rate.
func (b *Builder) SpeakWithRate(text string, rate Rate) *Builder {
	return b.prosody("SpeakWithRate", text, "", "", rate)
}

// SpeakWithProsody appends a single prosody element carrying whichever of
// volume, pitch and rate are non-empty, in that order.
func (b *Builder) SpeakWithProsody(text string, volume Volume, pitch Pitch, rate Rate) *Builder {
	return b.prosody("SpeakWithProsody", text, volume, pitch, rate)
}

func (b *Builder) prosody(op, text string, volume Volume, pitch Pitch, rate Rate) *Builder {
	if b.err != nil {
		return b
	}
	if volume == "" && pitch == "" && rate == "" {
		return b.Fail(TypeError(op, "at least one of volume, pitch or rate is required"))
	}

	attrs := make([]Attr, 0, 3)
	if volume != "" {
		if !volume.IsValid() {
			return b.Fail(TypeError(op, "volume must be one of: %s", JoinValues(volumes)))
		}
		attrs = append(attrs, Attr{"volume", string(volume)})
	}
	if pitch != "" {
		if !pitch.IsValid() {
			return b.Fail(TypeError(op, "pitch must be one of: %s", JoinValues(pitches)))
		}
		attrs = append(attrs, Attr{"pitch", string(pitch)})
	}
	if rate != "" {
		if !rate.IsNamed() && !b.rules.ValidRate(rate) {
			return b.Fail(TypeError(op, "rate should be %s or one of: %s", b.rules.RateHint, JoinValues(rates)))
		}
		attrs = append(attrs, Attr{"rate", string(rate)})
	}
	return b.Element("prosody", text, attrs...)
}

// StartLanguage opens a lang element. Close it with EndLanguage.
func (b *Builder) StartLanguage(lang string) *Builder {
	if b.err != nil {
		return b
	}
	tag, err := parseLanguage("StartLanguage", lang)
	if err != nil {
		return b.Fail(err)
	}
	return b.append(`<lang xml:lang="` + tag + `">`)
}

// EndLanguage closes the innermost lang element.
func (b *Builder) EndLanguage() *Builder {
	return b.append("</lang>")
}

// SpeakWithLanguage appends text spoken in the given language.
func (b *Builder) SpeakWithLanguage(text, lang string) *Builder {
	if b.err != nil {
		return b
	}
	tag, err := parseLanguage("SpeakWithLanguage", lang)
	if err != nil {
		return b.Fail(err)
	}
	return b.Element("lang", text, Attr{"xml:lang", tag})
}

func parseLanguage(op, lang string) (string, error) {
	if lang == "" {
		return "", TypeError(op, "language must be a BCP 47 tag (ie. en-US)")
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", TypeError(op, "language must be a BCP 47 tag (ie. en-US), got %q", lang)
	}
	return tag.String(), nil
}

// Mark appends a named bookmark.
func (b *Builder) Mark(name string) *Builder {
	if b.err != nil {
		return b
	}
	if name == "" {
		return b.Fail(ValueError("Mark", "mark name must not be empty"))
	}
	return b.EmptyElement("mark", Attr{"name", name})
}
