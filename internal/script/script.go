// Package script reads YAML speech scripts and replays them onto an SSML
// builder. A script is a dialect plus an ordered list of steps, each step
// a single-key mapping from an operation name to its arguments:
//
//	dialect: alexa
//	steps:
//	  - speak: "Welcome back. "
//	  - audio: https://example.com/chime.mp3
//	  - emphasis: {text: "great news", level: strong}
//	  - pause: 500ms
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	ErrEmptyScript    = errors.New("empty script")
	ErrUnknownStep    = errors.New("unknown step")
	ErrMalformed      = errors.New("malformed step")
	ErrUnknownDialect = errors.New("unknown dialect")
)

// Operation names.
const (
	OpSpeak     = "speak"
	OpAudio     = "audio"
	OpEmphasis  = "emphasis"
	OpSayAs     = "say_as"
	OpRole      = "role"
	OpProsody   = "prosody"
	OpVolume    = "volume"
	OpPitch     = "pitch"
	OpRate      = "rate"
	OpSpeechcon = "speechcon"
	OpPause     = "pause"
	OpParagraph = "paragraph"
	OpSentence  = "sentence"
	OpWhisper   = "whisper"
	OpSub       = "sub"
	OpLang      = "lang"
	OpLangStart = "lang_start"
	OpLangEnd   = "lang_end"
	OpMark      = "mark"
)

var ops = []string{
	OpSpeak, OpAudio, OpEmphasis, OpSayAs, OpRole, OpProsody,
	OpVolume, OpPitch, OpRate, OpSpeechcon, OpPause, OpParagraph,
	OpSentence, OpWhisper, OpSub, OpLang, OpLangStart, OpLangEnd, OpMark,
}

// Ops returns the supported operation names.
func Ops() []string {
	return append([]string(nil), ops...)
}

// Script is a parsed speech script.
type Script struct {
	Dialect string
	Steps   []Step
}

// Step is one operation with its decoded arguments.
type Step struct {
	Op   string
	Line int
	Args any
}

// Argument shapes. Scalar operations carry a plain string.
type (
	EmphasisArgs struct {
		Text  string `yaml:"text"`
		Level string `yaml:"level"`
	}

	SayAsArgs struct {
		Text        string `yaml:"text"`
		InterpretAs string `yaml:"interpret_as"`
	}

	RoleArgs struct {
		Text string `yaml:"text"`
		Role string `yaml:"role"`
	}

	ProsodyArgs struct {
		Text   string `yaml:"text"`
		Volume string `yaml:"volume"`
		Pitch  string `yaml:"pitch"`
		Rate   string `yaml:"rate"`
	}

	ValueArgs struct {
		Text  string `yaml:"text"`
		Value string `yaml:"value"`
	}

	SubArgs struct {
		Text  string `yaml:"text"`
		Alias string `yaml:"alias"`
	}

	LangArgs struct {
		Text string `yaml:"text"`
		Lang string `yaml:"lang"`
	}

	// PauseArgs holds either a duration or a break strength.
	PauseArgs struct {
		Duration time.Duration `yaml:"-"`
		Strength string        `yaml:"strength"`
	}
)

// StepError reports a failure at a 1-based step index.
type StepError struct {
	Index int
	Op    string
	Err   error
}

func (e *StepError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("step %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

type rawScript struct {
	Dialect string      `yaml:"dialect"`
	Steps   []yaml.Node `yaml:"steps"`
}

// Parse decodes a script. Unknown top-level keys, unknown operations and
// unknown argument fields are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw rawScript
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, fmt.Errorf("unable to parse script: %w", err)
	}

	s := &Script{
		Dialect: strings.ToLower(strings.TrimSpace(raw.Dialect)),
		Steps:   make([]Step, 0, len(raw.Steps)),
	}
	for i := range raw.Steps {
		step, err := parseStep(&raw.Steps[i])
		if err != nil {
			return nil, &StepError{Index: i + 1, Op: step.Op, Err: err}
		}
		s.Steps = append(s.Steps, step)
	}
	return s, nil
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(b []byte) (*Script, error) {
	return Parse(bytes.NewReader(b))
}

func parseStep(node *yaml.Node) (Step, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return Step{Line: node.Line}, fmt.Errorf("%w: each step must have exactly one key", ErrMalformed)
	}

	key, value := node.Content[0], node.Content[1]
	step := Step{Op: key.Value, Line: key.Line}

	var err error
	switch step.Op {
	case OpSpeak, OpAudio, OpSpeechcon, OpParagraph, OpSentence, OpWhisper, OpMark, OpLangStart, OpLangEnd:
		step.Args, err = decodeScalar(value)
	case OpEmphasis:
		step.Args, err = decodeStrict[EmphasisArgs](value)
	case OpSayAs:
		step.Args, err = decodeStrict[SayAsArgs](value)
	case OpRole:
		step.Args, err = decodeStrict[RoleArgs](value)
	case OpProsody:
		step.Args, err = decodeStrict[ProsodyArgs](value)
	case OpVolume, OpPitch, OpRate:
		step.Args, err = decodeStrict[ValueArgs](value)
	case OpSub:
		step.Args, err = decodeStrict[SubArgs](value)
	case OpLang:
		step.Args, err = decodeStrict[LangArgs](value)
	case OpPause:
		step.Args, err = decodePause(value)
	default:
		err = unknownStep(step.Op)
		step.Op = ""
	}
	return step, err
}

func unknownStep(op string) error {
	matches := fuzzy.Find(op, ops)
	if len(matches) == 0 {
		return fmt.Errorf("%w %q, expected one of: %s", ErrUnknownStep, op, strings.Join(ops, ", "))
	}
	suggestions := make([]string, 0, 3)
	for _, m := range matches {
		if len(suggestions) == cap(suggestions) {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return fmt.Errorf("%w %q, did you mean %s?", ErrUnknownStep, op, strings.Join(suggestions, " or "))
}

func decodeScalar(node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: expected a string value", ErrMalformed)
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s, nil
}

// decodeStrict decodes a mapping node rejecting unknown fields. Node.Decode
// does not honour KnownFields, so the node is re-encoded first.
func decodeStrict[T any](node *yaml.Node) (T, error) {
	var out T
	if node.Kind != yaml.MappingNode {
		return out, fmt.Errorf("%w: expected a mapping", ErrMalformed)
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return out, nil
}

// decodePause accepts "500ms", {duration: 2s} or {strength: strong}.
func decodePause(node *yaml.Node) (PauseArgs, error) {
	if node.Kind == yaml.ScalarNode {
		d, err := time.ParseDuration(node.Value)
		if err != nil {
			return PauseArgs{}, fmt.Errorf("%w: invalid duration %q", ErrMalformed, node.Value)
		}
		return PauseArgs{Duration: d}, nil
	}

	fields, err := decodeStrict[struct {
		Duration string `yaml:"duration"`
		Strength string `yaml:"strength"`
	}](node)
	if err != nil {
		return PauseArgs{}, err
	}
	switch {
	case fields.Duration != "" && fields.Strength != "":
		return PauseArgs{}, fmt.Errorf("%w: pause takes a duration or a strength, not both", ErrMalformed)
	case fields.Strength != "":
		return PauseArgs{Strength: fields.Strength}, nil
	case fields.Duration != "":
		d, err := time.ParseDuration(fields.Duration)
		if err != nil {
			return PauseArgs{}, fmt.Errorf("%w: invalid duration %q", ErrMalformed, fields.Duration)
		}
		return PauseArgs{Duration: d}, nil
	default:
		return PauseArgs{}, fmt.Errorf("%w: pause needs a duration or a strength", ErrMalformed)
	}
}
