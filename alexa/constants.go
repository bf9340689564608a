package alexa

import (
	"slices"

	"github.com/dgnsrekt/alexa-ssml/ssml"
)

// Emphasis is the level of an emphasis element.
type Emphasis string

const (
	EmphasisStrong   Emphasis = "strong"
	EmphasisModerate Emphasis = "moderate"
	EmphasisReduced  Emphasis = "reduced"
)

// InterpretAsInterjection renders text as a speechcon.
const InterpretAsInterjection ssml.InterpretAs = "interjection"

// RoleNoun reads a homograph as a noun.
const RoleNoun ssml.Role = "amazon:NN"

const (
	secureScheme   = "https://"
	audioExtension = ".mp3"
)

var emphases = []Emphasis{EmphasisStrong, EmphasisModerate, EmphasisReduced}

// Emphases returns the emphasis levels Alexa accepts.
func Emphases() []Emphasis { return slices.Clone(emphases) }

// IsValid reports whether e is an emphasis level Alexa accepts.
func (e Emphasis) IsValid() bool { return slices.Contains(emphases, e) }

func (e Emphasis) String() string { return string(e) }

// InterpretAsValues returns every interpret-as value Alexa accepts.
func InterpretAsValues() []ssml.InterpretAs {
	return append([]ssml.InterpretAs{InterpretAsInterjection}, ssml.InterpretAsValues()...)
}

// Roles returns every w role Alexa accepts.
func Roles() []ssml.Role {
	return append(ssml.Roles(), RoleNoun)
}
