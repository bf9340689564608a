package ssml

import (
	"slices"
	"strings"
)

// Volume is a prosody volume level.
type Volume string

const (
	VolumeSilent   Volume = "silent"
	VolumeXtraSoft Volume = "x-soft"
	VolumeSoft     Volume = "soft"
	VolumeMedium   Volume = "medium"
	VolumeLoud     Volume = "loud"
	VolumeXtraLoud Volume = "x-loud"
	VolumeDefault  Volume = "default"
)

// Pitch is a prosody pitch level.
type Pitch string

const (
	PitchXtraLow  Pitch = "x-low"
	PitchLow      Pitch = "low"
	PitchMedium   Pitch = "medium"
	PitchHigh     Pitch = "high"
	PitchXtraHigh Pitch = "x-high"
	PitchDefault  Pitch = "default"
)

// Rate is a prosody speaking rate. Besides the named levels a Rate may hold
// a percentage string, accepted or refused by Rules.ValidRate.
type Rate string

const (
	RateXtraSlow Rate = "x-slow"
	RateSlow     Rate = "slow"
	RateMedium   Rate = "medium"
	RateFast     Rate = "fast"
	RateXtraFast Rate = "x-fast"
	RateDefault  Rate = "default"
)

// InterpretAs is the interpret-as value of a say-as element.
type InterpretAs string

const (
	InterpretAsCharacters InterpretAs = "characters"
	InterpretAsSpellOut   InterpretAs = "spell-out"
	InterpretAsCardinal   InterpretAs = "cardinal"
	InterpretAsNumber     InterpretAs = "number"
	InterpretAsOrdinal    InterpretAs = "ordinal"
	InterpretAsDigits     InterpretAs = "digits"
	InterpretAsFraction   InterpretAs = "fraction"
	InterpretAsUnit       InterpretAs = "unit"
	InterpretAsDate       InterpretAs = "date"
	InterpretAsTime       InterpretAs = "time"
	InterpretAsTelephone  InterpretAs = "telephone"
	InterpretAsAddress    InterpretAs = "address"
	InterpretAsExpletive  InterpretAs = "expletive"
)

// Role is the grammatical role of a w element. Values carry the vendor
// prefix used by the synthesis service.
type Role string

const (
	// RoleVerb is the present simple form of a verb.
	RoleVerb Role = "amazon:VB"

	// RolePastTense is the past tense or past participle of a verb.
	RolePastTense Role = "amazon:VBD"

	// RoleAlternateSense selects the non-default sense of a homograph.
	RoleAlternateSense Role = "amazon:SENSE_1"
)

// BreakStrength is the strength of a break element.
type BreakStrength string

const (
	BreakNone       BreakStrength = "none"
	BreakXtraWeak   BreakStrength = "x-weak"
	BreakWeak       BreakStrength = "weak"
	BreakMedium     BreakStrength = "medium"
	BreakStrong     BreakStrength = "strong"
	BreakXtraStrong BreakStrength = "x-strong"
)

var (
	volumes = []Volume{
		VolumeSilent, VolumeXtraSoft, VolumeSoft, VolumeMedium,
		VolumeLoud, VolumeXtraLoud, VolumeDefault,
	}
	pitches = []Pitch{
		PitchXtraLow, PitchLow, PitchMedium, PitchHigh, PitchXtraHigh, PitchDefault,
	}
	rates = []Rate{
		RateXtraSlow, RateSlow, RateMedium, RateFast, RateXtraFast, RateDefault,
	}
	interpretAsValues = []InterpretAs{
		InterpretAsCharacters, InterpretAsSpellOut, InterpretAsCardinal,
		InterpretAsNumber, InterpretAsOrdinal, InterpretAsDigits,
		InterpretAsFraction, InterpretAsUnit, InterpretAsDate, InterpretAsTime,
		InterpretAsTelephone, InterpretAsAddress, InterpretAsExpletive,
	}
	roles = []Role{RoleVerb, RolePastTense, RoleAlternateSense}

	breakStrengths = []BreakStrength{
		BreakNone, BreakXtraWeak, BreakWeak, BreakMedium, BreakStrong, BreakXtraStrong,
	}
)

// Volumes returns the volume levels in ascending order, followed by VolumeDefault.
func Volumes() []Volume { return slices.Clone(volumes) }

// Pitches returns the pitch levels in ascending order, followed by PitchDefault.
func Pitches() []Pitch { return slices.Clone(pitches) }

// Rates returns the named rate levels, followed by RateDefault.
func Rates() []Rate { return slices.Clone(rates) }

// InterpretAsValues returns every interpret-as value the engine knows.
func InterpretAsValues() []InterpretAs { return slices.Clone(interpretAsValues) }

// Roles returns every w role value the engine knows.
func Roles() []Role { return slices.Clone(roles) }

// BreakStrengths returns the break strengths from weakest to strongest.
func BreakStrengths() []BreakStrength { return slices.Clone(breakStrengths) }

// IsValid reports whether v is a known volume level.
func (v Volume) IsValid() bool { return slices.Contains(volumes, v) }

// IsValid reports whether p is a known pitch level.
func (p Pitch) IsValid() bool { return slices.Contains(pitches, p) }

// IsNamed reports whether r is one of the named rate levels. Percentage
// rates are not named; see Rules.ValidRate.
func (r Rate) IsNamed() bool { return slices.Contains(rates, r) }

// IsValid reports whether i is a known interpret-as value.
func (i InterpretAs) IsValid() bool { return slices.Contains(interpretAsValues, i) }

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool { return slices.Contains(roles, r) }

// IsValid reports whether s is a known break strength.
func (s BreakStrength) IsValid() bool { return slices.Contains(breakStrengths, s) }

func (v Volume) String() string        { return string(v) }
func (p Pitch) String() string         { return string(p) }
func (r Rate) String() string          { return string(r) }
func (i InterpretAs) String() string   { return string(i) }
func (r Role) String() string          { return string(r) }
func (s BreakStrength) String() string { return string(s) }

// JoinValues renders a value set for error messages.
func JoinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
