package ssml

import "regexp"

// Rules holds the dialect-dependent checks used by a Builder. A dialect
// swaps these in through WithRules instead of overriding builder methods.
type Rules struct {
	// Dialect names the rule set in error messages and logs.
	Dialect string

	// ValidRate reports whether a rate that is not a named level is
	// acceptable, typically a percentage.
	ValidRate func(Rate) bool

	// RateHint describes the accepted rate strings in error messages.
	RateHint string

	// CheckInterpretAs returns a type-mismatch error for unknown values.
	CheckInterpretAs func(InterpretAs) error

	// CheckRole returns a type-mismatch error for unknown roles.
	CheckRole func(Role) error
}

var percentPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?%$`)

// DefaultRules returns the rules of the general engine.
func DefaultRules() Rules {
	return Rules{
		Dialect: "generic",
		ValidRate: func(r Rate) bool {
			return percentPattern.MatchString(string(r))
		},
		RateHint: "a percentage (ie. +20%, 85%)",
		CheckInterpretAs: func(i InterpretAs) error {
			if !i.IsValid() {
				return TypeError("", "interpret-as should be one of: %s", JoinValues(interpretAsValues))
			}
			return nil
		},
		CheckRole: func(r Role) error {
			if !r.IsValid() {
				return TypeError("", "role must be one of: %s", JoinValues(roles))
			}
			return nil
		},
	}
}

// withDefaults fills unset checks from DefaultRules so a partial rule set
// is still usable.
func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.Dialect == "" {
		r.Dialect = d.Dialect
	}
	if r.ValidRate == nil {
		r.ValidRate = d.ValidRate
		if r.RateHint == "" {
			r.RateHint = d.RateHint
		}
	}
	if r.RateHint == "" {
		r.RateHint = "a percentage"
	}
	if r.CheckInterpretAs == nil {
		r.CheckInterpretAs = d.CheckInterpretAs
	}
	if r.CheckRole == nil {
		r.CheckRole = d.CheckRole
	}
	return r
}
