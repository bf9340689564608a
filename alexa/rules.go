package alexa

import (
	"strings"

	"github.com/dgnsrekt/alexa-ssml/ssml"
)

// DialectName identifies the Alexa rule set.
const DialectName = "alexa"

// Rules returns the engine checks for the Alexa dialect.
func Rules() ssml.Rules {
	return ssml.Rules{
		Dialect:          DialectName,
		ValidRate:        isValidRateString,
		RateHint:         "a percent increase/decrease (ie. 150%/50%)",
		CheckInterpretAs: checkInterpretAs,
		CheckRole:        checkRole,
	}
}

// isValidRateString accepts strings ending in a percent sign that are
// longer than two characters, so "50%" passes and "5%" does not.
func isValidRateString(rate ssml.Rate) bool {
	s := string(rate)
	return strings.HasSuffix(s, "%") && len(s) > 2
}

func checkInterpretAs(as ssml.InterpretAs) error {
	if as != InterpretAsInterjection && !as.IsValid() {
		return ssml.TypeError("", "type should be one of: %s, %s",
			InterpretAsInterjection, ssml.JoinValues(ssml.InterpretAsValues()))
	}
	return nil
}

func checkRole(role ssml.Role) error {
	if role != RoleNoun && !role.IsValid() {
		return ssml.TypeError("", "role must be one of: %s", ssml.JoinValues(Roles()))
	}
	return nil
}
