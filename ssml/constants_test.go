package ssml

import "testing"

func TestValueSetsAreCopies(t *testing.T) {
	v := Volumes()
	v[0] = "mutated"
	if Volumes()[0] != VolumeSilent {
		t.Error("Volumes() exposed the package table")
	}

	r := Roles()
	r[0] = "mutated"
	if !RoleVerb.IsValid() {
		t.Error("Roles() exposed the package table")
	}
}

func TestMembership(t *testing.T) {
	if !VolumeXtraLoud.IsValid() || Volume("x-quiet").IsValid() {
		t.Error("Volume.IsValid membership wrong")
	}
	if !PitchDefault.IsValid() || Pitch("").IsValid() {
		t.Error("Pitch.IsValid membership wrong")
	}
	if !RateXtraSlow.IsNamed() || Rate("50%").IsNamed() {
		t.Error("Rate.IsNamed membership wrong")
	}
	if !InterpretAsTelephone.IsValid() || InterpretAs("interjection").IsValid() {
		t.Error("InterpretAs.IsValid membership wrong")
	}
	if !RoleAlternateSense.IsValid() || Role("amazon:NN").IsValid() {
		t.Error("Role.IsValid membership wrong")
	}
	if !BreakNone.IsValid() || BreakStrength("mild").IsValid() {
		t.Error("BreakStrength.IsValid membership wrong")
	}
}

func TestJoinValues(t *testing.T) {
	got := JoinValues([]Role{RoleVerb, RolePastTense})
	if got != "amazon:VB, amazon:VBD" {
		t.Errorf("JoinValues() = %q", got)
	}
	if JoinValues[Pitch](nil) != "" {
		t.Error("JoinValues(nil) should be empty")
	}
}

func TestDefaultRatePattern(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		rate Rate
		want bool
	}{
		{"50%", true},
		{"+20%", true},
		{"-10.5%", true},
		{"%", false},
		{"50", false},
		{"fast%", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.rate), func(t *testing.T) {
			if got := rules.ValidRate(tt.rate); got != tt.want {
				t.Errorf("ValidRate(%q) = %v, want %v", tt.rate, got, tt.want)
			}
		})
	}
}
