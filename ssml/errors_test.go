package ssml

import (
	"errors"
	"testing"
)

func TestMarkupErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isType     bool
		isValue    bool
		isUnsupp   bool
		wantString string
	}{
		{
			name:       "type mismatch",
			err:        TypeError("SpeakAs", "bad %s", "value"),
			isType:     true,
			wantString: "ssml: SpeakAs: bad value",
		},
		{
			name:       "invalid value",
			err:        ValueError("PlayAudio", "url must end with .mp3"),
			isValue:    true,
			wantString: "ssml: PlayAudio: url must end with .mp3",
		},
		{
			name:       "unsupported is also a value error",
			err:        UnsupportedError("Mark", "no marks"),
			isValue:    true,
			isUnsupp:   true,
			wantString: "ssml: Mark: no marks",
		},
		{
			name:       "no operation",
			err:        TypeError("", "bare"),
			isType:     true,
			wantString: "ssml: bare",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, ErrTypeMismatch); got != tt.isType {
				t.Errorf("errors.Is(ErrTypeMismatch) = %v, want %v", got, tt.isType)
			}
			if got := errors.Is(tt.err, ErrInvalidValue); got != tt.isValue {
				t.Errorf("errors.Is(ErrInvalidValue) = %v, want %v", got, tt.isValue)
			}
			if got := errors.Is(tt.err, ErrUnsupported); got != tt.isUnsupp {
				t.Errorf("errors.Is(ErrUnsupported) = %v, want %v", got, tt.isUnsupp)
			}
			if tt.err.Error() != tt.wantString {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.wantString)
			}
		})
	}
}

func TestWithOpKeepsExistingOp(t *testing.T) {
	err := withOp("Outer", TypeError("Inner", "x"))
	var me *MarkupError
	if !errors.As(err, &me) || me.Op != "Inner" {
		t.Errorf("withOp overwrote op: %v", err)
	}

	err = withOp("Outer", TypeError("", "x"))
	if !errors.As(err, &me) || me.Op != "Outer" {
		t.Errorf("withOp did not fill op: %v", err)
	}
}
