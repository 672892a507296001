package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAffirmative(t *testing.T) {
	assert.True(t, IsAffirmative("Yes, I agree"))
	assert.True(t, IsAffirmative("sure, go ahead"))
	assert.True(t, IsAffirmative("OKAY"))
	// Substring containment is deliberately aggressive.
	assert.True(t, IsAffirmative("maybe"))
	assert.False(t, IsAffirmative("nah"))
	assert.False(t, IsAffirmative(""))
}

func TestIsSkip(t *testing.T) {
	for _, token := range []string{"skip", "S", " n/a ", "-", "no", "pass"} {
		assert.True(t, IsSkip(token), "token %q", token)
	}
	// Skip is exact-match only, never containment.
	assert.False(t, IsSkip("skip it"))
	assert.False(t, IsSkip("passing through"))
}

func TestInterpret_Precedence(t *testing.T) {
	tests := []struct {
		text string
		want Signal
	}{
		{"yes", SignalAffirmative},
		// "no" is both a refusal word and a skip token; affirmative
		// containment is checked first, then skip.
		{"no", SignalSkip},
		{"nope", SignalNegative},
		{"skip", SignalSkip},
		// "banana" contains "n", which the negative word set matches.
		{"banana", SignalNegative},
		{"meh", SignalUnrecognized},
		// "not sure" contains "sure", so it reads affirmative.
		{"not sure", SignalAffirmative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Interpret(tt.text), "input %q", tt.text)
	}
}
