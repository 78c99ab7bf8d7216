package util

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestContainsUpper(t *testing.T) {
	assert.False(t, ContainsUpper(""))
	assert.False(t, ContainsUpper("abc 123 !$%"))
	assert.True(t, ContainsUpper("abC"))
	assert.True(t, ContainsUpper("Übung"))
}

type ignorableErr struct{ error }

func (e ignorableErr) Ignorable() bool { return true }

func TestErrorProbes(t *testing.T) {
	base := ignorableErr{errors.New("user canceled")}
	wrapped := errors.Wrap(base, "outer")

	assert.True(t, IsIgnorableError(base))
	assert.False(t, IsIgnorableError(errors.New("plain")))
	// probes walk the Unwrap chain
	assert.True(t, IsIgnorableError(wrapped))

	st, ok := GetExitStatus(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, 1, st)
}

func TestShellwords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
		err   bool
	}{
		{input: "", want: nil},
		{input: "   ", want: nil},
		{input: "-x -m", want: []string{"-x", "-m"}},
		{input: `-q "hello world"`, want: []string{"-q", "hello world"}},
		{input: `-d '\t'`, want: []string{"-d", `\t`}},
		{input: `a\ b c`, want: []string{"a b", "c"}},
		{input: `"a\"b"`, want: []string{`a"b`}},
		{input: `'unterminated`, err: true},
		{input: `trailing\`, err: true},
	}

	for _, tc := range tests {
		got, err := Shellwords(tc.input)
		if tc.err {
			assert.Error(t, err, "input: %q", tc.input)
			continue
		}
		assert.NoError(t, err, "input: %q", tc.input)
		assert.Equal(t, tc.want, got, "input: %q", tc.input)
	}
}
