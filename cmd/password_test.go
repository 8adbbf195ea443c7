package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scriptedPrompt(answers ...string) passwordPrompt {
	return func(string) (string, error) {
		if len(answers) == 0 {
			return "", errors.New("no more input")
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
}

func TestResolvePassword(t *testing.T) {
	t.Run("configured password wins", func(t *testing.T) {
		pw, err := resolvePassword("from-flag", scriptedPrompt())
		require.NoError(t, err)
		assert.Equal(t, "from-flag", pw)
	})

	t.Run("prompt with confirmation", func(t *testing.T) {
		pw, err := resolvePassword("", scriptedPrompt("secret", "secret"))
		require.NoError(t, err)
		assert.Equal(t, "secret", pw)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		_, err := resolvePassword("", scriptedPrompt("secret", "typo"))
		assert.ErrorIs(t, err, errPasswordMismatch)
	})

	t.Run("prompt failure", func(t *testing.T) {
		_, err := resolvePassword("", scriptedPrompt())
		assert.Error(t, err)
	})
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "4/0Aabc\n", want: "4/0Aabc"},
		{in: "  code-without-newline  ", want: "code-without-newline"},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := readLine(strings.NewReader(tt.in))
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
