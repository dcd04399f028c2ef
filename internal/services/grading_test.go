package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func letters(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func TestExtractLetters(t *testing.T) {
	s := NewGradingService()

	assert.Equal(t, letters("abcde"), s.ExtractLetters("1a 2b 3c 4d 5e"))
	assert.Equal(t, letters("abc"), s.ExtractLetters("A-B-C"))
	assert.Equal(t, letters("aa"), s.ExtractLetters("a!a"))
	assert.Nil(t, s.ExtractLetters("xyz 123"))
	assert.Nil(t, s.ExtractLetters(""))
}

func TestExtractNumberedComplete(t *testing.T) {
	s := NewGradingService()

	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "%da", i)
	}

	got, err := s.ExtractNumbered(b.String())
	require.NoError(t, err)
	require.Len(t, got, 30)
	for _, a := range got {
		assert.Equal(t, "a", a)
	}
}

func TestExtractNumberedMissingPosition(t *testing.T) {
	s := NewGradingService()

	// all positions except 17
	var b strings.Builder
	for i := 1; i <= 30; i++ {
		if i == 17 {
			continue
		}
		fmt.Fprintf(&b, "%db", i)
	}

	_, err := s.ExtractNumbered(b.String())
	var incomplete *IncompleteAnswerSetError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, []int{17}, incomplete.Missing)
	assert.Equal(t, 30, incomplete.Required)
}

func TestExtractNumberedTruncatesExtra(t *testing.T) {
	s := NewGradingService()

	var b strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&b, "%dc", i)
	}
	b.WriteString("31d32e") // silently dropped

	got, err := s.ExtractNumbered(b.String())
	require.NoError(t, err)
	require.Len(t, got, 30)
	assert.Equal(t, "c", got[29])
}

func TestExtractNumberedMalformed(t *testing.T) {
	s := NewGradingService()

	_, err := s.ExtractNumbered("no answers here")
	assert.ErrorIs(t, err, ErrMalformedSubmission)
}

func TestRenderNumberedRoundTrip(t *testing.T) {
	s := NewGradingService()

	seq := make([]string, 30)
	for i := range seq {
		seq[i] = string(rune('a' + i%5))
	}

	got, err := s.ExtractNumbered(s.RenderNumbered(seq))
	require.NoError(t, err)
	assert.Equal(t, seq, got)
}

func TestGradePerfectSubmission(t *testing.T) {
	s := NewGradingService()

	res := s.Grade(letters("abcde"), letters("abcde"))
	assert.Equal(t, 5, res.CorrectCount)
	assert.Equal(t, 0, res.IncorrectCount())
	assert.Empty(t, res.Incorrect)
}

func TestGradeReversedSubmission(t *testing.T) {
	s := NewGradingService()

	// only the middle position survives reversal
	res := s.Grade(letters("abcde"), letters("edcba"))
	assert.Equal(t, 1, res.CorrectCount)
	assert.Equal(t, 4, res.IncorrectCount())
	require.Len(t, res.Incorrect, 4)
	assert.Equal(t, IncorrectAnswer{Position: 1, Given: "e"}, res.Incorrect[0])
	assert.Equal(t, IncorrectAnswer{Position: 5, Given: "a"}, res.Incorrect[3])
}

func TestGradeShortSubmission(t *testing.T) {
	s := NewGradingService()

	res := s.Grade(letters("abcde"), letters("ab"))
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 3, res.IncorrectCount())
	// missing positions are incorrect with no given letter
	for i, inc := range res.Incorrect {
		assert.Equal(t, i+3, inc.Position)
		assert.Equal(t, "", inc.Given)
	}
}

func TestGradeCaseInsensitive(t *testing.T) {
	s := NewGradingService()

	res := s.Grade(letters("abc"), []string{"A", "B", "C"})
	assert.Equal(t, 3, res.CorrectCount)
}

func TestGradeCountInvariant(t *testing.T) {
	s := NewGradingService()

	cases := []struct {
		correct   string
		submitted string
	}{
		{"abcde", "abcde"},
		{"abcde", "edcba"},
		{"abcde", ""},
		{"abcde", "aaaaaaaaaa"},
		{"a", "b"},
		{"", "abc"},
	}
	for _, tc := range cases {
		res := s.Grade(letters(tc.correct), letters(tc.submitted))
		assert.Equal(t, len(tc.correct), res.CorrectCount+res.IncorrectCount(),
			"correct=%q submitted=%q", tc.correct, tc.submitted)
		assert.Equal(t, res.IncorrectCount(), len(res.Incorrect))
	}
}
