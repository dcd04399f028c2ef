package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HomeworkAnswerCount is the fixed number of questions in a homework key.
const HomeworkAnswerCount = 30

var numberedAnswerRe = regexp.MustCompile(`(\d+)([a-eA-E])`)

// IncorrectAnswer records one missed position. Given is empty when the
// student supplied no answer for the position.
type IncorrectAnswer struct {
	Position int
	Given    string
}

// GradeResult is the outcome of grading one submission against a key.
// IncorrectCount is always Total - CorrectCount.
type GradeResult struct {
	Total        int
	CorrectCount int
	Incorrect    []IncorrectAnswer
}

func (r GradeResult) IncorrectCount() int {
	return r.Total - r.CorrectCount
}

type GradingService struct{}

func NewGradingService() *GradingService {
	return &GradingService{}
}

// ExtractLetters flattens raw text into the ordered sequence of letters
// a..e it contains, case-insensitive, ignoring every other rune.
func (s *GradingService) ExtractLetters(text string) []string {
	var out []string
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'e' {
			out = append(out, string(r))
		}
	}
	return out
}

// ExtractNumbered parses a "1a2b3c...30e" submission into a sequence of
// 30 letters ordered by question number. Extra matches beyond 30 are
// ignored; positions outside 1..30 are ignored; a position covered more
// than once keeps the first value seen. Fewer than 30 distinct positions
// is an IncompleteAnswerSetError naming the missing ones.
func (s *GradingService) ExtractNumbered(text string) ([]string, error) {
	matches := numberedAnswerRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, ErrMalformedSubmission
	}
	if len(matches) > HomeworkAnswerCount {
		matches = matches[:HomeworkAnswerCount]
	}

	byPos := make(map[int]string, HomeworkAnswerCount)
	for _, m := range matches {
		num, err := strconv.Atoi(m[1])
		if err != nil || num < 1 || num > HomeworkAnswerCount {
			continue
		}
		if _, ok := byPos[num]; !ok {
			byPos[num] = strings.ToLower(m[2])
		}
	}

	if len(byPos) < HomeworkAnswerCount {
		var missing []int
		for i := 1; i <= HomeworkAnswerCount; i++ {
			if _, ok := byPos[i]; !ok {
				missing = append(missing, i)
			}
		}
		return nil, &IncompleteAnswerSetError{Required: HomeworkAnswerCount, Missing: missing}
	}

	out := make([]string, HomeworkAnswerCount)
	for i := 1; i <= HomeworkAnswerCount; i++ {
		out[i-1] = byPos[i]
	}
	return out, nil
}

// RenderNumbered is the canonical text form of an answer sequence:
// "1a2b...". ExtractNumbered(RenderNumbered(seq)) == seq for any valid
// 30-letter sequence.
func (s *GradingService) RenderNumbered(answers []string) string {
	var b strings.Builder
	for i, a := range answers {
		fmt.Fprintf(&b, "%d%s", i+1, a)
	}
	return b.String()
}

// Grade compares a submission against the correct key position by
// position. A position is correct only when a submitted letter exists
// there and equals the key letter, case-insensitive. Missing tail
// positions count as incorrect with an empty Given.
func (s *GradingService) Grade(correct, submitted []string) GradeResult {
	res := GradeResult{Total: len(correct)}
	for i, want := range correct {
		var got string
		if i < len(submitted) {
			got = strings.ToLower(submitted[i])
		}
		if got != "" && got == strings.ToLower(want) {
			res.CorrectCount++
			continue
		}
		res.Incorrect = append(res.Incorrect, IncorrectAnswer{Position: i + 1, Given: got})
	}
	return res
}
