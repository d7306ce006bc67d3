package domain

import (
	"fmt"
	"strings"
)

// Grade is a caller-supplied rating of recall for one review event.
// 0-2 are failures, 3-5 are successes with increasing confidence.
type Grade int

// Grade values, following the SuperMemo-2 quality scale.
const (
	GradeBlackout  Grade = 0 // complete blackout
	GradeIncorrect Grade = 1 // wrong, but the answer was recognized
	GradeFamiliar  Grade = 2 // wrong, but the answer felt easy once shown
	GradeDifficult Grade = 3 // correct with serious difficulty
	GradeHesitant  Grade = 4 // correct after hesitation
	GradePerfect   Grade = 5 // perfect recall

	MinGrade = GradeBlackout
	MaxGrade = GradePerfect
)

// AnswerButton is the three-button reduction of the grade scale used by
// review front-ends.
type AnswerButton string

// Answer buttons.
const (
	AnswerHard AnswerButton = "hard"
	AnswerGood AnswerButton = "good"
	AnswerEasy AnswerButton = "easy"
)

var answerGrades = map[AnswerButton]Grade{
	AnswerHard: GradeFamiliar,
	AnswerGood: GradeHesitant,
	AnswerEasy: GradePerfect,
}

// Validate returns ErrInvalidGrade if g is outside [0,5].
func (g Grade) Validate() error {
	if g < MinGrade || g > MaxGrade {
		return fmt.Errorf("%w: %d is outside [%d,%d]", ErrInvalidGrade, int(g), MinGrade, MaxGrade)
	}
	return nil
}

// Passed reports whether g counts as a successful recall.
func (g Grade) Passed() bool {
	return g >= GradeDifficult
}

// ParseAnswerButton maps a button name (case-insensitive) to its grade.
func ParseAnswerButton(s string) (Grade, error) {
	g, ok := answerGrades[AnswerButton(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAnswer, s)
	}
	return g, nil
}
