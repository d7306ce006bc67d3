package domain

import (
	"errors"
	"testing"
)

func TestGradeValidate(t *testing.T) {
	t.Parallel()

	for g := MinGrade; g <= MaxGrade; g++ {
		if err := g.Validate(); err != nil {
			t.Errorf("grade %d: expected no error, got %v", g, err)
		}
	}

	for _, g := range []Grade{-1, 6, 100} {
		if err := g.Validate(); !errors.Is(err, ErrInvalidGrade) {
			t.Errorf("grade %d: expected ErrInvalidGrade, got %v", g, err)
		}
	}
}

func TestGradePassed(t *testing.T) {
	t.Parallel()

	expected := map[Grade]bool{0: false, 1: false, 2: false, 3: true, 4: true, 5: true}
	for g, want := range expected {
		if got := g.Passed(); got != want {
			t.Errorf("grade %d: expected Passed()=%v, got %v", g, want, got)
		}
	}
}

func TestParseAnswerButton(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		expected Grade
		wantErr  bool
	}{
		{input: "hard", expected: GradeFamiliar},
		{input: "good", expected: GradeHesitant},
		{input: "easy", expected: GradePerfect},
		{input: " Easy ", expected: GradePerfect},
		{input: "again", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseAnswerButton(tc.input)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidGrade) {
				t.Errorf("%q: expected ErrInvalidGrade, got %v", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("%q: expected grade %d, got %d", tc.input, tc.expected, got)
		}
	}
}
