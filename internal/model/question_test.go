package model

import (
	"sort"
	"testing"
)

func TestBuildOptions(t *testing.T) {
	correct := "Mercury"
	incorrect := []string{"Venus", "Mars", "Jupiter"}

	options := BuildOptions(correct, incorrect)
	if len(options) != 4 {
		t.Fatalf("len(options) = %d, want 4", len(options))
	}

	// 正确答案和所有干扰项都必须在，且只在一次
	want := append([]string{correct}, incorrect...)
	got := append([]string(nil), options...)
	sort.Strings(want)
	sort.Strings(got)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("options = %v, want permutation of %v", options, want)
		}
	}
}

func TestBuildOptionsEmptyCorrect(t *testing.T) {
	options := BuildOptions("", []string{"A", "B"})
	if len(options) != 2 {
		t.Fatalf("len(options) = %d, want 2", len(options))
	}
}

func TestSetIncorrectAnswers(t *testing.T) {
	q := Question{CorrectAnswer: "Paris"}
	q.SetIncorrectAnswers([]string{"London", "Berlin", "Madrid"})

	if len(q.Options) != 4 {
		t.Fatalf("len(q.Options) = %d, want 4", len(q.Options))
	}
	found := false
	for _, o := range q.Options {
		if o == "Paris" {
			found = true
		}
	}
	if !found {
		t.Errorf("correct answer missing from options: %v", q.Options)
	}
}

func TestQuestionIsCorrect(t *testing.T) {
	q := Question{CorrectAnswer: "Mercury"}

	tests := []struct {
		submitted string
		want      bool
	}{
		{"Mercury", true},
		{"mercury", true},
		{"MERCURY", true},
		{"Venus", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := q.IsCorrect(tt.submitted); got != tt.want {
			t.Errorf("IsCorrect(%q) = %v, want %v", tt.submitted, got, tt.want)
		}
	}

	// 没有正确答案时永远不判对，空串也不行
	empty := Question{}
	if empty.IsCorrect("") {
		t.Error("IsCorrect should reject empty submissions against an empty answer")
	}
}
