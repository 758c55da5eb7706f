package prompts

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadKnownTemplates(t *testing.T) {
	for _, name := range []string{RecruiterAudit, CodeReview, MRDescription} {
		text, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if strings.TrimSpace(text) == "" {
			t.Errorf("Load(%q) returned empty template", name)
		}
	}
}

func TestLoadUnknownTemplate(t *testing.T) {
	_, err := Load("no_such_workflow")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapInstruction(t *testing.T) {
	got := MapInstruction("audit the code", "https://github.com/u/r", 2, 5)

	if !strings.Contains(got, "PART 2 of 5") {
		t.Errorf("missing part header:\n%s", got)
	}
	if !strings.Contains(got, "https://github.com/u/r") {
		t.Errorf("missing repository URL:\n%s", got)
	}
	if !strings.Contains(got, "audit the code") {
		t.Errorf("missing wrapped template:\n%s", got)
	}
	if !strings.Contains(got, "DO NOT generate the final") {
		t.Errorf("missing partial-analysis instruction:\n%s", got)
	}
}

func TestReduceInstruction(t *testing.T) {
	got := ReduceInstruction("audit the code", "https://github.com/u/r", "finding one\nfinding two", 3)

	if !strings.Contains(got, "in 3 parts") {
		t.Errorf("missing part count:\n%s", got)
	}
	if !strings.Contains(got, "ORIGINAL PROMPT:\naudit the code") {
		t.Errorf("missing original prompt:\n%s", got)
	}
	if !strings.Contains(got, "finding two") {
		t.Errorf("missing combined findings:\n%s", got)
	}
}
