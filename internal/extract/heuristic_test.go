package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBulletsAndNumbering(t *testing.T) {
	e := NewHeuristicExtractor()

	input := "- [ ] Task 1\n* Task 2\n1. Write unit tests\n2. Update the documentation\nSome narrative."
	got := e.Extract(input)

	assert.Equal(t, []string{
		"Task 1",
		"Task 2",
		"Write unit tests",
		"Update the documentation",
	}, got)
}

func TestExtractKeywordPrefixes(t *testing.T) {
	e := NewHeuristicExtractor()

	input := "todo: Review the pull requests\naction: Fix the authentication bug\nRegular discussion."
	got := e.Extract(input)

	assert.Equal(t, []string{
		"Review the pull requests",
		"Fix the authentication bug",
	}, got)
}

func TestExtractImperativeSentence(t *testing.T) {
	e := NewHeuristicExtractor()

	input := "Create a new user authentication system.\nWe also talked about the release."
	got := e.Extract(input)

	// Trailing period is stripped, narrative sentence is excluded.
	assert.Equal(t, []string{"Create a new user authentication system"}, got)
}

func TestExtractSingleKeywordLine(t *testing.T) {
	e := NewHeuristicExtractor()

	got := e.Extract("todo: Complete the project")

	assert.Equal(t, []string{"Complete the project"}, got)
}

func TestExtractNoMatches(t *testing.T) {
	e := NewHeuristicExtractor()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t\n"},
		{"narrative", "We met on Tuesday.\nThe weather was nice.\nNothing was decided."},
		{"bare fragment", "fix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, e.Extract(tt.input))
		})
	}
}

func TestExtractRulePrecedence(t *testing.T) {
	e := NewHeuristicExtractor()

	// A numbered bullet whose payload starts with an action verb must be
	// handled by the bullet rule: the marker is stripped, the payload kept
	// as-is (the imperative rule would also have trimmed a period).
	got := e.Extract("3. Fix the flaky test suite.")
	assert.Equal(t, []string{"Fix the flaky test suite."}, got)
}

func TestExtractCheckboxVariants(t *testing.T) {
	e := NewHeuristicExtractor()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"checkbox after dash", "- [ ] Buy milk", []string{"Buy milk"}},
		{"bare checkbox", "[ ] Ship the release", []string{"Ship the release"}},
		{"todo checkbox", "[todo] Rotate the API keys", []string{"Rotate the API keys"}},
		{"todo checkbox after bullet", "* [TODO] Refill the coffee machine", []string{"Refill the coffee machine"}},
		{"unicode bullet", "• Email the vendor", []string{"Email the vendor"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Extract(tt.input))
		})
	}
}

func TestExtractEmptyCandidatesDiscarded(t *testing.T) {
	e := NewHeuristicExtractor()

	// Markers with nothing behind them never become items.
	got := e.Extract("- [ ]\ntodo:\n*   \n- Real task")
	assert.Equal(t, []string{"Real task"}, got)
}

func TestExtractKeepsDuplicates(t *testing.T) {
	e := NewHeuristicExtractor()

	got := e.Extract("- Call the bank\n- Call the bank")
	assert.Equal(t, []string{"Call the bank", "Call the bank"}, got)
}

func TestExtractPreservesInputOrder(t *testing.T) {
	e := NewHeuristicExtractor()

	input := "next: Draft the agenda\n- Book the room\ntodo: Send invites"
	got := e.Extract(input)

	assert.Equal(t, []string{"Draft the agenda", "Book the room", "Send invites"}, got)
}

func TestExtractIsIdempotent(t *testing.T) {
	e := NewHeuristicExtractor()

	input := "- [ ] Task 1\ntodo: Task 2\nCreate the deployment pipeline."
	first := e.Extract(input)
	second := e.Extract(input)

	assert.Equal(t, first, second)
}

func TestExtractKeywordCaseInsensitive(t *testing.T) {
	e := NewHeuristicExtractor()

	got := e.Extract("TODO: shout less\nAction: Review quietly")
	assert.Equal(t, []string{"shout less", "Review quietly"}, got)
}

func TestExtractSetUpVerb(t *testing.T) {
	e := NewHeuristicExtractor()

	got := e.Extract("Set up the staging environment.")
	assert.Equal(t, []string{"Set up the staging environment"}, got)
}
