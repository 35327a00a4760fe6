package routes

import (
	"testing"

	"github.com/recruitkit/recruitkit/model"
)

func TestCollectAnswersDropsReservedKeys(t *testing.T) {
	answers := collectAnswers(map[string][]string{
		"opening":    {"op_1"},
		"src":        {"LinkedIn"},
		"_schema":    {"[]"},
		"q_fullname": {"Ada"},
		"q_skills":   {"Go", "Rust", "TS"},
	})

	if len(answers) != 2 {
		t.Fatalf("Expected 2 answers, got %d: %v", len(answers), answers)
	}
	if answers["q_fullname"] != "Ada" {
		t.Errorf("Expected single value to stay a string, got %#v", answers["q_fullname"])
	}
	skills, ok := answers["q_skills"].([]string)
	if !ok || len(skills) != 3 {
		t.Fatalf("Expected repeated key to stay a list, got %#v", answers["q_skills"])
	}
}

func TestAnswerStringJoinsLists(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Go", "Go"},
		{[]string{"A", "B"}, "A, B"},
		{[]any{"Go", "Rust", "TS"}, "Go, Rust, TS"},
		{7, "7"},
	}
	for _, c := range cases {
		if got := answerString(c.in); got != c.want {
			t.Errorf("answerString(%#v) = %q, expected %q", c.in, got, c.want)
		}
	}
}

func TestRowSuffixPrefersIdOverLabel(t *testing.T) {
	schema := []model.Question{
		{ID: "q_years", Label: "Years"},
	}
	answers := map[string]any{
		"q_years": "7",
		"Years":   "99",
	}

	suffix := rowSuffix(schema, answers)
	if suffix[0] != "7" {
		t.Errorf("Expected id lookup to win, got %q", suffix[0])
	}
}

func TestRowSuffixLabelFallback(t *testing.T) {
	schema := []model.Question{
		{ID: "q_years", Label: "Years"},
	}
	answers := map[string]any{"Years": "7"}

	suffix := rowSuffix(schema, answers)
	if suffix[0] != "7" {
		t.Errorf("Expected label fallback, got %q", suffix[0])
	}
}

func TestRowSuffixDuplicateLabelFirstWins(t *testing.T) {
	schema := []model.Question{
		{ID: "q_a", Label: "Team"},
		{ID: "q_b", Label: "Team"},
	}
	answers := map[string]any{"Team": "Core"}

	suffix := rowSuffix(schema, answers)
	if suffix[0] != "Core" || suffix[1] != "" {
		t.Errorf("Expected first question to claim the label, got %v", suffix)
	}
}

func TestRowSuffixMissingAndCheckbox(t *testing.T) {
	schema := []model.Question{
		{ID: "q_src", Label: "Source"},
		{ID: "q_skills", Label: "Skills"},
	}
	answers := map[string]any{
		"q_skills": []string{"Go", "Rust", "TS"},
	}

	suffix := rowSuffix(schema, answers)
	if suffix[0] != "" {
		t.Errorf("Expected empty cell for missing answer, got %q", suffix[0])
	}
	if suffix[1] != "Go, Rust, TS" {
		t.Errorf("Expected joined checkbox values, got %q", suffix[1])
	}
}

func TestCoreValuePrecedence(t *testing.T) {
	answers := map[string]any{
		"fullname": "Fallback",
		"name":     "Deeper fallback",
	}
	if got := coreValue(answers, model.QFullName, "fullname", "name"); got != "Fallback" {
		t.Errorf("Expected fullname fallback, got %q", got)
	}

	answers[model.QFullName] = "Ada"
	if got := coreValue(answers, model.QFullName, "fullname", "name"); got != "Ada" {
		t.Errorf("Expected q_fullname to win, got %q", got)
	}

	if got := coreValue(map[string]any{}, model.QCollege, "college"); got != "" {
		t.Errorf("Expected empty string for absent keys, got %q", got)
	}
}

func TestUniqueMillisMonotonic(t *testing.T) {
	prev := uniqueMillis()
	for i := 0; i < 1000; i++ {
		next := uniqueMillis()
		if next <= prev {
			t.Fatalf("Expected strictly increasing stamps, got %d after %d", next, prev)
		}
		prev = next
	}
}
