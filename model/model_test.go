package model

import "testing"

func TestEnsureCoreFieldsInsertsMissingCoreQuestions(t *testing.T) {
	questions := EnsureCoreFields([]Question{
		{ID: "q_years", Type: "number", Label: "Years"},
	})

	if len(questions) != 6 {
		t.Fatalf("Expected 6 questions, got %d", len(questions))
	}

	wantOrder := []string{QFullName, QEmail, QPhone, QResume, QCollege, "q_years"}
	for i, id := range wantOrder {
		if questions[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, questions[i].ID)
		}
	}
}

func TestEnsureCoreFieldsForcesRequiredAndOrder(t *testing.T) {
	questions := EnsureCoreFields([]Question{
		{ID: "q_skills", Type: "checkboxes", Label: "Skills", Options: []string{"Go", "Rust"}},
		{ID: QEmail, Type: "email", Label: "Work email", Required: false},
		{ID: QFullName, Type: "short_text", Label: "Your name", Required: false},
	})

	if questions[0].ID != QFullName || questions[0].Label != "Your name" {
		t.Errorf("Expected edited q_fullname first, got %s (%s)", questions[0].ID, questions[0].Label)
	}
	if questions[1].ID != QEmail || questions[1].Label != "Work email" {
		t.Errorf("Expected edited q_email second, got %s (%s)", questions[1].ID, questions[1].Label)
	}
	for _, q := range questions {
		if IsProtected(q.ID) && !q.Required {
			t.Errorf("Protected question %s must be required", q.ID)
		}
	}
	if last := questions[len(questions)-1]; last.ID != "q_skills" {
		t.Errorf("Expected opening-specific question last, got %s", last.ID)
	}
}

func TestCoreFieldLabels(t *testing.T) {
	labels := CoreFieldLabels([]Question{
		{ID: QFullName, Label: "Nome completo"},
		{ID: "q_other", Label: "Other"},
	})

	if labels[QFullName] != "Nome completo" {
		t.Errorf("Expected edited label, got %s", labels[QFullName])
	}
	if labels[QEmail] != "Email" {
		t.Errorf("Expected default label for q_email, got %s", labels[QEmail])
	}
	if _, ok := labels["q_other"]; ok {
		t.Error("Non-core question must not appear in core field labels")
	}
}
