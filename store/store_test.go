package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/recruitkit/recruitkit/database"
	"github.com/recruitkit/recruitkit/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpeningsCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewOpenings(testDB(t))

	opening := &model.Opening{
		ID:               "op_1",
		Title:            "Backend Engineer",
		Location:         "Remote",
		Department:       "Engineering",
		PreferredSources: []string{"LinkedIn", "Referral"},
		DurationMins:     45,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Create(ctx, opening); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.Get(ctx, "op_1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Title != "Backend Engineer" {
		t.Fatalf("Expected opening back, got %#v", got)
	}
	if len(got.PreferredSources) != 2 || got.PreferredSources[0] != "LinkedIn" {
		t.Errorf("Expected preferred sources round-trip, got %v", got.PreferredSources)
	}

	missing, err := s.Get(ctx, "op_none")
	if err != nil {
		t.Fatalf("Get missing failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing opening, got %#v", missing)
	}

	opening.Title = "Senior Backend Engineer"
	if err := s.Update(ctx, opening); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ = s.Get(ctx, "op_1")
	if got.Title != "Senior Backend Engineer" {
		t.Errorf("Expected updated title, got %q", got.Title)
	}

	openings, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(openings) != 1 {
		t.Errorf("Expected 1 opening, got %d", len(openings))
	}

	if err := s.Delete(ctx, "op_1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, "op_1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected ErrNoRows on second delete, got %v", err)
	}
}

func TestSchemaPersistAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewOpenings(testDB(t))

	opening := &model.Opening{ID: "op_1", Title: "QA", CreatedAt: time.Now().UTC(), PreferredSources: []string{}}
	if err := s.Create(ctx, opening); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	minLen := 2
	schema := []model.Question{
		{ID: "q_fullname", Type: "short_text", Label: "Full name", Required: true, Validation: &model.Validation{MinLength: &minLen}},
		{ID: "q_skills", Type: "checkboxes", Label: "Skills", Options: []string{"Go", "Rust"}, PageBreak: true},
	}
	if err := s.PersistInlineSchema(ctx, "op_1", schema); err != nil {
		t.Fatalf("PersistInlineSchema failed: %v", err)
	}

	got, err := s.Schema(ctx, "op_1")
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 questions, got %d", len(got))
	}
	if got[0].Validation == nil || got[0].Validation.MinLength == nil || *got[0].Validation.MinLength != 2 {
		t.Errorf("Expected validation metadata to round-trip, got %#v", got[0].Validation)
	}
	if len(got[1].Options) != 2 || !got[1].PageBreak {
		t.Errorf("Expected options and page break to round-trip, got %#v", got[1])
	}

	// replace is atomic: the old questions are gone
	if err := s.PersistInlineSchema(ctx, "op_1", schema[:1]); err != nil {
		t.Fatalf("Second PersistInlineSchema failed: %v", err)
	}
	got, _ = s.Schema(ctx, "op_1")
	if len(got) != 1 {
		t.Errorf("Expected replaced schema with 1 question, got %d", len(got))
	}

	// unknown opening fails on the foreign key
	if err := s.PersistInlineSchema(ctx, "op_none", schema); err == nil {
		t.Error("Expected persist against unknown opening to fail")
	}
}

func TestFormPublish(t *testing.T) {
	ctx := context.Background()
	s := NewOpenings(testDB(t))

	opening := &model.Opening{ID: "op_1", Title: "QA", CreatedAt: time.Now().UTC(), PreferredSources: []string{"LinkedIn"}}
	if err := s.Create(ctx, opening); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.PersistInlineSchema(ctx, "op_1", model.CoreQuestions()); err != nil {
		t.Fatalf("PersistInlineSchema failed: %v", err)
	}

	form, err := s.Form(ctx, "op_1")
	if err != nil {
		t.Fatalf("Form failed: %v", err)
	}
	if form == nil || form.Meta.IsPublished {
		t.Fatalf("Expected unpublished form, got %#v", form)
	}

	links := map[string]string{"LinkedIn": "http://x/apply?opening=op_1&src=LinkedIn"}
	err = s.Publish(ctx, "op_1", "form_1", "http://x/apply?opening=op_1", links, time.Now().UTC())
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	form, _ = s.Form(ctx, "op_1")
	if !form.Meta.IsPublished || form.Meta.PublishedAt == nil {
		t.Errorf("Expected published form, got %#v", form.Meta)
	}
	if form.Meta.ShareLinks["LinkedIn"] != links["LinkedIn"] {
		t.Errorf("Expected share links round-trip, got %v", form.Meta.ShareLinks)
	}
	if form.Meta.CoreFields["q_email"] != "Email" {
		t.Errorf("Expected core field labels, got %v", form.Meta.CoreFields)
	}
}

func TestResponsesAppendListStatus(t *testing.T) {
	ctx := context.Background()
	s := NewResponses(testDB(t))

	first := &model.Response{
		ID:        "resp_1",
		OpeningID: "op_1",
		Source:    "LinkedIn",
		FullName:  "Ada",
		Answers:   map[string]any{"q_skills": []string{"Go", "Rust"}},
		Status:    model.StatusApplied,
		CreatedAt: "2026-01-02T03:04:05.000Z",
	}
	if err := s.Append(ctx, first); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	second := &model.Response{
		ID: "resp_2", OpeningID: "op_1", Source: "unknown",
		ResumeLink: "https://drive.google.com/file/d/abc/view",
		Answers:    map[string]any{"name": "Ben"},
		Status:     model.StatusApplied,
		CreatedAt:  "2026-01-02T03:04:06.000Z",
	}
	if err := s.Append(ctx, second); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	responses, err := s.List(ctx, "op_1", "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(responses) != 2 || responses[0].ID != "resp_1" || responses[1].ID != "resp_2" {
		t.Fatalf("Expected insertion order, got %v", responses)
	}
	if responses[0].ResumeLink != "" {
		t.Errorf("Expected empty resume link for resp_1, got %q", responses[0].ResumeLink)
	}

	skills, ok := responses[0].Answers["q_skills"].([]any)
	if !ok || len(skills) != 2 || skills[0] != "Go" {
		t.Errorf("Expected checkbox answers to stay a list, got %#v", responses[0].Answers["q_skills"])
	}

	if err := s.UpdateStatus(ctx, "resp_1", "Shortlisted"); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	shortlisted, _ := s.List(ctx, "op_1", "Shortlisted")
	if len(shortlisted) != 1 || shortlisted[0].ID != "resp_1" {
		t.Errorf("Expected status filter to return resp_1, got %v", shortlisted)
	}

	if err := s.UpdateStatus(ctx, "resp_none", "X"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected ErrNoRows for unknown response, got %v", err)
	}
}
