package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileRepositoryMissingFileStartsFresh(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "data.json"))
	doc, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc == nil || doc.Milestones == nil || doc.Subjects == nil {
		t.Fatal("missing file must yield a fresh empty document")
	}
	if len(doc.Milestones) != 0 || len(doc.DailyTargets) != 0 {
		t.Errorf("fresh document is not empty: %+v", doc)
	}
}

func TestFileRepositoryCorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := NewFileRepository(path).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Milestones) != 0 {
		t.Errorf("corrupt file must yield a fresh document, got %+v", doc)
	}
}

func TestFileRepositoryRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	repo := NewFileRepository(path)

	doc := NewDocument()
	doc.Milestones = append(doc.Milestones, Milestone{Date: "2025-09-01", Description: "mock exam"})
	doc.Subjects["Mathematics"] = &Subject{Topics: []string{"Algebra", "Calculus"}, TotalTopics: 2}
	doc.DailyTargets["2025-08-03"] = map[string]*UserDailyTargets{
		"101": {Name: "Asha", Targets: []Target{{Text: "read chapter 5"}}},
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Milestones) != 1 || loaded.Milestones[0].Description != "mock exam" {
		t.Errorf("milestones = %+v", loaded.Milestones)
	}
	if loaded.Subjects["Mathematics"].TotalTopics != 2 {
		t.Errorf("subjects = %+v", loaded.Subjects["Mathematics"])
	}
	if loaded.DailyTargets["2025-08-03"]["101"].Targets[0].Text != "read chapter 5" {
		t.Errorf("daily targets = %+v", loaded.DailyTargets["2025-08-03"])
	}
}

func TestFileRepositorySaveWritesReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	repo := NewFileRepository(path)
	if err := repo.Save(context.Background(), NewDocument()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "  \"milestones\"") {
		t.Errorf("document is not indented:\n%s", text)
	}
	if !strings.HasSuffix(text, "\n") {
		t.Error("document should end with a newline")
	}
}

func TestFileRepositorySaveReplacesAtomically(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	repo := NewFileRepository(path)

	if err := repo.Save(ctx, NewDocument()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	doc := NewDocument()
	doc.Milestones = append(doc.Milestones, Milestone{Date: "2025-08-01", Description: "finish syllabus"})
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("second save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
