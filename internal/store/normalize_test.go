package store

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestUnmarshalCanonicalTargets(t *testing.T) {
	data := []byte(`{
		"name": "Asha",
		"targets": [
			{"text": "read chapter 5", "completed": false, "completed_at": null},
			{"text": "two practice sets", "completed": true, "completed_at": "2025-08-01 10:30:00"}
		]
	}`)
	var entry UserDailyTargets
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.Name != "Asha" {
		t.Errorf("name = %q, want Asha", entry.Name)
	}
	if len(entry.Targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(entry.Targets))
	}
	if entry.Targets[0].Completed {
		t.Error("first target should not be completed")
	}
	if !entry.Targets[1].Completed || entry.Targets[1].CompletedAt == nil {
		t.Error("second target should be completed with a timestamp")
	}
	if *entry.Targets[1].CompletedAt != "2025-08-01 10:30:00" {
		t.Errorf("completed_at = %q", *entry.Targets[1].CompletedAt)
	}
}

func TestUnmarshalLegacyStringList(t *testing.T) {
	data := []byte(`{"name": "Asha", "targets": ["read chapter 5", "two practice sets"]}`)
	var entry UserDailyTargets
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []Target{{Text: "read chapter 5"}, {Text: "two practice sets"}}
	if !reflect.DeepEqual(entry.Targets, want) {
		t.Errorf("targets = %+v, want %+v", entry.Targets, want)
	}
}

func TestUnmarshalLegacySingleString(t *testing.T) {
	data := []byte(`{"name": "Asha", "target": "read chapter 5"}`)
	var entry UserDailyTargets
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entry.Targets) != 1 || entry.Targets[0].Text != "read chapter 5" {
		t.Errorf("targets = %+v, want single upgraded target", entry.Targets)
	}
}

func TestUnmarshalLegacyKeyWithStringList(t *testing.T) {
	data := []byte(`{"name": "Asha", "target": ["one", "two"]}`)
	var entry UserDailyTargets
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entry.Targets) != 2 || entry.Targets[0].Text != "one" || entry.Targets[1].Text != "two" {
		t.Errorf("targets = %+v", entry.Targets)
	}
}

func TestUnmarshalMixedList(t *testing.T) {
	data := []byte(`{"name": "Asha", "targets": ["plain", {"text": "structured", "completed": true, "completed_at": "2025-08-01 09:00:00"}]}`)
	var entry UserDailyTargets
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entry.Targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(entry.Targets))
	}
	if entry.Targets[0].Completed {
		t.Error("upgraded plain string must start not-completed")
	}
	if !entry.Targets[1].Completed {
		t.Error("structured target lost its completion state")
	}
}

func TestUnmarshalUnrecognizedShapeIsEmpty(t *testing.T) {
	for _, data := range []string{
		`{"name": "Asha", "targets": 42}`,
		`{"name": "Asha", "target": {"weird": true}}`,
		`"not even an object"`,
	} {
		var entry UserDailyTargets
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if len(entry.Targets) != 0 {
			t.Errorf("targets for %s = %+v, want empty", data, entry.Targets)
		}
	}
}

func TestUnmarshalIsIdempotent(t *testing.T) {
	stamp := "2025-08-01 10:30:00"
	original := UserDailyTargets{
		Name: "Asha",
		Targets: []Target{
			{Text: "read chapter 5"},
			{Text: "practice sets", Completed: true, CompletedAt: &stamp},
		},
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundtrip UserDailyTargets
	if err := json.Unmarshal(data, &roundtrip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(original, roundtrip) {
		t.Errorf("roundtrip changed the value:\n got %+v\nwant %+v", roundtrip, original)
	}
}

func TestSubjectProgressDropsLegacyNameKey(t *testing.T) {
	data := []byte(`{
		"name": "Asha",
		"Mathematics": {"completed_topics": ["Algebra"], "last_updated": "2025-08-01"}
	}`)
	var progress SubjectProgress
	if err := json.Unmarshal(data, &progress); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := progress["name"]; ok {
		t.Error("legacy name key survived")
	}
	entry := progress["Mathematics"]
	if entry == nil || len(entry.CompletedTopics) != 1 || entry.CompletedTopics[0] != "Algebra" {
		t.Errorf("Mathematics progress = %+v", entry)
	}
}

func TestNormalizeFillsNilContainers(t *testing.T) {
	doc := Normalize(&Document{})
	if doc.Milestones == nil || doc.DailyTargets == nil || doc.Subjects == nil || doc.UserProgress == nil {
		t.Fatal("normalize left a nil container")
	}
}

func TestNormalizeSortsMilestonesAndRecountsTopics(t *testing.T) {
	doc := &Document{
		Milestones: []Milestone{
			{Date: "2025-09-01", Description: "mock exam"},
			{Date: "2025-08-01", Description: "finish syllabus"},
		},
		Subjects: map[string]*Subject{
			"Math": {Topics: []string{"Algebra", "Calculus"}, TotalTopics: 7},
		},
	}
	Normalize(doc)
	if doc.Milestones[0].Date != "2025-08-01" {
		t.Errorf("milestones not sorted: %+v", doc.Milestones)
	}
	if doc.Subjects["Math"].TotalTopics != 2 {
		t.Errorf("total_topics = %d, want 2", doc.Subjects["Math"].TotalTopics)
	}
}

func TestNormalizeDropsEmptyDateContainers(t *testing.T) {
	doc := &Document{
		DailyTargets: map[string]map[string]*UserDailyTargets{
			"2025-08-03": {},
			"2025-08-04": {"u1": nil},
		},
	}
	Normalize(doc)
	if len(doc.DailyTargets) != 0 {
		t.Errorf("empty date containers survived: %+v", doc.DailyTargets)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	doc := &Document{
		Milestones: []Milestone{{Date: "2025-08-01", Description: "d"}},
		DailyTargets: map[string]map[string]*UserDailyTargets{
			"2025-08-03": {"u1": {Name: "Asha", Targets: []Target{{Text: "x"}}}},
		},
		Subjects:     map[string]*Subject{"Math": {Topics: []string{"Algebra"}, TotalTopics: 1}},
		UserProgress: map[string]SubjectProgress{"u1": {"Math": {CompletedTopics: []string{"Algebra"}}}},
	}
	once := Normalize(doc)
	first, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(Normalize(once))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("second normalize changed the document:\n%s\n%s", first, second)
	}
}
