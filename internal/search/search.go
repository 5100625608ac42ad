// Package search provides full-text search over the tracker document for
// the /search command: Meilisearch when it is reachable, an in-memory
// index otherwise.
package search

import (
	"fmt"

	"gatetracker/bot/internal/store"
)

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultMilestone ResultType = "milestone"
	ResultTarget    ResultType = "target"
	ResultTopic     ResultType = "topic"
)

// Record is one searchable entry flattened out of the document.
type Record struct {
	ID      string     `json:"id"`
	Type    ResultType `json:"type"`
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
}

// Query describes a search request.
type Query struct {
	Text  string
	Limit int
}

// Searcher can execute a full-text search over the flattened records.
type Searcher interface {
	Search(q Query) ([]Record, error)
	Healthy() bool
}

// Flatten turns the document into indexable records: one per milestone,
// per daily target and per syllabus topic.
func Flatten(doc *store.Document) []Record {
	var records []Record
	for i, ms := range doc.Milestones {
		records = append(records, Record{
			ID:      fmt.Sprintf("milestone-%d", i+1),
			Type:    ResultMilestone,
			Title:   ms.Date,
			Snippet: ms.Description,
		})
	}
	for date, users := range doc.DailyTargets {
		for userID, entry := range users {
			for i, target := range entry.Targets {
				records = append(records, Record{
					ID:      fmt.Sprintf("target-%s-%s-%d", date, userID, i+1),
					Type:    ResultTarget,
					Title:   fmt.Sprintf("%s (%s)", date, entry.Name),
					Snippet: target.Text,
				})
			}
		}
	}
	for name, subject := range doc.Subjects {
		for i, topic := range subject.Topics {
			records = append(records, Record{
				ID:      fmt.Sprintf("topic-%s-%d", sanitizeID(name), i+1),
				Type:    ResultTopic,
				Title:   name,
				Snippet: topic,
			})
		}
	}
	return records
}

// sanitizeID keeps Meilisearch document ids to its allowed alphabet.
func sanitizeID(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
