// Package app implements the load-mutate-save layer over the tracker
// document. Every operation loads the document from the repository, applies
// one mutation, and writes the whole document back; no state survives
// between calls.
package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gatetracker/bot/internal/store"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// AuditLog records a snapshot of the document after each mutation.
type AuditLog interface {
	Record(doc *store.Document, action string) error
}

// Indexer pushes the document into a search index, fire-and-forget.
type Indexer interface {
	IndexDocument(doc *store.Document)
}

type Service struct {
	repo    store.Repository
	audit   AuditLog
	indexer Indexer
	now     func() time.Time
}

// New creates the mutation service. audit and indexer may be nil.
func New(repo store.Repository, audit AuditLog, indexer Indexer) *Service {
	return &Service{repo: repo, audit: audit, indexer: indexer, now: time.Now}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// Today returns the current date key.
func (s *Service) Today() string {
	return s.now().Format(DateLayout)
}

// Snapshot loads the document for read-only use (status, dashboards).
// Callers must not mutate the result; mutations go through the operations
// below so they are persisted.
func (s *Service) Snapshot(ctx context.Context) (*store.Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *Service) load(ctx context.Context) (*store.Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}

func (s *Service) save(ctx context.Context, doc *store.Document, action string) error {
	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if s.audit != nil {
		if err := s.audit.Record(doc, action); err != nil {
			log.Printf("app: audit %s: %v", action, err)
		}
	}
	if s.indexer != nil {
		s.indexer.IndexDocument(doc)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return validationError("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

// Percent computes a completion percentage; a zero total is 0%.
func Percent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// stripQuotes removes one pair of surrounding double quotes, if present.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// AddMilestone validates the date, appends and restores date order.
func (s *Service) AddMilestone(ctx context.Context, date, description string) (store.Milestone, error) {
	if err := ValidateDate(date); err != nil {
		return store.Milestone{}, err
	}
	description = stripQuotes(strings.TrimSpace(description))
	if description == "" {
		return store.Milestone{}, validationError("milestone description must not be empty")
	}

	doc, err := s.load(ctx)
	if err != nil {
		return store.Milestone{}, err
	}
	ms := store.Milestone{Date: date, Description: description}
	doc.Milestones = append(doc.Milestones, ms)
	sortMilestones(doc.Milestones)
	if err := s.save(ctx, doc, "add milestone"); err != nil {
		return store.Milestone{}, err
	}
	return ms, nil
}

// EditMilestone updates one field of the 1-based milestone. Editing the
// date re-validates and re-sorts; editing the description strips one pair
// of surrounding quotes.
func (s *Service) EditMilestone(ctx context.Context, index int, field, value string) (store.Milestone, error) {
	switch field {
	case "date":
		if err := ValidateDate(value); err != nil {
			return store.Milestone{}, err
		}
	case "description":
		value = stripQuotes(value)
		if strings.TrimSpace(value) == "" {
			return store.Milestone{}, validationError("milestone description must not be empty")
		}
	default:
		return store.Milestone{}, validationError("unknown field %q, expected date or description", field)
	}

	doc, err := s.load(ctx)
	if err != nil {
		return store.Milestone{}, err
	}
	if index < 1 || index > len(doc.Milestones) {
		return store.Milestone{}, notFoundError("milestone #%d not found", index)
	}
	if field == "date" {
		doc.Milestones[index-1].Date = value
	} else {
		doc.Milestones[index-1].Description = value
	}
	// Capture before re-sorting; the edited entry may move.
	ms := doc.Milestones[index-1]
	if field == "date" {
		sortMilestones(doc.Milestones)
	}
	if err := s.save(ctx, doc, "edit milestone"); err != nil {
		return store.Milestone{}, err
	}
	return ms, nil
}

// DeleteMilestone removes the 1-based milestone and returns it together
// with the number of milestones remaining.
func (s *Service) DeleteMilestone(ctx context.Context, index int) (store.Milestone, int, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return store.Milestone{}, 0, err
	}
	if len(doc.Milestones) == 0 {
		return store.Milestone{}, 0, notFoundError("no milestones exist to delete")
	}
	if index < 1 || index > len(doc.Milestones) {
		return store.Milestone{}, 0, notFoundError("only %d milestone(s) exist, cannot delete #%d", len(doc.Milestones), index)
	}
	removed := doc.Milestones[index-1]
	doc.Milestones = append(doc.Milestones[:index-1], doc.Milestones[index:]...)
	if err := s.save(ctx, doc, "delete milestone"); err != nil {
		return store.Milestone{}, 0, err
	}
	return removed, len(doc.Milestones), nil
}

// ClearMilestones empties the ledger unconditionally.
func (s *Service) ClearMilestones(ctx context.Context) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	doc.Milestones = []store.Milestone{}
	return s.save(ctx, doc, "clear milestones")
}

// ListMilestones returns the ledger in date order.
func (s *Service) ListMilestones(ctx context.Context) ([]store.Milestone, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Milestones, nil
}

// NextUpcoming returns the first milestone strictly after now, or nil when
// the ledger is empty or everything is in the past. A milestone dated
// today does not qualify: its deadline midnight has already passed.
func (s *Service) NextUpcoming(ctx context.Context) (*store.Milestone, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return NextUpcoming(doc.Milestones, s.now()), nil
}

// NextUpcoming scans the sorted ledger for the first strictly future
// milestone.
func NextUpcoming(milestones []store.Milestone, now time.Time) *store.Milestone {
	for i := range milestones {
		deadline, err := time.Parse(DateLayout, milestones[i].Date)
		if err != nil {
			continue
		}
		if deadline.After(now) {
			return &milestones[i]
		}
	}
	return nil
}

func sortMilestones(milestones []store.Milestone) {
	sort.SliceStable(milestones, func(i, j int) bool {
		return milestones[i].Date < milestones[j].Date
	})
}
