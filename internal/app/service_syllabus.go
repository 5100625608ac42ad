package app

import (
	"context"
	"sort"
	"strings"

	"gatetracker/bot/internal/store"
)

// TopicsEdit summarizes what an EditTopics call changed.
type TopicsEdit struct {
	Action   string
	Added    []string
	Removed  []string
	OldCount int
	NewCount int
}

// AddSubject creates or overwrites a subject. Duplicate topic names are
// silently filtered; the first occurrence wins.
func (s *Service) AddSubject(ctx context.Context, name string, topics []string) (*store.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("subject name must not be empty")
	}
	clean := uniqueTopics(topics)
	if len(clean) == 0 {
		return nil, validationError("subject needs at least one topic")
	}

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	subject := &store.Subject{Topics: clean, TotalTopics: len(clean)}
	doc.Subjects[name] = subject
	if err := s.save(ctx, doc, "add subject"); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes the subject and, in the same mutation, every
// user's progress entry for it. No orphaned progress survives.
func (s *Service) DeleteSubject(ctx context.Context, name string) error {
	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := doc.Subjects[name]; !ok {
		return notFoundError("subject %q not found", name)
	}
	delete(doc.Subjects, name)
	for _, progress := range doc.UserProgress {
		delete(progress, name)
	}
	return s.save(ctx, doc, "delete subject")
}

// EditTopics applies an add, remove or replace to a subject's topic list.
// Referential integrity is eager: any completed topic that no longer
// exists is pruned from every user's progress within the same mutation.
func (s *Service) EditTopics(ctx context.Context, name, action string, topics []string) (TopicsEdit, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return TopicsEdit{}, err
	}
	subject, ok := doc.Subjects[name]
	if !ok {
		return TopicsEdit{}, notFoundError("subject %q not found", name)
	}

	edit := TopicsEdit{Action: action, OldCount: len(subject.Topics)}
	switch action {
	case "add":
		existing := topicSet(subject.Topics)
		for _, topic := range uniqueTopics(topics) {
			if _, dup := existing[topic]; dup {
				continue
			}
			subject.Topics = append(subject.Topics, topic)
			edit.Added = append(edit.Added, topic)
		}
		if len(edit.Added) == 0 {
			return TopicsEdit{}, validationError("all specified topics already exist in %q", name)
		}

	case "remove":
		if len(topics) != 1 {
			return TopicsEdit{}, validationError("remove takes exactly one topic name")
		}
		topic := topics[0]
		idx := indexOf(subject.Topics, topic)
		if idx < 0 {
			return TopicsEdit{}, notFoundError("topic %q not found in subject %q", topic, name)
		}
		subject.Topics = append(subject.Topics[:idx], subject.Topics[idx+1:]...)
		edit.Removed = []string{topic}
		pruneProgress(doc, name, topicSet(subject.Topics))

	case "replace":
		clean := uniqueTopics(topics)
		if len(clean) == 0 {
			return TopicsEdit{}, validationError("replacement topic list must not be empty")
		}
		kept := topicSet(clean)
		for _, topic := range subject.Topics {
			if _, survives := kept[topic]; !survives {
				edit.Removed = append(edit.Removed, topic)
			}
		}
		old := topicSet(subject.Topics)
		for _, topic := range clean {
			if _, existed := old[topic]; !existed {
				edit.Added = append(edit.Added, topic)
			}
		}
		subject.Topics = clean
		pruneProgress(doc, name, kept)

	default:
		return TopicsEdit{}, validationError("invalid action %q, use add, remove or replace", action)
	}

	subject.TotalTopics = len(subject.Topics)
	edit.NewCount = subject.TotalTopics
	if err := s.save(ctx, doc, "edit topics"); err != nil {
		return TopicsEdit{}, err
	}
	return edit, nil
}

// DeleteTopic removes one topic from a subject and prunes it from every
// user's completed list, reporting which users lost progress.
func (s *Service) DeleteTopic(ctx context.Context, name, topic string) (int, []string, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return 0, nil, err
	}
	subject, ok := doc.Subjects[name]
	if !ok {
		return 0, nil, notFoundError("subject %q not found", name)
	}
	idx := indexOf(subject.Topics, topic)
	if idx < 0 {
		return 0, nil, notFoundError("topic %q not found in subject %q", topic, name)
	}
	subject.Topics = append(subject.Topics[:idx], subject.Topics[idx+1:]...)
	subject.TotalTopics = len(subject.Topics)

	var affected []string
	for userID, progress := range doc.UserProgress {
		entry := progress[name]
		if entry == nil {
			continue
		}
		i := indexOf(entry.CompletedTopics, topic)
		if i < 0 {
			continue
		}
		entry.CompletedTopics = append(entry.CompletedTopics[:i], entry.CompletedTopics[i+1:]...)
		affected = append(affected, userID)
	}
	sort.Strings(affected)

	if err := s.save(ctx, doc, "delete topic"); err != nil {
		return 0, nil, err
	}
	return subject.TotalTopics, affected, nil
}

// CompleteTopic records a syllabus topic as done for a user. Completing a
// topic twice is reported as AlreadyCompleted and changes nothing.
func (s *Service) CompleteTopic(ctx context.Context, name, topic, userID string) (Progress, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Progress{}, err
	}
	subject, ok := doc.Subjects[name]
	if !ok {
		return Progress{}, notFoundError("subject %q not found", name)
	}
	if indexOf(subject.Topics, topic) < 0 {
		return Progress{}, notFoundError("topic %q not found in subject %q", topic, name)
	}

	progress, ok := doc.UserProgress[userID]
	if !ok {
		progress = store.SubjectProgress{}
		doc.UserProgress[userID] = progress
	}
	entry, ok := progress[name]
	if !ok {
		entry = &store.UserSubjectProgress{CompletedTopics: []string{}}
		progress[name] = entry
	}
	if indexOf(entry.CompletedTopics, topic) >= 0 {
		return Progress{Completed: len(entry.CompletedTopics), Total: subject.TotalTopics},
			alreadyCompletedError("topic %q already marked as completed", topic)
	}
	entry.CompletedTopics = append(entry.CompletedTopics, topic)
	entry.LastUpdated = s.now().Format(DateLayout)
	if err := s.save(ctx, doc, "complete topic"); err != nil {
		return Progress{}, err
	}
	return Progress{Completed: len(entry.CompletedTopics), Total: subject.TotalTopics}, nil
}

// SubjectProgress reports a user's completion counts for one subject.
func (s *Service) SubjectProgress(ctx context.Context, name, userID string) (Progress, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Progress{}, err
	}
	subject, ok := doc.Subjects[name]
	if !ok {
		return Progress{}, notFoundError("subject %q not found", name)
	}
	return subjectProgress(doc, subject, name, userID), nil
}

// OverallProgress aggregates a user's completion counts across every
// subject.
func (s *Service) OverallProgress(ctx context.Context, userID string) (Progress, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Progress{}, err
	}
	var total Progress
	for name, subject := range doc.Subjects {
		p := subjectProgress(doc, subject, name, userID)
		total.Completed += p.Completed
		total.Total += p.Total
	}
	return total, nil
}

func subjectProgress(doc *store.Document, subject *store.Subject, name, userID string) Progress {
	p := Progress{Total: subject.TotalTopics}
	if entry := doc.UserProgress[userID][name]; entry != nil {
		p.Completed = len(entry.CompletedTopics)
	}
	return p
}

// pruneProgress drops every user's completed topics that are no longer in
// the subject's surviving topic set.
func pruneProgress(doc *store.Document, name string, surviving map[string]struct{}) {
	for _, progress := range doc.UserProgress {
		entry := progress[name]
		if entry == nil {
			continue
		}
		kept := entry.CompletedTopics[:0]
		for _, topic := range entry.CompletedTopics {
			if _, ok := surviving[topic]; ok {
				kept = append(kept, topic)
			}
		}
		entry.CompletedTopics = kept
	}
}

func uniqueTopics(topics []string) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, topic := range topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			continue
		}
		if _, dup := seen[topic]; dup {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
}

func topicSet(topics []string) map[string]struct{} {
	set := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		set[topic] = struct{}{}
	}
	return set
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return -1
}
