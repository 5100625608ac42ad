package app

import (
	"context"

	"gatetracker/bot/internal/store"
)

// Progress pairs a completed count with a total.
type Progress struct {
	Completed int
	Total     int
}

// Percent returns the completion percentage; zero total is 0%.
func (p Progress) Percent() float64 {
	return Percent(p.Completed, p.Total)
}

// AddTarget appends a fresh not-completed target for the user on the given
// date, creating the date and user containers as needed. It returns the
// target's 1-based position.
func (s *Service) AddTarget(ctx context.Context, date, userID, userName, text string) (int, error) {
	if err := ValidateDate(date); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, validationError("target text must not be empty")
	}

	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	users, ok := doc.DailyTargets[date]
	if !ok {
		users = map[string]*store.UserDailyTargets{}
		doc.DailyTargets[date] = users
	}
	entry, ok := users[userID]
	if !ok {
		entry = &store.UserDailyTargets{Name: userName, Targets: []store.Target{}}
		users[userID] = entry
	}
	entry.Targets = append(entry.Targets, store.Target{Text: text})
	if err := s.save(ctx, doc, "add daily target"); err != nil {
		return 0, err
	}
	return len(entry.Targets), nil
}

// ListTargets returns the user's target list for a date.
func (s *Service) ListTargets(ctx context.Context, date, userID string) (*store.UserDailyTargets, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	entry := doc.DailyTargets[date][userID]
	if entry == nil {
		return nil, notFoundError("no targets set for %s", date)
	}
	return entry, nil
}

// CompleteTarget marks the 1-based target done and stamps its completion
// time. Completion is monotonic: completing an already-completed target is
// reported as AlreadyCompleted and changes nothing, the original stamp
// included.
func (s *Service) CompleteTarget(ctx context.Context, date, userID string, position int) (store.Target, Progress, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return store.Target{}, Progress{}, err
	}
	entry := doc.DailyTargets[date][userID]
	if entry == nil {
		return store.Target{}, Progress{}, notFoundError("no targets set for %s", date)
	}
	if position < 1 || position > len(entry.Targets) {
		return store.Target{}, Progress{}, rangeError("only %d target(s) exist for %s, cannot complete #%d", len(entry.Targets), date, position)
	}
	target := &entry.Targets[position-1]
	if target.Completed {
		return *target, targetProgress(entry.Targets), alreadyCompletedError("target #%d is already completed: %s", position, target.Text)
	}
	stamp := s.now().Format(TimestampLayout)
	target.Completed = true
	target.CompletedAt = &stamp
	if err := s.save(ctx, doc, "complete daily target"); err != nil {
		return store.Target{}, Progress{}, err
	}
	return *target, targetProgress(entry.Targets), nil
}

// EditTarget replaces the text of the 1-based target, leaving its
// completion state untouched. It returns the previous text.
func (s *Service) EditTarget(ctx context.Context, date, userID string, position int, newText string) (string, error) {
	if newText == "" {
		return "", validationError("target text must not be empty")
	}
	doc, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	entry := doc.DailyTargets[date][userID]
	if entry == nil {
		return "", notFoundError("no targets set for %s", date)
	}
	if position < 1 || position > len(entry.Targets) {
		return "", rangeError("only %d target(s) exist for %s, cannot edit #%d", len(entry.Targets), date, position)
	}
	old := entry.Targets[position-1].Text
	entry.Targets[position-1].Text = newText
	if err := s.save(ctx, doc, "edit daily target"); err != nil {
		return "", err
	}
	return old, nil
}

// DeleteTarget removes the 1-based target. Removing a user's last target
// removes the user entry, and removing the date's last user removes the
// date entry; empty containers never persist. It returns the removed text
// and how many targets the user still has for the date.
func (s *Service) DeleteTarget(ctx context.Context, date, userID string, position int) (string, int, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return "", 0, err
	}
	users := doc.DailyTargets[date]
	entry := users[userID]
	if entry == nil {
		return "", 0, notFoundError("no targets set for %s", date)
	}
	if position < 1 || position > len(entry.Targets) {
		return "", 0, rangeError("only %d target(s) exist for %s, cannot delete #%d", len(entry.Targets), date, position)
	}
	removed := entry.Targets[position-1].Text
	entry.Targets = append(entry.Targets[:position-1], entry.Targets[position:]...)
	remaining := len(entry.Targets)
	if remaining == 0 {
		delete(users, userID)
		if len(users) == 0 {
			delete(doc.DailyTargets, date)
		}
	}
	if err := s.save(ctx, doc, "delete daily target"); err != nil {
		return "", 0, err
	}
	return removed, remaining, nil
}

// TargetProgress reports the user's completion counts for a date. A user
// with no entry has zero progress; that is not an error.
func (s *Service) TargetProgress(ctx context.Context, date, userID string) (Progress, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return Progress{}, err
	}
	entry := doc.DailyTargets[date][userID]
	if entry == nil {
		return Progress{}, nil
	}
	return targetProgress(entry.Targets), nil
}

// AllForDate returns every user's targets for a date; empty when absent.
func (s *Service) AllForDate(ctx context.Context, date string) (map[string]*store.UserDailyTargets, error) {
	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	users := doc.DailyTargets[date]
	if users == nil {
		return map[string]*store.UserDailyTargets{}, nil
	}
	return users, nil
}

func targetProgress(targets []store.Target) Progress {
	p := Progress{Total: len(targets)}
	for _, t := range targets {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}
