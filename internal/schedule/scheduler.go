// Package schedule runs recurring time-of-day callbacks. Jobs are keyed
// by chat and name; registering under an existing key replaces the old
// job, which is how the bot's "set a new reminder time" works.
package schedule

import (
	"fmt"
	"log"
	"sync"
	"time"
)

type job struct {
	cancel chan struct{}
}

type Scheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
	now  func() time.Time
}

func New() *Scheduler {
	return &Scheduler{
		jobs: make(map[string]*job),
		now:  time.Now,
	}
}

// RegisterDaily schedules fn to run every day at hour:minute local time,
// replacing any job previously registered under the same chat and key.
func (s *Scheduler) RegisterDaily(chatID int64, key string, hour, minute int, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := jobID(chatID, key)
	if old, ok := s.jobs[id]; ok {
		close(old.cancel)
	}
	j := &job{cancel: make(chan struct{})}
	s.jobs[id] = j
	go s.run(id, hour, minute, fn, j.cancel)
}

// Cancel unregisters a job. It reports whether a job existed.
func (s *Scheduler) Cancel(chatID int64, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := jobID(chatID, key)
	j, ok := s.jobs[id]
	if !ok {
		return false
	}
	close(j.cancel)
	delete(s.jobs, id)
	return true
}

// Active reports whether a job is registered under the chat and key.
func (s *Scheduler) Active(chatID int64, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID(chatID, key)]
	return ok
}

// Stop cancels every job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, j := range s.jobs {
		close(j.cancel)
		delete(s.jobs, id)
	}
}

func (s *Scheduler) run(id string, hour, minute int, fn func(), cancel chan struct{}) {
	for {
		wait := time.Until(nextRun(s.now(), hour, minute))
		timer := time.NewTimer(wait)
		select {
		case <-cancel:
			timer.Stop()
			return
		case <-timer.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("schedule: job %s panicked: %v", id, r)
					}
				}()
				fn()
			}()
		}
	}
}

// nextRun returns the next occurrence of hour:minute strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ParseClock parses an HH:MM time-of-day string.
func ParseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

func jobID(chatID int64, key string) string {
	return fmt.Sprintf("%d/%s", chatID, key)
}
