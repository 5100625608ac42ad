package store

import (
	"encoding/json"
	"sort"
)

// UnmarshalJSON upgrades every historical shape of a user's daily targets
// to the canonical one. Three shapes have existed:
//
//	{"name": "...", "targets": [{"text": ..., "completed": ..., "completed_at": ...}]}
//	{"name": "...", "targets": ["goal one", "goal two"]}
//	{"name": "...", "target": "goal"}  (or "target": ["goal one", ...])
//
// The upgrade is total: anything unrecognized degrades to an empty target
// list rather than an error, and canonical input passes through unchanged.
func (u *UserDailyTargets) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Targets json.RawMessage `json:"targets"`
		Legacy  json.RawMessage `json:"target"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*u = UserDailyTargets{Targets: []Target{}}
		return nil
	}
	u.Name = raw.Name
	switch {
	case len(raw.Targets) > 0:
		u.Targets = upgradeTargets(raw.Targets)
	case len(raw.Legacy) > 0:
		u.Targets = upgradeTargets(raw.Legacy)
	default:
		u.Targets = []Target{}
	}
	return nil
}

// upgradeTargets converts a raw targets value of any historical shape into
// canonical targets. A bare string becomes a single not-completed target; a
// list may mix strings and canonical objects; anything else is dropped.
func upgradeTargets(raw json.RawMessage) []Target {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []Target{{Text: single}}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Target{}
	}
	targets := make([]Target, 0, len(items))
	for _, item := range items {
		var text string
		if err := json.Unmarshal(item, &text); err == nil {
			targets = append(targets, Target{Text: text})
			continue
		}
		var obj struct {
			Text        string  `json:"text"`
			Completed   bool    `json:"completed"`
			CompletedAt *string `json:"completed_at"`
		}
		if err := json.Unmarshal(item, &obj); err == nil {
			targets = append(targets, Target(obj))
		}
	}
	return targets
}

// UnmarshalJSON keeps only the subject entries that decode as progress
// objects. Older documents stored a "name" string next to the subjects;
// dropping it here is the migration.
func (p *SubjectProgress) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = SubjectProgress{}
		return nil
	}
	out := make(SubjectProgress, len(raw))
	for subject, value := range raw {
		var progress UserSubjectProgress
		if err := json.Unmarshal(value, &progress); err != nil {
			continue
		}
		if progress.CompletedTopics == nil {
			progress.CompletedTopics = []string{}
		}
		out[subject] = &progress
	}
	*p = out
	return nil
}

// Normalize repairs structural gaps left by older documents: nil maps and
// slices become empty ones, empty daily-target containers are dropped, per
// the invariant that no empty container persists, subject topic counts are
// recomputed and the milestone order is restored. Idempotent; every
// repository runs it on load so consumers only ever see canonical shape.
func Normalize(d *Document) *Document {
	if d == nil {
		return NewDocument()
	}
	if d.Milestones == nil {
		d.Milestones = []Milestone{}
	}
	sort.SliceStable(d.Milestones, func(i, j int) bool {
		return d.Milestones[i].Date < d.Milestones[j].Date
	})

	if d.DailyTargets == nil {
		d.DailyTargets = map[string]map[string]*UserDailyTargets{}
	}
	for date, users := range d.DailyTargets {
		for userID, entry := range users {
			if entry == nil {
				delete(users, userID)
				continue
			}
			if entry.Targets == nil {
				entry.Targets = []Target{}
			}
		}
		if len(users) == 0 {
			delete(d.DailyTargets, date)
		}
	}

	if d.Subjects == nil {
		d.Subjects = map[string]*Subject{}
	}
	for name, subject := range d.Subjects {
		if subject == nil {
			delete(d.Subjects, name)
			continue
		}
		if subject.Topics == nil {
			subject.Topics = []string{}
		}
		subject.TotalTopics = len(subject.Topics)
	}

	if d.UserProgress == nil {
		d.UserProgress = map[string]SubjectProgress{}
	}
	for _, subjects := range d.UserProgress {
		for name, progress := range subjects {
			if progress == nil {
				delete(subjects, name)
				continue
			}
			if progress.CompletedTopics == nil {
				progress.CompletedTopics = []string{}
			}
		}
	}
	return d
}
