// Package store holds the persisted tracker document and its storage
// backends. The document is always written and read as a whole; every
// backend returns a fresh empty document when nothing usable is persisted.
package store

// Document is the root of everything the bot persists.
type Document struct {
	Milestones   []Milestone                             `json:"milestones"`
	DailyTargets map[string]map[string]*UserDailyTargets `json:"daily_targets"`
	Subjects     map[string]*Subject                     `json:"subjects"`
	UserProgress map[string]SubjectProgress              `json:"user_progress"`
}

// NewDocument returns a structurally valid empty document.
func NewDocument() *Document {
	return &Document{
		Milestones:   []Milestone{},
		DailyTargets: map[string]map[string]*UserDailyTargets{},
		Subjects:     map[string]*Subject{},
		UserProgress: map[string]SubjectProgress{},
	}
}

// Milestone is a dated group deadline. The milestones slice is kept sorted
// ascending by date after every mutation; ISO dates sort lexicographically,
// so a plain string sort is a chronological sort.
type Milestone struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Target is a single personal daily goal. CompletedAt is nil until the
// target is completed and is never cleared afterwards.
type Target struct {
	Text        string  `json:"text"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
}

// UserDailyTargets is one user's goal list for one date. Older documents
// stored the list as plain strings (or a single string under a "target"
// key); UnmarshalJSON in normalize.go upgrades those shapes on load.
type UserDailyTargets struct {
	Name    string   `json:"name"`
	Targets []Target `json:"targets"`
}

// Subject is an admin-curated syllabus entry. TotalTopics is recomputed
// after every structural change so it always equals len(Topics).
type Subject struct {
	Topics      []string `json:"topics"`
	TotalTopics int      `json:"total_topics"`
}

// SubjectProgress maps subject name to one user's progress in that subject.
// Older documents kept a stray "name" string alongside the subject entries;
// UnmarshalJSON in normalize.go drops any non-object value so such
// documents still load.
type SubjectProgress map[string]*UserSubjectProgress

// UserSubjectProgress is one user's completed-topic subset for one subject.
// Every entry must exist in the owning subject's topic list; the mutation
// layer prunes entries eagerly whenever topics are removed or replaced.
type UserSubjectProgress struct {
	CompletedTopics []string `json:"completed_topics"`
	LastUpdated     string   `json:"last_updated,omitempty"`
}
