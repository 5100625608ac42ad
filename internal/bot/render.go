package bot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gatetracker/bot/internal/app"
	"gatetracker/bot/internal/store"
)

func bold(s string) string   { return "**" + s + "**" }
func italic(s string) string { return "_" + s + "_" }
func strike(s string) string { return "~~" + s + "~~" }

// progressBar renders a ten-cell bar, one green cell per full 10%.
func progressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("🟩", filled) + strings.Repeat("⬜", 10-filled)
}

// daysLeft counts whole days from now until the date's midnight, rounding
// down (a deadline later today is 0 days, yesterday's is -1).
func daysLeft(date string, now time.Time) int {
	deadline, err := time.Parse(app.DateLayout, date)
	if err != nil {
		return 0
	}
	return int(math.Floor(deadline.Sub(now).Hours() / 24))
}

// stripQuotes removes one pair of surrounding double quotes, if present.
// The tokenizer splits on whitespace and leaves quotes in place.
func stripQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// parseIndex parses a positive 1-based position argument.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// splitTopics splits a comma-separated topic list, trimming whitespace.
func splitTopics(input string) []string {
	parts := strings.Split(input, ",")
	topics := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}

// renderTargetChecklist renders one user's targets as a numbered
// checklist with a progress footer.
func renderTargetChecklist(entry *store.UserDailyTargets, dateDisplay string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎯 %s 🎯\n\n", bold("Your Targets for "+dateDisplay))

	completed := 0
	for i, target := range entry.Targets {
		if target.Completed {
			fmt.Fprintf(&sb, "✅ %s %s\n", bold(fmt.Sprintf("%d.", i+1)), strike(target.Text))
			completed++
		} else {
			fmt.Fprintf(&sb, "⭕ %s %s\n", bold(fmt.Sprintf("%d.", i+1)), target.Text)
		}
	}

	percent := app.Percent(completed, len(entry.Targets))
	fmt.Fprintf(&sb, "\n📊 %s %d/%d (%.0f%%) completed\n", bold("Progress:"), completed, len(entry.Targets), percent)
	return sb.String()
}

// renderGroupTargets renders every user's targets for a date, in the
// cross-user summary format used by /view_today and scheduled broadcasts.
func renderGroupTargets(users map[string]*store.UserDailyTargets) string {
	var sb strings.Builder
	sb.WriteString("🎯 " + bold("Today's Warriors & Their Targets") + " 🎯\n\n")

	for i, userID := range sortedKeys(users) {
		entry := users[userID]
		name := entry.Name
		if name == "" {
			name = "Unknown User"
		}
		fmt.Fprintf(&sb, "%s\n", bold(fmt.Sprintf("%d) %s", i+1, name)))
		completed := 0
		for _, target := range entry.Targets {
			if target.Completed {
				fmt.Fprintf(&sb, "   ✅ %s\n", strike(target.Text))
				completed++
			} else {
				fmt.Fprintf(&sb, "   ⭕ %s\n", target.Text)
			}
		}
		if len(entry.Targets) > 0 {
			percent := app.Percent(completed, len(entry.Targets))
			fmt.Fprintf(&sb, "   📊 %d/%d (%.0f%%) completed\n", completed, len(entry.Targets), percent)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
