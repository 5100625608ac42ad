package bot

import (
	"context"
	"fmt"
	"strings"

	"gatetracker/bot/internal/app"
	"gatetracker/bot/internal/quotes"
	"gatetracker/bot/internal/search"
)

func (b *Bot) handleAddSubject(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return `Usage: /add_subject "Subject Name" topic1,topic2,topic3`, nil
	}
	name := stripQuotes(req.Args[0])
	topics := splitTopics(strings.Join(req.Args[1:], " "))
	subject, err := b.service.AddSubject(ctx, name, topics)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Subject '%s' added with %d topics:\n• %s",
		name, subject.TotalTopics, strings.Join(subject.Topics, "\n• ")), nil
}

func (b *Bot) handleDeleteSubject(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 1 {
		return `Usage: /delete_subject "Subject Name"`, nil
	}
	name := stripQuotes(req.Args[0])
	if err := b.service.DeleteSubject(ctx, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑️ Subject '%s' and all related progress data has been deleted.", name), nil
}

func (b *Bot) handleViewSubjects(ctx context.Context, _ *Request) (string, error) {
	doc, err := b.service.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if len(doc.Subjects) == 0 {
		return "No GATE syllabus subjects defined yet. Admins can use /add_subject to add syllabus topics.", nil
	}

	var sb strings.Builder
	sb.WriteString("📚 " + bold("GATE Syllabus Subjects") + " 📚\n\n")
	for i, name := range sortedKeys(doc.Subjects) {
		subject := doc.Subjects[name]
		preview := subject.Topics
		ellipsis := ""
		if len(preview) > 3 {
			preview = preview[:3]
			ellipsis = "..."
		}
		fmt.Fprintf(&sb, "%s\n", bold(fmt.Sprintf("%d. %s", i+1, name)))
		fmt.Fprintf(&sb, "   📝 %d syllabus topics\n", subject.TotalTopics)
		fmt.Fprintf(&sb, "   Topics: %s%s\n\n", strings.Join(preview, ", "), ellipsis)
	}
	sb.WriteString("💡 Use `/complete \"Subject\" \"Topic\"` to mark syllabus topics as completed\n")
	sb.WriteString("💡 Use `/today <goal>` to set personal daily targets (separate from syllabus)")
	return sb.String(), nil
}

func (b *Bot) handleViewTopics(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 1 {
		return "Usage: /view_topics \"Subject Name\"\n\nExample: `/view_topics \"Mathematics\"` to see all topics in Mathematics", nil
	}
	name := stripQuotes(strings.Join(req.Args, " "))

	doc, err := b.service.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	subject, ok := doc.Subjects[name]
	if !ok {
		return fmt.Sprintf("Subject '%s' not found. Use /view_subjects to see all available subjects.", name), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 %s 📝\n\n", bold("Topics in "+name))
	fmt.Fprintf(&sb, "%s %d\n\n", bold("Total Topics:"), subject.TotalTopics)
	for i, topic := range subject.Topics {
		fmt.Fprintf(&sb, "%s %s\n", bold(fmt.Sprintf("%d.", i+1)), topic)
	}

	if entry := doc.UserProgress[req.UserID][name]; entry != nil && len(subject.Topics) > 0 {
		completed := entry.CompletedTopics
		percent := app.Percent(len(completed), subject.TotalTopics)
		fmt.Fprintf(&sb, "\n📊 %s %d/%d (%.1f%%) completed\n", bold("Your Progress:"), len(completed), subject.TotalTopics, percent)

		if len(completed) > 0 {
			sb.WriteString("\n✅ " + bold("Completed Topics:") + "\n")
			for _, topic := range completed {
				fmt.Fprintf(&sb, "• %s\n", topic)
			}
		}
		done := make(map[string]struct{}, len(completed))
		for _, topic := range completed {
			done[topic] = struct{}{}
		}
		var remaining []string
		for _, topic := range subject.Topics {
			if _, ok := done[topic]; !ok {
				remaining = append(remaining, topic)
			}
		}
		if len(remaining) > 0 {
			sb.WriteString("\n⭕ " + bold("Remaining Topics:") + "\n")
			for i, topic := range remaining {
				if i == 5 {
					fmt.Fprintf(&sb, "• ... and %d more\n", len(remaining)-5)
					break
				}
				fmt.Fprintf(&sb, "• %s\n", topic)
			}
		}
	}

	fmt.Fprintf(&sb, "\n💡 Use `/complete \"%s\" \"Topic Name\"` to mark topics as completed", name)
	return sb.String(), nil
}

func (b *Bot) handleEditTopics(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 3 {
		return "Usage: /edit_topics \"Subject Name\" <add|remove|replace> <topics>\n\n" +
			"Examples:\n" +
			"• `/edit_topics \"Mathematics\" add \"New Topic 1,New Topic 2\"` - Add new topics\n" +
			"• `/edit_topics \"Mathematics\" remove \"Topic to Remove\"` - Remove a topic\n" +
			"• `/edit_topics \"Mathematics\" replace \"topic1,topic2,topic3\"` - Replace all topics", nil
	}
	name := stripQuotes(req.Args[0])
	action := strings.ToLower(req.Args[1])
	input := stripQuotes(strings.Join(req.Args[2:], " "))

	var topics []string
	if action == "remove" {
		topics = []string{input}
	} else {
		topics = splitTopics(input)
	}

	edit, err := b.service.EditTopics(ctx, name, action, topics)
	if err != nil {
		return "", err
	}
	switch edit.Action {
	case "add":
		return fmt.Sprintf("✅ Added %d new topic(s) to '%s':\n• %s",
			len(edit.Added), name, strings.Join(edit.Added, "\n• ")), nil
	case "remove":
		return fmt.Sprintf("🗑️ Removed topic '%s' from '%s' and all user progress.", edit.Removed[0], name), nil
	default:
		return fmt.Sprintf("🔄 Replaced all topics in '%s':\n• %s %d topics\n• %s %d topics\n• %s %d\n• %s %d",
			name,
			bold("Old count:"), edit.OldCount,
			bold("New count:"), edit.NewCount,
			bold("Removed:"), len(edit.Removed),
			bold("Added:"), len(edit.Added)), nil
	}
}

func (b *Bot) handleDeleteTopic(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return "Usage: /delete_topic \"Subject Name\" \"Topic Name\"\n\nExample: `/delete_topic \"Mathematics\" \"Linear Algebra\"` to delete that specific topic", nil
	}
	name := stripQuotes(req.Args[0])
	topic := stripQuotes(strings.Join(req.Args[1:], " "))

	remaining, affected, err := b.service.DeleteTopic(ctx, name, topic)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "🗑️ Topic '%s' deleted from subject '%s'\n\n", topic, name)
	fmt.Fprintf(&sb, "📚 Remaining topics in %s: %d\n", name, remaining)
	if len(affected) > 0 {
		fmt.Fprintf(&sb, "\n👥 Progress removed for %d user(s): %s", len(affected), strings.Join(affected, ", "))
	}
	return sb.String(), nil
}

func (b *Bot) handleCompleteTopic(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return "Usage: /complete \"Subject Name\" \"Topic Name\"\n\nThis marks GATE syllabus topics as completed.", nil
	}
	name := stripQuotes(req.Args[0])
	topic := stripQuotes(strings.Join(req.Args[1:], " "))

	progress, err := b.service.CompleteTopic(ctx, name, topic, req.UserID)
	if err != nil {
		if app.ErrorCode(err) == app.CodeAlreadyCompleted {
			return fmt.Sprintf("Syllabus topic '%s' already marked as completed!", topic), nil
		}
		return "", err
	}
	return fmt.Sprintf("🎉 GATE syllabus topic completed: '%s'\n📊 Progress in %s: %d/%d (%.1f%%)",
		topic, name, progress.Completed, progress.Total, progress.Percent()), nil
}

func (b *Bot) handleDashboard(ctx context.Context, req *Request) (string, error) {
	doc, err := b.service.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if len(doc.Subjects) == 0 {
		return "No GATE syllabus subjects available yet. Contact admin to add syllabus.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s 📊\n\n", bold(req.UserName+"'s GATE Progress Dashboard"))
	sb.WriteString("📚 " + bold("GATE Syllabus Progress:") + "\n")

	var overall app.Progress
	for _, name := range sortedKeys(doc.Subjects) {
		subject := doc.Subjects[name]
		completed := 0
		if entry := doc.UserProgress[req.UserID][name]; entry != nil {
			completed = len(entry.CompletedTopics)
		}
		overall.Completed += completed
		overall.Total += subject.TotalTopics

		percent := app.Percent(completed, subject.TotalTopics)
		fmt.Fprintf(&sb, "%s\n%s %.1f%%\n📝 %d/%d topics completed\n\n",
			bold(name), progressBar(percent), percent, completed, subject.TotalTopics)
	}

	fmt.Fprintf(&sb, "🎯 %s\n%s %.1f%%\n📚 %d/%d syllabus topics completed\n\n",
		bold("OVERALL GATE SYLLABUS PROGRESS"), progressBar(overall.Percent()), overall.Percent(),
		overall.Completed, overall.Total)

	if entry := doc.DailyTargets[b.service.Today()][req.UserID]; entry != nil {
		sb.WriteString("🎯 " + bold("Today's Personal Targets:") + "\n")
		completed := 0
		for i, target := range entry.Targets {
			if target.Completed {
				fmt.Fprintf(&sb, "✅ %d. %s\n", i+1, strike(target.Text))
				completed++
			} else {
				fmt.Fprintf(&sb, "⭕ %d. %s\n", i+1, italic(target.Text))
			}
		}
		if len(entry.Targets) > 0 {
			percent := app.Percent(completed, len(entry.Targets))
			fmt.Fprintf(&sb, "📊 Personal targets: %d/%d (%.0f%%) completed\n", completed, len(entry.Targets), percent)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("💡 " + bold("Set your daily target:") + " `/today <your personal goal>`\n\n")
	}

	sb.WriteString(quotes.Random())
	return sb.String(), nil
}

func (b *Bot) handleSearch(_ context.Context, req *Request) (string, error) {
	if b.searcher == nil {
		return "Search is not available right now.", nil
	}
	if len(req.Args) < 1 {
		return "Usage: /search <text>\n\nSearches milestones, daily targets and syllabus topics.", nil
	}
	text := strings.Join(req.Args, " ")
	records := b.searcher.Search(search.Query{Text: text, Limit: 10})
	if len(records) == 0 {
		return fmt.Sprintf("No matches for '%s'.", text), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 %s\n\n", bold(fmt.Sprintf("Matches for '%s'", text)))
	for _, record := range records {
		switch record.Type {
		case search.ResultMilestone:
			fmt.Fprintf(&sb, "🎯 Milestone %s: %s\n", record.Title, record.Snippet)
		case search.ResultTarget:
			fmt.Fprintf(&sb, "⭕ Target %s: %s\n", record.Title, record.Snippet)
		case search.ResultTopic:
			fmt.Fprintf(&sb, "📚 %s: %s\n", record.Title, record.Snippet)
		}
	}
	return sb.String(), nil
}
