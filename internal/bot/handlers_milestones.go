package bot

import (
	"context"
	"fmt"
	"strings"

	"gatetracker/bot/internal/app"
	"gatetracker/bot/internal/quotes"
)

func (b *Bot) handleStart(_ context.Context, _ *Request) (string, error) {
	return "Hello! I am the GATE Target Tracker. Use /view_plan to see our goals or set your /today target.", nil
}

func (b *Bot) handleHelp(_ context.Context, _ *Request) (string, error) {
	return helpText, nil
}

func (b *Bot) handleStatus(ctx context.Context, _ *Request) (string, error) {
	doc, err := b.service.Snapshot(ctx)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n---\n⏳ %s ⏳\n\n", quotes.Random(), bold("Group Status"))

	now := b.service.Now()
	if next := app.NextUpcoming(doc.Milestones, now); next != nil {
		fmt.Fprintf(&sb, "%s (%d days left):\n", bold("NEXT DEADLINE"), daysLeft(next.Date, now))
		fmt.Fprintf(&sb, "🎯 %s (by %s)\n\n", italic(next.Description), next.Date)
	} else {
		sb.WriteString("No upcoming deadlines.\n\n")
	}

	sb.WriteString("🏃‍♂️ " + bold("Warriors in the Arena Today:") + "\n")
	today := doc.DailyTargets[b.service.Today()]
	if len(today) > 0 {
		for _, userID := range sortedKeys(today) {
			name := today[userID].Name
			if name == "" {
				name = "Unknown"
			}
			fmt.Fprintf(&sb, "- %s\n", name)
		}
	} else {
		sb.WriteString("- " + italic("No one yet. Be the first!") + " 🔥\n")
	}

	sb.WriteString("\nFocus on your daily objective. The obstacle is the way.")
	return sb.String(), nil
}

func (b *Bot) handleViewPlan(ctx context.Context, _ *Request) (string, error) {
	milestones, err := b.service.ListMilestones(ctx)
	if err != nil {
		return "", err
	}
	if len(milestones) == 0 {
		return "No plan set yet. Use /set_milestone to create one.", nil
	}

	var sb strings.Builder
	sb.WriteString("🗓️ " + bold("Our Group's Prep Plan") + " 🗓️\n\n")
	now := b.service.Now()
	for i, ms := range milestones {
		fmt.Fprintf(&sb, "🎯 %s %s\n", bold(fmt.Sprintf("Milestone %d:", i+1)), ms.Description)
		fmt.Fprintf(&sb, "   -> %s %s (%d days left)\n\n", bold("Deadline:"), ms.Date, daysLeft(ms.Date, now))
	}
	return sb.String(), nil
}

func (b *Bot) handleSetMilestone(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return `Usage: /set_milestone YYYY-MM-DD "Description"`, nil
	}
	date := req.Args[0]
	description := strings.Join(req.Args[1:], " ")
	ms, err := b.service.AddMilestone(ctx, date, description)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Milestone set for %s: %s", ms.Date, ms.Description), nil
}

func (b *Bot) handleEditMilestone(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 3 {
		return "Usage: /edit_milestone <number> <date|description> <new_value>", nil
	}
	index, ok := parseIndex(req.Args[0])
	if !ok {
		return "Please provide a valid milestone number (1, 2, 3, etc.)", nil
	}
	field := strings.ToLower(req.Args[1])
	value := strings.Join(req.Args[2:], " ")
	if _, err := b.service.EditMilestone(ctx, index, field, value); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Milestone %d updated.", index), nil
}

func (b *Bot) handleDeleteMilestone(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 1 {
		return "Usage: /delete_milestone <milestone_number>\n\nExample: `/delete_milestone 2` to delete the 2nd milestone", nil
	}
	index, ok := parseIndex(req.Args[0])
	if !ok {
		return "Please provide a valid milestone number (1, 2, 3, etc.)", nil
	}
	removed, remaining, err := b.service.DeleteMilestone(ctx, index)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("🗑️ Milestone #%d deleted:\n\n📅 %s\n📝 %s\n\nRemaining milestones: %d",
		index, bold(removed.Date), removed.Description, remaining), nil
}

func (b *Bot) handleClearPlan(ctx context.Context, _ *Request) (string, error) {
	if err := b.service.ClearMilestones(ctx); err != nil {
		return "", err
	}
	return "🗑️ The entire plan has been cleared.", nil
}

const helpText = `🎯 **GATE Target Tracker Commands** 🎯

**📋 General:**
• /start - Welcome message
• /help - This message
• /status - Group status with next deadline
• /view_plan - All milestones and deadlines
• /view_today - Everyone's targets for today
• /search <text> - Search milestones, targets and topics

**📚 Syllabus Tracking:**
• /view_subjects - Subjects & topic counts
• /view_topics "Subject" - Topics in one subject with your progress
• /complete "Subject" "Topic" - Mark a syllabus topic completed
• /dashboard - Your syllabus progress + today's targets

**🎯 Personal Daily Targets:**
• /today [goal] - View today's targets, or add one
• /set_date_target YYYY-MM-DD <goal> - Target for a specific date
• /my_targets [date|today] - Your targets as a checklist
• /complete_goal <date|today> <number> - Mark a target done
• /edit_target <number> <new_goal> - Edit one of today's targets
• /delete_target <number> - Delete one of today's targets

**⚙️ Admin:**
• /set_milestone YYYY-MM-DD "Description"
• /edit_milestone <number> <date|description> <new_value>
• /delete_milestone <number>
• /clear_plan
• /add_subject "Subject" topic1,topic2,topic3
• /edit_topics "Subject" <add|remove|replace> <topics>
• /delete_topic "Subject" "Topic"
• /delete_subject "Subject"
• /set_daily_reminder HH:MM
• /stop_daily_reminder
• /schedule HH:MM <view_today|status|message> [content]
• /stop_schedule

*"The obstacle is the way." - Marcus Aurelius*`
