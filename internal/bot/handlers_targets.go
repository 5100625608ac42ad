package bot

import (
	"context"
	"fmt"
	"strings"

	"gatetracker/bot/internal/app"
	"gatetracker/bot/internal/quotes"
)

// resolveDate accepts either "today" or an explicit YYYY-MM-DD date.
func (b *Bot) resolveDate(input string) (string, bool) {
	if strings.EqualFold(input, "today") {
		return b.service.Today(), true
	}
	if err := app.ValidateDate(input); err != nil {
		return "", false
	}
	return input, true
}

func (b *Bot) showTargetsForDate(ctx context.Context, req *Request, date string) (string, error) {
	entry, err := b.service.ListTargets(ctx, date, req.UserID)
	if err != nil {
		if app.ErrorCode(err) == app.CodeNotFound {
			if date == b.service.Today() {
				return "You don't have any targets set for today. Use `/today <goal>` to set one!", nil
			}
			return fmt.Sprintf("You don't have any targets set for %s. Use `/set_date_target %s <goal>` to set one!", date, date), nil
		}
		return "", err
	}

	display := date
	if date == b.service.Today() {
		display = "Today"
	}
	var sb strings.Builder
	sb.WriteString(renderTargetChecklist(entry, display))
	fmt.Fprintf(&sb, "\n💡 Use `/complete_goal %s <number>` to mark as done\n", date)
	sb.WriteString("💡 Use `/edit_target <number> <new_goal>` to edit\n")
	sb.WriteString("💡 Use `/delete_target <number>` to delete")
	return sb.String(), nil
}

func (b *Bot) handleToday(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) == 0 {
		return b.showTargetsForDate(ctx, req, b.service.Today())
	}
	text := strings.Join(req.Args, " ")
	position, err := b.service.AddTarget(ctx, b.service.Today(), req.UserID, req.UserName, text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Target %d locked in. Make it happen.", position), nil
}

func (b *Bot) handleSetDateTarget(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return "Usage: /set_date_target YYYY-MM-DD <your goal>\n\nExample: `/set_date_target 2025-08-10 Complete chapter 5`", nil
	}
	date := req.Args[0]
	if err := app.ValidateDate(date); err != nil {
		return "Please use the correct date format: YYYY-MM-DD (e.g., 2025-08-10)", nil
	}
	text := strings.Join(req.Args[1:], " ")
	position, err := b.service.AddTarget(ctx, date, req.UserID, req.UserName, text)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Target %d set for %s. Lock and load!", position, date), nil
}

func (b *Bot) handleMyTargets(ctx context.Context, req *Request) (string, error) {
	date := b.service.Today()
	if len(req.Args) > 0 {
		resolved, ok := b.resolveDate(req.Args[0])
		if !ok {
			return "Please use the correct date format: YYYY-MM-DD or 'today'\n\nUsage: `/my_targets` for today or `/my_targets YYYY-MM-DD` for specific date", nil
		}
		date = resolved
	}
	return b.showTargetsForDate(ctx, req, date)
}

func (b *Bot) handleViewToday(ctx context.Context, _ *Request) (string, error) {
	users, err := b.service.AllForDate(ctx, b.service.Today())
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "No daily targets set for today yet. Be the first with `/today <your goal>`!", nil
	}
	return renderGroupTargets(users) + quotes.Random(), nil
}

func (b *Bot) handleCompleteGoal(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return "Usage: /complete_goal YYYY-MM-DD <target_number>\n\nExample: `/complete_goal 2025-08-03 1` to complete your first target for that date\nOr use: `/complete_goal today 1` for today's targets", nil
	}
	date, ok := b.resolveDate(req.Args[0])
	if !ok {
		return "Please use the correct date format: YYYY-MM-DD or 'today'", nil
	}
	position, ok := parseIndex(req.Args[1])
	if !ok {
		return "Please provide a valid target number (1, 2, 3, etc.)", nil
	}

	target, progress, err := b.service.CompleteTarget(ctx, date, req.UserID, position)
	if err != nil {
		if app.ErrorCode(err) == app.CodeAlreadyCompleted {
			return fmt.Sprintf("Target #%d is already completed: %s", position, italic(target.Text)), nil
		}
		return "", err
	}

	display := date
	if date == b.service.Today() {
		display = "today"
	}
	return fmt.Sprintf("🎉 Target #%d completed for %s!\n\n✅ %s\n\n📊 Progress: %d/%d (%.0f%%) completed\n\n%s",
		position, display, italic(target.Text), progress.Completed, progress.Total, progress.Percent(), quotes.Random()), nil
}

func (b *Bot) handleEditTarget(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 2 {
		return "Usage: /edit_target <target_number> <new_target>\n\nExample: `/edit_target 1 Complete 3 math problems instead of 2`", nil
	}
	position, ok := parseIndex(req.Args[0])
	if !ok {
		return "Please provide a valid target number (1, 2, 3, etc.)", nil
	}
	newText := strings.Join(req.Args[1:], " ")
	old, err := b.service.EditTarget(ctx, b.service.Today(), req.UserID, position, newText)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("✏️ Target #%d updated!\n\n%s %s\n%s %s",
		position, bold("Old:"), italic(old), bold("New:"), italic(newText)), nil
}

func (b *Bot) handleDeleteTarget(ctx context.Context, req *Request) (string, error) {
	if len(req.Args) < 1 {
		return "Usage: /delete_target <target_number>\n\nExample: `/delete_target 2` to delete your 2nd target for today", nil
	}
	position, ok := parseIndex(req.Args[0])
	if !ok {
		return "Please provide a valid target number (1, 2, 3, etc.)", nil
	}
	removed, remaining, err := b.service.DeleteTarget(ctx, b.service.Today(), req.UserID, position)
	if err != nil {
		return "", err
	}
	if remaining > 0 {
		return fmt.Sprintf("🗑️ Target deleted: %s\n\nYou have %d target(s) remaining for today.", italic(removed), remaining), nil
	}
	return fmt.Sprintf("🗑️ Target deleted: %s\n\nAll your daily targets are now cleared.", italic(removed)), nil
}
