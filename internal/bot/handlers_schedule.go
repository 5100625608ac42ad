package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gatetracker/bot/internal/quotes"
	"gatetracker/bot/internal/schedule"
)

const (
	jobDailyReminder    = "daily_reminder"
	jobScheduledCommand = "scheduled_command"
)

func (b *Bot) handleSetDailyReminder(_ context.Context, req *Request) (string, error) {
	if len(req.Args) < 1 {
		return "Usage: /set_daily_reminder HH:MM (e.g., 07:00)", nil
	}
	hour, minute, err := schedule.ParseClock(req.Args[0])
	if err != nil {
		return "Usage: /set_daily_reminder HH:MM (e.g., 07:00)", nil
	}

	chatID := req.ChatID
	b.scheduler.RegisterDaily(chatID, jobDailyReminder, hour, minute, func() {
		b.sendDailyReminder(chatID)
	})
	return fmt.Sprintf("✅ Daily reminder set for %s every day.", req.Args[0]), nil
}

func (b *Bot) handleStopDailyReminder(_ context.Context, req *Request) (string, error) {
	if !b.scheduler.Cancel(req.ChatID, jobDailyReminder) {
		return "No active reminder to stop.", nil
	}
	return "🛑 Daily reminder stopped.", nil
}

func (b *Bot) handleSchedule(_ context.Context, req *Request) (string, error) {
	usage := "Usage: /schedule HH:MM <command|message> <content>\n\n" +
		"Examples:\n" +
		"• `/schedule 09:00 view_today` - Show daily targets at 9 AM\n" +
		"• `/schedule 18:00 status` - Show group status at 6 PM\n" +
		"• `/schedule 07:30 message \"Good morning! Time to conquer the day!\"`"
	if len(req.Args) < 2 {
		return usage, nil
	}
	hour, minute, err := schedule.ParseClock(req.Args[0])
	if err != nil {
		return usage, nil
	}

	chatID := req.ChatID
	kind := strings.ToLower(req.Args[1])
	var job func()
	var description string
	switch kind {
	case "message":
		if len(req.Args) < 3 {
			return usage, nil
		}
		message := stripQuotes(strings.Join(req.Args[2:], " "))
		job = func() { b.sendScheduled(chatID, message) }
		description = "custom message"
	case "view_today", "status":
		job = func() { b.sendScheduledCommand(chatID, kind) }
		description = kind + " command"
	default:
		return "Supported commands: view_today, status, message", nil
	}

	b.scheduler.RegisterDaily(chatID, jobScheduledCommand, hour, minute, job)
	return fmt.Sprintf("✅ Scheduled %s for %s every day.", description, req.Args[0]), nil
}

func (b *Bot) handleStopSchedule(_ context.Context, req *Request) (string, error) {
	if !b.scheduler.Cancel(req.ChatID, jobScheduledCommand) {
		return "No scheduled command to stop.", nil
	}
	return "🛑 Scheduled command stopped.", nil
}

// sendDailyReminder broadcasts the next deadline with a quote. Runs on the
// scheduler goroutine with its own load-read-send cycle.
func (b *Bot) sendDailyReminder(chatID int64) {
	ctx := context.Background()
	next, err := b.service.NextUpcoming(ctx)
	if err != nil {
		log.Printf("bot: daily reminder for chat %d: %v", chatID, err)
		return
	}
	if next == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n---\n", quotes.Random())
	sb.WriteString(bold("Time to execute. ☀️") + "\n\n")
	fmt.Fprintf(&sb, "🗓️ %s remain until your next deadline:\n", bold(fmt.Sprintf("%d days", daysLeft(next.Date, b.service.Now()))))
	fmt.Fprintf(&sb, "🎯 %s\n\n", italic(next.Description))
	sb.WriteString("What will you conquer today?\nSet your target with the /today command.")
	b.sendScheduled(chatID, sb.String())
}

// sendScheduledCommand replays a read-only command as a broadcast.
func (b *Bot) sendScheduledCommand(chatID int64, kind string) {
	ctx := context.Background()
	req := &Request{ChatID: chatID, Command: kind}
	var reply string
	var err error
	switch kind {
	case "view_today":
		reply, err = b.handleViewToday(ctx, req)
	case "status":
		reply, err = b.handleStatus(ctx, req)
	}
	if err != nil {
		log.Printf("bot: scheduled %s for chat %d: %v", kind, chatID, err)
		return
	}
	b.sendScheduled(chatID, reply)
}

func (b *Bot) sendScheduled(chatID int64, text string) {
	if b.sender == nil {
		log.Printf("bot: no sender configured, dropping scheduled message for chat %d", chatID)
		return
	}
	if err := b.sender.Send(context.Background(), chatID, text); err != nil {
		log.Printf("bot: send to chat %d: %v", chatID, err)
	}
}
