// Package bot dispatches chat commands to the tracker's mutation layer
// and renders the replies. The chat network itself is not here: a
// transport hands us already-tokenized commands and a Sender to push
// scheduled broadcasts through.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gatetracker/bot/internal/app"
	"gatetracker/bot/internal/schedule"
	"gatetracker/bot/internal/search"
)

// Sender delivers a message to a chat, used by scheduled jobs. The
// foreground path never needs it; command replies travel back on the
// transport's own channel.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Request is one tokenized inbound command. IsAdmin comes from the
// transport's role lookup; it is trusted as-is.
type Request struct {
	ChatID   int64
	UserID   string
	UserName string
	IsAdmin  bool
	Command  string
	Args     []string
}

type handlerFunc func(ctx context.Context, req *Request) (string, error)

type command struct {
	run       handlerFunc
	adminOnly bool
}

type Bot struct {
	service   *app.Service
	scheduler *schedule.Scheduler
	searcher  *search.Service
	sender    Sender
	commands  map[string]command
}

// New wires the dispatcher. searcher may be nil; the /search command then
// reports that search is unavailable.
func New(service *app.Service, scheduler *schedule.Scheduler, searcher *search.Service, sender Sender) *Bot {
	b := &Bot{
		service:   service,
		scheduler: scheduler,
		searcher:  searcher,
		sender:    sender,
	}
	b.commands = map[string]command{
		"start":     {run: b.handleStart},
		"help":      {run: b.handleHelp},
		"status":    {run: b.handleStatus},
		"view_plan": {run: b.handleViewPlan},

		"set_milestone":    {run: b.handleSetMilestone, adminOnly: true},
		"edit_milestone":   {run: b.handleEditMilestone, adminOnly: true},
		"delete_milestone": {run: b.handleDeleteMilestone, adminOnly: true},
		"clear_plan":       {run: b.handleClearPlan, adminOnly: true},

		"today":           {run: b.handleToday},
		"set_date_target": {run: b.handleSetDateTarget},
		"my_targets":      {run: b.handleMyTargets},
		"view_today":      {run: b.handleViewToday},
		"complete_goal":   {run: b.handleCompleteGoal},
		"edit_target":     {run: b.handleEditTarget},
		"delete_target":   {run: b.handleDeleteTarget},

		"add_subject":    {run: b.handleAddSubject, adminOnly: true},
		"delete_subject": {run: b.handleDeleteSubject, adminOnly: true},
		"edit_topics":    {run: b.handleEditTopics, adminOnly: true},
		"delete_topic":   {run: b.handleDeleteTopic, adminOnly: true},
		"view_subjects":  {run: b.handleViewSubjects},
		"view_topics":    {run: b.handleViewTopics},
		"complete":       {run: b.handleCompleteTopic},
		"dashboard":      {run: b.handleDashboard},
		"search":         {run: b.handleSearch},

		"set_daily_reminder":  {run: b.handleSetDailyReminder, adminOnly: true},
		"stop_daily_reminder": {run: b.handleStopDailyReminder, adminOnly: true},
		"schedule":            {run: b.handleSchedule, adminOnly: true},
		"stop_schedule":       {run: b.handleStopSchedule, adminOnly: true},
	}
	return b
}

// Dispatch runs one command to completion and returns the reply text.
// Domain faults become user-facing messages; only unexpected errors are
// logged, and even those produce a reply rather than a crash.
func (b *Bot) Dispatch(ctx context.Context, req *Request) string {
	cmd, ok := b.commands[req.Command]
	if !ok {
		return fmt.Sprintf("Unknown command /%s. Use /help to see what I can do.", req.Command)
	}
	if cmd.adminOnly && !req.IsAdmin {
		return "Only admins can use this command."
	}
	reply, err := cmd.run(ctx, req)
	if err != nil {
		var de *app.DomainError
		if errors.As(err, &de) {
			return de.Message
		}
		log.Printf("bot: /%s: %v", req.Command, err)
		return "Something went wrong handling that command. Please try again."
	}
	return reply
}

// Commands lists the registered command names, for the transport's
// command-menu registration.
func (b *Bot) Commands() []string {
	names := make([]string, 0, len(b.commands))
	for name := range b.commands {
		names = append(names, name)
	}
	return names
}
