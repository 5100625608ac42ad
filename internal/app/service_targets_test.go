package app

import (
	"context"
	"testing"
)

const testDate = "2025-08-03"

func TestAddTargetCreatesContainers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	pos, err := svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if pos != 1 {
		t.Errorf("position = %d, want 1", pos)
	}
	pos, err = svc.AddTarget(ctx, testDate, "101", "Asha", "two practice sets")
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if pos != 2 {
		t.Errorf("position = %d, want 2", pos)
	}

	entry := repo.doc.DailyTargets[testDate]["101"]
	if entry == nil || entry.Name != "Asha" || len(entry.Targets) != 2 {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.Targets[0].Completed || entry.Targets[0].CompletedAt != nil {
		t.Error("a fresh target must start not-completed")
	}
}

func TestAddTargetValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.AddTarget(ctx, "someday", "101", "Asha", "x"); ErrorCode(err) != CodeValidation {
		t.Errorf("bad date: code = %q", ErrorCode(err))
	}
	if _, err := svc.AddTarget(ctx, testDate, "101", "Asha", ""); ErrorCode(err) != CodeValidation {
		t.Errorf("empty text: code = %q", ErrorCode(err))
	}
}

func TestCompleteTargetStampsTime(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")

	target, progress, err := svc.CompleteTarget(ctx, testDate, "101", 1)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !target.Completed {
		t.Error("target not marked completed")
	}
	if target.CompletedAt == nil || *target.CompletedAt != "2025-08-03 09:30:00" {
		t.Errorf("completed_at = %v", target.CompletedAt)
	}
	if progress.Completed != 1 || progress.Total != 1 {
		t.Errorf("progress = %+v", progress)
	}
}

func TestCompleteTargetIsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")
	svc.CompleteTarget(ctx, testDate, "101", 1)
	first := *repo.doc.DailyTargets[testDate]["101"].Targets[0].CompletedAt

	target, progress, err := svc.CompleteTarget(ctx, testDate, "101", 1)
	if ErrorCode(err) != CodeAlreadyCompleted {
		t.Fatalf("code = %q, want %q", ErrorCode(err), CodeAlreadyCompleted)
	}
	// The notice still carries the target and current progress.
	if target.Text != "read chapter 5" || progress.Completed != 1 {
		t.Errorf("target = %+v, progress = %+v", target, progress)
	}
	if got := *repo.doc.DailyTargets[testDate]["101"].Targets[0].CompletedAt; got != first {
		t.Errorf("completed_at changed from %q to %q", first, got)
	}
}

func TestCompleteTargetErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, _, err := svc.CompleteTarget(ctx, testDate, "101", 1); ErrorCode(err) != CodeNotFound {
		t.Errorf("no entry: code = %q", ErrorCode(err))
	}
	svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")
	if _, _, err := svc.CompleteTarget(ctx, testDate, "101", 0); ErrorCode(err) != CodeRange {
		t.Errorf("position 0: code = %q", ErrorCode(err))
	}
	if _, _, err := svc.CompleteTarget(ctx, testDate, "101", 4); ErrorCode(err) != CodeRange {
		t.Errorf("position 4: code = %q", ErrorCode(err))
	}
}

func TestEditTargetKeepsCompletionState(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")
	svc.CompleteTarget(ctx, testDate, "101", 1)

	old, err := svc.EditTarget(ctx, testDate, "101", 1, "read chapters 5 and 6")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if old != "read chapter 5" {
		t.Errorf("old text = %q", old)
	}
	got := repo.doc.DailyTargets[testDate]["101"].Targets[0]
	if got.Text != "read chapters 5 and 6" || !got.Completed || got.CompletedAt == nil {
		t.Errorf("target = %+v", got)
	}
}

func TestDeleteTargetCascadesEmptyContainers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")
	svc.AddTarget(ctx, testDate, "102", "Ravi", "mock test")

	removed, remaining, err := svc.DeleteTarget(ctx, testDate, "101", 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != "read chapter 5" || remaining != 0 {
		t.Errorf("removed %q, remaining %d", removed, remaining)
	}
	if _, ok := repo.doc.DailyTargets[testDate]["101"]; ok {
		t.Error("empty user entry survived")
	}
	if _, ok := repo.doc.DailyTargets[testDate]; !ok {
		t.Fatal("date entry vanished while another user still has targets")
	}

	if _, _, err := svc.DeleteTarget(ctx, testDate, "102", 1); err != nil {
		t.Fatalf("delete last: %v", err)
	}
	if _, ok := repo.doc.DailyTargets[testDate]; ok {
		t.Error("empty date entry survived")
	}
}

func TestDeleteTargetKeepsEntryWhenTargetsRemain(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.AddTarget(ctx, testDate, "101", "Asha", "one")
	svc.AddTarget(ctx, testDate, "101", "Asha", "two")

	_, remaining, err := svc.DeleteTarget(ctx, testDate, "101", 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if remaining != 1 {
		t.Errorf("remaining = %d, want 1", remaining)
	}
	entry := repo.doc.DailyTargets[testDate]["101"]
	if entry == nil || entry.Targets[0].Text != "two" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestTargetProgressAbsentUserIsZero(t *testing.T) {
	svc, _ := newTestService(t)
	progress, err := svc.TargetProgress(context.Background(), testDate, "999")
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress.Completed != 0 || progress.Total != 0 {
		t.Errorf("progress = %+v, want zero", progress)
	}
	if progress.Percent() != 0 {
		t.Errorf("percent = %v, want 0", progress.Percent())
	}
}

func TestListTargetsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.ListTargets(context.Background(), testDate, "101"); ErrorCode(err) != CodeNotFound {
		t.Errorf("code = %q, want %q", ErrorCode(err), CodeNotFound)
	}
}

func TestAllForDate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	users, err := svc.AllForDate(ctx, testDate)
	if err != nil {
		t.Fatalf("empty date: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("users = %+v, want empty", users)
	}

	svc.AddTarget(ctx, testDate, "101", "Asha", "read chapter 5")
	svc.AddTarget(ctx, testDate, "102", "Ravi", "mock test")
	users, err = svc.AllForDate(ctx, testDate)
	if err != nil {
		t.Fatalf("populated date: %v", err)
	}
	if len(users) != 2 || users["102"].Name != "Ravi" {
		t.Errorf("users = %+v", users)
	}
}
