package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisRepository(t *testing.T) *RedisRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisRepositoryWithClient(client)
}

func TestRedisRepositoryEmptyKeyStartsFresh(t *testing.T) {
	repo := newTestRedisRepository(t)
	doc, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Milestones) != 0 || doc.Subjects == nil {
		t.Errorf("expected fresh document, got %+v", doc)
	}
}

func TestRedisRepositoryRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRedisRepository(t)

	doc := NewDocument()
	doc.Milestones = append(doc.Milestones, Milestone{Date: "2025-08-01", Description: "finish syllabus"})
	doc.UserProgress["101"] = SubjectProgress{
		"Mathematics": {CompletedTopics: []string{"Algebra"}, LastUpdated: "2025-08-01"},
	}
	if err := repo.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Milestones) != 1 || loaded.Milestones[0].Date != "2025-08-01" {
		t.Errorf("milestones = %+v", loaded.Milestones)
	}
	got := loaded.UserProgress["101"]["Mathematics"]
	if got == nil || len(got.CompletedTopics) != 1 || got.CompletedTopics[0] != "Algebra" {
		t.Errorf("user progress = %+v", got)
	}
}

func TestRedisRepositoryCorruptValueStartsFresh(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewRedisRepositoryWithClient(client)

	mr.Set(redisDocumentKey, "{broken")
	doc, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Milestones) != 0 {
		t.Errorf("corrupt value must yield a fresh document, got %+v", doc)
	}
}
