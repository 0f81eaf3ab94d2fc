package service

import (
	"sync"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/pkg/docstore"
	"testing"
	"time"
)

func newTestBehaviorService(t *testing.T) *BehaviorService {
	t.Helper()
	store := docstore.New()
	progress := NewProgressService(repository.NewProgressRepository(store))
	return NewBehaviorService(repository.NewBehaviorRepository(store), progress)
}

func TestTrackAwardsPointsPerAction(t *testing.T) {
	cases := []struct {
		action string
		points int
	}{
		{model.ActionCompleteProgram, 50},
		{model.ActionStartProgram, 10},
		{model.ActionChatInteraction, 5},
		{model.ActionLogin, 5},
		{model.ActionBookSession, 20},
		{model.ActionBookmarkProgram, 5},
	}

	for _, tc := range cases {
		s := newTestBehaviorService(t)
		ev := s.Track(1, tc.action, "test", nil, "")
		if ev.PointsEarned != tc.points {
			t.Errorf("%s: expected %d points, got %d", tc.action, tc.points, ev.PointsEarned)
		}
		if got := s.ProgressService.GetProgress(1).WellyPoints; got != tc.points {
			t.Errorf("%s: expected balance %d, got %d", tc.action, tc.points, got)
		}
	}
}

func TestTrackUnknownActionRecordsWithoutPoints(t *testing.T) {
	s := newTestBehaviorService(t)

	ev := s.Track(1, "page_view", "dashboard", nil, "")
	if ev == nil || ev.ID == "" {
		t.Fatal("expected event to be recorded")
	}
	if ev.PointsEarned != 0 {
		t.Fatalf("expected 0 points for unknown action, got %d", ev.PointsEarned)
	}
	if got := s.ProgressService.GetProgress(1).WellyPoints; got != 0 {
		t.Fatalf("expected balance unchanged, got %d", got)
	}
	if events := s.EventsSince(1, 1); len(events) != 1 {
		t.Fatalf("expected 1 event in stream, got %d", len(events))
	}
}

func TestTrackCompleteProgramRecordsCompletion(t *testing.T) {
	s := newTestBehaviorService(t)
	details := map[string]interface{}{"program_id": "breath_stress_1"}

	s.Track(1, model.ActionCompleteProgram, "programs", details, "")
	s.Track(1, model.ActionCompleteProgram, "programs", details, "")

	progress := s.ProgressService.GetProgress(1)
	// 积分每次都加，完成集合去重
	if progress.WellyPoints != 100 {
		t.Fatalf("expected 100 points after two completions, got %d", progress.WellyPoints)
	}
	if len(progress.CompletedPrograms) != 1 {
		t.Fatalf("expected 1 unique completed program, got %v", progress.CompletedPrograms)
	}
}

func TestTrackChallengePointsOverride(t *testing.T) {
	s := newTestBehaviorService(t)

	ev := s.Track(1, model.ActionCompleteChallenge, "challenges", map[string]interface{}{
		"challenge_id":     "weekly_streak",
		"challenge_points": 200,
	}, "")
	if ev.PointsEarned != 200 {
		t.Fatalf("expected challenge points override of 200, got %d", ev.PointsEarned)
	}

	// 没有 challenge_points 时用默认 30 分
	ev = s.Track(1, model.ActionCompleteChallenge, "challenges", map[string]interface{}{
		"challenge_id": "daily_stretch",
	}, "")
	if ev.PointsEarned != 30 {
		t.Fatalf("expected default 30 points, got %d", ev.PointsEarned)
	}

	progress := s.ProgressService.GetProgress(1)
	if progress.WellyPoints != 230 {
		t.Fatalf("expected 230 points total, got %d", progress.WellyPoints)
	}
	if len(progress.CompletedChallenges) != 2 {
		t.Fatalf("expected 2 completed challenges, got %v", progress.CompletedChallenges)
	}
}

func TestTrackLoginAdvancesStreak(t *testing.T) {
	s := newTestBehaviorService(t)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		current := day.AddDate(0, 0, i)
		s.now = func() time.Time { return current }
		s.ProgressService.now = s.now
		s.Track(1, model.ActionLogin, "login", nil, "")
	}

	progress := s.ProgressService.GetProgress(1)
	if progress.CurrentStreak != 3 {
		t.Fatalf("expected streak 3 after three daily logins, got %d", progress.CurrentStreak)
	}
	if progress.WellyPoints != 15 {
		t.Fatalf("expected 15 points from three logins, got %d", progress.WellyPoints)
	}
}

func TestTrackSameDayLoginDoesNotInflateStreak(t *testing.T) {
	s := newTestBehaviorService(t)
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }
	s.ProgressService.now = s.now

	s.Track(1, model.ActionLogin, "login", nil, "")
	s.Track(1, model.ActionLogin, "login", nil, "")
	s.Track(1, model.ActionLogin, "login", nil, "")

	if got := s.ProgressService.GetProgress(1).CurrentStreak; got != 1 {
		t.Fatalf("expected streak 1 after repeated same-day logins, got %d", got)
	}
}

func TestTrackConcurrentSameUser(t *testing.T) {
	s := newTestBehaviorService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Track(1, model.ActionChatInteraction, "chat", nil, "")
		}()
	}
	wg.Wait()

	if got := s.ProgressService.GetProgress(1).WellyPoints; got != 100 {
		t.Fatalf("expected 100 points from 20 concurrent chats, got %d", got)
	}
	if events := s.EventsSince(1, 1); len(events) != 20 {
		t.Fatalf("expected 20 events, got %d", len(events))
	}
}

func TestGetRecentEventsOrderAndLimit(t *testing.T) {
	s := newTestBehaviorService(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		current := base.Add(time.Duration(i) * time.Hour)
		s.now = func() time.Time { return current }
		s.ProgressService.now = s.now
		s.Track(1, "page_view", "dashboard", nil, "")
	}
	s.now = func() time.Time { return base.Add(5 * time.Hour) }

	events := s.GetRecentEvents(1, 7, 3)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Fatal("expected events in descending time order")
		}
	}
}
