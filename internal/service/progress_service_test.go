package service

import (
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/pkg/docstore"
	"testing"
	"time"
)

func newTestProgressService(t *testing.T) *ProgressService {
	t.Helper()
	store := docstore.New()
	return NewProgressService(repository.NewProgressRepository(store))
}

func TestGetProgressForNewUser(t *testing.T) {
	s := newTestProgressService(t)

	progress := s.GetProgress(42)
	if progress.WellyPoints != 0 {
		t.Fatalf("expected 0 points, got %d", progress.WellyPoints)
	}
	if progress.CurrentStreak != 0 {
		t.Fatalf("expected 0 streak, got %d", progress.CurrentStreak)
	}
	if progress.CompletedPrograms == nil || progress.CompletedChallenges == nil || progress.BookmarkedPrograms == nil {
		t.Fatal("expected empty slices, got nil")
	}
}

func TestRecordPointsAccumulates(t *testing.T) {
	s := newTestProgressService(t)

	s.RecordPoints(1, 50)
	s.RecordPoints(1, 30)
	s.RecordPoints(2, 10)

	if got := s.GetProgress(1).WellyPoints; got != 80 {
		t.Fatalf("user 1: expected 80 points, got %d", got)
	}
	if got := s.GetProgress(2).WellyPoints; got != 10 {
		t.Fatalf("user 2: expected 10 points, got %d", got)
	}
}

func TestAddCompletedProgramIsIdempotent(t *testing.T) {
	s := newTestProgressService(t)

	s.AddCompletedProgram(1, "stretch_mobility_1")
	s.AddCompletedProgram(1, "stretch_mobility_1")
	s.AddCompletedProgram(1, "breath_stress_1")
	s.AddCompletedProgram(1, "")

	progress := s.GetProgress(1)
	if len(progress.CompletedPrograms) != 2 {
		t.Fatalf("expected 2 completed programs, got %v", progress.CompletedPrograms)
	}
}

func TestBookmarkAndUnbookmark(t *testing.T) {
	s := newTestProgressService(t)

	s.BookmarkProgram(1, "mindset_growth_1")
	s.BookmarkProgram(1, "mindset_growth_1")
	if got := s.GetProgress(1).BookmarkedPrograms; len(got) != 1 {
		t.Fatalf("expected 1 bookmark, got %v", got)
	}

	s.UnbookmarkProgram(1, "mindset_growth_1")
	if got := s.GetProgress(1).BookmarkedPrograms; len(got) != 0 {
		t.Fatalf("expected no bookmarks after removal, got %v", got)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		s.now = func() time.Time { return day.AddDate(0, 0, i) }
		streak := s.UpdateStreakOnLogin(1)
		s.RecordPoints(1, 5)
		if streak != i+1 {
			t.Fatalf("day %d: expected streak %d, got %d", i, i+1, streak)
		}
	}
}

func TestStreakSameDayUnchanged(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return day }
	s.UpdateStreakOnLogin(1)
	s.RecordPoints(1, 5)

	// 同一天再登录两次，打卡数不变
	s.now = func() time.Time { return day.Add(6 * time.Hour) }
	if streak := s.UpdateStreakOnLogin(1); streak != 1 {
		t.Fatalf("expected streak 1 on same-day login, got %d", streak)
	}
	if streak := s.UpdateStreakOnLogin(1); streak != 1 {
		t.Fatalf("expected streak 1 on repeated same-day login, got %d", streak)
	}
}

func TestStreakResetsAfterGap(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return day }
	s.UpdateStreakOnLogin(1)
	s.RecordPoints(1, 5)

	s.now = func() time.Time { return day.AddDate(0, 0, 1) }
	s.UpdateStreakOnLogin(1)
	s.RecordPoints(1, 5)

	// 断两天后重置为 1
	s.now = func() time.Time { return day.AddDate(0, 0, 4) }
	if streak := s.UpdateStreakOnLogin(1); streak != 1 {
		t.Fatalf("expected streak reset to 1 after gap, got %d", streak)
	}
}

func TestStreakBridgedByNonLoginActivity(t *testing.T) {
	s := newTestProgressService(t)
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return day }
	s.UpdateStreakOnLogin(1)
	s.RecordPoints(1, 5)

	// 第二天没登录，只完成了一个挣积分的动作
	s.now = func() time.Time { return day.AddDate(0, 0, 1) }
	s.RecordPoints(1, 50)

	// 第三天登录，昨天的活动把链条接上了
	s.now = func() time.Time { return day.AddDate(0, 0, 2) }
	if streak := s.UpdateStreakOnLogin(1); streak != 2 {
		t.Fatalf("expected streak 2 bridged by non-login activity, got %d", streak)
	}
}

func TestStreakUsesUTCCalendarDays(t *testing.T) {
	s := newTestProgressService(t)

	// 23:30 UTC 登录，次日 00:30 UTC 再登录算连续两天
	s.now = func() time.Time { return time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC) }
	s.UpdateStreakOnLogin(1)
	s.RecordPoints(1, 5)

	s.now = func() time.Time { return time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC) }
	if streak := s.UpdateStreakOnLogin(1); streak != 2 {
		t.Fatalf("expected streak 2 across UTC midnight, got %d", streak)
	}
}
