package service

import (
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/pkg/docstore"
	"testing"
	"time"
)

func eventAt(ts time.Time, action, page string) model.BehaviorEvent {
	return model.BehaviorEvent{Action: action, Page: page, Timestamp: ts}
}

func TestEngagementLevel(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var high []model.BehaviorEvent
	for day := 0; day < 5; day++ {
		for i := 0; i < 4; i++ {
			high = append(high, eventAt(base.AddDate(0, 0, day), "page_view", "dashboard"))
		}
	}
	if got := EngagementLevel(high); got != "high" {
		t.Fatalf("expected high, got %s", got)
	}

	var medium []model.BehaviorEvent
	for day := 0; day < 3; day++ {
		for i := 0; i < 4; i++ {
			medium = append(medium, eventAt(base.AddDate(0, 0, day), "page_view", "dashboard"))
		}
	}
	if got := EngagementLevel(medium); got != "medium" {
		t.Fatalf("expected medium, got %s", got)
	}

	// 20 个动作但都挤在一天算 low
	var burst []model.BehaviorEvent
	for i := 0; i < 25; i++ {
		burst = append(burst, eventAt(base, "page_view", "dashboard"))
	}
	if got := EngagementLevel(burst); got != "low" {
		t.Fatalf("expected low for single-day burst, got %s", got)
	}

	if got := EngagementLevel(nil); got != "low" {
		t.Fatalf("expected low for no events, got %s", got)
	}
}

func TestEngagementScoreBuckets(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	makeEvents := func(n int) []model.BehaviorEvent {
		events := make([]model.BehaviorEvent, n)
		for i := range events {
			events[i] = eventAt(base, "page_view", "dashboard")
		}
		return events
	}

	cases := []struct {
		count int
		score int
	}{
		{0, 0},
		{3, 20},  // 日均 < 1
		{7, 40},  // 日均 1
		{21, 60}, // 日均 3
		{35, 80}, // 日均 5
		{70, 100},
	}
	for _, tc := range cases {
		if got := EngagementScore(makeEvents(tc.count)); got != tc.score {
			t.Errorf("%d events: expected score %d, got %d", tc.count, tc.score, got)
		}
	}
}

func TestConsistencyScoreBuckets(t *testing.T) {
	cases := []struct {
		streak int
		score  int
	}{
		{0, 0}, {1, 20}, {3, 40}, {7, 60}, {14, 80}, {30, 100}, {45, 100},
	}
	for _, tc := range cases {
		progress := &model.UserProgress{CurrentStreak: tc.streak}
		if got := ConsistencyScore(progress); got != tc.score {
			t.Errorf("streak %d: expected %d, got %d", tc.streak, tc.score, got)
		}
	}
}

func TestProgressScoreCapsBothHalves(t *testing.T) {
	progress := &model.UserProgress{
		WellyPoints:       5000,
		CompletedPrograms: make([]string, 30),
	}
	if got := ProgressScore(progress); got != 100 {
		t.Fatalf("expected capped score 100, got %d", got)
	}

	progress = &model.UserProgress{WellyPoints: 200, CompletedPrograms: []string{"a", "b"}}
	// 200/20=10 分 + 2*5=10 分
	if got := ProgressScore(progress); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}

func TestVarietyScore(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []model.BehaviorEvent{
		eventAt(base, "login", "login"),
		eventAt(base, "chat_interaction", "chat"),
		eventAt(base, "complete_program", "programs"),
	}
	// 3 种动作 *10 + 3 种页面 *5
	if got := VarietyScore(events); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
	if got := VarietyScore(nil); got != 0 {
		t.Fatalf("expected 0 for no events, got %d", got)
	}
}

func TestProgressTrendStages(t *testing.T) {
	cases := []struct {
		points, streak int
		want           string
	}{
		{1500, 10, "excellent"},
		{600, 5, "good"},
		{150, 2, "improving"},
		{50, 0, "starting"},
		{1500, 3, "improving"}, // 高分但打卡不过 3 天，连降两档
	}
	for _, tc := range cases {
		progress := &model.UserProgress{WellyPoints: tc.points, CurrentStreak: tc.streak}
		if got := ProgressTrend(progress); got != tc.want {
			t.Errorf("points=%d streak=%d: expected %s, got %s", tc.points, tc.streak, tc.want, got)
		}
	}
}

func newTestAnalyticsService(t *testing.T) (*AnalyticsService, *BehaviorService) {
	t.Helper()
	store := docstore.New()
	progress := NewProgressService(repository.NewProgressRepository(store))
	behaviorRepo := repository.NewBehaviorRepository(store)
	behavior := NewBehaviorService(behaviorRepo, progress)
	analytics := NewAnalyticsService(behaviorRepo, progress, nil)
	return analytics, behavior
}

func TestGetBehaviorAnalytics(t *testing.T) {
	analytics, behavior := newTestAnalyticsService(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		current := base.AddDate(0, 0, i)
		behavior.now = func() time.Time { return current }
		behavior.ProgressService.now = behavior.now
		behavior.Track(1, model.ActionChatInteraction, "chat", nil, "")
		behavior.Track(1, "page_view", "dashboard", nil, "")
	}

	analytics.now = func() time.Time { return base.AddDate(0, 0, 3) }
	result := analytics.GetBehaviorAnalytics(1, 7)

	if result.TotalActions != 6 {
		t.Fatalf("expected 6 actions, got %d", result.TotalActions)
	}
	if result.ActionBreakdown[model.ActionChatInteraction] != 3 {
		t.Fatalf("expected 3 chat interactions, got %d", result.ActionBreakdown[model.ActionChatInteraction])
	}
	if result.PageUsage["dashboard"] != 3 {
		t.Fatalf("expected 3 dashboard views, got %d", result.PageUsage["dashboard"])
	}
	if len(result.DailyActivity) != 3 {
		t.Fatalf("expected activity on 3 days, got %v", result.DailyActivity)
	}
}

func TestGetBehaviorAnalyticsEmptyWindow(t *testing.T) {
	analytics, _ := newTestAnalyticsService(t)

	result := analytics.GetBehaviorAnalytics(1, 0)
	if result.PeriodDays != 7 {
		t.Fatalf("expected default window of 7 days, got %d", result.PeriodDays)
	}
	if result.TotalActions != 0 || result.DailyAverage != 0 {
		t.Fatalf("expected zero stats for empty window, got %+v", result)
	}
	if result.EngagementTrend != "stable" {
		t.Fatalf("expected stable trend for no events, got %s", result.EngagementTrend)
	}
}

func TestGetWellnessScoreBounds(t *testing.T) {
	analytics, behavior := newTestAnalyticsService(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	analytics.now = func() time.Time { return base }
	behavior.now = analytics.now
	behavior.ProgressService.now = analytics.now

	// 空数据全为零
	score := analytics.GetWellnessScore(1)
	if score.Overall != 0 {
		t.Fatalf("expected overall 0 for new user, got %v", score.Overall)
	}
	if len(score.Recommendations) == 0 {
		t.Fatal("expected recommendations for low scores")
	}

	behavior.Track(1, model.ActionCompleteProgram, "programs", map[string]interface{}{"program_id": "p1"}, "")
	score = analytics.GetWellnessScore(1)
	if score.Overall <= 0 || score.Overall > 100 {
		t.Fatalf("expected overall in (0,100], got %v", score.Overall)
	}
	for _, component := range []int{score.Breakdown.Engagement, score.Breakdown.Consistency, score.Breakdown.Progress, score.Breakdown.Variety} {
		if component < 0 || component > 100 {
			t.Fatalf("component out of range: %+v", score.Breakdown)
		}
	}
}

func TestEngagementTrendDirections(t *testing.T) {
	since := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 0, 8)
	firstHalf := since.AddDate(0, 0, 1)
	secondHalf := since.AddDate(0, 0, 6)

	var increasing []model.BehaviorEvent
	increasing = append(increasing, eventAt(firstHalf, "a", ""))
	for i := 0; i < 4; i++ {
		increasing = append(increasing, eventAt(secondHalf, "a", ""))
	}
	if got := engagementTrend(increasing, since, until); got != "increasing" {
		t.Fatalf("expected increasing, got %s", got)
	}

	var decreasing []model.BehaviorEvent
	for i := 0; i < 4; i++ {
		decreasing = append(decreasing, eventAt(firstHalf, "a", ""))
	}
	decreasing = append(decreasing, eventAt(secondHalf, "a", ""))
	if got := engagementTrend(decreasing, since, until); got != "decreasing" {
		t.Fatalf("expected decreasing, got %s", got)
	}

	steady := []model.BehaviorEvent{
		eventAt(firstHalf, "a", ""),
		eventAt(secondHalf, "a", ""),
	}
	if got := engagementTrend(steady, since, until); got != "stable" {
		t.Fatalf("expected stable, got %s", got)
	}

	// 前半窗口为空时不判增长
	onlySecond := []model.BehaviorEvent{eventAt(secondHalf, "a", "")}
	if got := engagementTrend(onlySecond, since, until); got != "stable" {
		t.Fatalf("expected stable when first half empty, got %s", got)
	}
}

func TestTimeOfDayPreference(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		hour int
		want string
	}{
		{7, "morning"},
		{14, "afternoon"},
		{21, "evening"},
		{2, "evening"},
	}
	for _, tc := range cases {
		events := []model.BehaviorEvent{eventAt(day.Add(time.Duration(tc.hour)*time.Hour), "a", "")}
		if got := timeOfDayPreference(events); got != tc.want {
			t.Errorf("hour %d: expected %s, got %s", tc.hour, tc.want, got)
		}
	}
	if got := timeOfDayPreference(nil); got != "anytime" {
		t.Fatalf("expected anytime for no events, got %s", got)
	}
}

func TestMostActivePageDefault(t *testing.T) {
	if got := mostActivePage(nil); got != "dashboard" {
		t.Fatalf("expected dashboard default, got %s", got)
	}

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []model.BehaviorEvent{
		eventAt(base, "a", "chat"),
		eventAt(base, "a", "chat"),
		eventAt(base, "a", "programs"),
	}
	if got := mostActivePage(events); got != "chat" {
		t.Fatalf("expected chat, got %s", got)
	}
}
