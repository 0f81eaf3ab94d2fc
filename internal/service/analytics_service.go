package service

import (
	"math"
	"sort"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/util"
	"time"
)

// AnalyticsService 基于行为流和积分账本的只读统计。
// 所有计算对空输入都返回文档化的零值，不报错。
type AnalyticsService struct {
	BehaviorRepo    *repository.BehaviorRepository
	ProgressService *ProgressService
	ProgramRepo     *repository.ProgramRepository

	now func() time.Time
}

func NewAnalyticsService(
	behaviorRepo *repository.BehaviorRepository,
	progressService *ProgressService,
	programRepo *repository.ProgramRepository,
) *AnalyticsService {
	return &AnalyticsService{
		BehaviorRepo:    behaviorRepo,
		ProgressService: progressService,
		ProgramRepo:     programRepo,
		now:             time.Now,
	}
}

// GetUserAnalytics 近 30 天行为概览
func (s *AnalyticsService) GetUserAnalytics(userID uint) *model.UserAnalytics {
	const days = 30
	events := s.BehaviorRepo.FindSince(userID, s.now().AddDate(0, 0, -days))
	progress := s.ProgressService.GetProgress(userID)

	return &model.UserAnalytics{
		PeriodDays:       days,
		TotalActions:     len(events),
		UniqueActiveDays: distinctDays(events),
		MostActivePage:   mostActivePage(events),
		EngagementLevel:  EngagementLevel(events),
		EngagementScore:  EngagementScore(events),
		ActivityByHour:   activityByHour(events),
		WeeklyActivity:   weeklyActivity(events),
		CurrentStreak:    progress.CurrentStreak,
		WellyPoints:      progress.WellyPoints,
	}
}

// GetBehaviorAnalytics 指定窗口内的行为明细统计
func (s *AnalyticsService) GetBehaviorAnalytics(userID uint, days int) *model.BehaviorAnalytics {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	since := now.AddDate(0, 0, -days)
	events := s.BehaviorRepo.FindSince(userID, since)

	actionBreakdown := map[string]int{}
	pageUsage := map[string]int{}
	dailyActivity := map[string]int{}
	for _, ev := range events {
		actionBreakdown[ev.Action]++
		if ev.Page != "" {
			pageUsage[ev.Page]++
		}
		dailyActivity[ev.Timestamp.UTC().Format(util.DateFormat)]++
	}

	return &model.BehaviorAnalytics{
		PeriodDays:      days,
		TotalActions:    len(events),
		DailyAverage:    round1(float64(len(events)) / float64(days)),
		ActionBreakdown: actionBreakdown,
		PageUsage:       pageUsage,
		HourlyActivity:  activityByHour(events),
		DailyActivity:   dailyActivity,
		EngagementTrend: engagementTrend(events, since, now),
	}
}

// GetProgressAnalytics 积分与完成进度
func (s *AnalyticsService) GetProgressAnalytics(userID uint) *model.ProgressAnalytics {
	progress := s.ProgressService.GetProgress(userID)

	var completionRate float64
	if total, err := s.ProgramRepo.Count(); err == nil && total > 0 {
		completionRate = round1(float64(len(progress.CompletedPrograms)) / float64(total) * 100)
	}

	return &model.ProgressAnalytics{
		WellyPoints:           progress.WellyPoints,
		CurrentStreak:         progress.CurrentStreak,
		CompletedPrograms:     len(progress.CompletedPrograms),
		CompletedChallenges:   len(progress.CompletedChallenges),
		BookmarkedPrograms:    len(progress.BookmarkedPrograms),
		ProgramCompletionRate: completionRate,
		ProgressTrend:         ProgressTrend(progress),
	}
}

// GetWellnessScore 健康综合分：四个 0-100 分量的算术平均
func (s *AnalyticsService) GetWellnessScore(userID uint) *model.WellnessScore {
	events := s.BehaviorRepo.FindSince(userID, s.now().AddDate(0, 0, -7))
	progress := s.ProgressService.GetProgress(userID)

	breakdown := model.WellnessScoreBreakdown{
		Engagement:  EngagementScore(events),
		Consistency: ConsistencyScore(progress),
		Progress:    ProgressScore(progress),
		Variety:     VarietyScore(events),
	}
	overall := round1(float64(breakdown.Engagement+breakdown.Consistency+breakdown.Progress+breakdown.Variety) / 4)

	return &model.WellnessScore{
		Overall:         overall,
		Breakdown:       breakdown,
		Recommendations: scoreRecommendations(breakdown),
	}
}

// GetInsights AI 对话使用的用户画像
func (s *AnalyticsService) GetInsights(userID uint) *model.UserInsights {
	events := s.BehaviorRepo.FindSince(userID, s.now().AddDate(0, 0, -7))
	progress := s.ProgressService.GetProgress(userID)

	consistency := progress.CurrentStreak * 10
	if consistency > 100 {
		consistency = 100
	}

	return &model.UserInsights{
		EngagementLevel:     EngagementLevel(events),
		ConsistencyScore:    consistency,
		PreferredActivities: topPages(events, 3),
		ProgressTrend:       ProgressTrend(progress),
		TimeOfDayPreference: timeOfDayPreference(events),
	}
}

// EngagementLevel 高/中/低三档参与度
func EngagementLevel(events []model.BehaviorEvent) string {
	count := len(events)
	days := distinctDays(events)
	switch {
	case count >= 20 && days >= 5:
		return "high"
	case count >= 10 && days >= 3:
		return "medium"
	default:
		return "low"
	}
}

// EngagementScore 0-100 参与度分量，按 7 天日均动作数分档
func EngagementScore(events []model.BehaviorEvent) int {
	if len(events) == 0 {
		return 0
	}
	dailyAverage := float64(len(events)) / 7
	switch {
	case dailyAverage >= 10:
		return 100
	case dailyAverage >= 5:
		return 80
	case dailyAverage >= 3:
		return 60
	case dailyAverage >= 1:
		return 40
	default:
		return 20
	}
}

// ConsistencyScore 0-100 连续性分量，按当前打卡天数分档
func ConsistencyScore(progress *model.UserProgress) int {
	streak := progress.CurrentStreak
	switch {
	case streak >= 30:
		return 100
	case streak >= 14:
		return 80
	case streak >= 7:
		return 60
	case streak >= 3:
		return 40
	case streak >= 1:
		return 20
	default:
		return 0
	}
}

// ProgressScore 0-100 进度分量：积分和完成项目数各占一半
func ProgressScore(progress *model.UserProgress) int {
	pointsPart := progress.WellyPoints / 20
	if pointsPart > 50 {
		pointsPart = 50
	}
	programsPart := len(progress.CompletedPrograms) * 5
	if programsPart > 50 {
		programsPart = 50
	}
	return pointsPart + programsPart
}

// VarietyScore 0-100 多样性分量：不同动作和页面的种类数
func VarietyScore(events []model.BehaviorEvent) int {
	actions := map[string]struct{}{}
	pages := map[string]struct{}{}
	for _, ev := range events {
		actions[ev.Action] = struct{}{}
		if ev.Page != "" {
			pages[ev.Page] = struct{}{}
		}
	}
	score := len(actions)*10 + len(pages)*5
	if score > 100 {
		score = 100
	}
	return score
}

// ProgressTrend 积分加打卡的四档评级
func ProgressTrend(progress *model.UserProgress) string {
	points := progress.WellyPoints
	streak := progress.CurrentStreak
	switch {
	case points > 1000 && streak > 7:
		return "excellent"
	case points > 500 && streak > 3:
		return "good"
	case points > 100 && streak > 1:
		return "improving"
	default:
		return "starting"
	}
}

// engagementTrend 把窗口按时间对半切开比较日均活跃度，
// 前半窗口为零时视为 stable，避免除零。
func engagementTrend(events []model.BehaviorEvent, since, until time.Time) string {
	mid := since.Add(until.Sub(since) / 2)

	var first, second int
	for _, ev := range events {
		if ev.Timestamp.Before(mid) {
			first++
		} else {
			second++
		}
	}
	if first == 0 {
		return "stable"
	}

	ratio := float64(second) / float64(first)
	switch {
	case ratio > 1.1:
		return "increasing"
	case ratio < 0.9:
		return "decreasing"
	default:
		return "stable"
	}
}

func distinctDays(events []model.BehaviorEvent) int {
	days := map[string]struct{}{}
	for _, ev := range events {
		days[ev.Timestamp.UTC().Format(util.DateFormat)] = struct{}{}
	}
	return len(days)
}

func mostActivePage(events []model.BehaviorEvent) string {
	pages := topPages(events, 1)
	if len(pages) == 0 {
		return "dashboard"
	}
	return pages[0]
}

func topPages(events []model.BehaviorEvent, n int) []string {
	counts := map[string]int{}
	for _, ev := range events {
		if ev.Page != "" {
			counts[ev.Page]++
		}
	}
	pages := make([]string, 0, len(counts))
	for page := range counts {
		pages = append(pages, page)
	}
	sort.Slice(pages, func(i, j int) bool {
		if counts[pages[i]] != counts[pages[j]] {
			return counts[pages[i]] > counts[pages[j]]
		}
		return pages[i] < pages[j]
	})
	if len(pages) > n {
		pages = pages[:n]
	}
	return pages
}

func activityByHour(events []model.BehaviorEvent) map[int]int {
	hours := map[int]int{}
	for _, ev := range events {
		hours[ev.Timestamp.UTC().Hour()]++
	}
	return hours
}

func weeklyActivity(events []model.BehaviorEvent) map[string]int {
	week := map[string]int{}
	for _, ev := range events {
		week[ev.Timestamp.UTC().Weekday().String()]++
	}
	return week
}

// timeOfDayPreference 按最活跃小时划分早中晚
func timeOfDayPreference(events []model.BehaviorEvent) string {
	hours := activityByHour(events)
	bestHour, bestCount := -1, 0
	for h := 0; h < 24; h++ {
		if hours[h] > bestCount {
			bestHour, bestCount = h, hours[h]
		}
	}
	switch {
	case bestHour < 0:
		return "anytime"
	case bestHour >= 6 && bestHour <= 11:
		return "morning"
	case bestHour >= 12 && bestHour <= 17:
		return "afternoon"
	default:
		return "evening"
	}
}

func scoreRecommendations(b model.WellnessScoreBreakdown) []string {
	var recs []string
	if b.Engagement < 50 {
		recs = append(recs, "Try to use the app a little every day, even a 2-minute session counts")
	}
	if b.Consistency < 50 {
		recs = append(recs, "Log in daily to build your streak and make wellness a habit")
	}
	if b.Progress < 50 {
		recs = append(recs, "Complete a program this week to boost your Welly Points")
	}
	if b.Variety < 50 {
		recs = append(recs, "Explore a new category to keep your routine fresh")
	}
	if len(recs) == 0 {
		recs = append(recs, "You're doing great, keep up your wellness routine!")
	}
	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
