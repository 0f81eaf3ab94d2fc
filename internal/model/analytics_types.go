package model

// UserAnalytics 近 30 天行为概览
type UserAnalytics struct {
	PeriodDays       int            `json:"periodDays"`
	TotalActions     int            `json:"totalActions"`
	UniqueActiveDays int            `json:"uniqueActiveDays"`
	MostActivePage   string         `json:"mostActivePage"`
	EngagementLevel  string         `json:"engagementLevel"`
	EngagementScore  int            `json:"engagementScore"`
	ActivityByHour   map[int]int    `json:"activityByHour"`
	WeeklyActivity   map[string]int `json:"weeklyActivity"`
	CurrentStreak    int            `json:"currentStreak"`
	WellyPoints      int            `json:"wellyPoints"`
}

// BehaviorAnalytics 指定窗口内的行为明细统计
type BehaviorAnalytics struct {
	PeriodDays      int            `json:"periodDays"`
	TotalActions    int            `json:"totalActions"`
	DailyAverage    float64        `json:"dailyAverage"`
	ActionBreakdown map[string]int `json:"actionBreakdown"`
	PageUsage       map[string]int `json:"pageUsage"`
	HourlyActivity  map[int]int    `json:"hourlyActivity"`
	DailyActivity   map[string]int `json:"dailyActivity"`
	EngagementTrend string         `json:"engagementTrend"` // increasing / decreasing / stable
}

// ProgressAnalytics 积分与完成进度
type ProgressAnalytics struct {
	WellyPoints           int     `json:"wellyPoints"`
	CurrentStreak         int     `json:"currentStreak"`
	CompletedPrograms     int     `json:"completedPrograms"`
	CompletedChallenges   int     `json:"completedChallenges"`
	BookmarkedPrograms    int     `json:"bookmarkedPrograms"`
	ProgramCompletionRate float64 `json:"programCompletionRate"`
	ProgressTrend         string  `json:"progressTrend"` // excellent / good / improving / starting
}

// WellnessScoreBreakdown 健康综合分的四个分量，均为 0-100
type WellnessScoreBreakdown struct {
	Engagement  int `json:"engagement"`
	Consistency int `json:"consistency"`
	Progress    int `json:"progress"`
	Variety     int `json:"variety"`
}

// WellnessScore 健康综合分
type WellnessScore struct {
	Overall         float64                `json:"overall"`
	Breakdown       WellnessScoreBreakdown `json:"breakdown"`
	Recommendations []string               `json:"recommendations"`
}

// UserInsights AI 对话使用的用户画像
type UserInsights struct {
	EngagementLevel     string   `json:"engagementLevel"`
	ConsistencyScore    int      `json:"consistencyScore"`
	PreferredActivities []string `json:"preferredActivities"`
	ProgressTrend       string   `json:"progressTrend"`
	TimeOfDayPreference string   `json:"timeOfDayPreference"`
}

// CategoryStats 项目分类统计
type CategoryStats struct {
	Category     string `json:"category"`
	ProgramCount int    `json:"programCount"`
	TotalMinutes int    `json:"totalMinutes"`
}
