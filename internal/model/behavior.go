package model

import "time"

// 行为动作名称。Track 接口允许任意动作字符串，这里只列出会影响积分的动作。
const (
	ActionCompleteProgram   = "complete_program"
	ActionStartProgram      = "start_program"
	ActionCompleteChallenge = "complete_challenge"
	ActionChatInteraction   = "chat_interaction"
	ActionLogin             = "login"
	ActionBookSession       = "book_session"
	ActionBookmarkProgram   = "bookmark_program"
)

// BehaviorEvent 一次用户行为，追加写入行为流
type BehaviorEvent struct {
	ID        string                 `json:"id"`
	UserID    uint                   `json:"userId"`
	Action    string                 `json:"action"`
	Page      string                 `json:"page"`
	Details   map[string]interface{} `json:"details"`
	SessionID string                 `json:"sessionId,omitempty"`
	// 本次行为结算的积分，未知动作为 0
	PointsEarned int       `json:"pointsEarned"`
	Timestamp    time.Time `json:"timestamp"`
}

// UserProgress 用户积分账本，每个用户至多一条
type UserProgress struct {
	UserID              uint       `json:"userId"`
	WellyPoints         int        `json:"wellyPoints"`
	CurrentStreak       int        `json:"currentStreak"`
	CompletedPrograms   []string   `json:"completedPrograms"`
	CompletedChallenges []string   `json:"completedChallenges"`
	BookmarkedPrograms  []string   `json:"bookmarkedPrograms"`
	DailyCompletion     float64    `json:"dailyCompletion"`
	WeeklyCompletion    float64    `json:"weeklyCompletion"`
	MonthlyCompletion   float64    `json:"monthlyCompletion"`
	LastActivity        *time.Time `json:"lastActivity,omitempty"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}
