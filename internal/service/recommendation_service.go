package service

import (
	"strings"
	"teamwelly_backend/internal/model"
)

const (
	maxGeneralRecommendations  = 5
	maxBehaviorRecommendations = 3
)

// RecommendationService 固定顺序的规则列表，每条规则至多贡献一条建议。
// 候选超过上限时先求值的规则胜出。
type RecommendationService struct{}

func NewRecommendationService() *RecommendationService {
	return &RecommendationService{}
}

// General 按打卡、目标、参与度三组规则生成建议，上限 5 条
func (s *RecommendationService) General(user *model.User, progress *model.UserProgress, events []model.BehaviorEvent) []string {
	var recs []string

	switch {
	case progress.CurrentStreak == 0:
		recs = append(recs, "Start your wellness streak today with a quick 2-minute session!")
	case progress.CurrentStreak < 3:
		recs = append(recs, "You're building momentum! Keep your streak going with a session today.")
	case progress.CurrentStreak >= 7:
		recs = append(recs, "Amazing streak! Try a new program category to keep things fresh.")
	}

	if user != nil {
		for _, goal := range user.SelectedGoals {
			switch {
			case strings.Contains(goal, "Reduce Pain"):
				recs = append(recs, "Your neck & shoulder stretch routine is waiting — little and often beats rarely and long.")
			case strings.Contains(goal, "Improve Flexibility"):
				recs = append(recs, "Daily mobility work adds up fast. Try a stretch program this morning.")
			case strings.Contains(goal, "Boost Mental Health"):
				recs = append(recs, "A mindful breathing session can reset your day in under 5 minutes.")
			}
		}
	}

	switch EngagementLevel(events) {
	case "low":
		recs = append(recs, "We miss you! Set a daily reminder to check in with your wellness.")
	case "high":
		recs = append(recs, "You're highly engaged — consider a 1:1 coaching session to level up.")
	}

	if len(recs) > maxGeneralRecommendations {
		recs = recs[:maxGeneralRecommendations]
	}
	return recs
}

// FromBehavior 基于最近行为缺口的建议，上限 3 条
func (s *RecommendationService) FromBehavior(progress *model.UserProgress, events []model.BehaviorEvent) []string {
	counts := map[string]int{}
	for _, ev := range events {
		counts[ev.Action]++
	}

	var recs []string
	if counts[model.ActionCompleteProgram] < 3 {
		recs = append(recs, "Complete a wellness program to earn 50 Welly Points.")
	}
	if counts[model.ActionChatInteraction] < 5 {
		recs = append(recs, "Chat with Welly for personalized wellness guidance.")
	}
	if counts[model.ActionBookSession] == 0 {
		recs = append(recs, "Book a session with a wellness coach for expert support.")
	}
	if progress.CurrentStreak < 3 {
		recs = append(recs, "Log in daily to build your streak and unlock consistency rewards.")
	}

	if len(recs) > maxBehaviorRecommendations {
		recs = recs[:maxBehaviorRecommendations]
	}
	return recs
}
