package service

import (
	"strings"
	"teamwelly_backend/internal/model"
	"testing"
	"time"
)

func TestGeneralRecommendationsForNewUser(t *testing.T) {
	s := NewRecommendationService()
	progress := &model.UserProgress{}

	recs := s.General(nil, progress, nil)
	if len(recs) == 0 {
		t.Fatal("expected recommendations for a new user")
	}
	if !strings.Contains(recs[0], "streak") {
		t.Fatalf("expected streak starter first, got %q", recs[0])
	}
}

func TestGeneralRecommendationsMatchGoals(t *testing.T) {
	s := NewRecommendationService()
	user := &model.User{
		SelectedGoals: model.StringList{"Reduce Pain", "Boost Mental Health"},
	}
	progress := &model.UserProgress{CurrentStreak: 5}

	recs := s.General(user, progress, nil)

	var pain, mental bool
	for _, rec := range recs {
		if strings.Contains(rec, "stretch") {
			pain = true
		}
		if strings.Contains(rec, "breathing") {
			mental = true
		}
	}
	if !pain || !mental {
		t.Fatalf("expected goal-specific recommendations, got %v", recs)
	}
}

func TestGeneralRecommendationsCapped(t *testing.T) {
	s := NewRecommendationService()
	user := &model.User{
		SelectedGoals: model.StringList{"Reduce Pain", "Improve Flexibility", "Boost Mental Health"},
	}
	// 零打卡 + 三个目标 + 低参与 = 5 条候选
	progress := &model.UserProgress{}

	recs := s.General(user, progress, nil)
	if len(recs) > maxGeneralRecommendations {
		t.Fatalf("expected at most %d recommendations, got %d", maxGeneralRecommendations, len(recs))
	}
}

func TestGeneralRecommendationsHighEngagement(t *testing.T) {
	s := NewRecommendationService()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var events []model.BehaviorEvent
	for day := 0; day < 5; day++ {
		for i := 0; i < 5; i++ {
			events = append(events, eventAt(base.AddDate(0, 0, day), "page_view", "dashboard"))
		}
	}
	progress := &model.UserProgress{CurrentStreak: 10}

	recs := s.General(nil, progress, events)
	var coaching bool
	for _, rec := range recs {
		if strings.Contains(rec, "coaching") {
			coaching = true
		}
	}
	if !coaching {
		t.Fatalf("expected coaching upsell for highly engaged user, got %v", recs)
	}
}

func TestFromBehaviorFillsGaps(t *testing.T) {
	s := NewRecommendationService()
	progress := &model.UserProgress{}

	// 四条规则全命中，但上限 3 条
	recs := s.FromBehavior(progress, nil)
	if len(recs) != maxBehaviorRecommendations {
		t.Fatalf("expected %d recommendations, got %d", maxBehaviorRecommendations, len(recs))
	}
}

func TestFromBehaviorSkipsCoveredActions(t *testing.T) {
	s := NewRecommendationService()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var events []model.BehaviorEvent
	for i := 0; i < 3; i++ {
		events = append(events, eventAt(base, model.ActionCompleteProgram, "programs"))
	}
	for i := 0; i < 5; i++ {
		events = append(events, eventAt(base, model.ActionChatInteraction, "chat"))
	}
	events = append(events, eventAt(base, model.ActionBookSession, "bookings"))
	progress := &model.UserProgress{CurrentStreak: 7}

	recs := s.FromBehavior(progress, events)
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations when all gaps covered, got %v", recs)
	}
}
