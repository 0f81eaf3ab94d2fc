package repository

import (
	"teamwelly_backend/internal/model"
	"teamwelly_backend/pkg/docstore"
	"time"
)

// ProgressRepository 用户积分账本，每个用户一条记录，按需创建
type ProgressRepository struct {
	Progress *docstore.Collection
}

func NewProgressRepository(store *docstore.Store) *ProgressRepository {
	return &ProgressRepository{Progress: store.Collection("user_progress")}
}

// Find 读取账本，不存在时返回 false
func (r *ProgressRepository) Find(userID uint) (*model.UserProgress, bool) {
	doc, ok := r.Progress.FindOne(docstore.Filter{"user_id": userID})
	if !ok {
		return nil, false
	}
	return decodeProgress(doc), true
}

// AddPoints 累加积分并刷新活跃时间；账本不存在时创建
func (r *ProgressRepository) AddPoints(userID uint, delta int, now time.Time) {
	r.Progress.UpdateOne(
		docstore.Filter{"user_id": userID},
		docstore.Update{
			Inc: map[string]int{"welly_points": delta},
			Set: map[string]any{"last_activity": now, "updated_at": now},
		},
		true,
	)
}

func (r *ProgressRepository) AddCompletedProgram(userID uint, programID string, now time.Time) {
	r.Progress.UpdateOne(
		docstore.Filter{"user_id": userID},
		docstore.Update{
			AddToSet: map[string]any{"completed_programs": programID},
			Set:      map[string]any{"updated_at": now},
		},
		true,
	)
}

func (r *ProgressRepository) AddCompletedChallenge(userID uint, challengeID string, now time.Time) {
	r.Progress.UpdateOne(
		docstore.Filter{"user_id": userID},
		docstore.Update{
			AddToSet: map[string]any{"completed_challenges": challengeID},
			Set:      map[string]any{"updated_at": now},
		},
		true,
	)
}

func (r *ProgressRepository) AddBookmark(userID uint, programID string, now time.Time) {
	r.Progress.UpdateOne(
		docstore.Filter{"user_id": userID},
		docstore.Update{
			AddToSet: map[string]any{"bookmarked_programs": programID},
			Set:      map[string]any{"updated_at": now},
		},
		true,
	)
}

func (r *ProgressRepository) RemoveBookmark(userID uint, programID string, now time.Time) {
	r.Progress.UpdateOne(
		docstore.Filter{"user_id": userID},
		docstore.Update{
			Pull: map[string]any{"bookmarked_programs": programID},
			Set:  map[string]any{"updated_at": now},
		},
		false,
	)
}

func (r *ProgressRepository) SetStreak(userID uint, streak int, now time.Time) {
	r.Progress.UpdateOne(
		docstore.Filter{"user_id": userID},
		docstore.Update{
			Set: map[string]any{"current_streak": streak, "updated_at": now},
		},
		true,
	)
}

func decodeProgress(doc docstore.Document) *model.UserProgress {
	p := &model.UserProgress{}
	if v, ok := doc["user_id"].(uint); ok {
		p.UserID = v
	}
	p.WellyPoints = docInt(doc["welly_points"])
	p.CurrentStreak = docInt(doc["current_streak"])
	p.CompletedPrograms = docStrings(doc["completed_programs"])
	p.CompletedChallenges = docStrings(doc["completed_challenges"])
	p.BookmarkedPrograms = docStrings(doc["bookmarked_programs"])
	p.DailyCompletion = docFloat(doc["daily_completion"])
	p.WeeklyCompletion = docFloat(doc["weekly_completion"])
	p.MonthlyCompletion = docFloat(doc["monthly_completion"])
	if v, ok := doc["last_activity"].(time.Time); ok {
		p.LastActivity = &v
	}
	if v, ok := doc["updated_at"].(time.Time); ok {
		p.UpdatedAt = &v
	}
	return p
}

func docInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	}
	return 0
}

func docFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	}
	return 0
}

func docStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
