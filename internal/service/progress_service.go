package service

import (
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"time"
)

// ProgressService 管理用户积分账本：积分、连续打卡和完成集合
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository

	now func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		now:          time.Now,
	}
}

// GetProgress 返回用户账本，从未活跃的用户返回零值账本
func (s *ProgressService) GetProgress(userID uint) *model.UserProgress {
	progress, ok := s.ProgressRepo.Find(userID)
	if !ok {
		return &model.UserProgress{
			UserID:              userID,
			CompletedPrograms:   []string{},
			CompletedChallenges: []string{},
			BookmarkedPrograms:  []string{},
		}
	}
	if progress.CompletedPrograms == nil {
		progress.CompletedPrograms = []string{}
	}
	if progress.CompletedChallenges == nil {
		progress.CompletedChallenges = []string{}
	}
	if progress.BookmarkedPrograms == nil {
		progress.BookmarkedPrograms = []string{}
	}
	return progress
}

// RecordPoints 累加积分并盖上活跃时间戳，delta 为 0 时也会刷新时间戳
func (s *ProgressService) RecordPoints(userID uint, delta int) {
	s.ProgressRepo.AddPoints(userID, delta, s.now())
}

// AddCompletedProgram 幂等地记录完成的项目，programID 为空时不做任何事
func (s *ProgressService) AddCompletedProgram(userID uint, programID string) {
	if programID == "" {
		return
	}
	s.ProgressRepo.AddCompletedProgram(userID, programID, s.now())
}

func (s *ProgressService) AddCompletedChallenge(userID uint, challengeID string) {
	if challengeID == "" {
		return
	}
	s.ProgressRepo.AddCompletedChallenge(userID, challengeID, s.now())
}

func (s *ProgressService) BookmarkProgram(userID uint, programID string) {
	s.ProgressRepo.AddBookmark(userID, programID, s.now())
}

func (s *ProgressService) UnbookmarkProgram(userID uint, programID string) {
	s.ProgressRepo.RemoveBookmark(userID, programID, s.now())
}

// UpdateStreakOnLogin 按 UTC 日历日推进连续打卡：
// 昨天活跃过则 +1，今天已活跃保持不变，中断或首次登录重置为 1。
// 必须在当天积分落账之前调用，否则读到的是今天的活跃时间。
func (s *ProgressService) UpdateStreakOnLogin(userID uint) int {
	now := s.now()
	today := utcDate(now)

	progress, ok := s.ProgressRepo.Find(userID)
	if !ok || progress.LastActivity == nil {
		s.ProgressRepo.SetStreak(userID, 1, now)
		return 1
	}

	lastDay := utcDate(*progress.LastActivity)
	switch {
	case lastDay.Equal(today):
		// 今天已经活跃过，保持现状
		return progress.CurrentStreak
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		streak := progress.CurrentStreak + 1
		s.ProgressRepo.SetStreak(userID, streak, now)
		return streak
	default:
		s.ProgressRepo.SetStreak(userID, 1, now)
		return 1
	}
}

func utcDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
