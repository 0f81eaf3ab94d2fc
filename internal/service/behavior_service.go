package service

import (
	"sync"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/pkg/logger"
	"teamwelly_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
)

// 各动作的奖励积分。complete_challenge 的实际分值优先取 details 里的 challenge_points。
var actionPoints = map[string]int{
	model.ActionCompleteProgram:   50,
	model.ActionStartProgram:      10,
	model.ActionCompleteChallenge: 30,
	model.ActionChatInteraction:   5,
	model.ActionLogin:             5,
	model.ActionBookSession:       20,
	model.ActionBookmarkProgram:   5,
}

// BehaviorService 记录用户行为并按策略表落账积分
type BehaviorService struct {
	BehaviorRepo    *repository.BehaviorRepository
	ProgressService *ProgressService

	mu    sync.Mutex
	locks map[uint]*sync.Mutex

	now func() time.Time
}

func NewBehaviorService(behaviorRepo *repository.BehaviorRepository, progressService *ProgressService) *BehaviorService {
	return &BehaviorService{
		BehaviorRepo:    behaviorRepo,
		ProgressService: progressService,
		locks:           make(map[uint]*sync.Mutex),
		now:             time.Now,
	}
}

// Track 追加一条行为事件并结算积分。未知动作只记录事件，不加分也不报错。
// 同一用户的调用按 userID 串行，避免连续打卡判定和积分累加互相踩踏。
func (s *BehaviorService) Track(userID uint, action, page string, details map[string]interface{}, sessionID string) *model.BehaviorEvent {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	points := actionPoints[action]
	if action == model.ActionCompleteChallenge {
		if p := detailInt(details, "challenge_points"); p > 0 {
			points = p
		}
	}

	ev := &model.BehaviorEvent{
		UserID:       userID,
		Action:       action,
		Page:         page,
		Details:      details,
		SessionID:    sessionID,
		PointsEarned: points,
		Timestamp:    s.now(),
	}
	s.BehaviorRepo.Insert(ev)

	// 副作用先于积分落账：连续打卡判定要读到昨天的活跃时间，
	// 而 RecordPoints 会把活跃时间刷成现在。
	switch action {
	case model.ActionLogin:
		s.ProgressService.UpdateStreakOnLogin(userID)
	case model.ActionCompleteProgram:
		s.ProgressService.AddCompletedProgram(userID, detailString(details, "program_id"))
	case model.ActionCompleteChallenge:
		s.ProgressService.AddCompletedChallenge(userID, detailString(details, "challenge_id"))
	}

	if points > 0 {
		s.ProgressService.RecordPoints(userID, points)
		monitoring.PointsAwarded.WithLabelValues(action).Add(float64(points))
	}
	monitoring.BehaviorCounter.WithLabelValues(action).Inc()

	logger.Log.Debug("behavior tracked",
		zap.Uint("user_id", userID),
		zap.String("action", action),
		zap.Int("points", points),
	)
	return ev
}

// GetRecentEvents 返回窗口内最近的事件，按时间倒序
func (s *BehaviorService) GetRecentEvents(userID uint, days, limit int) []model.BehaviorEvent {
	since := s.now().AddDate(0, 0, -days)
	return s.BehaviorRepo.FindRecent(userID, since, limit)
}

// EventsSince 返回窗口内全部事件，按时间正序
func (s *BehaviorService) EventsSince(userID uint, days int) []model.BehaviorEvent {
	since := s.now().AddDate(0, 0, -days)
	return s.BehaviorRepo.FindSince(userID, since)
}

func (s *BehaviorService) userLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func detailString(details map[string]interface{}, key string) string {
	if details == nil {
		return ""
	}
	s, _ := details[key].(string)
	return s
}

func detailInt(details map[string]interface{}, key string) int {
	if details == nil {
		return 0
	}
	switch v := details[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}
