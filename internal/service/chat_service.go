package service

import (
	"context"
	"fmt"
	"strings"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
)

// ChatService Welly AI 对话编排：拼人设、带上下文、落记录、记行为
type ChatService struct {
	AIService       *AIService
	ChatRepo        *repository.ChatRepository
	UserRepo        *repository.UserRepository
	ProgressService *ProgressService
	BehaviorService *BehaviorService
}

func NewChatService(
	aiService *AIService,
	chatRepo *repository.ChatRepository,
	userRepo *repository.UserRepository,
	progressService *ProgressService,
	behaviorService *BehaviorService,
) *ChatService {
	return &ChatService{
		AIService:       aiService,
		ChatRepo:        chatRepo,
		UserRepo:        userRepo,
		ProgressService: progressService,
		BehaviorService: behaviorService,
	}
}

type ChatResult struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// 每轮对话携带的历史条数上限
const chatHistoryLimit = 10

func (s *ChatService) Chat(userID uint, message, sessionID string) (*ChatResult, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	progress := s.ProgressService.GetProgress(userID)

	if sessionID == "" {
		sessionID = model.GenerateUUID()
	}

	history := s.loadHistory(userID, sessionID)

	reply, err := s.AIService.Chat(wellySystemPrompt(user, progress), history, message)
	if err != nil {
		return nil, err
	}

	record := &model.ChatRecord{
		UserID:        userID,
		SessionID:     sessionID,
		UserMessage:   message,
		AIResponse:    reply,
		Goals:         model.StringList(user.SelectedGoals),
		CurrentStreak: progress.CurrentStreak,
		WellyPoints:   progress.WellyPoints,
	}
	if err := s.ChatRepo.Create(record); err != nil {
		return nil, err
	}

	s.BehaviorService.Track(userID, model.ActionChatInteraction, "chat", map[string]interface{}{
		"session_id": sessionID,
	}, sessionID)

	return &ChatResult{SessionID: sessionID, Reply: reply}, nil
}

// ChatStream 流式对话。回复在流结束后整体落库，中途断流则不落。
// ctx 由 HTTP 请求传入，客户端断开时整条链路随之退出。
func (s *ChatService) ChatStream(ctx context.Context, userID uint, message, sessionID string) (string, <-chan string, <-chan error, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", nil, nil, err
	}
	progress := s.ProgressService.GetProgress(userID)

	if sessionID == "" {
		sessionID = model.GenerateUUID()
	}
	history := s.loadHistory(userID, sessionID)

	chunks, errs := s.AIService.ChatStream(ctx, wellySystemPrompt(user, progress), history, message)

	out := make(chan string)
	go func() {
		defer close(out)
		var full strings.Builder
		for chunk := range chunks {
			full.WriteString(chunk)
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil || full.Len() == 0 {
			return
		}

		record := &model.ChatRecord{
			UserID:        userID,
			SessionID:     sessionID,
			UserMessage:   message,
			AIResponse:    full.String(),
			Goals:         model.StringList(user.SelectedGoals),
			CurrentStreak: progress.CurrentStreak,
			WellyPoints:   progress.WellyPoints,
		}
		s.ChatRepo.Create(record)

		s.BehaviorService.Track(userID, model.ActionChatInteraction, "chat", map[string]interface{}{
			"session_id": sessionID,
		}, sessionID)
	}()

	return sessionID, out, errs, nil
}

func (s *ChatService) loadHistory(userID uint, sessionID string) []AIChatMessage {
	records, err := s.ChatRepo.FindBySession(userID, sessionID)
	if err != nil {
		return nil
	}
	start := 0
	if len(records) > chatHistoryLimit {
		start = len(records) - chatHistoryLimit
	}
	var history []AIChatMessage
	for _, r := range records[start:] {
		history = append(history,
			AIChatMessage{Role: "user", Content: r.UserMessage},
			AIChatMessage{Role: "assistant", Content: r.AIResponse},
		)
	}
	return history
}

func (s *ChatService) History(userID uint, sessionID string) ([]model.ChatRecord, error) {
	if sessionID != "" {
		return s.ChatRepo.FindBySession(userID, sessionID)
	}
	return s.ChatRepo.FindRecentByUser(userID, 50)
}

// wellySystemPrompt Welly 人设加用户个性化上下文
func wellySystemPrompt(user *model.User, progress *model.UserProgress) string {
	var b strings.Builder
	b.WriteString("You are Welly, the friendly AI wellness companion of the Team Welly platform. ")
	b.WriteString("You help people with stretching, breathing exercises, mindfulness and healthy habits. ")
	b.WriteString("Be warm, encouraging and concise. Never give medical diagnoses; suggest seeing a professional for medical concerns.\n\n")

	b.WriteString("About this user:\n")
	if user.Name != "" {
		fmt.Fprintf(&b, "- Name: %s\n", user.Name)
	}
	if len(user.SelectedGoals) > 0 {
		fmt.Fprintf(&b, "- Wellness goals: %s\n", strings.Join(user.SelectedGoals, ", "))
	}
	fmt.Fprintf(&b, "- Current streak: %d days\n", progress.CurrentStreak)
	fmt.Fprintf(&b, "- Welly Points: %d\n", progress.WellyPoints)
	fmt.Fprintf(&b, "- Programs completed: %d\n", len(progress.CompletedPrograms))
	if stress, ok := user.AssessmentData["stressLevel"]; ok {
		fmt.Fprintf(&b, "- Self-reported stress level: %v\n", stress)
	}

	b.WriteString("\nUse this context to personalize suggestions, celebrate progress and nudge consistency.")
	return b.String()
}
