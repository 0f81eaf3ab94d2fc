package service

import (
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/util"
)

type ChallengeService struct {
	ChallengeRepo   *repository.ChallengeRepository
	ProgressService *ProgressService
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository, progressService *ProgressService) *ChallengeService {
	return &ChallengeService{
		ChallengeRepo:   challengeRepo,
		ProgressService: progressService,
	}
}

// ChallengeWithStatus 列表返回时附带当前用户的完成状态
type ChallengeWithStatus struct {
	model.Challenge
	Completed bool `json:"completed"`
}

func (s *ChallengeService) List(userID uint, challengeType string) ([]ChallengeWithStatus, error) {
	challenges, err := s.ChallengeRepo.FindAll(challengeType)
	if err != nil {
		return nil, err
	}

	progress := s.ProgressService.GetProgress(userID)
	completed := map[string]bool{}
	for _, id := range progress.CompletedChallenges {
		completed[id] = true
	}

	out := make([]ChallengeWithStatus, 0, len(challenges))
	for _, c := range challenges {
		out = append(out, ChallengeWithStatus{Challenge: c, Completed: completed[c.ID]})
	}
	return out, nil
}

func (s *ChallengeService) Get(id string) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrChallengeNotFound
	}
	return challenge, nil
}
