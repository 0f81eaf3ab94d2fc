package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/util"
	"teamwelly_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const programCacheTTL = 10 * time.Minute

type ProgramService struct {
	ProgramRepo     *repository.ProgramRepository
	ProgressService *ProgressService
	StorageService  *StorageService
	Redis           *redis.Client
	Cfg             *config.Config
}

func NewProgramService(
	programRepo *repository.ProgramRepository,
	progressService *ProgressService,
	storageService *StorageService,
	rdb *redis.Client,
	cfg *config.Config,
) *ProgramService {
	return &ProgramService{
		ProgramRepo:     programRepo,
		ProgressService: progressService,
		StorageService:  storageService,
		Redis:           rdb,
		Cfg:             cfg,
	}
}

// List 项目列表。无筛选的全量列表走 Redis 缓存。
func (s *ProgramService) List(ctx context.Context, category, level string) ([]model.Program, error) {
	if category == "" && level == "" {
		if cached, err := s.Redis.Get(ctx, "programs:all").Result(); err == nil {
			var programs []model.Program
			if json.Unmarshal([]byte(cached), &programs) == nil {
				return programs, nil
			}
		}
	}

	programs, err := s.ProgramRepo.FindAll(category, level)
	if err != nil {
		return nil, err
	}

	if category == "" && level == "" {
		if data, err := json.Marshal(programs); err == nil {
			if err := s.Redis.Set(ctx, "programs:all", data, programCacheTTL).Err(); err != nil {
				logger.Log.Warn("cache programs failed", zap.Error(err))
			}
		}
	}
	return programs, nil
}

func (s *ProgramService) Get(id string) (*model.Program, error) {
	program, err := s.ProgramRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrProgramNotFound
	}
	return program, nil
}

func (s *ProgramService) Create(ctx context.Context, program *model.Program) error {
	if program.ID == "" {
		program.ID = model.GenerateUUID()
	}
	if err := s.ProgramRepo.Create(program); err != nil {
		return err
	}
	s.Redis.Del(ctx, "programs:all")
	return nil
}

func (s *ProgramService) Update(ctx context.Context, program *model.Program) error {
	if err := s.ProgramRepo.Update(program); err != nil {
		return err
	}
	s.Redis.Del(ctx, "programs:all")
	return nil
}

func (s *ProgramService) CategoryStats() ([]model.CategoryStats, error) {
	return s.ProgramRepo.CategoryStats()
}

// goalCategories 健康目标到项目分类的映射
var goalCategories = map[string]string{
	"Reduce Pain":         model.CategoryStretchMobility,
	"Improve Flexibility": model.CategoryStretchMobility,
	"Boost Mental Health": model.CategoryMindsetGrowth,
	"Reduce Stress":       model.CategoryBreathStress,
}

// Recommend 返回匹配用户目标且未完成的项目，目标没有命中时从全部项目里补足
func (s *ProgramService) Recommend(ctx context.Context, user *model.User, limit int) ([]model.Program, error) {
	programs, err := s.List(ctx, "", "")
	if err != nil {
		return nil, err
	}

	progress := s.ProgressService.GetProgress(user.ID)
	completed := map[string]bool{}
	for _, id := range progress.CompletedPrograms {
		completed[id] = true
	}

	wanted := map[string]bool{}
	for _, goal := range user.SelectedGoals {
		if cat, ok := goalCategories[goal]; ok {
			wanted[cat] = true
		}
	}

	var matched, rest []model.Program
	for _, p := range programs {
		if completed[p.ID] {
			continue
		}
		if wanted[p.Category] {
			matched = append(matched, p)
		} else {
			rest = append(rest, p)
		}
	}

	recs := append(matched, rest...)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// AttachVideo 上传教学视频并生成封面图
func (s *ProgramService) AttachVideo(ctx context.Context, programID string, file *multipart.FileHeader) (*model.Program, error) {
	program, err := s.Get(programID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("unsupported video extension: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo})
	if err != nil && !util.IsVideo(mimeType) {
		return nil, fmt.Errorf("unsupported video type: %s", mimeType)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// 先落到临时文件，方便 ffmpeg 处理
	tmp, err := os.CreateTemp("", "welly-video-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.ReadFrom(src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	if info, err := util.GetVideoInfo(tmp.Name()); err == nil {
		logger.Log.Info("program video probed",
			zap.String("program_id", programID),
			zap.Float64("duration", info.Duration),
			zap.Int("width", info.Width),
			zap.Int("height", info.Height),
		)
	}

	videoName := fmt.Sprintf("programs/%s/video%s", programID, ext)
	videoURL, err := s.StorageService.UploadFile(ctx, videoName, tmp.Name(), "video/mp4")
	if err != nil {
		return nil, err
	}

	thumbPath := tmp.Name() + ".jpg"
	thumbName := fmt.Sprintf("programs/%s/thumbnail.jpg", programID)
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, "00:00:01"); err == nil {
		defer os.Remove(thumbPath)
		if thumbURL, err := s.StorageService.UploadFile(ctx, thumbName, thumbPath, "image/jpeg"); err == nil {
			program.Thumbnail = thumbURL
		}
	} else {
		logger.Log.Warn("generate thumbnail failed", zap.Error(err))
	}

	program.VideoURL = videoURL
	if err := s.Update(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}
