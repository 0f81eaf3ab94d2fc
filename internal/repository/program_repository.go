package repository

import (
	"teamwelly_backend/internal/model"

	"gorm.io/gorm"
)

type ProgramRepository struct {
	DB *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{DB: db}
}

func (r *ProgramRepository) Create(program *model.Program) error {
	return r.DB.Create(program).Error
}

func (r *ProgramRepository) Update(program *model.Program) error {
	return r.DB.Save(program).Error
}

func (r *ProgramRepository) FindByID(id string) (*model.Program, error) {
	var program model.Program
	err := r.DB.First(&program, "id = ?", id).Error
	return &program, err
}

// FindAll 按分类和难度筛选项目，空参数表示不过滤
func (r *ProgramRepository) FindAll(category, level string) ([]model.Program, error) {
	var programs []model.Program
	query := r.DB.Order("created_at ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}
	err := query.Find(&programs).Error
	return programs, err
}

func (r *ProgramRepository) FindByIDs(ids []string) ([]model.Program, error) {
	var programs []model.Program
	if len(ids) == 0 {
		return programs, nil
	}
	err := r.DB.Where("id IN ?", ids).Find(&programs).Error
	return programs, err
}

func (r *ProgramRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Program{}).Count(&count).Error
	return count, err
}

// CategoryStats 按分类聚合项目数量和总时长
func (r *ProgramRepository) CategoryStats() ([]model.CategoryStats, error) {
	var stats []model.CategoryStats
	err := r.DB.Model(&model.Program{}).
		Select("category, COUNT(*) as program_count, COALESCE(SUM(duration), 0) as total_minutes").
		Group("category").
		Scan(&stats).Error
	return stats, err
}
