package database

import (
	"fmt"
	"log"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不做迁移，除非显式带上 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Program{},
			&model.Challenge{},
			&model.Booking{},
			&model.PaymentTransaction{},
			&model.ChatRecord{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		seedPrograms(db)
		seedChallenges(db)
	}

	return db, nil
}

// 默认项目，首次启动时插入
func seedPrograms(db *gorm.DB) {
	var count int64
	db.Model(&model.Program{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Program{
		{
			ID:          "stretch_mobility_1",
			Title:       "Morning Neck & Shoulder Stretch",
			Category:    model.CategoryStretchMobility,
			Duration:    5,
			Level:       "beginner",
			Description: "Gentle stretches to release tension built up overnight and prepare your body for the day.",
			Instructions: model.StringList{
				"Sit or stand tall with relaxed shoulders",
				"Slowly tilt your head toward your right shoulder, hold for 15 seconds",
				"Repeat on the left side",
				"Roll your shoulders backward 10 times",
				"Finish with a gentle chin tuck, hold for 10 seconds",
			},
			Benefits: model.StringList{
				"Relieves neck tension",
				"Improves posture",
				"Reduces morning stiffness",
			},
		},
		{
			ID:          "breath_stress_1",
			Title:       "Box Breathing for Focus",
			Category:    model.CategoryBreathStress,
			Duration:    4,
			Level:       "beginner",
			Description: "A simple four-count breathing pattern used to calm the nervous system and sharpen focus.",
			Instructions: model.StringList{
				"Sit comfortably with a straight back",
				"Inhale through your nose for 4 counts",
				"Hold your breath for 4 counts",
				"Exhale slowly for 4 counts",
				"Hold empty for 4 counts, then repeat for 8 cycles",
			},
			Benefits: model.StringList{
				"Lowers stress response",
				"Improves concentration",
				"Can be done anywhere",
			},
		},
		{
			ID:          "mindset_growth_1",
			Title:       "Mindful Moment Meditation",
			Category:    model.CategoryMindsetGrowth,
			Duration:    10,
			Level:       "beginner",
			Description: "A short guided practice to anchor your attention and build a resilient mindset.",
			Instructions: model.StringList{
				"Find a quiet spot and close your eyes",
				"Bring attention to your natural breath",
				"When thoughts arise, notice them and let them pass",
				"Scan your body from head to toe",
				"End by setting one positive intention for the day",
			},
			Benefits: model.StringList{
				"Builds emotional resilience",
				"Reduces rumination",
				"Improves self-awareness",
			},
		},
	}

	for _, p := range defaults {
		db.Create(&p)
	}
}

// 默认挑战，首次启动时插入
func seedChallenges(db *gorm.DB) {
	var count int64
	db.Model(&model.Challenge{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Challenge{
		{
			ID:          "daily_stretch",
			Title:       "Daily Stretch",
			Description: "Complete one stretching program today.",
			Type:        model.ChallengeDaily,
			Points:      50,
		},
		{
			ID:          "breathing_session",
			Title:       "Breathing Session",
			Description: "Finish a breathing exercise to reset your stress levels.",
			Type:        model.ChallengeDaily,
			Points:      30,
		},
		{
			ID:          "weekly_streak",
			Title:       "Weekly Streak",
			Description: "Stay active for 7 days in a row.",
			Type:        model.ChallengeWeekly,
			Points:      200,
		},
	}

	for _, c := range defaults {
		db.Create(&c)
	}
}
