package model

import (
	"time"
)

type UserRole string

const (
	Individual UserRole = "individual"
	Corporate  UserRole = "corporate"
	Admin      UserRole = "admin"
)

type UserPlan string

const (
	PlanBasic   UserPlan = "basic"
	PlanPlus    UserPlan = "plus"
	PlanPremium UserPlan = "premium"
)

// swagger:model User
type User struct {
	BaseModel
	Name                string     `gorm:"size:100;not null" json:"name"`
	Email               string     `gorm:"size:100;unique;not null" json:"email"`
	Password            string     `gorm:"size:100" json:"-"` // OAuth 用户无密码
	Role                UserRole   `gorm:"type:enum('individual','corporate','admin');default:'individual'" json:"role"`
	Plan                UserPlan   `gorm:"type:enum('basic','plus','premium');default:'basic'" json:"plan"`
	Avatar              string     `gorm:"size:255" json:"avatar"`
	OAuthProvider       string     `gorm:"size:20" json:"oauthProvider,omitempty"`
	OAuthProviderID     string     `gorm:"size:100;index" json:"-"`
	CompanyID           string     `gorm:"size:36;index" json:"companyId,omitempty"`
	SelectedGoals       StringList `gorm:"type:json" json:"selectedGoals"`
	AssessmentData      JSONMap    `gorm:"type:json" json:"assessmentData"`
	OnboardingCompleted bool       `gorm:"default:false" json:"onboardingCompleted"`
	Disabled            bool       `gorm:"default:false" json:"disabled"`
	LastLogin           time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen            time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
