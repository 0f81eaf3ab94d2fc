package model

// PaymentTransaction Stripe 支付流水
// swagger:model PaymentTransaction
type PaymentTransaction struct {
	BaseModel
	UserID        uint    `gorm:"index;not null" json:"userId"`
	SessionID     string  `gorm:"size:255;uniqueIndex;not null" json:"sessionId"`
	PackageID     string  `gorm:"size:20;not null" json:"packageId"`
	Amount        float64 `gorm:"not null" json:"amount"` // 美元
	Currency      string  `gorm:"size:10;default:'usd'" json:"currency"`
	Status        string  `gorm:"size:20;default:'pending'" json:"status"`         // pending / complete / expired
	PaymentStatus string  `gorm:"size:20;default:'unpaid'" json:"paymentStatus"`   // unpaid / paid
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// WellnessPackage 订阅套餐定义
// swagger:model WellnessPackage
type WellnessPackage struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"` // 美元/月
	Plan     UserPlan `json:"plan"`
	Features []string `json:"features"`
}

// WellnessPackages 内置套餐，ID 即结算时使用的 package_id
var WellnessPackages = []WellnessPackage{
	{
		ID:    "basic",
		Name:  "Welly Basic",
		Price: 9.99,
		Plan:  PlanBasic,
		Features: []string{
			"Access to all wellness programs",
			"Daily challenges",
			"Progress tracking",
			"Welly AI chat",
		},
	},
	{
		ID:    "plus",
		Name:  "Welly Plus",
		Price: 19.99,
		Plan:  PlanPlus,
		Features: []string{
			"Everything in Basic",
			"Personalized recommendations",
			"Advanced wellness analytics",
			"Priority coach booking",
		},
	},
	{
		ID:    "premium",
		Name:  "Welly Premium",
		Price: 39.99,
		Plan:  PlanPremium,
		Features: []string{
			"Everything in Plus",
			"Unlimited 1:1 coach sessions",
			"Custom wellness plans",
			"Corporate team dashboard",
		},
	},
}

// FindWellnessPackage 按 ID 查找套餐
func FindWellnessPackage(id string) (WellnessPackage, bool) {
	for _, p := range WellnessPackages {
		if p.ID == id {
			return p, true
		}
	}
	return WellnessPackage{}, false
}
