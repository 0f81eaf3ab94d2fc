package service

import (
	"encoding/json"
	"fmt"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/util"
	"teamwelly_backend/pkg/logger"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/webhook"
	"go.uber.org/zap"
)

// PaymentService Stripe Checkout 订阅套餐购买
type PaymentService struct {
	PaymentRepo     *repository.PaymentRepository
	UserRepo        *repository.UserRepository
	BehaviorService *BehaviorService
	Cfg             *config.Config
}

func NewPaymentService(
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	behaviorService *BehaviorService,
	cfg *config.Config,
) *PaymentService {
	stripe.Key = cfg.Stripe.SecretKey
	return &PaymentService{
		PaymentRepo:     paymentRepo,
		UserRepo:        userRepo,
		BehaviorService: behaviorService,
		Cfg:             cfg,
	}
}

func (s *PaymentService) Packages() []model.WellnessPackage {
	return model.WellnessPackages
}

type CheckoutSessionResult struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateCheckoutSession 创建 Stripe 结算会话并落一条 pending 流水
func (s *PaymentService) CreateCheckoutSession(userID uint, packageID string) (*CheckoutSessionResult, error) {
	pkg, ok := model.FindWellnessPackage(packageID)
	if !ok {
		return nil, util.ErrPackageNotFound
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(pkg.Name),
						Description: stripe.String(fmt.Sprintf("Team Welly %s monthly subscription", pkg.Name)),
					},
					UnitAmount: stripe.Int64(int64(pkg.Price * 100)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.Cfg.Stripe.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.Cfg.Stripe.CancelURL),
		ClientReferenceID: stripe.String(fmt.Sprintf("%d", userID)),
	}
	params.AddMetadata("package_id", pkg.ID)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session failed: %w", err)
	}

	tx := &model.PaymentTransaction{
		UserID:        userID,
		SessionID:     sess.ID,
		PackageID:     pkg.ID,
		Amount:        pkg.Price,
		Currency:      "usd",
		Status:        "pending",
		PaymentStatus: "unpaid",
	}
	if err := s.PaymentRepo.Create(tx); err != nil {
		return nil, err
	}

	s.BehaviorService.Track(userID, "initiate_payment", "payments", map[string]interface{}{
		"package_id": pkg.ID,
		"amount":     pkg.Price,
	}, "")

	return &CheckoutSessionResult{SessionID: sess.ID, CheckoutURL: sess.URL}, nil
}

type CheckoutStatus struct {
	SessionID     string `json:"sessionId"`
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PackageID     string `json:"packageId"`
}

// GetCheckoutStatus 向 Stripe 查询会话状态，已支付则落账升级
func (s *PaymentService) GetCheckoutStatus(userID uint, sessionID string) (*CheckoutStatus, error) {
	tx, err := s.PaymentRepo.FindBySessionID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}
	if tx.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session failed: %w", err)
	}

	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		s.settle(tx, string(sess.Status))
	}

	return &CheckoutStatus{
		SessionID:     sessionID,
		Status:        string(sess.Status),
		PaymentStatus: string(sess.PaymentStatus),
		PackageID:     tx.PackageID,
	}, nil
}

// HandleWebhook 处理 Stripe 回调，只关心 checkout.session.completed
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.Cfg.Stripe.WebhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("parse webhook session failed: %w", err)
	}

	tx, err := s.PaymentRepo.FindBySessionID(sess.ID)
	if err != nil {
		logger.Log.Warn("webhook for unknown session", zap.String("session_id", sess.ID))
		return nil
	}

	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		s.settle(tx, string(sess.Status))
	}
	return nil
}

// settle 标记流水已支付并升级用户套餐。重复调用是幂等的。
func (s *PaymentService) settle(tx *model.PaymentTransaction, status string) {
	if tx.PaymentStatus == "paid" {
		return
	}

	if err := s.PaymentRepo.UpdateStatus(tx.SessionID, status, "paid"); err != nil {
		logger.Log.Error("update payment status failed", zap.Error(err))
		return
	}

	s.BehaviorService.Track(tx.UserID, "payment_success", "payments", map[string]interface{}{
		"package_id": tx.PackageID,
		"amount":     tx.Amount,
	}, "")

	if pkg, ok := model.FindWellnessPackage(tx.PackageID); ok {
		if err := s.UserRepo.UpdatePlan(tx.UserID, pkg.Plan); err != nil {
			logger.Log.Error("upgrade plan failed", zap.Error(err), zap.Uint("user_id", tx.UserID))
		}
		s.BehaviorService.Track(tx.UserID, "plan_upgrade", "payments", map[string]interface{}{
			"plan": string(pkg.Plan),
		}, "")
	}
}

func (s *PaymentService) History(userID uint) ([]model.PaymentTransaction, error) {
	return s.PaymentRepo.FindByUser(userID)
}
