package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"teamwelly_backend/internal/config"
	"teamwelly_backend/internal/model"
	"teamwelly_backend/internal/repository"
	"teamwelly_backend/internal/util"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// OAuthService 第三方登录：Google / Apple / Twitter。
// 三家都走标准 authorization-code 流程，拿到身份后按邮箱建号或绑定。
type OAuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config

	configs map[string]*oauth2.Config

	mu     sync.Mutex
	states map[string]time.Time
}

const oauthStateTTL = 10 * time.Minute

func NewOAuthService(userRepo *repository.UserRepository, cfg *config.Config) *OAuthService {
	configs := map[string]*oauth2.Config{
		"google": {
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		"apple": {
			ClientID:     cfg.OAuth.Apple.ClientID,
			ClientSecret: cfg.OAuth.Apple.ClientSecret,
			RedirectURL:  cfg.OAuth.Apple.RedirectURL,
			Scopes:       []string{"name", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://appleid.apple.com/auth/authorize",
				TokenURL: "https://appleid.apple.com/auth/token",
			},
		},
		"twitter": {
			ClientID:     cfg.OAuth.Twitter.ClientID,
			ClientSecret: cfg.OAuth.Twitter.ClientSecret,
			RedirectURL:  cfg.OAuth.Twitter.RedirectURL,
			Scopes:       []string{"users.read", "tweet.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://twitter.com/i/oauth2/authorize",
				TokenURL: "https://api.twitter.com/2/oauth2/token",
			},
		},
	}

	return &OAuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		configs:  configs,
		states:   make(map[string]time.Time),
	}
}

// AuthURL 生成跳转地址，state 服务端留存 10 分钟防 CSRF
func (s *OAuthService) AuthURL(provider string) (string, error) {
	cfg, ok := s.configs[provider]
	if !ok {
		return "", util.ErrOAuthProvider
	}

	state := model.GenerateUUID()
	s.mu.Lock()
	s.states[state] = time.Now().Add(oauthStateTTL)
	// 顺手清理过期 state
	for k, exp := range s.states {
		if time.Now().After(exp) {
			delete(s.states, k)
		}
	}
	s.mu.Unlock()

	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleCallback 校验 state、换取 token、拉取身份，返回本地用户
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code, state string) (*model.User, error) {
	cfg, ok := s.configs[provider]
	if !ok {
		return nil, util.ErrOAuthProvider
	}

	s.mu.Lock()
	exp, known := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()
	if !known || time.Now().After(exp) {
		return nil, util.ErrOAuthStateMismatch
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange failed: %w", err)
	}

	identity, err := s.fetchIdentity(ctx, provider, cfg, token)
	if err != nil {
		return nil, err
	}

	return s.upsertUser(provider, identity)
}

type oauthIdentity struct {
	ProviderID string
	Email      string
	Name       string
	Avatar     string
}

func (s *OAuthService) fetchIdentity(ctx context.Context, provider string, cfg *oauth2.Config, token *oauth2.Token) (*oauthIdentity, error) {
	switch provider {
	case "google":
		return fetchGoogleIdentity(ctx, cfg, token)
	case "twitter":
		return fetchTwitterIdentity(ctx, cfg, token)
	case "apple":
		return parseAppleIdentity(token)
	}
	return nil, util.ErrOAuthProvider
}

func fetchGoogleIdentity(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*oauthIdentity, error) {
	body, err := oauthGet(ctx, cfg, token, "https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &oauthIdentity{
		ProviderID: info.ID,
		Email:      info.Email,
		Name:       info.Name,
		Avatar:     info.Picture,
	}, nil
}

func fetchTwitterIdentity(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*oauthIdentity, error) {
	body, err := oauthGet(ctx, cfg, token, "https://api.twitter.com/2/users/me?user.fields=profile_image_url")
	if err != nil {
		return nil, err
	}

	var info struct {
		Data struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Username        string `json:"username"`
			ProfileImageURL string `json:"profile_image_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}

	// Twitter v2 不返回邮箱，用 username 合成一个稳定的占位邮箱
	email := info.Data.Username + "@users.twitter.com"
	return &oauthIdentity{
		ProviderID: info.Data.ID,
		Email:      email,
		Name:       info.Data.Name,
		Avatar:     info.Data.ProfileImageURL,
	}, nil
}

// parseAppleIdentity 从 token 响应附带的 id_token 里取身份。
// id_token 来自与 Apple 的直连 TLS 交换，此处不再验签。
func parseAppleIdentity(token *oauth2.Token) (*oauthIdentity, error) {
	rawIDToken, _ := token.Extra("id_token").(string)
	if rawIDToken == "" {
		return nil, fmt.Errorf("apple token response missing id_token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawIDToken, claims); err != nil {
		return nil, fmt.Errorf("parse apple id_token failed: %w", err)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return nil, fmt.Errorf("apple id_token missing sub")
	}
	return &oauthIdentity{
		ProviderID: sub,
		Email:      email,
		Name:       "Apple User",
	}, nil
}

func oauthGet(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token, url string) ([]byte, error) {
	client := cfg.Client(ctx, token)
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth userinfo error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// upsertUser 优先按 provider 身份找，其次按邮箱绑定已有账号，都没有则建新号
func (s *OAuthService) upsertUser(provider string, identity *oauthIdentity) (*model.User, error) {
	if user, err := s.UserRepo.FindByOAuth(provider, identity.ProviderID); err == nil {
		s.UserRepo.UpdateLastLogin(user.ID)
		return user, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	if identity.Email != "" {
		if user, err := s.UserRepo.FindByEmail(identity.Email); err == nil {
			user.OAuthProvider = provider
			user.OAuthProviderID = identity.ProviderID
			if user.Avatar == "" {
				user.Avatar = identity.Avatar
			}
			if err := s.UserRepo.Update(user); err != nil {
				return nil, err
			}
			s.UserRepo.UpdateLastLogin(user.ID)
			return user, nil
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	user := &model.User{
		Name:            identity.Name,
		Email:           identity.Email,
		Avatar:          identity.Avatar,
		Role:            model.Individual,
		Plan:            model.PlanBasic,
		OAuthProvider:   provider,
		OAuthProviderID: identity.ProviderID,
		LastLogin:       time.Now(),
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
