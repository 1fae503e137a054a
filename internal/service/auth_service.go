package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	adapterwechat "github.com/zy0930/wechat-poc2/internal/adapter/wechat"
	"github.com/zy0930/wechat-poc2/internal/config"
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	"github.com/zy0930/wechat-poc2/internal/repository"
	"github.com/zy0930/wechat-poc2/internal/wechat"
)

// AuthService orchestrates the provider login flow: authorization URL,
// code exchange, profile fetch, and session persistence.
type AuthService struct {
	client   adapterwechat.Client
	sessions repository.SessionStore
	creds    domainwechat.Credentials
	cfg      config.Config
	logger   *zap.Logger
}

// NewAuthService wires the auth service.
func NewAuthService(client adapterwechat.Client, sessions repository.SessionStore, creds domainwechat.Credentials, cfg config.Config, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.L()
	}
	return &AuthService{
		client:   client,
		sessions: sessions,
		creds:    creds,
		cfg:      cfg,
		logger:   logger,
	}
}

// AuthorizeURL formats the provider authorize URL for this app's registered
// callback. State is passed through opaque.
func (s *AuthService) AuthorizeURL(state string) string {
	return wechat.AuthorizeURL(s.creds.AppID, s.cfg.CallbackURL(), state)
}

// VerifyHandshake answers the provider's one-time server-ownership
// challenge.
func (s *AuthService) VerifyHandshake(signature, timestamp, nonce string) bool {
	return wechat.VerifySignature(s.creds.VerificationToken, signature, timestamp, nonce)
}

// Login exchanges the one-time code for a user-scoped token, resolves the
// profile, and persists a new session. The user token is used once and
// discarded.
func (s *AuthService) Login(ctx context.Context, code string) (*domainwechat.UserSession, string, error) {
	if strings.TrimSpace(code) == "" {
		return nil, "", domainwechat.ErrMissingCode
	}

	token, err := s.client.ExchangeCode(ctx, s.creds.AppID, s.creds.AppSecret, code)
	if err != nil {
		if errors.Is(err, domainwechat.ErrRemoteAuth) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", domainwechat.ErrRemoteAuth, err)
	}

	profile, err := s.client.FetchUserProfile(ctx, token.AccessToken, token.OpenID)
	if err != nil {
		if errors.Is(err, domainwechat.ErrRemoteProfile) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %v", domainwechat.ErrRemoteProfile, err)
	}

	session := domainwechat.UserSession{
		OpenID:    profile.OpenID,
		Nickname:  profile.Nickname,
		AvatarURL: profile.AvatarURL,
		CreatedAt: time.Now().UTC(),
	}

	sid, err := newSessionID()
	if err != nil {
		return nil, "", fmt.Errorf("generate session id: %w", err)
	}
	if err := s.sessions.SaveSession(ctx, sid, session, s.cfg.SessionTTL); err != nil {
		return nil, "", fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("user authorized", zap.String("openid", session.OpenID))
	return &session, sid, nil
}

// CurrentUser resolves the session id from the browser cookie into the
// stored profile.
func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domainwechat.UserSession, error) {
	if strings.TrimSpace(sid) == "" {
		return nil, domainwechat.ErrMissingSession
	}
	session, err := s.sessions.GetSession(ctx, sid)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, domainwechat.ErrMissingSession
	}
	return session, nil
}

// Logout discards the stored session.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return nil
	}
	return s.sessions.DeleteSession(ctx, sid)
}

func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
