package wechat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	adapterwechat "github.com/zy0930/wechat-poc2/internal/adapter/wechat"
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	"github.com/zy0930/wechat-poc2/internal/metrics"
)

// expiryMargin trims the provider TTL so consumers always hold a token with
// at least five minutes of remaining validity. A provider TTL at or below
// the margin yields an already-expired slot and forces a refresh on the
// next call.
const expiryMargin = 300

// AppTokenSource owns the single shared app-level access token slot for the
// process. Refreshes are serialized: concurrent callers that observe an
// expired slot wait on the same in-flight fetch instead of issuing
// duplicates.
type AppTokenSource struct {
	client  adapterwechat.Client
	creds   domainwechat.Credentials
	logger  *zap.Logger
	metrics metrics.Recorder

	now func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewAppTokenSource constructs the token source.
func NewAppTokenSource(client adapterwechat.Client, creds domainwechat.Credentials, logger *zap.Logger, recorder metrics.Recorder) *AppTokenSource {
	if logger == nil {
		logger = zap.L()
	}
	return &AppTokenSource{
		client:  client,
		creds:   creds,
		logger:  logger,
		metrics: recorder,
		now:     time.Now,
	}
}

// Token returns the cached app access token, refreshing it through the
// credential grant when absent or expired. Exactly one fetch per refresh;
// on failure the slot is left unchanged so the next call retries.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	fetched, err := s.client.FetchAppToken(ctx, s.creds.AppID, s.creds.AppSecret)
	if err != nil {
		s.record("error")
		return "", fmt.Errorf("refresh app token: %w", err)
	}

	s.token = fetched.Token
	s.expiresAt = s.now().Add(time.Duration(fetched.ExpiresIn-expiryMargin) * time.Second)
	s.record("ok")
	s.logger.Info("app access token refreshed", zap.Time("expires_at", s.expiresAt))
	return s.token, nil
}

func (s *AppTokenSource) record(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordTokenRefresh(outcome)
	}
}
