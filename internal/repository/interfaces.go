package repository

import (
	"context"
	"time"

	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
)

// SessionStore persists the browser-session to user-profile mapping. It is
// the only shared mutable state beside the app token slot and must be safe
// for concurrent per-request access.
type SessionStore interface {
	SaveSession(ctx context.Context, sid string, session domainwechat.UserSession, ttl time.Duration) error
	GetSession(ctx context.Context, sid string) (*domainwechat.UserSession, error)
	DeleteSession(ctx context.Context, sid string) error
}
