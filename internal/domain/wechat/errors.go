package wechat

import "errors"

var (
	// ErrSignatureMismatch indicates the handshake signature check failed.
	ErrSignatureMismatch = errors.New("wechat: signature mismatch")
	// ErrMissingCode indicates the OAuth callback arrived without a code.
	ErrMissingCode = errors.New("wechat: missing authorization code")
	// ErrRemoteAuth indicates the provider rejected a token or code exchange.
	ErrRemoteAuth = errors.New("wechat: remote auth failure")
	// ErrRemoteProfile indicates the profile fetch failed.
	ErrRemoteProfile = errors.New("wechat: remote profile failure")
	// ErrMissingSession indicates no prior successful login for this browser.
	ErrMissingSession = errors.New("wechat: missing session")
	// ErrValidation indicates a required booking field was absent.
	ErrValidation = errors.New("wechat: validation failure")
)
