package wechat

import "time"

// Credentials holds the app identity registered with the WeChat platform.
// Loaded once at startup and never mutated afterwards.
type Credentials struct {
	AppID             string
	AppSecret         string
	VerificationToken string
	DefaultTemplateID string
}

// AppAccessToken is the app-level token returned by the client-credential
// grant, shared across all users of the app.
type AppAccessToken struct {
	Token     string
	ExpiresIn int64
}

// OAuthToken models the response from the authorization-code exchange. The
// access token is user-scoped, used once to fetch the profile, never cached.
type OAuthToken struct {
	AccessToken string `json:"access_token"`
	OpenID      string `json:"openid"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// UserProfile is the subset of the sns/userinfo payload the service keeps.
type UserProfile struct {
	OpenID    string `json:"openid"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"headimgurl"`
}

// UserSession is the per-browser login state persisted by the session store.
type UserSession struct {
	OpenID    string    `json:"openid"`
	Nickname  string    `json:"nickname"`
	AvatarURL string    `json:"headimgurl"`
	CreatedAt time.Time `json:"created_at"`
}

// TemplateField is a single keyword slot in a template message.
type TemplateField struct {
	Value string `json:"value"`
	Color string `json:"color,omitempty"`
}

// TemplateData maps template keyword names to their rendered fields.
type TemplateData map[string]TemplateField

// TemplateMessage is the full payload posted to the template-send endpoint.
type TemplateMessage struct {
	ToUser     string       `json:"touser"`
	TemplateID string       `json:"template_id"`
	URL        string       `json:"url,omitempty"`
	Data       TemplateData `json:"data"`
}

// DispatchOutcome tags why a message send succeeded or failed. The richer
// detail is for logs and metrics; callers see only Delivered().
type DispatchOutcome struct {
	ErrCode   int
	ErrMsg    string
	Transport error
}

// Delivered reports whether the provider accepted the message.
func (o DispatchOutcome) Delivered() bool {
	return o.Transport == nil && o.ErrCode == 0
}
