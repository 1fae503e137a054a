package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
)

// Client encapsulates outbound HTTP calls to the WeChat platform.
type Client interface {
	FetchAppToken(ctx context.Context, appID, secret string) (*domainwechat.AppAccessToken, error)
	ExchangeCode(ctx context.Context, appID, secret, code string) (*domainwechat.OAuthToken, error)
	FetchUserProfile(ctx context.Context, accessToken, openid string) (*domainwechat.UserProfile, error)
	SendTemplateMessage(ctx context.Context, accessToken string, msg domainwechat.TemplateMessage) (*SendResult, error)
	SendCustomMessage(ctx context.Context, accessToken, openid, content string) (*SendResult, error)
}

// SendResult carries the provider status pair from a message-send response.
type SendResult struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

const defaultAPIBase = "https://api.weixin.qq.com"

// HTTPClient is the default Client implementation.
type HTTPClient struct {
	httpClient *http.Client
	apiBase    string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs the default Client.
func NewHTTPClient(client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{httpClient: client, apiBase: defaultAPIBase}
}

// NewHTTPClientWithBase constructs a Client against a non-default API host.
// Used by tests pointing at an httptest server.
func NewHTTPClientWithBase(client *http.Client, apiBase string) *HTTPClient {
	c := NewHTTPClient(client)
	if apiBase != "" {
		c.apiBase = apiBase
	}
	return c
}

// FetchAppToken performs the client-credential grant for the shared app token.
func (c *HTTPClient) FetchAppToken(ctx context.Context, appID, secret string) (*domainwechat.AppAccessToken, error) {
	q := url.Values{}
	q.Set("grant_type", "client_credential")
	q.Set("appid", appID)
	q.Set("secret", secret)

	body, err := c.get(ctx, "/cgi-bin/token", q)
	if err != nil {
		return nil, err
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
		ErrCode     int    `json:"errcode"`
		ErrMsg      string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: errcode=%d %s", domainwechat.ErrRemoteAuth, resp.ErrCode, resp.ErrMsg)
	}
	return &domainwechat.AppAccessToken{Token: resp.AccessToken, ExpiresIn: resp.ExpiresIn}, nil
}

// ExchangeCode swaps a one-time authorization code for a user-scoped token
// and openid.
func (c *HTTPClient) ExchangeCode(ctx context.Context, appID, secret, code string) (*domainwechat.OAuthToken, error) {
	q := url.Values{}
	q.Set("appid", appID)
	q.Set("secret", secret)
	q.Set("code", code)
	q.Set("grant_type", "authorization_code")

	body, err := c.get(ctx, "/sns/oauth2/access_token", q)
	if err != nil {
		return nil, err
	}

	var raw struct {
		domainwechat.OAuthToken
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode oauth response: %w", err)
	}
	if raw.ErrCode != 0 {
		return nil, fmt.Errorf("%w: %s", domainwechat.ErrRemoteAuth, raw.ErrMsg)
	}
	token := raw.OAuthToken
	return &token, nil
}

// FetchUserProfile loads the sns/userinfo profile for an authorized user.
func (c *HTTPClient) FetchUserProfile(ctx context.Context, accessToken, openid string) (*domainwechat.UserProfile, error) {
	q := url.Values{}
	q.Set("access_token", accessToken)
	q.Set("openid", openid)
	q.Set("lang", "zh_CN")

	body, err := c.get(ctx, "/sns/userinfo", q)
	if err != nil {
		return nil, err
	}

	var raw struct {
		domainwechat.UserProfile
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if raw.ErrCode != 0 {
		return nil, fmt.Errorf("%w: %s", domainwechat.ErrRemoteProfile, raw.ErrMsg)
	}
	profile := raw.UserProfile
	return &profile, nil
}

// SendTemplateMessage posts a template message. Provider rejections come back
// in the SendResult, not as an error.
func (c *HTTPClient) SendTemplateMessage(ctx context.Context, accessToken string, msg domainwechat.TemplateMessage) (*SendResult, error) {
	return c.post(ctx, "/cgi-bin/message/template/send", accessToken, msg)
}

// SendCustomMessage posts a free-text customer-service message.
func (c *HTTPClient) SendCustomMessage(ctx context.Context, accessToken, openid, content string) (*SendResult, error) {
	payload := map[string]any{
		"touser":  openid,
		"msgtype": "text",
		"text":    map[string]string{"content": content},
	}
	return c.post(ctx, "/cgi-bin/message/custom/send", accessToken, payload)
}

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return c.do(req)
}

func (c *HTTPClient) post(ctx context.Context, path, accessToken string, payload any) (*SendResult, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	endpoint := c.apiBase + path + "?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result SendResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode send response: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wechat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wechat request failed: status=%d", resp.StatusCode)
	}
	return body, nil
}
