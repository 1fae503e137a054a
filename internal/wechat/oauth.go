package wechat

import "net/url"

const (
	authorizeEndpoint = "https://open.weixin.qq.com/connect/oauth2/authorize"
	authorizeScope    = "snsapi_userinfo"
)

// AuthorizeURL formats the provider authorize endpoint for the web OAuth
// flow. The state value is passed through opaque; correlation is the
// caller's concern.
func AuthorizeURL(appID, redirectURI, state string) string {
	q := url.Values{}
	q.Set("appid", appID)
	q.Set("redirect_uri", redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", authorizeScope)
	q.Set("state", state)
	return authorizeEndpoint + "?" + q.Encode() + "#wechat_redirect"
}
