package wechat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	adapterwechat "github.com/zy0930/wechat-poc2/internal/adapter/wechat"
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
)

func newTestDispatcher(client *fakeClient) *Dispatcher {
	tokens, _ := newTestTokenSource(client)
	return NewDispatcher(client, tokens, zap.NewNop(), nil)
}

func TestDispatcher_SendTemplateMessage(t *testing.T) {
	tests := []struct {
		name   string
		result *adapterwechat.SendResult
		err    error
		want   bool
	}{
		{name: "accepted", result: &adapterwechat.SendResult{ErrCode: 0, ErrMsg: "ok"}, want: true},
		{name: "invalid token", result: &adapterwechat.SendResult{ErrCode: 40001, ErrMsg: "invalid credential"}, want: false},
		{name: "invalid openid", result: &adapterwechat.SendResult{ErrCode: 40013, ErrMsg: "invalid openid"}, want: false},
		{name: "expired template", result: &adapterwechat.SendResult{ErrCode: 40037, ErrMsg: "invalid template_id"}, want: false},
		{name: "transport failure", err: fmt.Errorf("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{
				tokenResp:      &domainwechat.AppAccessToken{Token: "tok", ExpiresIn: 7200},
				templateResult: tt.result,
				templateErr:    tt.err,
			}
			d := newTestDispatcher(client)

			got := d.SendTemplateMessage(context.Background(), "openid-1", "tmpl-1", BookingConfirmationData("BK1", "张三", "13800000000", "2025-06-01"), "")
			require.Equal(t, tt.want, got)
			require.Equal(t, "openid-1", client.lastTemplate.ToUser)
			require.Equal(t, "tmpl-1", client.lastTemplate.TemplateID)
		})
	}
}

func TestDispatcher_SendTemplateMessage_TokenFailureIsFalse(t *testing.T) {
	client := &fakeClient{tokenErr: fmt.Errorf("credential grant down")}
	d := newTestDispatcher(client)

	got := d.SendTemplateMessage(context.Background(), "openid-1", "tmpl-1", nil, "")
	require.False(t, got)
	require.Zero(t, client.templateCalls)
}

func TestDispatcher_SendServiceMessage(t *testing.T) {
	client := &fakeClient{
		tokenResp:    &domainwechat.AppAccessToken{Token: "tok", ExpiresIn: 7200},
		customResult: &adapterwechat.SendResult{ErrCode: 0},
	}
	d := newTestDispatcher(client)

	require.True(t, d.SendServiceMessage(context.Background(), "openid-1", "hello"))
	require.Equal(t, "hello", client.lastContent)

	// Reply window expired: collapsed to false, never an error.
	client.customResult = &adapterwechat.SendResult{ErrCode: 45015, ErrMsg: "response out of time limit"}
	require.False(t, d.SendServiceMessage(context.Background(), "openid-1", "hello again"))
}
