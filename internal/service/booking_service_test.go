package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
)

type fakeSender struct {
	templateCalls  int
	templateResult bool
	lastTemplateID string
	lastData       domainwechat.TemplateData

	serviceCalls  int
	serviceResult bool
	lastContent   string
}

func (f *fakeSender) SendTemplateMessage(ctx context.Context, openid, templateID string, data domainwechat.TemplateData, msgURL string) bool {
	f.templateCalls++
	f.lastTemplateID = templateID
	f.lastData = data
	return f.templateResult
}

func (f *fakeSender) SendServiceMessage(ctx context.Context, openid, content string) bool {
	f.serviceCalls++
	f.lastContent = content
	return f.serviceResult
}

func newTestBookingService(sender *fakeSender) *BookingService {
	node, _ := snowflake.NewNode(1)
	return NewBookingService(sender, node, "tmpl-guest", zap.NewNop())
}

var bookingIDPattern = regexp.MustCompile(`^BK\d+$`)

func TestBookingService_Submit(t *testing.T) {
	sender := &fakeSender{templateResult: true, serviceResult: true}
	svc := newTestBookingService(sender)

	result, err := svc.Submit(context.Background(), BookingInput{
		OpenID: "o123",
		Name:   "张三",
		Phone:  "13800000000",
		Date:   "2025-06-01",
	})
	require.NoError(t, err)
	require.Regexp(t, bookingIDPattern, result.BookingID)
	require.True(t, result.GuestMessageSent)
	require.True(t, result.SupportMessageSent)

	require.Equal(t, "tmpl-guest", sender.lastTemplateID)
	require.Equal(t, result.BookingID, sender.lastData["keyword1"].Value)
	require.Contains(t, sender.lastContent, result.BookingID)
}

func TestBookingService_Submit_IndependentChannelFlags(t *testing.T) {
	sender := &fakeSender{templateResult: true, serviceResult: false}
	svc := newTestBookingService(sender)

	result, err := svc.Submit(context.Background(), BookingInput{
		OpenID: "o123", Name: "张三", Phone: "13800000000", Date: "2025-06-01",
	})
	require.NoError(t, err)
	require.True(t, result.GuestMessageSent)
	require.False(t, result.SupportMessageSent)
}

func TestBookingService_Submit_MissingFieldFailsFast(t *testing.T) {
	sender := &fakeSender{templateResult: true, serviceResult: true}
	svc := newTestBookingService(sender)

	_, err := svc.Submit(context.Background(), BookingInput{
		OpenID: "o123", Name: "张三", Date: "2025-06-01",
	})
	require.ErrorIs(t, err, domainwechat.ErrValidation)
	require.Contains(t, err.Error(), "phone")
	require.Zero(t, sender.templateCalls)
	require.Zero(t, sender.serviceCalls)
}

func TestBookingService_SendServiceNotification(t *testing.T) {
	sender := &fakeSender{templateResult: true}
	svc := newTestBookingService(sender)

	sent := svc.SendServiceNotification(context.Background(), "o123", "民宿", "李四", "BK7", "2025-07-01", "", "")
	require.True(t, sent)
	require.Equal(t, "民宿", sender.lastData["productType"].Value)
	require.NotEmpty(t, sender.lastData["remark"].Value)
}

func TestBookingService_SendSupportMessage(t *testing.T) {
	sender := &fakeSender{serviceResult: true}
	svc := newTestBookingService(sender)

	require.True(t, svc.SendSupportMessage(context.Background(), "o123", "你好"))
	require.Equal(t, "你好", sender.lastContent)
}
