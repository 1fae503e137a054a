package wechat

import (
	"context"

	"go.uber.org/zap"

	adapterwechat "github.com/zy0930/wechat-poc2/internal/adapter/wechat"
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	"github.com/zy0930/wechat-poc2/internal/metrics"
)

// Provider status codes worth calling out in logs.
const (
	errCodeInvalidToken  = 40001
	errCodeInvalidOpenID = 40013
	errCodeReplyWindow   = 45015
)

// Dispatcher sends template and free-text messages with the shared app
// token. Every provider rejection and transport failure collapses to false
// so a notification miss can never abort the caller's booking.
type Dispatcher struct {
	client  adapterwechat.Client
	tokens  *AppTokenSource
	logger  *zap.Logger
	metrics metrics.Recorder
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(client adapterwechat.Client, tokens *AppTokenSource, logger *zap.Logger, recorder metrics.Recorder) *Dispatcher {
	if logger == nil {
		logger = zap.L()
	}
	return &Dispatcher{client: client, tokens: tokens, logger: logger, metrics: recorder}
}

// SendTemplateMessage posts a template message and reports whether the
// provider accepted it.
func (d *Dispatcher) SendTemplateMessage(ctx context.Context, openid, templateID string, data domainwechat.TemplateData, msgURL string) bool {
	outcome := d.sendTemplate(ctx, openid, templateID, data, msgURL)
	d.observe("template", openid, outcome)
	return outcome.Delivered()
}

// SendServiceMessage posts a free-text customer-service message with the
// same success contract as SendTemplateMessage.
func (d *Dispatcher) SendServiceMessage(ctx context.Context, openid, content string) bool {
	outcome := d.sendText(ctx, openid, content)
	d.observe("custom", openid, outcome)
	return outcome.Delivered()
}

func (d *Dispatcher) sendTemplate(ctx context.Context, openid, templateID string, data domainwechat.TemplateData, msgURL string) domainwechat.DispatchOutcome {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return domainwechat.DispatchOutcome{Transport: err}
	}

	result, err := d.client.SendTemplateMessage(ctx, token, domainwechat.TemplateMessage{
		ToUser:     openid,
		TemplateID: templateID,
		URL:        msgURL,
		Data:       data,
	})
	if err != nil {
		return domainwechat.DispatchOutcome{Transport: err}
	}
	return domainwechat.DispatchOutcome{ErrCode: result.ErrCode, ErrMsg: result.ErrMsg}
}

func (d *Dispatcher) sendText(ctx context.Context, openid, content string) domainwechat.DispatchOutcome {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return domainwechat.DispatchOutcome{Transport: err}
	}

	result, err := d.client.SendCustomMessage(ctx, token, openid, content)
	if err != nil {
		return domainwechat.DispatchOutcome{Transport: err}
	}
	return domainwechat.DispatchOutcome{ErrCode: result.ErrCode, ErrMsg: result.ErrMsg}
}

func (d *Dispatcher) observe(channel, openid string, outcome domainwechat.DispatchOutcome) {
	switch {
	case outcome.Delivered():
		if d.metrics != nil {
			d.metrics.RecordMessageSent(channel, "ok")
		}
		d.logger.Info("message sent",
			zap.String("channel", channel),
			zap.String("openid", openid),
		)
	case outcome.Transport != nil:
		if d.metrics != nil {
			d.metrics.RecordMessageSent(channel, "transport_error")
		}
		d.logger.Warn("message transport failure",
			zap.String("channel", channel),
			zap.String("openid", openid),
			zap.Error(outcome.Transport),
		)
	default:
		if d.metrics != nil {
			d.metrics.RecordMessageSent(channel, "rejected")
		}
		d.logger.Warn("message rejected by provider",
			zap.String("channel", channel),
			zap.String("openid", openid),
			zap.Int("errcode", outcome.ErrCode),
			zap.String("errmsg", outcome.ErrMsg),
			zap.String("hint", rejectionHint(outcome.ErrCode)),
		)
	}
}

func rejectionHint(errcode int) string {
	switch errcode {
	case errCodeInvalidToken:
		return "invalid access token"
	case errCodeInvalidOpenID:
		return "invalid openid"
	case errCodeReplyWindow:
		return "reply window expired (48h)"
	default:
		return ""
	}
}
