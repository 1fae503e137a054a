package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	"github.com/zy0930/wechat-poc2/internal/wechat"
)

// MessageSender is the dispatcher surface the booking service depends on.
type MessageSender interface {
	SendTemplateMessage(ctx context.Context, openid, templateID string, data domainwechat.TemplateData, msgURL string) bool
	SendServiceMessage(ctx context.Context, openid, content string) bool
}

// BookingInput carries the booking submission fields.
type BookingInput struct {
	OpenID string `json:"openid"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
}

// BookingResult reports the generated booking id and per-channel delivery
// flags. A notification miss never fails the booking itself.
type BookingResult struct {
	BookingID          string
	GuestMessageSent   bool
	SupportMessageSent bool
}

// BookingService validates submissions, generates booking ids, and
// dispatches the confirmation notifications.
type BookingService struct {
	sender     MessageSender
	node       *snowflake.Node
	templateID string
	logger     *zap.Logger
}

// NewBookingService wires the booking service.
func NewBookingService(sender MessageSender, node *snowflake.Node, templateID string, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.L()
	}
	return &BookingService{
		sender:     sender,
		node:       node,
		templateID: templateID,
		logger:     logger,
	}
}

// Submit validates the booking, mints a disposable booking id, and sends the
// guest template message plus the support free-text message. Validation
// fails fast before any network call.
func (s *BookingService) Submit(ctx context.Context, in BookingInput) (*BookingResult, error) {
	if err := validateBooking(in); err != nil {
		return nil, err
	}

	bookingID := "BK" + s.node.Generate().String()

	data := wechat.BookingConfirmationData(bookingID, in.Name, in.Phone, in.Date)
	guestSent := s.sender.SendTemplateMessage(ctx, in.OpenID, s.templateID, data, "")

	supportSent := s.sender.SendServiceMessage(ctx, in.OpenID, wechat.SupportMessageText(bookingID, in.Name, in.Phone, in.Date))

	s.logger.Info("booking submitted",
		zap.String("booking_id", bookingID),
		zap.String("openid", in.OpenID),
		zap.Bool("guest_message_sent", guestSent),
		zap.Bool("support_message_sent", supportSent),
	)

	return &BookingResult{
		BookingID:          bookingID,
		GuestMessageSent:   guestSent,
		SupportMessageSent: supportSent,
	}, nil
}

// SendServiceNotification sends the service-booking notification template.
func (s *BookingService) SendServiceNotification(ctx context.Context, openid, productType, customerName, bookingNumber, expiryDate, remark, msgURL string) bool {
	data := wechat.ServiceBookingNotificationData(productType, customerName, bookingNumber, expiryDate, remark)
	return s.sender.SendTemplateMessage(ctx, openid, s.templateID, data, msgURL)
}

// SendSupportMessage sends a caller-supplied free-text message.
func (s *BookingService) SendSupportMessage(ctx context.Context, openid, message string) bool {
	return s.sender.SendServiceMessage(ctx, openid, message)
}

func validateBooking(in BookingInput) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"openid", in.OpenID},
		{"name", in.Name},
		{"phone", in.Phone},
		{"date", in.Date},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %s is required", domainwechat.ErrValidation, field.name)
		}
	}
	return nil
}
