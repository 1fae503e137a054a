package wechat

import (
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
)

const (
	keywordColor = "#173177"
	remarkColor  = "#666666"

	defaultContactRemark = "如有疑问，请咨询13912345678。"
)

// BookingConfirmationData builds the template payload sent to the guest
// after a booking is submitted.
func BookingConfirmationData(bookingID, name, phone, date string) domainwechat.TemplateData {
	return domainwechat.TemplateData{
		"first":    {Value: "您好，您的预订已确认。", Color: keywordColor},
		"keyword1": {Value: bookingID, Color: keywordColor},
		"keyword2": {Value: name, Color: keywordColor},
		"keyword3": {Value: phone, Color: keywordColor},
		"keyword4": {Value: date, Color: keywordColor},
		"remark":   {Value: defaultContactRemark, Color: remarkColor},
	}
}

// ServiceBookingNotificationData builds the service-booking notification
// payload. An empty remark falls back to the fixed contact string.
func ServiceBookingNotificationData(productType, customerName, bookingNumber, expiryDate, remark string) domainwechat.TemplateData {
	if remark == "" {
		remark = defaultContactRemark
	}
	return domainwechat.TemplateData{
		"first":       {Value: "您好，您已预订成功，请尽快付款。", Color: keywordColor},
		"productType": {Value: productType, Color: keywordColor},
		"name":        {Value: customerName, Color: keywordColor},
		"number":      {Value: bookingNumber, Color: keywordColor},
		"expDate":     {Value: expiryDate, Color: keywordColor},
		"remark":      {Value: remark, Color: remarkColor},
	}
}

// SupportMessageText renders the free-text message that opens the
// customer-service reply window after a booking.
func SupportMessageText(bookingID, name, phone, date string) string {
	return "您好！感谢您的预订。我们的客服将很快与您联系，为您提供进一步的协助。如有任何疑问，请随时回复此消息。\n\n" +
		"预订详情：\n" +
		"预订编号：" + bookingID + "\n" +
		"客户姓名：" + name + "\n" +
		"联系电话：" + phone + "\n" +
		"预约时间：" + date
}
