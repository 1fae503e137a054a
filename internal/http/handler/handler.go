package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zy0930/wechat-poc2/internal/config"
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	"github.com/zy0930/wechat-poc2/internal/http/middleware"
	"github.com/zy0930/wechat-poc2/internal/service"
)

// Handler serves the booking UI's API surface.
type Handler struct {
	Auth    *service.AuthService
	Booking *service.BookingService
	Cfg     config.Config
	Logger  *zap.Logger
}

// New creates the handler set.
func New(auth *service.AuthService, booking *service.BookingService, cfg config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{Auth: auth, Booking: booking, Cfg: cfg, Logger: logger}
}

// Verify answers the provider's server-ownership handshake: echo the
// challenge on a signature match, reject otherwise.
func (h *Handler) Verify(c *gin.Context) {
	signature := c.Query("signature")
	timestamp := c.Query("timestamp")
	nonce := c.Query("nonce")
	echostr := c.Query("echostr")

	if !h.Auth.VerifyHandshake(signature, timestamp, nonce) {
		c.String(http.StatusUnauthorized, "Invalid signature")
		return
	}
	c.String(http.StatusOK, echostr)
}

// AuthStart redirects the browser into the provider authorize flow.
func (h *Handler) AuthStart(c *gin.Context) {
	state := c.Query("state")
	c.Redirect(http.StatusFound, h.Auth.AuthorizeURL(state))
}

// AuthCallback completes the login: code exchange, profile fetch, session
// cookie, and redirect back to the booking UI.
func (h *Handler) AuthCallback(c *gin.Context) {
	code := c.Query("code")

	session, sid, err := h.Auth.Login(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, domainwechat.ErrMissingCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No authorization code provided"})
			return
		}
		h.Logger.Error("oauth callback failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authorize with WeChat"})
		return
	}

	middleware.SetSessionCookie(c, sid, h.Cfg.SessionTTL, h.Cfg.Environment == "production")
	c.Redirect(http.StatusFound, h.Cfg.FrontendURL+"/booking?authorized=true&openid="+session.OpenID)
}

// UserInfo returns the logged-in user's profile.
func (h *Handler) UserInfo(c *gin.Context) {
	session, err := h.Auth.CurrentUser(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		if errors.Is(err, domainwechat.ErrMissingSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"openid":     session.OpenID,
		"nickname":   session.Nickname,
		"headimgurl": session.AvatarURL,
	})
}

// Logout discards the session and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.Logger.Warn("logout failed", zap.Error(err))
	}
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SubmitBooking validates the booking and reports per-channel delivery
// flags. Notification failures never fail the booking response.
func (h *Handler) SubmitBooking(c *gin.Context) {
	var in service.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	result, err := h.Booking.Submit(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, domainwechat.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"bookingId":          result.BookingID,
		"guestMessageSent":   result.GuestMessageSent,
		"supportMessageSent": result.SupportMessageSent,
		"message":            "Booking submitted successfully",
	})
}

// TestSupportMessage sends a caller-supplied customer-service message.
// Exists for operators verifying the reply window.
func (h *Handler) TestSupportMessage(c *gin.Context) {
	var req struct {
		OpenID  string `json:"openid"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OpenID == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "openid and message are required"})
		return
	}

	sent := h.Booking.SendSupportMessage(c.Request.Context(), req.OpenID, req.Message)
	msg := "Support message sent successfully"
	if !sent {
		msg = "Failed to send message"
	}
	c.JSON(http.StatusOK, gin.H{"success": sent, "message": msg})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}
