package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/zy0930/wechat-poc2/internal/config"
	"github.com/zy0930/wechat-poc2/internal/http/handler"
	httpmiddleware "github.com/zy0930/wechat-poc2/internal/http/middleware"
	"github.com/zy0930/wechat-poc2/internal/metrics"
	"github.com/zy0930/wechat-poc2/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, h *handler.Handler, rateLimiter *middleware.RateLimiter, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	api := r.Group("/api")
	{
		wechat := api.Group("/wechat")
		{
			wechat.GET("/verify", h.Verify)
			wechat.GET("/auth", h.AuthStart)
			wechat.GET("/callback", h.AuthCallback)
		}

		user := api.Group("/user")
		{
			user.GET("/info", h.UserInfo)
			user.POST("/logout", h.Logout)
		}

		api.POST("/booking/submit", h.SubmitBooking)
		api.POST("/test/support-message", h.TestSupportMessage)
		api.GET("/health", h.Health)
	}

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}

	// Domain-ownership file the provider fetches when registering the
	// callback URL.
	if cfg.MPVerifyFile != "" {
		r.GET("/"+cfg.MPVerifyFile, func(c *gin.Context) {
			c.String(http.StatusOK, cfg.MPVerifyContent)
		})
	}

	return r
}
