package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/zy0930/wechat-poc2/internal/adapter/cache"
	wechatadapter "github.com/zy0930/wechat-poc2/internal/adapter/wechat"
	"github.com/zy0930/wechat-poc2/internal/config"
	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	httptransport "github.com/zy0930/wechat-poc2/internal/http"
	"github.com/zy0930/wechat-poc2/internal/http/handler"
	"github.com/zy0930/wechat-poc2/internal/metrics"
	"github.com/zy0930/wechat-poc2/internal/middleware"
	"github.com/zy0930/wechat-poc2/internal/repository"
	"github.com/zy0930/wechat-poc2/internal/server"
	"github.com/zy0930/wechat-poc2/internal/service"
	"github.com/zy0930/wechat-poc2/internal/telemetry"
	"github.com/zy0930/wechat-poc2/internal/wechat"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newRedisClient,
			newSessionStore,
			newCredentials,
			newWeChatClient,
			newRegistry,
			newMetrics,
			newTokenSource,
			newDispatcher,
			newAuthService,
			newBookingService,
			newRateLimiter,
			newHandler,
			newRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newSessionStore(client redis.UniversalClient) repository.SessionStore {
	return cacheadapter.NewRedisSessionStore(client)
}

func newCredentials(cfg config.Config) domainwechat.Credentials {
	return domainwechat.Credentials{
		AppID:             cfg.WeChatAppID,
		AppSecret:         cfg.WeChatSecret,
		VerificationToken: cfg.WeChatToken,
		DefaultTemplateID: cfg.WeChatTemplateID,
	}
}

func newWeChatClient() wechatadapter.Client {
	return wechatadapter.NewHTTPClient(nil)
}

func newRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func newMetrics(reg *prometheus.Registry) metrics.Recorder {
	return metrics.NewCollector(reg)
}

func newTokenSource(client wechatadapter.Client, creds domainwechat.Credentials, logger *zap.Logger, recorder metrics.Recorder) *wechat.AppTokenSource {
	return wechat.NewAppTokenSource(client, creds, logger, recorder)
}

func newDispatcher(client wechatadapter.Client, tokens *wechat.AppTokenSource, logger *zap.Logger, recorder metrics.Recorder) *wechat.Dispatcher {
	return wechat.NewDispatcher(client, tokens, logger, recorder)
}

func newAuthService(client wechatadapter.Client, sessions repository.SessionStore, creds domainwechat.Credentials, cfg config.Config, logger *zap.Logger) *service.AuthService {
	return service.NewAuthService(client, sessions, creds, cfg, logger)
}

func newBookingService(dispatcher *wechat.Dispatcher, node *snowflake.Node, creds domainwechat.Credentials, logger *zap.Logger) *service.BookingService {
	return service.NewBookingService(dispatcher, node, creds.DefaultTemplateID, logger)
}

func newRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newHandler(auth *service.AuthService, booking *service.BookingService, cfg config.Config, logger *zap.Logger) *handler.Handler {
	return handler.New(auth, booking, cfg, logger)
}

func newRouter(cfg config.Config, h *handler.Handler, rateLimiter *middleware.RateLimiter, reg *prometheus.Registry) *gin.Engine {
	return httptransport.NewRouter(cfg, h, rateLimiter, reg)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
